package steel

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

// AccountHeaderLen is the number of bytes reserved at the front of every
// account buffer for the discriminant. Only the first byte carries the tag;
// the remainder keeps the body 8-byte aligned.
const AccountHeaderLen = 8

// Layout describes the fixed-size byte schema of one account variant. The
// account's persisted bytes are the struct: field reads and writes through a
// View touch the original buffer directly, so there is no serialization step
// and no drift between the wire format and the in-memory format.
//
// Size is the body size and excludes the discriminant header. Shipped
// layouts must never reorder or resize existing fields; new fields append.
type Layout struct {
	Name          string
	Discriminator Discriminator
	Size          int
}

// DataLen returns the total buffer length the layout occupies, header
// included.
func (l *Layout) DataLen() int {
	return AccountHeaderLen + l.Size
}

// NewAccountData allocates a zeroed buffer of the layout's exact size with
// the discriminant prefix set. Used when constructing accounts in tests and
// by clients building initial account images.
func (l *Layout) NewAccountData() []byte {
	data := make([]byte, l.DataLen())
	data[0] = byte(l.Discriminator)
	return data
}

// View is a typed window over an account buffer's body bytes. All scalar
// fields are fixed-width little-endian. A View borrows the buffer for the
// current invocation only and must not be retained past it.
type View struct {
	layout  *Layout
	body    []byte
	mutable bool
}

// ViewAccountData interprets a raw buffer as the given layout, read-only.
// The buffer must be at least the layout's full size and carry the layout's
// discriminant in its first byte.
func ViewAccountData(layout *Layout, data []byte) (*View, error) {
	return newView(layout, data, false)
}

// ViewAccountDataMut is ViewAccountData with mutation allowed. Writes are
// applied to the underlying buffer in place.
func ViewAccountDataMut(layout *Layout, data []byte) (*View, error) {
	return newView(layout, data, true)
}

// ViewAccountHeader interprets the leading bytes of a buffer as the given
// layout and returns the remaining bytes past it. Used for accounts that
// store a fixed header followed by variably-interpreted body data.
func ViewAccountHeader(layout *Layout, data []byte) (*View, []byte, error) {
	view, err := newView(layout, data, false)
	if err != nil {
		return nil, nil, err
	}
	return view, data[layout.DataLen():], nil
}

func newView(layout *Layout, data []byte, mutable bool) (*View, error) {
	if len(data) < layout.DataLen() {
		return nil, errors.Wrapf(
			ErrInvalidAccountDataSize,
			"%s requires %d bytes, have %d",
			layout.Name, layout.DataLen(), len(data),
		)
	}
	if Discriminator(data[0]) != layout.Discriminator {
		return nil, errors.Wrapf(
			ErrInvalidAccountDiscriminant,
			"%s requires discriminant %d, have %d",
			layout.Name, layout.Discriminator, data[0],
		)
	}

	return &View{
		layout:  layout,
		body:    data[AccountHeaderLen:layout.DataLen()],
		mutable: mutable,
	}, nil
}

// Layout returns the layout the view was constructed against.
func (v *View) Layout() *Layout {
	return v.layout
}

// Mutable reports whether writes through the view are permitted.
func (v *View) Mutable() bool {
	return v.mutable
}

func (v *View) inBounds(offset, width int) bool {
	return offset >= 0 && offset+width <= len(v.body)
}

// Uint8 reads a byte field at a body offset. Out-of-layout offsets read as
// zero; offsets are declaration-time constants, so a miss is a definition
// bug rather than corrupt state.
func (v *View) Uint8(offset int) uint8 {
	if !v.inBounds(offset, 1) {
		return 0
	}
	return v.body[offset]
}

// Bool reads a byte field as a boolean.
func (v *View) Bool(offset int) bool {
	return v.Uint8(offset) != 0
}

// Uint16 reads a little-endian uint16 field.
func (v *View) Uint16(offset int) uint16 {
	if !v.inBounds(offset, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(v.body[offset:])
}

// Uint32 reads a little-endian uint32 field.
func (v *View) Uint32(offset int) uint32 {
	if !v.inBounds(offset, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(v.body[offset:])
}

// Uint64 reads a little-endian uint64 field.
func (v *View) Uint64(offset int) uint64 {
	if !v.inBounds(offset, 8) {
		return 0
	}
	return binary.LittleEndian.Uint64(v.body[offset:])
}

// Int64 reads a little-endian int64 field.
func (v *View) Int64(offset int) int64 {
	return int64(v.Uint64(offset))
}

// Key reads a 32-byte public key field. The returned key aliases the
// account buffer; callers must copy it to retain it past the invocation.
func (v *View) Key(offset int) ed25519.PublicKey {
	if !v.inBounds(offset, ed25519.PublicKeySize) {
		return nil
	}
	return ed25519.PublicKey(v.body[offset : offset+ed25519.PublicKeySize])
}

// Bytes reads a fixed-width byte field, aliasing the account buffer.
func (v *View) Bytes(offset, length int) []byte {
	if length < 0 || !v.inBounds(offset, length) {
		return nil
	}
	return v.body[offset : offset+length]
}

func (v *View) writable(offset, width int) error {
	if !v.mutable {
		return errors.Wrapf(ErrAccountNotWritable, "%s viewed read-only", v.layout.Name)
	}
	if !v.inBounds(offset, width) {
		return errors.Wrapf(
			ErrInvalidAccountDataSize,
			"%s write of %d bytes at %d exceeds size %d",
			v.layout.Name, width, offset, len(v.body),
		)
	}
	return nil
}

// SetUint8 writes a byte field in place.
func (v *View) SetUint8(offset int, value uint8) error {
	if err := v.writable(offset, 1); err != nil {
		return err
	}
	v.body[offset] = value
	return nil
}

// SetBool writes a boolean field as a single byte.
func (v *View) SetBool(offset int, value bool) error {
	var b uint8
	if value {
		b = 1
	}
	return v.SetUint8(offset, b)
}

// SetUint16 writes a little-endian uint16 field in place.
func (v *View) SetUint16(offset int, value uint16) error {
	if err := v.writable(offset, 2); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(v.body[offset:], value)
	return nil
}

// SetUint32 writes a little-endian uint32 field in place.
func (v *View) SetUint32(offset int, value uint32) error {
	if err := v.writable(offset, 4); err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(v.body[offset:], value)
	return nil
}

// SetUint64 writes a little-endian uint64 field in place.
func (v *View) SetUint64(offset int, value uint64) error {
	if err := v.writable(offset, 8); err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(v.body[offset:], value)
	return nil
}

// SetInt64 writes a little-endian int64 field in place.
func (v *View) SetInt64(offset int, value int64) error {
	return v.SetUint64(offset, uint64(value))
}

// SetKey writes a 32-byte public key field in place.
func (v *View) SetKey(offset int, key ed25519.PublicKey) error {
	if len(key) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrInvalidAccountDataSize, "key must be %d bytes", ed25519.PublicKeySize)
	}
	if err := v.writable(offset, ed25519.PublicKeySize); err != nil {
		return err
	}
	copy(v.body[offset:], key)
	return nil
}

// SetBytes writes a fixed-width byte field in place.
func (v *View) SetBytes(offset int, value []byte) error {
	if err := v.writable(offset, len(value)); err != nil {
		return err
	}
	copy(v.body[offset:], value)
	return nil
}
