package steel

import (
	"crypto/ed25519"

	"github.com/ifiokjr/steel/pkg/pointer"
)

// AccountConstraint declares what one positional account slot of an
// instruction must look like before its handler runs. Constraints are built
// once at registration time and evaluated fresh on every invocation.
//
// Zero-valued fields are unchecked. The chainable builders below return
// updated copies, so a base constraint can be reused across instructions.
type AccountConstraint struct {
	// Name identifies the slot in diagnostics.
	Name string

	// IsSigner requires the account to have signed the transaction.
	IsSigner bool

	// IsWritable requires the runtime to have marked the account writable.
	IsWritable bool

	// IsExecutable requires the account to be a program.
	IsExecutable bool

	// IsEmpty requires the account to hold no data, e.g. a slot about to be
	// initialized.
	IsEmpty bool

	// Owner, when set, is the program that must own the account.
	Owner ed25519.PublicKey

	// Address, when set, is the exact address the account must have.
	Address ed25519.PublicKey

	// Layout, when set, requires the account data to match the layout's
	// discriminant and exact size.
	Layout *Layout

	// DataSize, when positive, requires the account data to be exactly this
	// many bytes. For foreign layouts that carry no discriminant byte, e.g.
	// token accounts and mints.
	DataSize int

	// Seeds, when set, requires the account address to equal the program
	// derived address recomputed from these seeds.
	Seeds [][]byte

	// Bump, when set alongside Seeds, pins the bump byte instead of
	// searching for the canonical one.
	Bump *uint8

	// SeedProgram, when set, derives the address against this program
	// instead of the processing program's own id.
	SeedProgram ed25519.PublicKey
}

// Account starts a constraint for a named slot.
func Account(name string) AccountConstraint {
	return AccountConstraint{Name: name}
}

// Signer requires the slot's account to be a transaction signer.
func (c AccountConstraint) Signer() AccountConstraint {
	c.IsSigner = true
	return c
}

// Writable requires the slot's account to be writable.
func (c AccountConstraint) Writable() AccountConstraint {
	c.IsWritable = true
	return c
}

// Executable requires the slot's account to be a program.
func (c AccountConstraint) Executable() AccountConstraint {
	c.IsExecutable = true
	return c
}

// Empty requires the slot's account to hold no data.
func (c AccountConstraint) Empty() AccountConstraint {
	c.IsEmpty = true
	return c
}

// OwnedBy requires the slot's account to be owned by the given program.
func (c AccountConstraint) OwnedBy(program ed25519.PublicKey) AccountConstraint {
	c.Owner = program
	return c
}

// WithAddress requires the slot's account to have the exact given address.
func (c AccountConstraint) WithAddress(address ed25519.PublicKey) AccountConstraint {
	c.Address = address
	return c
}

// WithLayout requires the slot's account data to match the given layout,
// and implies ownership by the processing program when no owner is set.
func (c AccountConstraint) WithLayout(layout *Layout) AccountConstraint {
	c.Layout = layout
	return c
}

// WithDataSize requires the slot's account data to be exactly size bytes.
func (c AccountConstraint) WithDataSize(size int) AccountConstraint {
	c.DataSize = size
	return c
}

// WithSeeds requires the slot's account address to be the program derived
// address of the given seeds under the processing program.
func (c AccountConstraint) WithSeeds(seeds ...[]byte) AccountConstraint {
	c.Seeds = seeds
	return c
}

// WithBump pins the bump byte used to recompute the derived address.
func (c AccountConstraint) WithBump(bump uint8) AccountConstraint {
	c.Bump = pointer.Uint8(bump)
	return c
}

// DerivedFrom recomputes the derived address against another program, e.g.
// an associated token account owned by the token program.
func (c AccountConstraint) DerivedFrom(program ed25519.PublicKey) AccountConstraint {
	c.SeedProgram = program
	return c
}

// Program requires the slot to be the given executable program account.
func (c AccountConstraint) Program(id ed25519.PublicKey) AccountConstraint {
	c.Address = id
	c.IsExecutable = true
	return c
}

// Sysvar requires the slot to be the given system variable account.
func (c AccountConstraint) Sysvar(owner, id ed25519.PublicKey) AccountConstraint {
	c.Owner = owner
	c.Address = id
	return c
}
