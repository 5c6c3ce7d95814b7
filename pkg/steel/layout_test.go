package steel

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout() *Layout {
	return &Layout{
		Name:          "Vault",
		Discriminator: 0x01,
		Size:          48, // owner key + balance + bump + padding
	}
}

func TestViewAccountData_TooShort(t *testing.T) {
	layout := testLayout()

	for length := 0; length < layout.DataLen(); length++ {
		data := make([]byte, length)
		if length > 0 {
			data[0] = byte(layout.Discriminator)
		}

		_, err := ViewAccountData(layout, data)
		assert.ErrorIs(t, err, ErrInvalidAccountDataSize)
	}
}

func TestViewAccountData_WrongDiscriminant(t *testing.T) {
	layout := testLayout()

	data := layout.NewAccountData()
	data[0] = byte(layout.Discriminator) + 1

	_, err := ViewAccountData(layout, data)
	assert.ErrorIs(t, err, ErrInvalidAccountDiscriminant)
}

func TestView_ReadsMatchBuffer(t *testing.T) {
	layout := testLayout()
	owner, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	data := layout.NewAccountData()
	copy(data[AccountHeaderLen:], owner)
	data[AccountHeaderLen+32] = 0xEF
	data[AccountHeaderLen+33] = 0xBE
	data[AccountHeaderLen+34] = 0xAD
	data[AccountHeaderLen+35] = 0xDE

	view, err := ViewAccountData(layout, data)
	require.NoError(t, err)

	assert.Equal(t, owner, view.Key(0))
	assert.Equal(t, uint32(0xDEADBEEF), view.Uint32(32))
	assert.Equal(t, uint8(0xEF), view.Uint8(32))
	assert.False(t, view.Mutable())
}

func TestView_WritesHitBufferImmediately(t *testing.T) {
	layout := testLayout()
	owner, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	data := layout.NewAccountData()
	view, err := ViewAccountDataMut(layout, data)
	require.NoError(t, err)

	require.NoError(t, view.SetKey(0, owner))
	require.NoError(t, view.SetUint64(32, 12345))
	require.NoError(t, view.SetUint8(40, 254))
	require.NoError(t, view.SetBool(41, true))

	// no flush step: the original buffer already holds the writes
	assert.Equal(t, []byte(owner), data[AccountHeaderLen:AccountHeaderLen+32])
	assert.Equal(t, uint64(12345), view.Uint64(32))
	assert.Equal(t, uint8(254), data[AccountHeaderLen+40])
	assert.True(t, view.Bool(41))
}

func TestView_ReadOnlyRejectsWrites(t *testing.T) {
	layout := testLayout()

	view, err := ViewAccountData(layout, layout.NewAccountData())
	require.NoError(t, err)

	assert.ErrorIs(t, view.SetUint64(0, 1), ErrAccountNotWritable)
}

func TestView_OutOfLayoutAccess(t *testing.T) {
	layout := testLayout()

	// the buffer is larger than the layout; the view must never read or
	// write past the declared size
	data := make([]byte, layout.DataLen()+64)
	data[0] = byte(layout.Discriminator)
	for i := layout.DataLen(); i < len(data); i++ {
		data[i] = 0xFF
	}

	view, err := ViewAccountDataMut(layout, data)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), view.Uint64(layout.Size-4))
	assert.Nil(t, view.Key(layout.Size-16))
	assert.Nil(t, view.Bytes(-1, 4))
	assert.ErrorIs(t, view.SetUint64(layout.Size-4, 1), ErrInvalidAccountDataSize)

	for i := layout.DataLen(); i < len(data); i++ {
		require.Equal(t, byte(0xFF), data[i])
	}
}

func TestViewAccountHeader(t *testing.T) {
	header := &Layout{
		Name:          "TreeHeader",
		Discriminator: 0x07,
		Size:          8,
	}

	data := make([]byte, header.DataLen()+16)
	data[0] = byte(header.Discriminator)
	data[AccountHeaderLen] = 4
	data[header.DataLen()] = 5

	view, remainder, err := ViewAccountHeader(header, data)
	require.NoError(t, err)

	assert.Equal(t, uint64(4), view.Uint64(0))
	require.Len(t, remainder, 16)
	assert.Equal(t, byte(5), remainder[0])
}
