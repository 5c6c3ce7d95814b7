package steel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferLamports(t *testing.T) {
	from := &AccountInfo{Address: newTestKey(t), Lamports: 100, IsWritable: true}
	to := &AccountInfo{Address: newTestKey(t), Lamports: 5, IsWritable: true}

	require.NoError(t, TransferLamports(from, to, 40))
	assert.Equal(t, uint64(60), from.Lamports)
	assert.Equal(t, uint64(45), to.Lamports)

	err := TransferLamports(from, to, 1000)
	assert.ErrorIs(t, err, ErrInsufficientLamports)

	readOnly := &AccountInfo{Address: newTestKey(t), Lamports: 10}
	assert.ErrorIs(t, TransferLamports(readOnly, to, 1), ErrAccountNotWritable)
	assert.ErrorIs(t, TransferLamports(from, readOnly, 1), ErrAccountNotWritable)
}

func TestCloseAccount(t *testing.T) {
	buffer := []byte{1, 2, 3, 4}
	account := &AccountInfo{
		Address:    newTestKey(t),
		Lamports:   50,
		Data:       buffer,
		IsWritable: true,
	}
	destination := &AccountInfo{Address: newTestKey(t), IsWritable: true}

	require.NoError(t, CloseAccount(account, destination))

	assert.Equal(t, uint64(0), account.Lamports)
	assert.Equal(t, uint64(50), destination.Lamports)
	assert.True(t, account.IsEmpty())

	// the underlying buffer is zeroed, not just truncated
	assert.Equal(t, []byte{0, 0, 0, 0}, buffer)
}
