package steel

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// AccountInfo is the host runtime's handle to one account supplied to an
// instruction. The framework borrows it for the duration of a single
// invocation; mutations to Data and Lamports are visible to the host
// immediately.
type AccountInfo struct {
	// Address is the account's public key.
	Address ed25519.PublicKey

	// Owner is the program that owns this account.
	Owner ed25519.PublicKey

	// Lamports is the account's balance.
	Lamports uint64

	// Data is the account's persisted byte buffer.
	Data []byte

	// IsSigner reports whether the account signed the transaction.
	IsSigner bool

	// IsWritable reports whether the runtime allows mutation.
	IsWritable bool

	// Executable reports whether the account is a program.
	Executable bool
}

// DataLen returns the length of the account's data buffer.
func (a *AccountInfo) DataLen() int {
	return len(a.Data)
}

// IsEmpty reports whether the account holds no data.
func (a *AccountInfo) IsEmpty() bool {
	return len(a.Data) == 0
}

func (a *AccountInfo) String() string {
	return fmt.Sprintf(
		"AccountInfo{address=%s,owner=%s,lamports=%d,data_len=%d,signer=%t,writable=%t}",
		base58.Encode(a.Address),
		base58.Encode(a.Owner),
		a.Lamports,
		len(a.Data),
		a.IsSigner,
		a.IsWritable,
	)
}

// TransferLamports moves lamports between two accounts already held by the
// program. Both accounts must be writable. The balances are adjusted in
// place, so the host observes the transfer with no flush step.
func TransferLamports(from, to *AccountInfo, lamports uint64) error {
	if !from.IsWritable {
		return annotateAccountErr(ErrAccountNotWritable, "source", from.Address)
	}
	if !to.IsWritable {
		return annotateAccountErr(ErrAccountNotWritable, "destination", to.Address)
	}
	if from.Lamports < lamports {
		return annotateAccountErr(ErrInsufficientLamports, "source", from.Address)
	}

	from.Lamports -= lamports
	to.Lamports += lamports

	return nil
}

// CloseAccount zeroes out an account's data and returns its lamports to the
// destination account so the host reclaims it at the end of the transaction.
func CloseAccount(account, destination *AccountInfo) error {
	if err := TransferLamports(account, destination, account.Lamports); err != nil {
		return err
	}

	for i := range account.Data {
		account.Data[i] = 0
	}
	account.Data = account.Data[:0]

	return nil
}
