package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/ifiokjr/steel/pkg/steel"
)

// ValidateAccount checks that the account is a token account owned by the
// token program and decodes its published layout. The decoded state is a
// copy; mutating it does not touch the account buffer, since the token
// program alone may write its accounts.
func ValidateAccount(info *steel.AccountInfo) (*Account, error) {
	if !bytes.Equal(info.Owner, ProgramKey) {
		return nil, errors.Wrapf(
			steel.ErrAccountOwnedByWrongProgram,
			"token account %s owned by %s",
			base58.Encode(info.Address), base58.Encode(info.Owner),
		)
	}

	var account Account
	if !account.Unmarshal(info.Data) {
		return nil, errors.Wrapf(
			steel.ErrInvalidAccountDataSize,
			"token account %s requires %d bytes, have %d",
			base58.Encode(info.Address), AccountSize, len(info.Data),
		)
	}

	return &account, nil
}

// ValidateMint checks that the account is a mint owned by the token program
// and decodes its published layout.
func ValidateMint(info *steel.AccountInfo) (*Mint, error) {
	if !bytes.Equal(info.Owner, ProgramKey) {
		return nil, errors.Wrapf(
			steel.ErrAccountOwnedByWrongProgram,
			"mint %s owned by %s",
			base58.Encode(info.Address), base58.Encode(info.Owner),
		)
	}

	var mint Mint
	if !mint.Unmarshal(info.Data) {
		return nil, errors.Wrapf(
			steel.ErrInvalidAccountDataSize,
			"mint %s requires %d bytes, have %d",
			base58.Encode(info.Address), MintSize, len(info.Data),
		)
	}

	return &mint, nil
}

// AccountConstraint declares an instruction slot holding a token account.
// Token state carries no discriminant byte, so the slot is pinned to the
// published account size to keep a mint from binding here.
func AccountConstraint(name string) steel.AccountConstraint {
	return steel.Account(name).OwnedBy(ProgramKey).WithDataSize(AccountSize)
}

// MintConstraint declares an instruction slot holding a mint account.
func MintConstraint(name string) steel.AccountConstraint {
	return steel.Account(name).OwnedBy(ProgramKey).WithDataSize(MintSize)
}

// AssociatedAccountConstraint declares an instruction slot that must be the
// associated token account of the given wallet and mint. The address is
// recomputed from the association seeds, so a substituted account fails
// validation with invalid seeds.
func AssociatedAccountConstraint(name string, wallet, mint ed25519.PublicKey) steel.AccountConstraint {
	return steel.Account(name).
		OwnedBy(ProgramKey).
		WithDataSize(AccountSize).
		WithSeeds(wallet, ProgramKey, mint).
		DerivedFrom(AssociatedTokenAccountProgramKey)
}
