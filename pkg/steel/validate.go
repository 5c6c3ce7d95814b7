package steel

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

// BoundAccount is the result of successfully validating one account slot:
// the runtime's account handle plus the guarantees its constraint
// established. It borrows the account for the current invocation only.
type BoundAccount struct {
	Info       *AccountInfo
	Constraint AccountConstraint

	// Bump is the bump byte confirmed during derived-address validation.
	// Only meaningful when the constraint declared seeds.
	Bump uint8
}

// View returns a read-only typed view over the account's data, using the
// constraint's declared layout. Validation already confirmed the
// discriminant and size, so failure here indicates a slot with no layout.
func (b *BoundAccount) View() (*View, error) {
	if b.Constraint.Layout == nil {
		return nil, errors.Errorf("account %s has no declared layout", b.Constraint.Name)
	}
	return ViewAccountData(b.Constraint.Layout, b.Info.Data)
}

// ViewMut returns a mutable typed view over the account's data. The slot
// must have declared Writable: the duplicate-mutable check keys on declared
// mutability, so an undeclared slot stays read-only even when the runtime
// happened to supply the account writable.
func (b *BoundAccount) ViewMut() (*View, error) {
	if b.Constraint.Layout == nil {
		return nil, errors.Errorf("account %s has no declared layout", b.Constraint.Name)
	}
	if !b.Constraint.IsWritable {
		return nil, annotateAccountErr(ErrAccountNotWritable, b.Constraint.Name, b.Info.Address)
	}
	return ViewAccountDataMut(b.Constraint.Layout, b.Info.Data)
}

// Assert evaluates an application-level condition against the account's
// typed view, returning cause annotated with the slot name if it fails.
func (b *BoundAccount) Assert(condition func(*View) bool, cause error) error {
	view, err := b.View()
	if err != nil {
		return err
	}
	if !condition(view) {
		return annotateAccountErr(cause, b.Constraint.Name, b.Info.Address)
	}
	return nil
}

// ValidateAccounts checks the runtime's ordered account list against an
// ordered constraint list and binds each slot.
//
// Slots are evaluated left to right and each slot's checks run in a fixed
// order (presence, signer, writable, executable, empty, address, owner,
// layout, seeds, aliasing), short-circuiting on the first failure, so a
// given malformed input always reproduces the same error. Validation never
// mutates account data; either every slot binds or nothing is returned.
func ValidateAccounts(programID ed25519.PublicKey, constraints []AccountConstraint, infos []*AccountInfo) ([]*BoundAccount, error) {
	bound := make([]*BoundAccount, 0, len(constraints))

	for i, constraint := range constraints {
		if i >= len(infos) {
			return nil, errors.Wrapf(
				ErrNotEnoughAccounts,
				"account %s: have %d accounts, slot %d required",
				constraint.Name, len(infos), i,
			)
		}

		slot, err := validateSlot(programID, constraint, infos[i])
		if err != nil {
			return nil, err
		}

		if constraint.IsWritable {
			for _, prior := range bound {
				if prior.Constraint.IsWritable && bytes.Equal(prior.Info.Address, slot.Info.Address) {
					return nil, annotateAccountErr(ErrDuplicateMutableAccount, constraint.Name, slot.Info.Address)
				}
			}
		}

		bound = append(bound, slot)
	}

	return bound, nil
}

func validateSlot(programID ed25519.PublicKey, c AccountConstraint, info *AccountInfo) (*BoundAccount, error) {
	if c.IsSigner && !info.IsSigner {
		return nil, annotateAccountErr(ErrAccountNotSigner, c.Name, info.Address)
	}
	if c.IsWritable && !info.IsWritable {
		return nil, annotateAccountErr(ErrAccountNotWritable, c.Name, info.Address)
	}
	if c.IsExecutable && !info.Executable {
		return nil, annotateAccountErr(ErrAccountNotExecutable, c.Name, info.Address)
	}
	if c.IsEmpty && !info.IsEmpty() {
		return nil, annotateAccountErr(ErrAccountAlreadyInitialized, c.Name, info.Address)
	}

	if len(c.Address) > 0 && !bytes.Equal(c.Address, info.Address) {
		return nil, errors.Wrapf(
			ErrInvalidAccountAddress,
			"account %s (%s): expected %s",
			c.Name, base58.Encode(info.Address), base58.Encode(c.Address),
		)
	}

	if requiredOwner := c.requiredOwner(programID); len(requiredOwner) > 0 {
		if !bytes.Equal(requiredOwner, info.Owner) {
			return nil, errors.Wrapf(
				ErrAccountOwnedByWrongProgram,
				"account %s (%s): owned by %s, required %s",
				c.Name, base58.Encode(info.Address), base58.Encode(info.Owner), base58.Encode(requiredOwner),
			)
		}
	}

	if c.DataSize > 0 && info.DataLen() != c.DataSize {
		return nil, errors.Wrapf(
			ErrInvalidAccountDataSize,
			"account %s (%s): have %d bytes, want %d",
			c.Name, base58.Encode(info.Address), info.DataLen(), c.DataSize,
		)
	}

	if c.Layout != nil {
		if err := validateLayout(c, info); err != nil {
			return nil, err
		}
	}

	slot := &BoundAccount{Info: info, Constraint: c}

	if len(c.Seeds) > 0 {
		bump, err := validateSeeds(programID, c, info)
		if err != nil {
			return nil, err
		}
		slot.Bump = bump
	}

	return slot, nil
}

// requiredOwner resolves which program must own the slot. Declaring a
// layout without an explicit owner implies the processing program itself:
// a discriminant is only trustworthy in data the program wrote.
func (c AccountConstraint) requiredOwner(programID ed25519.PublicKey) ed25519.PublicKey {
	if len(c.Owner) > 0 {
		return c.Owner
	}
	if c.Layout != nil {
		return programID
	}
	return nil
}

func validateLayout(c AccountConstraint, info *AccountInfo) error {
	layout := c.Layout

	if len(info.Data) < layout.DataLen() {
		return errors.Wrapf(
			ErrInvalidAccountDataSize,
			"account %s (%s): %s requires %d bytes, have %d",
			c.Name, base58.Encode(info.Address), layout.Name, layout.DataLen(), len(info.Data),
		)
	}
	if Discriminator(info.Data[0]) != layout.Discriminator {
		return errors.Wrapf(
			ErrInvalidAccountDiscriminant,
			"account %s (%s): %s requires discriminant %d, have %d",
			c.Name, base58.Encode(info.Address), layout.Name, layout.Discriminator, info.Data[0],
		)
	}
	if len(info.Data) != layout.DataLen() {
		return errors.Wrapf(
			ErrInvalidAccountDataSize,
			"account %s (%s): %s requires exactly %d bytes, have %d",
			c.Name, base58.Encode(info.Address), layout.Name, layout.DataLen(), len(info.Data),
		)
	}

	return nil
}

func validateSeeds(programID ed25519.PublicKey, c AccountConstraint, info *AccountInfo) (uint8, error) {
	seedProgram := c.SeedProgram
	if len(seedProgram) == 0 {
		seedProgram = programID
	}

	var (
		expected ed25519.PublicKey
		bump     uint8
		err      error
	)
	if c.Bump != nil {
		bump = *c.Bump
		expected, err = CreateProgramAddress(seedProgram, append(c.Seeds, []byte{bump})...)
	} else {
		expected, bump, err = FindProgramAddressAndBump(seedProgram, c.Seeds...)
	}
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidSeeds, "account %s: %s", c.Name, err.Error())
	}

	if !bytes.Equal(expected, info.Address) {
		return 0, errors.Wrapf(
			ErrInvalidSeeds,
			"account %s (%s): expected derived address %s",
			c.Name, base58.Encode(info.Address), base58.Encode(expected),
		)
	}

	return bump, nil
}

func annotateAccountErr(cause error, name string, address ed25519.PublicKey) error {
	return errors.Wrapf(cause, "account %s (%s)", name, base58.Encode(address))
}
