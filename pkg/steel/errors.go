package steel

import (
	"fmt"

	"github.com/pkg/errors"
)

// ProgramError is the closed set of failure codes a program built on this
// framework can return to the host runtime. Each value maps one-to-one onto
// a numeric custom-error code, which is how the runtime surfaces the failure
// to clients.
type ProgramError uint32

const (
	// ErrNotEnoughAccounts indicates the runtime supplied fewer accounts
	// than the instruction's constraint list requires.
	ErrNotEnoughAccounts ProgramError = iota

	// ErrInvalidInstructionDiscriminant indicates the instruction selector
	// does not match any registered instruction.
	ErrInvalidInstructionDiscriminant

	// ErrInvalidAccountDiscriminant indicates an account's leading byte does
	// not match the discriminant of its declared layout.
	ErrInvalidAccountDiscriminant

	// ErrInvalidAccountDataSize indicates an account's data buffer does not
	// have the size its declared layout requires.
	ErrInvalidAccountDataSize

	// ErrAccountNotSigner indicates a required signer did not sign.
	ErrAccountNotSigner

	// ErrAccountNotWritable indicates an account required to be writable
	// was supplied read-only.
	ErrAccountNotWritable

	// ErrAccountOwnedByWrongProgram indicates an account's owner does not
	// match the required owning program.
	ErrAccountOwnedByWrongProgram

	// ErrInvalidSeeds indicates an account's address does not match the
	// program-derived address recomputed from the declared seeds and bump.
	ErrInvalidSeeds

	// ErrDuplicateMutableAccount indicates the same account was supplied in
	// two writable slots of one instruction.
	ErrDuplicateMutableAccount

	// ErrAccountAlreadyInitialized indicates an account required to be empty
	// already holds data.
	ErrAccountAlreadyInitialized

	// ErrAccountNotExecutable indicates an account required to be a program
	// is not executable.
	ErrAccountNotExecutable

	// ErrInvalidAccountAddress indicates an account's address does not match
	// the exact address the constraint requires.
	ErrInvalidAccountAddress

	// ErrIncorrectProgramID indicates the program id the runtime invoked
	// does not match the id the processor was declared with.
	ErrIncorrectProgramID

	// ErrInsufficientLamports indicates a lamport transfer would overdraw
	// the source account.
	ErrInsufficientLamports
)

var programErrorMessages = map[ProgramError]string{
	ErrNotEnoughAccounts:              "not enough accounts",
	ErrInvalidInstructionDiscriminant: "invalid instruction discriminant",
	ErrInvalidAccountDiscriminant:     "invalid account discriminant",
	ErrInvalidAccountDataSize:         "invalid account data size",
	ErrAccountNotSigner:               "account is not a signer",
	ErrAccountNotWritable:             "account is not writable",
	ErrAccountOwnedByWrongProgram:     "account owned by wrong program",
	ErrInvalidSeeds:                   "invalid seeds",
	ErrDuplicateMutableAccount:        "duplicate mutable account",
	ErrAccountAlreadyInitialized:      "account already initialized",
	ErrAccountNotExecutable:           "account is not executable",
	ErrInvalidAccountAddress:          "invalid account address",
	ErrIncorrectProgramID:             "incorrect program id",
	ErrInsufficientLamports:           "insufficient lamports",
}

// Error implements the error interface.
func (e ProgramError) Error() string {
	if msg, ok := programErrorMessages[e]; ok {
		return msg
	}
	return fmt.Sprintf("unknown program error (%d)", uint32(e))
}

// Code returns the numeric custom-error code reported to the host runtime.
func (e ProgramError) Code() uint32 {
	return uint32(e)
}

// ProgramErrorFromCode translates a host custom-error code back into its
// taxonomy value. The second return is false for codes outside the taxonomy.
func ProgramErrorFromCode(code uint32) (ProgramError, bool) {
	e := ProgramError(code)
	_, ok := programErrorMessages[e]
	return e, ok
}

// CodeOf extracts the numeric program error code from an error, unwrapping
// any annotation applied during validation. The second return is false when
// the error did not originate from the taxonomy.
func CodeOf(err error) (uint32, bool) {
	var e ProgramError
	if errors.As(err, &e) {
		return e.Code(), true
	}
	return 0, false
}
