// Package system declares the identities of the host runtime's native
// system program and system variable accounts, used when instructions
// reference them as collaborator accounts.
package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// ProgramKey is the system program.
//
// https://explorer.solana.com/address/11111111111111111111111111111111
var ProgramKey ed25519.PublicKey

// SysvarOwner owns every system variable account.
var SysvarOwner ed25519.PublicKey

// RentSysVar points to the system variable "Rent"
var RentSysVar ed25519.PublicKey

// ClockSysVar points to the system variable "Clock"
var ClockSysVar ed25519.PublicKey

func init() {
	var err error

	ProgramKey, err = base58.Decode("11111111111111111111111111111111")
	if err != nil {
		panic(err)
	}

	SysvarOwner, err = base58.Decode("Sysvar1111111111111111111111111111111111111")
	if err != nil {
		panic(err)
	}

	RentSysVar, err = base58.Decode("SysvarRent111111111111111111111111111111111")
	if err != nil {
		panic(err)
	}

	ClockSysVar, err = base58.Decode("SysvarC1ock11111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}
