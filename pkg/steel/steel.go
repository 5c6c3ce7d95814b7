// Package steel is a framework for writing on-chain programs: it binds
// strongly-typed, zero-copy account layouts over host-supplied byte buffers
// and routes incoming instructions to handlers behind declarative account
// constraints.
//
// A program declares its account layouts and instructions in a Registry,
// wraps the registry in a Processor, and hands the host runtime's
// (program id, account list, instruction bytes) triple to Process. The
// validation engine confirms signer and writable flags, owners,
// discriminants, and derived-address relationships before any handler
// logic runs; every failure maps onto a closed set of numeric program
// errors.
//
// The host invokes a program single-threaded, once per instruction.
// Nothing here blocks, suspends, or retains account buffers past a call.
package steel
