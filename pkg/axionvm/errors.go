package axionvm

import "axion/internal/vm"

// ErrorKind enumerates the error kinds a host can observe (spec.md §7).
type ErrorKind = vm.ErrorKind

const (
	ErrUnknown          = vm.ErrUnknown
	ErrStackUnderflow   = vm.ErrStackUnderflow
	ErrStackOverflow    = vm.ErrStackOverflow
	ErrDivByZero        = vm.ErrDivByZero
	ErrTypeError        = vm.ErrTypeError
	ErrShapeMismatch    = vm.ErrShapeMismatch
	ErrIndexOutOfRange  = vm.ErrIndexOutOfRange
	ErrRankError        = vm.ErrRankError
	ErrInvalidInput     = vm.ErrInvalidInput
	ErrUnknownOpcode    = vm.ErrUnknownOpcode
	ErrTruncatedOperand = vm.ErrTruncatedOperand
	ErrNoSnapshot       = vm.ErrNoSnapshot
	ErrReentrant        = vm.ErrReentrant
	ErrOutOfMemory      = vm.ErrOutOfMemory
)

// Error is the error type every fallible VM operation returns.
type Error = vm.VMError
