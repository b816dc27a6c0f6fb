package spv

import "errors"

// Chain validation failures.
var (
	ErrEmptyChain        = errors.New("empty header chain")
	ErrChainTooShort     = errors.New("header chain below confirmation depth")
	ErrBadInclusionIndex = errors.New("inclusion index out of range")
	ErrHashMismatch      = errors.New("computed header hash does not match claimed block hash")
	ErrBrokenLink        = errors.New("parent hash does not match previous header")
	ErrInsufficientWork  = errors.New("header hash exceeds compact target")
)

// Merkle verification failure.
var ErrRootMismatch = errors.New("merkle proof does not reduce to expected root")

// Transaction parsing failures.
var (
	ErrMalformed       = errors.New("malformed transaction")
	ErrTruncatedVarint = errors.New("truncated varint")
)

// Output location failures.
var (
	ErrNoDepositOutput = errors.New("no output pays the bridge script")
	ErrNoOpReturn      = errors.New("no decodable OP_RETURN output")
	ErrNoPayoutOutput  = errors.New("no output pays the payout script")
	ErrAmbiguousMatch  = errors.New("output matches both deposit and OP_RETURN roles")
)
