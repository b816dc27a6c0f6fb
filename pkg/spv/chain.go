package spv

import (
	"fmt"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// AttestedHeader pairs a header with the block hash the witness claims for
// it. The claimed hash is cross-checked against the computed one so that a
// witness cannot smuggle in a header under a different identity.
type AttestedHeader struct {
	BlockHash chainhash.Hash
	Header    BlockHeader
}

// HeaderChain is an ordered confirmation window of headers. Only the header
// at InclusionIndex contributes its merkle root downstream; the rest exist
// as depth evidence and must still link and satisfy their declared work.
type HeaderChain struct {
	Headers        []AttestedHeader
	InclusionIndex int
}

// ChainParams bounds what a chain must look like to count as confirmation
// evidence.
type ChainParams struct {
	// MinConfDepth is the minimum number of headers the window must carry.
	// Zero disables the depth requirement.
	MinConfDepth int
}

// InclusionHeader returns the header whose merkle root the transaction is
// checked against.
func (c *HeaderChain) InclusionHeader() (*BlockHeader, error) {
	if c.InclusionIndex < 0 || c.InclusionIndex >= len(c.Headers) {
		return nil, fmt.Errorf("index %d of %d headers: %w", c.InclusionIndex, len(c.Headers), ErrBadInclusionIndex)
	}
	return &c.Headers[c.InclusionIndex].Header, nil
}

// Validate checks every header in the window: the computed hash must match
// the claimed one, the hash must meet the header's own compact target, and
// each header after the first must reference the previous header's hash.
// On success it returns the hash of the inclusion block.
func (c *HeaderChain) Validate(params ChainParams) (chainhash.Hash, error) {
	if len(c.Headers) == 0 {
		return chainhash.Hash{}, ErrEmptyChain
	}
	if params.MinConfDepth > 0 && len(c.Headers) < params.MinConfDepth {
		return chainhash.Hash{}, fmt.Errorf("%d headers, need %d: %w", len(c.Headers), params.MinConfDepth, ErrChainTooShort)
	}
	if c.InclusionIndex < 0 || c.InclusionIndex >= len(c.Headers) {
		return chainhash.Hash{}, fmt.Errorf("index %d of %d headers: %w", c.InclusionIndex, len(c.Headers), ErrBadInclusionIndex)
	}

	var prev chainhash.Hash
	for i := range c.Headers {
		h := &c.Headers[i]
		computed := h.Header.BlockHash()
		if computed != h.BlockHash {
			return chainhash.Hash{}, fmt.Errorf("header %d: computed %s, claimed %s: %w",
				i, computed, h.BlockHash, ErrHashMismatch)
		}

		target := h.Header.Target()
		if target.Sign() <= 0 || blockchain.HashToBig(&computed).Cmp(target) > 0 {
			return chainhash.Hash{}, fmt.Errorf("header %d (%s): %w", i, computed, ErrInsufficientWork)
		}

		if i > 0 && h.Header.PrevBlock != prev {
			return chainhash.Hash{}, fmt.Errorf("header %d: parent %s, previous hash %s: %w",
				i, h.Header.PrevBlock, prev, ErrBrokenLink)
		}
		prev = computed
	}

	return c.Headers[c.InclusionIndex].BlockHash, nil
}
