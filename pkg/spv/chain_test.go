package spv

import (
	"testing"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// easyBits encodes a target of 0xffff << 240, which nearly any hash meets.
// hardBits is Bitcoin's maximum-target compact form, far below any hash a
// test will stumble into without mining.
const (
	easyBits uint32 = 0x2100ffff
	hardBits uint32 = 0x1d00ffff
)

// mineHeader searches nonces until the header meets its easy target while
// still exceeding the hard one, so the same header can exercise both work
// outcomes deterministically.
func mineHeader(prev, root chainhash.Hash) BlockHeader {
	h := BlockHeader{
		Version:    2,
		PrevBlock:  prev,
		MerkleRoot: root,
		Timestamp:  1700000000,
		Bits:       easyBits,
	}
	easy := blockchain.CompactToBig(easyBits)
	hard := blockchain.CompactToBig(hardBits)
	for {
		hash := h.BlockHash()
		v := blockchain.HashToBig(&hash)
		if v.Cmp(easy) <= 0 && v.Cmp(hard) > 0 {
			return h
		}
		h.Nonce++
	}
}

func attested(h BlockHeader) AttestedHeader {
	return AttestedHeader{BlockHash: h.BlockHash(), Header: h}
}

// mineChain links n mined headers with distinct merkle roots.
func mineChain(n int) HeaderChain {
	chain := HeaderChain{Headers: make([]AttestedHeader, n)}
	var prev chainhash.Hash
	for i := 0; i < n; i++ {
		root := chainhash.Hash{byte(i + 1)}
		h := mineHeader(prev, root)
		chain.Headers[i] = attested(h)
		prev = h.BlockHash()
	}
	return chain
}

func TestValidateLinkedChain(t *testing.T) {
	chain := mineChain(3)

	got, err := chain.Validate(ChainParams{})
	require.NoError(t, err)
	require.Equal(t, chain.Headers[0].BlockHash, got)
}

func TestValidateInclusionIndex(t *testing.T) {
	chain := mineChain(3)
	chain.InclusionIndex = 2

	got, err := chain.Validate(ChainParams{})
	require.NoError(t, err)
	require.Equal(t, chain.Headers[2].BlockHash, got)

	chain.InclusionIndex = 3
	_, err = chain.Validate(ChainParams{})
	require.ErrorIs(t, err, ErrBadInclusionIndex)
}

func TestValidateEmptyChain(t *testing.T) {
	chain := HeaderChain{}
	_, err := chain.Validate(ChainParams{})
	require.ErrorIs(t, err, ErrEmptyChain)
}

func TestValidateConfirmationDepth(t *testing.T) {
	chain := mineChain(3)
	_, err := chain.Validate(ChainParams{MinConfDepth: 6})
	require.ErrorIs(t, err, ErrChainTooShort)

	_, err = chain.Validate(ChainParams{MinConfDepth: 3})
	require.NoError(t, err)
}

func TestValidateHashMismatch(t *testing.T) {
	chain := mineChain(3)
	chain.Headers[1].BlockHash[0] ^= 0xff

	_, err := chain.Validate(ChainParams{})
	require.ErrorIs(t, err, ErrHashMismatch)
}

// Corrupting one header's parent pointer must surface as a broken link no
// matter how valid the rest of the window is.
func TestValidateBrokenLink(t *testing.T) {
	chain := mineChain(3)

	wrongParent := chainhash.Hash{0xde, 0xad}
	relinked := mineHeader(wrongParent, chain.Headers[1].Header.MerkleRoot)
	chain.Headers[1] = attested(relinked)

	_, err := chain.Validate(ChainParams{})
	require.ErrorIs(t, err, ErrBrokenLink)
}

func TestValidateInsufficientWork(t *testing.T) {
	chain := mineChain(2)

	// Re-declare a hard target the mined hash deliberately exceeds.
	h := chain.Headers[1].Header
	h.Bits = hardBits
	chain.Headers[1] = attested(h)

	_, err := chain.Validate(ChainParams{})
	require.ErrorIs(t, err, ErrInsufficientWork)
}
