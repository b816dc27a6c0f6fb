// Package witness defines the canonical JSON witness bundle a proof request
// carries and converts it into the typed SPV structures the validators
// consume. One bundle per request; nothing here is retained across requests.
package witness

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/yourorg/btczk/pkg/spv"
)

// MerkleProofDoc mirrors the merkleProof object of the bundle.
type MerkleProofDoc struct {
	// Siblings are display-order hex hashes, leaf to root.
	Siblings []string `json:"siblings"`
	// Pos is the 0-based position of the transaction in the block.
	Pos uint32 `json:"pos"`
}

// BlockDoc mirrors one entry of chains.blocks.
type BlockDoc struct {
	BlockHash  string `json:"blockHash"`
	Version    uint32 `json:"version"`
	ParentHash string `json:"parentHash"`
	MerkleRoot string `json:"merkleRoot"`
	Timestamp  uint32 `json:"timestamp"`
	Difficulty uint32 `json:"difficulty"`
	Nonce      uint32 `json:"nonce"`
}

// ChainDoc mirrors the chains object: the confirmation window from the
// inclusion block forward.
type ChainDoc struct {
	Blocks []BlockDoc `json:"blocks"`
	// InclusionIndex marks the block whose merkle root the transaction is
	// checked against. Absent means 0, the window's first block.
	InclusionIndex int `json:"inclusionIndex,omitempty"`
}

// TxInfoDoc mirrors the bitTxInfo object.
type TxInfoDoc struct {
	RawTxHex string `json:"rawTxHex"`
}

// Bundle is the complete witness for one proof request.
type Bundle struct {
	MerkleProof      MerkleProofDoc `json:"merkleProof"`
	Chains           ChainDoc       `json:"chains"`
	BitTxInfo        TxInfoDoc      `json:"bitTxInfo"`
	BurnerBtcAddress string         `json:"burnerBtcAddress,omitempty"`
	BridgeAddress    string         `json:"bridgeAddress,omitempty"`
}

// HeaderChain converts the chains document into a typed header chain. Hex
// parsing failures surface here; the chain's own invariants are checked
// later by Validate.
func (b *Bundle) HeaderChain() (spv.HeaderChain, error) {
	chain := spv.HeaderChain{
		Headers:        make([]spv.AttestedHeader, len(b.Chains.Blocks)),
		InclusionIndex: b.Chains.InclusionIndex,
	}
	for i, blk := range b.Chains.Blocks {
		claimed, err := chainhash.NewHashFromStr(blk.BlockHash)
		if err != nil {
			return spv.HeaderChain{}, fmt.Errorf("block %d hash %q: %w", i, blk.BlockHash, err)
		}
		parent, err := chainhash.NewHashFromStr(blk.ParentHash)
		if err != nil {
			return spv.HeaderChain{}, fmt.Errorf("block %d parent %q: %w", i, blk.ParentHash, err)
		}
		root, err := chainhash.NewHashFromStr(blk.MerkleRoot)
		if err != nil {
			return spv.HeaderChain{}, fmt.Errorf("block %d merkle root %q: %w", i, blk.MerkleRoot, err)
		}
		chain.Headers[i] = spv.AttestedHeader{
			BlockHash: *claimed,
			Header: spv.BlockHeader{
				Version:    int32(blk.Version),
				PrevBlock:  *parent,
				MerkleRoot: *root,
				Timestamp:  blk.Timestamp,
				Bits:       blk.Difficulty,
				Nonce:      blk.Nonce,
			},
		}
	}
	return chain, nil
}

// Proof converts the merkle proof document.
func (b *Bundle) Proof() (spv.MerkleProof, error) {
	proof := spv.MerkleProof{
		Siblings: make([]chainhash.Hash, len(b.MerkleProof.Siblings)),
		Pos:      b.MerkleProof.Pos,
	}
	for i, s := range b.MerkleProof.Siblings {
		h, err := chainhash.NewHashFromStr(s)
		if err != nil {
			return spv.MerkleProof{}, fmt.Errorf("sibling %d %q: %w", i, s, err)
		}
		proof.Siblings[i] = *h
	}
	return proof, nil
}

// Transaction decodes and parses the raw transaction hex.
func (b *Bundle) Transaction() (*spv.Transaction, error) {
	raw, err := hex.DecodeString(b.BitTxInfo.RawTxHex)
	if err != nil {
		return nil, fmt.Errorf("raw tx hex: %w", err)
	}
	return spv.ParseTransaction(raw)
}
