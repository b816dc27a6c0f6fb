package spv

import "github.com/btcsuite/btcd/chaincfg/chainhash"

// MerkleProof is a sibling path from a transaction leaf up to a block's
// merkle root. Pos is the 0-based position of the transaction in the block;
// bit k of Pos selects the concatenation order at level k (bit clear means
// the running hash is the left operand).
type MerkleProof struct {
	Siblings []chainhash.Hash
	Pos      uint32
}

// Depth returns the number of levels in the proof.
func (p *MerkleProof) Depth() int { return len(p.Siblings) }

// ComputeMerkleRoot folds the transaction hash through the sibling path.
// A zero-depth proof returns the leaf itself, which is the single-transaction
// block case where the txid is the root.
func ComputeMerkleRoot(txHash chainhash.Hash, proof MerkleProof) chainhash.Hash {
	cur := txHash
	pos := proof.Pos
	var concat [64]byte
	for _, sibling := range proof.Siblings {
		if pos%2 == 0 {
			copy(concat[:32], cur[:])
			copy(concat[32:], sibling[:])
		} else {
			copy(concat[:32], sibling[:])
			copy(concat[32:], cur[:])
		}
		cur = chainhash.DoubleHashH(concat[:])
		pos >>= 1
	}
	return cur
}

// VerifyInclusion reports whether the proof reduces txHash to expectedRoot.
func VerifyInclusion(txHash chainhash.Hash, proof MerkleProof, expectedRoot chainhash.Hash) bool {
	return ComputeMerkleRoot(txHash, proof) == expectedRoot
}
