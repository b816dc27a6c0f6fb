package spv

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/stretchr/testify/require"
)

// Recorded testnet inclusion data: mockTxHex confirmed at position 1 of a
// two-transaction block whose merkle root is below.
const (
	mockSiblingHex = "cc4522617a92f7b27416f3cedad721949df7aec91d6e87f23ef2895c760e6eee"
	mockRootHex    = "214101dabc8c2b1e02999995163f31b187351c8ac1dad611e2660c2c4cae5ac6"
)

func mockTx(t *testing.T) *Transaction {
	t.Helper()
	raw, err := hex.DecodeString(mockTxHex)
	require.NoError(t, err)
	tx, err := ParseTransaction(raw)
	require.NoError(t, err)
	return tx
}

func mockProof(t *testing.T) MerkleProof {
	t.Helper()
	return MerkleProof{
		Siblings: []chainhash.Hash{mustHash(t, mockSiblingHex)},
		Pos:      1,
	}
}

func TestVerifyInclusionRecordedBlock(t *testing.T) {
	txid := mockTx(t).TxID()
	root := mustHash(t, mockRootHex)

	require.True(t, VerifyInclusion(txid, mockProof(t), root))
}

func TestVerifyInclusionCorruptedSibling(t *testing.T) {
	txid := mockTx(t).TxID()
	root := mustHash(t, mockRootHex)

	for i := 0; i < chainhash.HashSize; i++ {
		proof := mockProof(t)
		proof.Siblings[0][i] ^= 0x01
		require.False(t, VerifyInclusion(txid, proof, root), "flipped sibling byte %d", i)
	}
}

func TestVerifyInclusionWrongPosition(t *testing.T) {
	txid := mockTx(t).TxID()
	root := mustHash(t, mockRootHex)

	proof := mockProof(t)
	proof.Pos = 0
	require.False(t, VerifyInclusion(txid, proof, root))
}

func TestVerifyInclusionZeroDepth(t *testing.T) {
	leaf := mustHash(t, mockSiblingHex)

	require.True(t, VerifyInclusion(leaf, MerkleProof{}, leaf))

	other := leaf
	other[0] ^= 0x01
	require.False(t, VerifyInclusion(leaf, MerkleProof{}, other))
}

func TestComputeMerkleRootTwoLevels(t *testing.T) {
	leaf := chainhash.Hash{0x01}
	sib0 := chainhash.Hash{0x02}

	var concat [64]byte
	copy(concat[:32], leaf[:])
	copy(concat[32:], sib0[:])
	level1 := chainhash.DoubleHashH(concat[:])

	sib1 := chainhash.Hash{0x03}
	copy(concat[:32], sib1[:])
	copy(concat[32:], level1[:])
	want := chainhash.DoubleHashH(concat[:])

	// Leaf at position 2: left at level 0, right at level 1.
	proof := MerkleProof{Siblings: []chainhash.Hash{sib0, sib1}, Pos: 2}
	require.Equal(t, want, ComputeMerkleRoot(leaf, proof))
	require.True(t, VerifyInclusion(leaf, proof, want))

	proof.Pos = 3
	require.False(t, VerifyInclusion(leaf, proof, want))
}
