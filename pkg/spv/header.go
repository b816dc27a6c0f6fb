package spv

import (
	"encoding/binary"
	"math/big"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// headerLen is the serialized size of a Bitcoin block header.
const headerLen = 80

// BlockHeader is the 80-byte Bitcoin block header. Hashes are stored in
// internal (little-endian) order, as chainhash does everywhere.
type BlockHeader struct {
	Version    int32
	PrevBlock  chainhash.Hash
	MerkleRoot chainhash.Hash
	Timestamp  uint32
	Bits       uint32
	Nonce      uint32
}

// Serialize returns the consensus encoding of the header.
func (h *BlockHeader) Serialize() []byte {
	buf := make([]byte, headerLen)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Version))
	copy(buf[4:36], h.PrevBlock[:])
	copy(buf[36:68], h.MerkleRoot[:])
	binary.LittleEndian.PutUint32(buf[68:72], h.Timestamp)
	binary.LittleEndian.PutUint32(buf[72:76], h.Bits)
	binary.LittleEndian.PutUint32(buf[76:80], h.Nonce)
	return buf
}

// BlockHash is the double-SHA256 of the serialized header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashH(h.Serialize())
}

// Target expands the compact difficulty bits into the full 256-bit target.
func (h *BlockHeader) Target() *big.Int {
	return blockchain.CompactToBig(h.Bits)
}

// CheckProofOfWork reports whether the header hash, read as a big-endian
// integer, is at or below the target declared by its own bits field.
func (h *BlockHeader) CheckProofOfWork() bool {
	target := h.Target()
	if target.Sign() <= 0 {
		return false
	}
	hash := h.BlockHash()
	return blockchain.HashToBig(&hash).Cmp(target) <= 0
}
