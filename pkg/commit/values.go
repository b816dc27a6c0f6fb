// Package commit defines the fixed-layout public value tuples the proof
// commits to and their Solidity ABI encoding. The byte layout must match the
// consuming contract's decoder exactly, so encoding goes through go-ethereum's
// abi package rather than anything hand-rolled.
package commit

import (
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Checks carries the outcome of every upstream validation stage. The valid
// flag in the committed tuple is the conjunction of the stages relevant to
// the circuit variant.
type Checks struct {
	Chain   bool
	Merkle  bool
	Output  bool
	Payload bool
}

// MintValid requires every stage including payload decode.
func (c Checks) MintValid() bool { return c.Chain && c.Merkle && c.Output && c.Payload }

// BurnValid has no OP_RETURN payload stage.
func (c Checks) BurnValid() bool { return c.Chain && c.Merkle && c.Output }

// MintPublicValues is the committed tuple for the mint circuit:
// (bytes32 txId, address depositorAddress, uint256 amountSatoshis, bool valid).
type MintPublicValues struct {
	TxID             [32]byte
	DepositorAddress common.Address
	AmountSats       uint64
	Valid            bool
}

// BurnPublicValues is the committed tuple for the burn circuit:
// (string btcAddress, uint256 amountSatoshis, bool valid).
type BurnPublicValues struct {
	BtcAddress string
	AmountSats uint64
	Valid      bool
}

var (
	typeBytes32 = mustType("bytes32")
	typeAddress = mustType("address")
	typeUint256 = mustType("uint256")
	typeBool    = mustType("bool")
	typeString  = mustType("string")

	mintArgs = abi.Arguments{
		{Name: "txId", Type: typeBytes32},
		{Name: "depositorAddress", Type: typeAddress},
		{Name: "amountSatoshis", Type: typeUint256},
		{Name: "valid", Type: typeBool},
	}
	burnArgs = abi.Arguments{
		{Name: "btcAddress", Type: typeString},
		{Name: "amountSatoshis", Type: typeUint256},
		{Name: "valid", Type: typeBool},
	}
)

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// TxIDBytes converts a chainhash (internal little-endian order) into the
// big-endian display-order bytes32 the contract stores.
func TxIDBytes(h chainhash.Hash) (out [32]byte) {
	for i := range out {
		out[i] = h[chainhash.HashSize-1-i]
	}
	return out
}

// ABIEncode packs the mint tuple.
func (v MintPublicValues) ABIEncode() ([]byte, error) {
	return mintArgs.Pack(v.TxID, v.DepositorAddress, new(big.Int).SetUint64(v.AmountSats), v.Valid)
}

// ABIEncode packs the burn tuple. The address string is dynamic, so the
// encoding carries the standard offset head and padded tail.
func (v BurnPublicValues) ABIEncode() ([]byte, error) {
	return burnArgs.Pack(v.BtcAddress, new(big.Int).SetUint64(v.AmountSats), v.Valid)
}

// DecodeMint unpacks bytes produced by MintPublicValues.ABIEncode.
func DecodeMint(data []byte) (MintPublicValues, error) {
	var v MintPublicValues
	vals, err := mintArgs.Unpack(data)
	if err != nil {
		return v, fmt.Errorf("unpack mint tuple: %w", err)
	}
	v.TxID = vals[0].([32]byte)
	v.DepositorAddress = vals[1].(common.Address)
	amount := vals[2].(*big.Int)
	if !amount.IsUint64() {
		return v, fmt.Errorf("amount %s exceeds uint64", amount)
	}
	v.AmountSats = amount.Uint64()
	v.Valid = vals[3].(bool)
	return v, nil
}

// DecodeBurn unpacks bytes produced by BurnPublicValues.ABIEncode.
func DecodeBurn(data []byte) (BurnPublicValues, error) {
	var v BurnPublicValues
	vals, err := burnArgs.Unpack(data)
	if err != nil {
		return v, fmt.Errorf("unpack burn tuple: %w", err)
	}
	v.BtcAddress = vals[0].(string)
	amount := vals[1].(*big.Int)
	if !amount.IsUint64() {
		return v, fmt.Errorf("amount %s exceeds uint64", amount)
	}
	v.AmountSats = amount.Uint64()
	v.Valid = vals[2].(bool)
	return v, nil
}
