// Package circuits holds the gnark commitment circuits. The SPV validation
// itself runs natively during witness construction; the circuits bind the
// resulting public tuple so the on-chain verifier checks the same values the
// orchestrator committed.
package circuits

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
)

func Curve() ecc.ID { return ecc.BN254 }

func maxUintN(bits uint) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
}

// MintCommitmentCircuit binds (txId, depositorAddress, amountSatoshis, valid).
// The txId is the display-order bytes32 reduced into the scalar field.
type MintCommitmentCircuit struct {
	TxID       frontend.Variable `gnark:",public"`
	Depositor  frontend.Variable `gnark:",public"`
	AmountSats frontend.Variable `gnark:",public"`
	Valid      frontend.Variable `gnark:",public"`
}

func (c *MintCommitmentCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(c.Depositor, maxUintN(160))
	api.AssertIsLessOrEqual(c.AmountSats, maxUintN(64))
	api.AssertIsBoolean(c.Valid)
	return nil
}

// BurnCommitmentCircuit binds (btcAddress, amountSatoshis, valid). The
// variable-length address string enters the field as its SHA-256 digest.
type BurnCommitmentCircuit struct {
	AddressDigest frontend.Variable `gnark:",public"`
	AmountSats    frontend.Variable `gnark:",public"`
	Valid         frontend.Variable `gnark:",public"`
}

func (c *BurnCommitmentCircuit) Define(api frontend.API) error {
	api.AssertIsLessOrEqual(c.AmountSats, maxUintN(64))
	api.AssertIsBoolean(c.Valid)
	return nil
}
