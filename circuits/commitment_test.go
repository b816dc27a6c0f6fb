package circuits_test

import (
	"crypto/sha256"
	"math/big"
	"testing"

	"github.com/consensys/gnark/test"

	"github.com/yourorg/btczk/circuits"
)

func TestMintCommitmentSatisfied(t *testing.T) {
	assert := test.NewAssert(t)

	txid := new(big.Int).SetBytes([]byte{0xab, 0xcd, 0xef})
	depositor, _ := new(big.Int).SetString("a86ed347b8d1043533fe30c07fc47f3e3b849a42", 16)

	w := circuits.MintCommitmentCircuit{
		TxID:       txid,
		Depositor:  depositor,
		AmountSats: 1000,
		Valid:      1,
	}
	assert.ProverSucceeded(new(circuits.MintCommitmentCircuit), &w, test.WithCurves(circuits.Curve()))
}

func TestMintCommitmentInvalidTuple(t *testing.T) {
	assert := test.NewAssert(t)

	w := circuits.MintCommitmentCircuit{
		TxID:       1,
		Depositor:  1,
		AmountSats: 1000,
		Valid:      2, // not a boolean
	}
	assert.ProverFailed(new(circuits.MintCommitmentCircuit), &w, test.WithCurves(circuits.Curve()))
}

func TestMintCommitmentOversizedDepositor(t *testing.T) {
	assert := test.NewAssert(t)

	tooWide := new(big.Int).Lsh(big.NewInt(1), 161)
	w := circuits.MintCommitmentCircuit{
		TxID:       1,
		Depositor:  tooWide,
		AmountSats: 1,
		Valid:      1,
	}
	assert.ProverFailed(new(circuits.MintCommitmentCircuit), &w, test.WithCurves(circuits.Curve()))
}

func TestBurnCommitmentSatisfied(t *testing.T) {
	assert := test.NewAssert(t)

	digest := sha256.Sum256([]byte("tb1qzfqwyxc70pmlw7l7vmx9nmhmqtgh5z3lp3j9hf"))
	w := circuits.BurnCommitmentCircuit{
		AddressDigest: new(big.Int).SetBytes(digest[:]),
		AmountSats:    667,
		Valid:         0,
	}
	assert.ProverSucceeded(new(circuits.BurnCommitmentCircuit), &w, test.WithCurves(circuits.Curve()))
}

func TestBurnCommitmentInvalidTuple(t *testing.T) {
	assert := test.NewAssert(t)

	w := circuits.BurnCommitmentCircuit{
		AddressDigest: 1,
		AmountSats:    1,
		Valid:         3,
	}
	assert.ProverFailed(new(circuits.BurnCommitmentCircuit), &w, test.WithCurves(circuits.Curve()))
}
