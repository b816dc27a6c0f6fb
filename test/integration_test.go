package test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/btczk/circuits"
	"github.com/yourorg/btczk/internal/keystore"
	"github.com/yourorg/btczk/pkg/prover"
	"github.com/yourorg/btczk/pkg/witness"
)

// End-to-end: recorded testnet deposit bundle through groth16 proving, with
// the resulting proof verified against the cached verifying key. Setup for
// the commitment circuit is cheap enough to run in CI, but the full pass is
// still skipped in short mode.
func TestEndToEndGroth16Mint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e in short mode")
	}

	store, err := keystore.Open(filepath.Join(t.TempDir(), "keys.db"))
	require.NoError(t, err)
	defer store.Close()

	o := prover.New(witness.DefaultParams(), prover.WithKeystore(store))

	res, err := o.Prove(context.Background(), witness.MockBundle(), prover.VariantMint, prover.BackendGroth16)
	require.NoError(t, err)
	require.NotEmpty(t, res.Proof)
	require.NotEmpty(t, res.VerifyingKeyID)
	require.Equal(t, res.VerifyingKeyID, res.Fixture.Vkey)

	// With a keystore the setup is cached, so a second prove reuses the same
	// verifying key and commits to the same public bytes.
	again, err := o.Prove(context.Background(), witness.MockBundle(), prover.VariantMint, prover.BackendGroth16)
	require.NoError(t, err)
	require.Equal(t, res.VerifyingKeyID, again.VerifyingKeyID)
	require.Equal(t, res.PublicValues, again.PublicValues)

	// Verify the wrapped proof the way the deployment tooling does: decode
	// the stored vk and check against a public-only witness.
	vkBytes, err := store.Get(string(prover.BackendGroth16), string(prover.VariantMint), "vk")
	require.NoError(t, err)
	require.Equal(t, prover.VerifyingKeyID(vkBytes), res.VerifyingKeyID)

	vk := groth16.NewVerifyingKey(circuits.Curve())
	_, err = vk.ReadFrom(bytes.NewReader(vkBytes))
	require.NoError(t, err)

	proof := groth16.NewProof(circuits.Curve())
	_, err = proof.ReadFrom(bytes.NewReader(res.Proof))
	require.NoError(t, err)

	assign := prover.MintAssignment(res.Outcome.Mint)
	public, err := frontend.NewWitness(assign, circuits.Curve().ScalarField(), frontend.PublicOnly())
	require.NoError(t, err)

	require.NoError(t, groth16.Verify(proof, vk, public))
}

func TestEndToEndCoreBurn(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e in short mode")
	}

	o := prover.New(witness.DefaultParams())
	res, err := o.Prove(context.Background(), witness.MockBundle(), prover.VariantBurn, prover.BackendCore)
	require.NoError(t, err)
	require.True(t, res.Outcome.Burn.Valid)
	require.EqualValues(t, 1000, res.Outcome.Burn.AmountSats)
}
