package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	"github.com/consensys/gnark/frontend"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/yourorg/btczk/circuits"
	"github.com/yourorg/btczk/internal/keystore"
	"github.com/yourorg/btczk/pkg/commit"
	"github.com/yourorg/btczk/pkg/prover"
)

func main() {
	var fixturePath, circuitS, backendS, storePath string

	cmd := &cobra.Command{
		Use:   "verifier",
		Short: "Verify a bridge proof fixture against its cached verifying key",
		RunE: func(cmd *cobra.Command, args []string) error {
			fxBytes, err := os.ReadFile(fixturePath)
			if err != nil {
				return err
			}
			var fx prover.Fixture
			if err := json.Unmarshal(fxBytes, &fx); err != nil {
				return fmt.Errorf("parse fixture: %w", err)
			}

			store, err := keystore.Open(storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			vkBytes, err := store.Get(backendS, circuitS, "vk")
			if err != nil {
				return fmt.Errorf("load verifying key: %w", err)
			}
			if got := prover.VerifyingKeyID(vkBytes); got != fx.Vkey {
				return fmt.Errorf("verifying key mismatch: keystore %s, fixture %s", got, fx.Vkey)
			}

			// Rebuild the public witness from the committed tuple.
			pvBytes := common.FromHex(fx.PublicValue)
			var assign frontend.Circuit
			switch prover.Variant(circuitS) {
			case prover.VariantMint:
				pv, err := commit.DecodeMint(pvBytes)
				if err != nil {
					return err
				}
				assign = prover.MintAssignment(&pv)
			case prover.VariantBurn:
				pv, err := commit.DecodeBurn(pvBytes)
				if err != nil {
					return err
				}
				assign = prover.BurnAssignment(&pv)
			default:
				return fmt.Errorf("unknown circuit %q", circuitS)
			}
			pubWit, err := frontend.NewWitness(assign, circuits.Curve().ScalarField(), frontend.PublicOnly())
			if err != nil {
				return err
			}

			proofBytes := common.FromHex(fx.Proof)
			switch prover.Backend(backendS) {
			case prover.BackendGroth16:
				vk := groth16.NewVerifyingKey(circuits.Curve())
				if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
					return fmt.Errorf("read verifying key: %w", err)
				}
				proof := groth16.NewProof(circuits.Curve())
				if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
					return fmt.Errorf("read proof: %w", err)
				}
				if err := groth16.Verify(proof, vk, pubWit); err != nil {
					return fmt.Errorf("verification failed: %w", err)
				}
			case prover.BackendPlonk:
				vk := plonk.NewVerifyingKey(circuits.Curve())
				if _, err := vk.ReadFrom(bytes.NewReader(vkBytes)); err != nil {
					return fmt.Errorf("read verifying key: %w", err)
				}
				proof := plonk.NewProof(circuits.Curve())
				if _, err := proof.ReadFrom(bytes.NewReader(proofBytes)); err != nil {
					return fmt.Errorf("read proof: %w", err)
				}
				if err := plonk.Verify(proof, vk, pubWit); err != nil {
					return fmt.Errorf("verification failed: %w", err)
				}
			default:
				return fmt.Errorf("unknown backend %q", backendS)
			}

			fmt.Println("proof verified")
			return nil
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "Proof fixture JSON")
	cmd.Flags().StringVar(&circuitS, "circuit", "mint", "Circuit variant: mint or burn")
	cmd.Flags().StringVar(&backendS, "backend", "groth16", "Proving backend: groth16 or plonk")
	cmd.Flags().StringVar(&storePath, "keystore", "", "Setup-artifact keystore file")
	_ = cmd.MarkFlagRequired("fixture")
	_ = cmd.MarkFlagRequired("keystore")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
