package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yourorg/btczk/internal/keystore"
	"github.com/yourorg/btczk/pkg/prover"
	"github.com/yourorg/btczk/pkg/witness"
)

func main() {
	var (
		circuitS  string
		backendS  string
		execOnly  bool
		prove     bool
		inputPath string
		outDir    string
		storePath string
		remoteURL string
		bridgeS   string
		timeout   time.Duration
	)

	rootCmd := &cobra.Command{
		Use:   "prover",
		Short: "Validate a Bitcoin SPV witness and generate a bridge proof",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if execOnly == prove {
				return fmt.Errorf("specify exactly one of --execute or --prove")
			}
			variant := prover.Variant(circuitS)
			backend := prover.Backend(backendS)

			logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
				With().Timestamp().Logger()

			// -----------------------------------------------------------------
			// Witness bundle
			// -----------------------------------------------------------------
			var bundle *witness.Bundle
			if inputPath != "" {
				var err error
				if bundle, err = witness.Load(inputPath); err != nil {
					return err
				}
			} else {
				logger.Warn().Msg("no --input given, using recorded testnet bundle")
				bundle = witness.MockBundle()
			}

			params := witness.DefaultParams()
			if bridgeS != "" {
				params.BridgeAddress = bridgeS
			}

			opts := []prover.Option{prover.WithLogger(logger)}
			if storePath != "" {
				store, err := keystore.Open(storePath)
				if err != nil {
					return err
				}
				defer store.Close()
				opts = append(opts, prover.WithKeystore(store))
			}
			orch := prover.New(params, opts...)

			// -----------------------------------------------------------------
			// Execute-only: validate the witness, print the tuple, stop
			// -----------------------------------------------------------------
			if execOnly {
				out, err := orch.Execute(bundle, variant)
				if err != nil {
					return err
				}
				printOutcome(out)
				fmt.Println("completed execution successfully")
				return nil
			}

			// -----------------------------------------------------------------
			// Prove, remotely when a network URL is configured
			// -----------------------------------------------------------------
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			if remoteURL == "" {
				_ = godotenv.Load()
				remoteURL = os.Getenv("PROVER_NETWORK_URL")
			}

			var fixture prover.Fixture
			if remoteURL != "" {
				// The witness is still validated locally first so a bad
				// bundle never reaches the network.
				out, err := orch.Execute(bundle, variant)
				if err != nil {
					return err
				}
				printOutcome(out)

				client := prover.NewRemoteClient(remoteURL, prover.WithRemoteLogger(logger))
				jobID, err := client.Submit(ctx, bundle, variant, backend)
				if err != nil {
					return err
				}
				fx, err := client.Wait(ctx, jobID)
				if err != nil {
					return err
				}
				fixture = *fx
			} else {
				res, err := orch.Prove(ctx, bundle, variant, backend)
				if err != nil {
					return err
				}
				printOutcome(res.Outcome)
				fixture = res.Fixture

				if len(res.Proof) > 0 {
					proofPath := filepath.Join(outDir, fmt.Sprintf("%s_proof.bin", variant))
					if err := os.WriteFile(proofPath, res.Proof, 0o644); err != nil {
						return err
					}
				}
			}

			fixturePath := filepath.Join(outDir, fmt.Sprintf("%s-fixture_%s.json", backend, variant))
			fxBytes, _ := json.MarshalIndent(fixture, "", "  ")
			if err := os.WriteFile(fixturePath, fxBytes, 0o644); err != nil {
				return err
			}
			fmt.Printf("fixture written to %s\n", fixturePath)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&circuitS, "circuit", "mint", "Circuit variant: mint or burn")
	rootCmd.Flags().StringVar(&backendS, "backend", "groth16", "Proving backend: core, groth16 or plonk")
	rootCmd.Flags().BoolVar(&execOnly, "execute", false, "Validate the witness without proving")
	rootCmd.Flags().BoolVar(&prove, "prove", false, "Generate a proof")
	rootCmd.Flags().StringVar(&inputPath, "input", "", "Witness bundle JSON file")
	rootCmd.Flags().StringVar(&outDir, "outdir", "./", "Output directory")
	rootCmd.Flags().StringVar(&storePath, "keystore", "", "Setup-artifact keystore file")
	rootCmd.Flags().StringVar(&remoteURL, "remote", "", "Proving network URL (or PROVER_NETWORK_URL env)")
	rootCmd.Flags().StringVar(&bridgeS, "bridge", "", "Override the monitored bridge address")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "Proving deadline")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

func printOutcome(out *prover.Outcome) {
	fmt.Println("-------------------------------------------")
	switch {
	case out.Mint != nil:
		fmt.Printf("tx id: 0x%x\n", out.Mint.TxID)
		fmt.Printf("depositor eth address: %s\n", out.Mint.DepositorAddress.Hex())
		fmt.Printf("amount: %d\n", out.Mint.AmountSats)
		fmt.Printf("valid: %v\n", out.Mint.Valid)
	case out.Burn != nil:
		fmt.Printf("burner btc address: %s\n", out.Burn.BtcAddress)
		fmt.Printf("amount: %d\n", out.Burn.AmountSats)
		fmt.Printf("valid: %v\n", out.Burn.Valid)
	}
	fmt.Printf("public values: %s\n", common.Bytes2Hex(out.Encoded))
}
