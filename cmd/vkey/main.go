package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/yourorg/btczk/internal/keystore"
	"github.com/yourorg/btczk/pkg/prover"
	"github.com/yourorg/btczk/pkg/witness"
)

func main() {
	var circuitS, backendS, storePath string

	cmd := &cobra.Command{
		Use:   "vkey",
		Short: "Print the verifying-key identifier for a circuit variant",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := keystore.Open(storePath)
			if err != nil {
				return err
			}
			defer store.Close()

			orch := prover.New(witness.DefaultParams(), prover.WithKeystore(store))
			id, err := orch.FetchVerifyingKey(prover.Variant(circuitS), prover.Backend(backendS))
			if err != nil {
				return err
			}
			fmt.Println(id)
			return nil
		},
	}

	cmd.Flags().StringVar(&circuitS, "circuit", "burn", "Circuit variant: mint or burn")
	cmd.Flags().StringVar(&backendS, "backend", "groth16", "Proving backend: groth16 or plonk")
	cmd.Flags().StringVar(&storePath, "keystore", "", "Setup-artifact keystore file")
	_ = cmd.MarkFlagRequired("keystore")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
