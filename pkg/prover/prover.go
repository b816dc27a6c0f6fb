// Package prover orchestrates proof requests: it validates a witness bundle
// natively (the cheap execute pass), then drives the proving backend over
// the resulting commitment and emits the proof plus fixture. The transform
// from bundle to committed public values is a pure function, so identical
// bundles always yield identical tuples and backend failures are retryable.
package prover

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"github.com/yourorg/btczk/internal/keystore"
	"github.com/yourorg/btczk/pkg/commit"
	"github.com/yourorg/btczk/pkg/spv"
	"github.com/yourorg/btczk/pkg/witness"
)

// Variant selects the circuit.
type Variant string

const (
	VariantMint Variant = "mint"
	VariantBurn Variant = "burn"
)

// Backend selects how the validated execution is turned into a proof. Core
// checks the commitment circuit trace without producing a wrapped proof;
// groth16 and plonk produce on-chain-verifiable proofs.
type Backend string

const (
	BackendCore    Backend = "core"
	BackendGroth16 Backend = "groth16"
	BackendPlonk   Backend = "plonk"
)

// Proving failures, distinct from witness-validation failures so callers
// know which side to retry.
var (
	ErrWitnessInvalid = errors.New("witness rejected")
	ErrBackendFailure = errors.New("proving backend failure")
	ErrTimeout        = errors.New("proving timed out")
	ErrUnknownVariant = errors.New("unknown circuit variant")
	ErrUnknownBackend = errors.New("unknown proving backend")
)

// Orchestrator holds the per-deployment configuration. It carries no
// per-request state; every call is an independent transformation.
type Orchestrator struct {
	params witness.Params
	store  *keystore.Store
	log    zerolog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithKeystore caches setup artifacts in the given store, making the
// verifying-key identifier stable across runs.
func WithKeystore(s *keystore.Store) Option {
	return func(o *Orchestrator) { o.store = s }
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// New builds an orchestrator for the given deployment parameters.
func New(params witness.Params, opts ...Option) *Orchestrator {
	o := &Orchestrator{params: params, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Outcome is the result of the execute pass: the committed tuple in both
// typed and ABI-encoded form.
type Outcome struct {
	Variant Variant
	TxID    chainhash.Hash
	Encoded []byte
	Mint    *commit.MintPublicValues
	Burn    *commit.BurnPublicValues
}

// Execute runs every validation stage over the bundle without touching the
// proving backend. Any failed check aborts with its precise typed error; no
// tuple is produced for an invalid witness.
func (o *Orchestrator) Execute(bundle *witness.Bundle, variant Variant) (*Outcome, error) {
	switch variant {
	case VariantMint:
		return o.executeMint(bundle)
	case VariantBurn:
		return o.executeBurn(bundle)
	default:
		return nil, fmt.Errorf("%q: %w", variant, ErrUnknownVariant)
	}
}

// validateInclusion runs the chain and merkle stages shared by both
// variants and returns nil only if the transaction is proven included in a
// linked, sufficiently-worked header window.
func (o *Orchestrator) validateInclusion(bundle *witness.Bundle, txid chainhash.Hash) error {
	chain, err := bundle.HeaderChain()
	if err != nil {
		return err
	}
	inclusionHash, err := chain.Validate(o.params.ChainParams())
	if err != nil {
		return err
	}
	header, err := chain.InclusionHeader()
	if err != nil {
		return err
	}
	o.log.Debug().
		Stringer("inclusion_block", inclusionHash).
		Int("window", len(chain.Headers)).
		Msg("header chain validated")

	proof, err := bundle.Proof()
	if err != nil {
		return err
	}
	if !spv.VerifyInclusion(txid, proof, header.MerkleRoot) {
		return fmt.Errorf("txid %s against root %s: %w", txid, header.MerkleRoot, spv.ErrRootMismatch)
	}
	o.log.Debug().Stringer("txid", txid).Int("depth", proof.Depth()).Msg("merkle inclusion verified")
	return nil
}

func (o *Orchestrator) executeMint(bundle *witness.Bundle) (*Outcome, error) {
	tx, err := bundle.Transaction()
	if err != nil {
		return nil, err
	}
	txid := tx.TxID()

	bridge := bundle.BridgeAddress
	if bridge == "" {
		bridge = o.params.BridgeAddress
	}
	bridgeScript, err := witness.AddressScript(bridge, o.params.Network)
	if err != nil {
		return nil, err
	}
	value, payload, err := spv.LocateDepositOutput(tx, bridgeScript)
	if err != nil {
		return nil, err
	}
	o.log.Debug().
		Stringer("txid", txid).
		Int64("sats", value).
		Str("bridge", bridge).
		Msg("deposit output located")

	if err := o.validateInclusion(bundle, txid); err != nil {
		return nil, err
	}

	checks := commit.Checks{Chain: true, Merkle: true, Output: true, Payload: true}
	pv := &commit.MintPublicValues{
		TxID:             commit.TxIDBytes(txid),
		DepositorAddress: common.BytesToAddress(payload[:]),
		AmountSats:       uint64(value),
		Valid:            checks.MintValid(),
	}
	encoded, err := pv.ABIEncode()
	if err != nil {
		return nil, fmt.Errorf("encode mint tuple: %w", err)
	}
	return &Outcome{Variant: VariantMint, TxID: txid, Encoded: encoded, Mint: pv}, nil
}

func (o *Orchestrator) executeBurn(bundle *witness.Bundle) (*Outcome, error) {
	if bundle.BurnerBtcAddress == "" {
		return nil, fmt.Errorf("burner btc address missing: %w", ErrWitnessInvalid)
	}
	tx, err := bundle.Transaction()
	if err != nil {
		return nil, err
	}
	txid := tx.TxID()

	payoutScript, err := witness.AddressScript(bundle.BurnerBtcAddress, o.params.Network)
	if err != nil {
		return nil, err
	}
	value, err := spv.LocatePayoutOutput(tx, payoutScript)
	if err != nil {
		return nil, err
	}
	o.log.Debug().
		Stringer("txid", txid).
		Int64("sats", value).
		Str("payout", bundle.BurnerBtcAddress).
		Msg("payout output located")

	if err := o.validateInclusion(bundle, txid); err != nil {
		return nil, err
	}

	checks := commit.Checks{Chain: true, Merkle: true, Output: true}
	pv := &commit.BurnPublicValues{
		BtcAddress: bundle.BurnerBtcAddress,
		AmountSats: uint64(value),
		Valid:      checks.BurnValid(),
	}
	encoded, err := pv.ABIEncode()
	if err != nil {
		return nil, fmt.Errorf("encode burn tuple: %w", err)
	}
	return &Outcome{Variant: VariantBurn, TxID: txid, Encoded: encoded, Burn: pv}, nil
}
