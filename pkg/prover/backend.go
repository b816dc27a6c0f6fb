package prover

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/plonk"
	backendwitness "github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"
	"github.com/consensys/gnark/test/unsafekzg"

	"github.com/yourorg/btczk/circuits"
	"github.com/yourorg/btczk/pkg/commit"
	"github.com/yourorg/btczk/pkg/witness"
)

// Result bundles everything a proof request produces.
type Result struct {
	Variant        Variant
	Backend        Backend
	PublicValues   []byte // ABI-encoded committed tuple
	Proof          []byte // empty for the core backend
	VerifyingKeyID string // empty for the core backend
	Outcome        *Outcome
	Fixture        Fixture
}

// Fixture is the JSON artifact handed to the contract deployment tooling.
type Fixture struct {
	Vkey        string `json:"vkey"`
	PublicValue string `json:"publicValue"`
	Proof       string `json:"proof"`
}

func blueprint(variant Variant) (frontend.Circuit, error) {
	switch variant {
	case VariantMint:
		return &circuits.MintCommitmentCircuit{}, nil
	case VariantBurn:
		return &circuits.BurnCommitmentCircuit{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", variant, ErrUnknownVariant)
	}
}

func boolVar(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MintAssignment maps a mint tuple onto the circuit variables. The verifier
// rebuilds the same assignment from the decoded public values.
func MintAssignment(pv *commit.MintPublicValues) *circuits.MintCommitmentCircuit {
	return &circuits.MintCommitmentCircuit{
		TxID:       new(big.Int).SetBytes(pv.TxID[:]),
		Depositor:  new(big.Int).SetBytes(pv.DepositorAddress.Bytes()),
		AmountSats: pv.AmountSats,
		Valid:      boolVar(pv.Valid),
	}
}

// BurnAssignment maps a burn tuple onto the circuit variables.
func BurnAssignment(pv *commit.BurnPublicValues) *circuits.BurnCommitmentCircuit {
	digest := sha256.Sum256([]byte(pv.BtcAddress))
	return &circuits.BurnCommitmentCircuit{
		AddressDigest: new(big.Int).SetBytes(digest[:]),
		AmountSats:    pv.AmountSats,
		Valid:         boolVar(pv.Valid),
	}
}

func assignment(out *Outcome) (frontend.Circuit, error) {
	switch out.Variant {
	case VariantMint:
		return MintAssignment(out.Mint), nil
	case VariantBurn:
		return BurnAssignment(out.Burn), nil
	default:
		return nil, fmt.Errorf("%q: %w", out.Variant, ErrUnknownVariant)
	}
}

// Prove validates the bundle (the execute pass always runs first) and then
// drives the selected backend. Witness errors surface before any proving
// cost is incurred; backend errors are retryable with the identical bundle.
func (o *Orchestrator) Prove(ctx context.Context, bundle *witness.Bundle, variant Variant, backend Backend) (*Result, error) {
	out, err := o.Execute(bundle, variant)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWitnessInvalid, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	switch backend {
	case BackendCore:
		return o.proveCore(out)
	case BackendGroth16:
		return o.proveGroth16(out)
	case BackendPlonk:
		return o.provePlonk(out)
	default:
		return nil, fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
}

// proveCore checks that the commitment circuit is satisfied by the outcome
// without producing a wrapped proof. It is the fast local feedback path.
func (o *Orchestrator) proveCore(out *Outcome) (*Result, error) {
	ccs, full, err := o.compile(out, r1cs.NewBuilder)
	if err != nil {
		return nil, err
	}
	if err := ccs.IsSolved(full); err != nil {
		return nil, fmt.Errorf("trace check: %v: %w", err, ErrBackendFailure)
	}
	o.log.Info().Str("variant", string(out.Variant)).Msg("execution trace validated")
	return &Result{
		Variant:      out.Variant,
		Backend:      BackendCore,
		PublicValues: out.Encoded,
		Outcome:      out,
		Fixture:      Fixture{PublicValue: "0x" + hex.EncodeToString(out.Encoded)},
	}, nil
}

func (o *Orchestrator) proveGroth16(out *Outcome) (*Result, error) {
	ccs, full, err := o.compile(out, r1cs.NewBuilder)
	if err != nil {
		return nil, err
	}
	pk, vkBytes, err := o.setupGroth16(ccs, out.Variant)
	if err != nil {
		return nil, err
	}
	proof, err := groth16.Prove(ccs, pk, full)
	if err != nil {
		return nil, fmt.Errorf("groth16 prove: %v: %w", err, ErrBackendFailure)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize proof: %v: %w", err, ErrBackendFailure)
	}
	return o.finish(out, BackendGroth16, buf.Bytes(), vkBytes), nil
}

func (o *Orchestrator) provePlonk(out *Outcome) (*Result, error) {
	ccs, full, err := o.compile(out, scs.NewBuilder)
	if err != nil {
		return nil, err
	}
	pk, vkBytes, err := o.setupPlonk(ccs, out.Variant)
	if err != nil {
		return nil, err
	}
	proof, err := plonk.Prove(ccs, pk, full)
	if err != nil {
		return nil, fmt.Errorf("plonk prove: %v: %w", err, ErrBackendFailure)
	}
	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize proof: %v: %w", err, ErrBackendFailure)
	}
	return o.finish(out, BackendPlonk, buf.Bytes(), vkBytes), nil
}

func (o *Orchestrator) finish(out *Outcome, backend Backend, proofBytes, vkBytes []byte) *Result {
	vkID := VerifyingKeyID(vkBytes)
	o.log.Info().
		Str("variant", string(out.Variant)).
		Str("backend", string(backend)).
		Str("vkey", vkID).
		Int("proof_bytes", len(proofBytes)).
		Msg("proof generated")
	return &Result{
		Variant:        out.Variant,
		Backend:        backend,
		PublicValues:   out.Encoded,
		Proof:          proofBytes,
		VerifyingKeyID: vkID,
		Outcome:        out,
		Fixture: Fixture{
			Vkey:        vkID,
			PublicValue: "0x" + hex.EncodeToString(out.Encoded),
			Proof:       "0x" + hex.EncodeToString(proofBytes),
		},
	}
}

func (o *Orchestrator) compile(out *Outcome, builder frontend.NewBuilder) (constraint.ConstraintSystem, backendwitness.Witness, error) {
	blue, err := blueprint(out.Variant)
	if err != nil {
		return nil, nil, err
	}
	ccs, err := frontend.Compile(circuits.Curve().ScalarField(), builder, blue)
	if err != nil {
		return nil, nil, fmt.Errorf("compile %s circuit: %v: %w", out.Variant, err, ErrBackendFailure)
	}
	assign, err := assignment(out)
	if err != nil {
		return nil, nil, err
	}
	full, err := frontend.NewWitness(assign, circuits.Curve().ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("build circuit witness: %v: %w", err, ErrBackendFailure)
	}
	return ccs, full, nil
}

// setupGroth16 loads cached setup artifacts for the variant or runs a fresh
// setup and caches it. Without a keystore every call re-runs setup and the
// verifying key changes between runs.
func (o *Orchestrator) setupGroth16(ccs constraint.ConstraintSystem, variant Variant) (groth16.ProvingKey, []byte, error) {
	if o.store != nil {
		pkBytes, errPK := o.store.Get(string(BackendGroth16), string(variant), "pk")
		vkBytes, errVK := o.store.Get(string(BackendGroth16), string(variant), "vk")
		if errPK == nil && errVK == nil {
			pk := groth16.NewProvingKey(circuits.Curve())
			if _, err := pk.ReadFrom(bytes.NewReader(pkBytes)); err != nil {
				return nil, nil, fmt.Errorf("read cached groth16 pk: %v: %w", err, ErrBackendFailure)
			}
			return pk, vkBytes, nil
		}
	}

	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("groth16 setup: %v: %w", err, ErrBackendFailure)
	}
	var pkBuf, vkBuf bytes.Buffer
	if _, err := pk.WriteTo(&pkBuf); err != nil {
		return nil, nil, fmt.Errorf("serialize groth16 pk: %v: %w", err, ErrBackendFailure)
	}
	if _, err := vk.WriteTo(&vkBuf); err != nil {
		return nil, nil, fmt.Errorf("serialize groth16 vk: %v: %w", err, ErrBackendFailure)
	}
	if o.store != nil {
		if err := o.store.Put(string(BackendGroth16), string(variant), "pk", pkBuf.Bytes()); err != nil {
			return nil, nil, err
		}
		if err := o.store.Put(string(BackendGroth16), string(variant), "vk", vkBuf.Bytes()); err != nil {
			return nil, nil, err
		}
	}
	return pk, vkBuf.Bytes(), nil
}

func (o *Orchestrator) setupPlonk(ccs constraint.ConstraintSystem, variant Variant) (plonk.ProvingKey, []byte, error) {
	if o.store != nil {
		pkBytes, errPK := o.store.Get(string(BackendPlonk), string(variant), "pk")
		vkBytes, errVK := o.store.Get(string(BackendPlonk), string(variant), "vk")
		if errPK == nil && errVK == nil {
			pk := plonk.NewProvingKey(circuits.Curve())
			if _, err := pk.ReadFrom(bytes.NewReader(pkBytes)); err != nil {
				return nil, nil, fmt.Errorf("read cached plonk pk: %v: %w", err, ErrBackendFailure)
			}
			return pk, vkBytes, nil
		}
	}

	srs, srsLagrange, err := unsafekzg.NewSRS(ccs)
	if err != nil {
		return nil, nil, fmt.Errorf("kzg srs: %v: %w", err, ErrBackendFailure)
	}
	pk, vk, err := plonk.Setup(ccs, srs, srsLagrange)
	if err != nil {
		return nil, nil, fmt.Errorf("plonk setup: %v: %w", err, ErrBackendFailure)
	}
	var pkBuf, vkBuf bytes.Buffer
	if _, err := pk.WriteTo(&pkBuf); err != nil {
		return nil, nil, fmt.Errorf("serialize plonk pk: %v: %w", err, ErrBackendFailure)
	}
	if _, err := vk.WriteTo(&vkBuf); err != nil {
		return nil, nil, fmt.Errorf("serialize plonk vk: %v: %w", err, ErrBackendFailure)
	}
	if o.store != nil {
		if err := o.store.Put(string(BackendPlonk), string(variant), "pk", pkBuf.Bytes()); err != nil {
			return nil, nil, err
		}
		if err := o.store.Put(string(BackendPlonk), string(variant), "vk", vkBuf.Bytes()); err != nil {
			return nil, nil, err
		}
	}
	return pk, vkBuf.Bytes(), nil
}

// VerifyingKeyID is the fixed identifier the external verifier pins: the
// SHA-256 of the serialized verifying key.
func VerifyingKeyID(vkBytes []byte) string {
	sum := sha256.Sum256(vkBytes)
	return "0x" + hex.EncodeToString(sum[:])
}

// FetchVerifyingKey returns the verifying-key identifier for a circuit
// variant under a backend, loading it from the keystore or running setup
// (and caching it) when absent.
func (o *Orchestrator) FetchVerifyingKey(variant Variant, backend Backend) (string, error) {
	if o.store != nil {
		if vkBytes, err := o.store.Get(string(backend), string(variant), "vk"); err == nil {
			return VerifyingKeyID(vkBytes), nil
		}
	}

	blue, err := blueprint(variant)
	if err != nil {
		return "", err
	}
	switch backend {
	case BackendGroth16:
		ccs, err := frontend.Compile(circuits.Curve().ScalarField(), r1cs.NewBuilder, blue)
		if err != nil {
			return "", fmt.Errorf("compile %s circuit: %v: %w", variant, err, ErrBackendFailure)
		}
		_, vkBytes, err := o.setupGroth16(ccs, variant)
		if err != nil {
			return "", err
		}
		return VerifyingKeyID(vkBytes), nil
	case BackendPlonk:
		ccs, err := frontend.Compile(circuits.Curve().ScalarField(), scs.NewBuilder, blue)
		if err != nil {
			return "", fmt.Errorf("compile %s circuit: %v: %w", variant, err, ErrBackendFailure)
		}
		_, vkBytes, err := o.setupPlonk(ccs, variant)
		if err != nil {
			return "", err
		}
		return VerifyingKeyID(vkBytes), nil
	default:
		return "", fmt.Errorf("%q: %w", backend, ErrUnknownBackend)
	}
}
