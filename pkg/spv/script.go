package spv

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Script opcodes this package cares about.
const (
	opDup         = 0x76
	opHash160     = 0xa9
	opEqual       = 0x87
	opEqualVerify = 0x88
	opCheckSig    = 0xac
	opReturn      = 0x6a
	opData20      = 0x14
	op0           = 0x00
)

// PayloadLen is the width of the embedded target-chain address.
const PayloadLen = 20

// ScriptClass is a closed classification of the output script templates the
// bridge recognizes. Anything else is NonStandard.
type ScriptClass int

const (
	NonStandard ScriptClass = iota
	P2PKH
	P2SH
	P2WPKH
	P2WSH
	OpReturn
)

func (c ScriptClass) String() string {
	switch c {
	case P2PKH:
		return "p2pkh"
	case P2SH:
		return "p2sh"
	case P2WPKH:
		return "p2wpkh"
	case P2WSH:
		return "p2wsh"
	case OpReturn:
		return "op_return"
	default:
		return "nonstandard"
	}
}

// ClassifyScript matches a locking script against the standard templates.
func ClassifyScript(script []byte) ScriptClass {
	switch {
	case len(script) == 25 &&
		script[0] == opDup && script[1] == opHash160 && script[2] == opData20 &&
		script[23] == opEqualVerify && script[24] == opCheckSig:
		return P2PKH
	case len(script) == 23 &&
		script[0] == opHash160 && script[1] == opData20 && script[22] == opEqual:
		return P2SH
	case len(script) == 22 && script[0] == op0 && script[1] == 0x14:
		return P2WPKH
	case len(script) == 34 && script[0] == op0 && script[1] == 0x20:
		return P2WSH
	case len(script) >= 1 && script[0] == opReturn:
		return OpReturn
	default:
		return NonStandard
	}
}

// DecodeOpReturn extracts the embedded 20-byte address payload from an
// OP_RETURN script. Two pushdata forms are accepted: the raw 20-byte
// payload, and the 42-byte ASCII form "0x" + 40 hex characters that wallets
// emit as a memo. A script that is not OP_RETURN, or whose push has any
// other width, yields ok=false rather than an error; the caller decides
// whether absence is fatal.
func DecodeOpReturn(script []byte) (payload [PayloadLen]byte, ok bool) {
	if len(script) < 2 || script[0] != opReturn {
		return payload, false
	}
	pushLen := int(script[1])
	// Direct single-byte pushes only; OP_RETURN data this small never needs
	// OP_PUSHDATA1 and rejecting it keeps the decoder total.
	if pushLen == 0 || pushLen > 0x4b || len(script) != 2+pushLen {
		return payload, false
	}
	data := script[2 : 2+pushLen]

	switch pushLen {
	case PayloadLen:
		copy(payload[:], data)
		return payload, true
	case 2 + 2*PayloadLen:
		if data[0] != '0' || (data[1] != 'x' && data[1] != 'X') {
			return payload, false
		}
		raw, err := hex.DecodeString(string(data[2:]))
		if err != nil || len(raw) != PayloadLen {
			return payload, false
		}
		copy(payload[:], raw)
		return payload, true
	default:
		return payload, false
	}
}

// LocateDepositOutput scans outputs for the first one whose script equals
// the bridge script, and independently for the first decodable OP_RETURN
// payload. First match wins in both scans; later matches are ignored. The
// two roles landing on the same output index means the configured bridge
// template is itself an OP_RETURN and the witness is rejected as ambiguous.
func LocateDepositOutput(tx *Transaction, bridgeScript []byte) (value int64, payload [PayloadLen]byte, err error) {
	depositIdx := -1
	for i := range tx.Outputs {
		if bytes.Equal(tx.Outputs[i].PkScript, bridgeScript) {
			depositIdx = i
			value = tx.Outputs[i].Value
			break
		}
	}
	if depositIdx < 0 {
		return 0, payload, fmt.Errorf("%d outputs scanned: %w", len(tx.Outputs), ErrNoDepositOutput)
	}

	memoIdx := -1
	for i := range tx.Outputs {
		if ClassifyScript(tx.Outputs[i].PkScript) != OpReturn {
			continue
		}
		if p, ok := DecodeOpReturn(tx.Outputs[i].PkScript); ok {
			memoIdx = i
			payload = p
			break
		}
	}
	if memoIdx < 0 {
		return 0, payload, fmt.Errorf("%d outputs scanned: %w", len(tx.Outputs), ErrNoOpReturn)
	}
	if memoIdx == depositIdx {
		return 0, payload, fmt.Errorf("output %d: %w", memoIdx, ErrAmbiguousMatch)
	}
	return value, payload, nil
}

// LocatePayoutOutput scans outputs for the first one paying the payout
// script and returns its value.
func LocatePayoutOutput(tx *Transaction, payoutScript []byte) (int64, error) {
	for i := range tx.Outputs {
		if bytes.Equal(tx.Outputs[i].PkScript, payoutScript) {
			return tx.Outputs[i].Value, nil
		}
	}
	return 0, fmt.Errorf("%d outputs scanned: %w", len(tx.Outputs), ErrNoPayoutOutput)
}
