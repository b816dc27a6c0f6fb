package spv

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	bridgeScriptHex = "00141240e21b1e7877f77bfe66cc59eefb02d17a0a3f"
	changeScriptHex = "00144cf2f041e4acc16071306ab41414cab4c76cfd50"
	memoAddressHex  = "a86ed347b8d1043533fe30c07fc47f3e3b849a42"
)

func hexScript(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestClassifyScript(t *testing.T) {
	p2pkh := append([]byte{opDup, opHash160, opData20}, make([]byte, 20)...)
	p2pkh = append(p2pkh, opEqualVerify, opCheckSig)
	p2sh := append([]byte{opHash160, opData20}, make([]byte, 20)...)
	p2sh = append(p2sh, opEqual)
	p2wsh := append([]byte{op0, 0x20}, make([]byte, 32)...)

	cases := []struct {
		name   string
		script []byte
		want   ScriptClass
	}{
		{"p2wpkh", hexScript(t, bridgeScriptHex), P2WPKH},
		{"p2pkh", p2pkh, P2PKH},
		{"p2sh", p2sh, P2SH},
		{"p2wsh", p2wsh, P2WSH},
		{"op_return", []byte{opReturn, 0x01, 0xab}, OpReturn},
		{"empty", nil, NonStandard},
		{"truncated witness program", []byte{op0, 0x14, 0x01}, NonStandard},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyScript(tc.script))
		})
	}
}

func TestDecodeOpReturnRawPayload(t *testing.T) {
	payload := bytes.Repeat([]byte{0xaa}, PayloadLen)
	script := append([]byte{opReturn, PayloadLen}, payload...)

	got, ok := DecodeOpReturn(script)
	require.True(t, ok)
	require.Equal(t, payload, got[:])
}

func TestDecodeOpReturnHexMemo(t *testing.T) {
	tx := mockTx(t)
	got, ok := DecodeOpReturn(tx.Outputs[1].PkScript)
	require.True(t, ok)
	require.Equal(t, hexScript(t, memoAddressHex), got[:])
}

func TestDecodeOpReturnRejects(t *testing.T) {
	cases := []struct {
		name   string
		script []byte
	}{
		{"not op_return", hexScript(t, bridgeScriptHex)},
		{"bare op_return", []byte{opReturn}},
		{"empty push", []byte{opReturn, 0x00}},
		{"wrong width", append([]byte{opReturn, 0x10}, make([]byte, 16)...)},
		{"push length overruns", []byte{opReturn, 0x14, 0x01}},
		{"memo without 0x prefix", append([]byte{opReturn, 0x2a}, bytes.Repeat([]byte{'a'}, 42)...)},
		{"memo bad hex", append([]byte{opReturn, 0x2a, '0', 'x'}, bytes.Repeat([]byte{'z'}, 40)...)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := DecodeOpReturn(tc.script)
			require.False(t, ok)
		})
	}
}

func TestLocateDepositOutputRecordedTx(t *testing.T) {
	tx := mockTx(t)

	value, payload, err := LocateDepositOutput(tx, hexScript(t, bridgeScriptHex))
	require.NoError(t, err)
	require.EqualValues(t, 1000, value)
	require.Equal(t, hexScript(t, memoAddressHex), payload[:])
}

func TestLocateDepositOutputFirstMatchWins(t *testing.T) {
	bridge := hexScript(t, bridgeScriptHex)
	memo := append([]byte{opReturn, PayloadLen}, bytes.Repeat([]byte{0xaa}, PayloadLen)...)
	tx := &Transaction{
		Version: 1,
		Inputs:  []TxIn{{Sequence: 0xffffffff}},
		Outputs: []TxOut{
			{Value: 100000, PkScript: bridge},
			{Value: 0, PkScript: memo},
			{Value: 7, PkScript: bridge}, // ignored, first match wins
		},
	}

	value, payload, err := LocateDepositOutput(tx, bridge)
	require.NoError(t, err)
	require.EqualValues(t, 100000, value)
	require.Equal(t, bytes.Repeat([]byte{0xaa}, PayloadLen), payload[:])
}

func TestLocateDepositOutputMissing(t *testing.T) {
	tx := mockTx(t)

	_, _, err := LocateDepositOutput(tx, hexScript(t, "0014"+"00000000000000000000000000000000000000ff"))
	require.ErrorIs(t, err, ErrNoDepositOutput)
}

func TestLocateDepositOutputNoOpReturn(t *testing.T) {
	bridge := hexScript(t, bridgeScriptHex)
	tx := &Transaction{
		Version: 1,
		Inputs:  []TxIn{{Sequence: 0xffffffff}},
		Outputs: []TxOut{{Value: 100000, PkScript: bridge}},
	}

	_, _, err := LocateDepositOutput(tx, bridge)
	require.ErrorIs(t, err, ErrNoOpReturn)
}

func TestLocateDepositOutputAmbiguous(t *testing.T) {
	memo := append([]byte{opReturn, PayloadLen}, bytes.Repeat([]byte{0xaa}, PayloadLen)...)
	tx := &Transaction{
		Version: 1,
		Inputs:  []TxIn{{Sequence: 0xffffffff}},
		Outputs: []TxOut{{Value: 0, PkScript: memo}},
	}

	// A bridge template that is itself an OP_RETURN puts both roles on the
	// same output.
	_, _, err := LocateDepositOutput(tx, memo)
	require.ErrorIs(t, err, ErrAmbiguousMatch)
}

func TestLocatePayoutOutput(t *testing.T) {
	tx := mockTx(t)

	value, err := LocatePayoutOutput(tx, hexScript(t, changeScriptHex))
	require.NoError(t, err)
	require.EqualValues(t, 667, value)

	_, err = LocatePayoutOutput(tx, hexScript(t, "0014"+"00000000000000000000000000000000000000ff"))
	require.ErrorIs(t, err, ErrNoPayoutOutput)
}
