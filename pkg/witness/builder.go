package witness

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"

	"github.com/yourorg/btczk/pkg/spv"
)

// Params is the per-request configuration the validators need. It is passed
// explicitly into every call; there is no ambient global.
type Params struct {
	// Network selects address encoding rules.
	Network *chaincfg.Params
	// BridgeAddress is the deposit address the bridge monitors.
	BridgeAddress string
	// MinConfDepth is the required confirmation window length.
	MinConfDepth int
}

// DefaultParams returns the testnet deployment configuration.
func DefaultParams() Params {
	return Params{
		Network:       &chaincfg.TestNet3Params,
		BridgeAddress: "tb1qzfqwyxc70pmlw7l7vmx9nmhmqtgh5z3lp3j9hf",
		MinConfDepth:  6,
	}
}

// ChainParams derives the spv chain bounds from the request configuration.
func (p Params) ChainParams() spv.ChainParams {
	return spv.ChainParams{MinConfDepth: p.MinConfDepth}
}

// AddressScript resolves a Bitcoin address string to the locking script a
// matching output must carry.
func AddressScript(address string, network *chaincfg.Params) ([]byte, error) {
	addr, err := btcutil.DecodeAddress(address, network)
	if err != nil {
		return nil, fmt.Errorf("decode address %q: %w", address, err)
	}
	if !addr.IsForNet(network) {
		return nil, fmt.Errorf("address %q is not valid for network %s", address, network.Name)
	}
	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("script for address %q: %w", address, err)
	}
	return script, nil
}

// ParseBundle decodes a canonical JSON witness document.
func ParseBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parse witness bundle: %w", err)
	}
	return &b, nil
}

// Load reads and decodes a witness bundle file.
func Load(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read witness bundle: %w", err)
	}
	return ParseBundle(data)
}
