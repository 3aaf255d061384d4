// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package btcvalidate implements Bitcoin address and network parameter
// validation shared across BitVault's vault, UTXO, and fee components.
package btcvalidate

// Network identifies the Bitcoin network a UTXO, address, or fee estimate
// belongs to. The set is closed.
type Network uint8

const (
	Mainnet Network = iota
	Testnet
	Signet
	Regtest
)

func (n Network) String() string {
	switch n {
	case Mainnet:
		return "mainnet"
	case Testnet:
		return "testnet"
	case Signet:
		return "signet"
	case Regtest:
		return "regtest"
	default:
		return "unknown"
	}
}

// Params mirrors the subset of a full chain-parameter set that address
// validation and coin-selection dust handling need: human-readable
// identifiers and address-version bytes. Unlike a full node's parameter
// set, BitVault carries no consensus rules (difficulty, checkpoints,
// deployments) — none of its components perform consensus validation.
type Params struct {
	Name             string
	Net              Network
	Bech32HRP        string
	PubKeyHashAddrID byte
	ScriptHashAddrID byte

	// DustThreshold is the minimum non-dust output amount in satoshis,
	// per spec §4.2.
	DustThreshold int64

	// MinReasonableFeeRate and MaxReasonableFeeRate bound the envelope a
	// fee rate must lie within (sat/vB), per spec §4.3.
	MinReasonableFeeRate float64
	MaxReasonableFeeRate float64
}

var (
	MainnetParams = Params{
		Name:                  "mainnet",
		Net:                   Mainnet,
		Bech32HRP:             "bc",
		PubKeyHashAddrID:      0x00,
		ScriptHashAddrID:      0x05,
		DustThreshold:         546,
		MinReasonableFeeRate:  1,
		MaxReasonableFeeRate:  2000,
	}

	TestnetParams = Params{
		Name:                  "testnet",
		Net:                   Testnet,
		Bech32HRP:             "tb",
		PubKeyHashAddrID:      0x6f,
		ScriptHashAddrID:      0xc4,
		DustThreshold:         546,
		MinReasonableFeeRate:  0.5,
		MaxReasonableFeeRate:  1000,
	}

	SignetParams = Params{
		Name:                  "signet",
		Net:                   Signet,
		Bech32HRP:             "tb",
		PubKeyHashAddrID:      0x6f,
		ScriptHashAddrID:      0xc4,
		DustThreshold:         546,
		MinReasonableFeeRate:  0.5,
		MaxReasonableFeeRate:  1000,
	}

	RegtestParams = Params{
		Name:                  "regtest",
		Net:                   Regtest,
		Bech32HRP:             "bcrt",
		PubKeyHashAddrID:      0x6f,
		ScriptHashAddrID:      0xc4,
		DustThreshold:         294,
		MinReasonableFeeRate:  0.25,
		MaxReasonableFeeRate:  100,
	}
)

// ParamsForNetwork returns the Params for a Network.
func ParamsForNetwork(n Network) Params {
	switch n {
	case Testnet:
		return TestnetParams
	case Signet:
		return SignetParams
	case Regtest:
		return RegtestParams
	default:
		return MainnetParams
	}
}

// IsDust reports whether amount sats is below the network's dust
// threshold, per spec §4.2.
func IsDust(amount int64, n Network) bool {
	return amount < ParamsForNetwork(n).DustThreshold
}
