// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package btcvalidate

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/bitvault/core/berr"
)

// AddressType identifies the script form an address encodes.
type AddressType uint8

const (
	AddressUnknown AddressType = iota
	AddressP2PKH
	AddressP2SH
	AddressP2WPKH
	AddressP2WSH
	AddressTaproot
)

func (t AddressType) String() string {
	switch t {
	case AddressP2PKH:
		return "p2pkh"
	case AddressP2SH:
		return "p2sh"
	case AddressP2WPKH:
		return "p2wpkh"
	case AddressP2WSH:
		return "p2wsh"
	case AddressTaproot:
		return "taproot"
	default:
		return "unknown"
	}
}

// AddressInfo is the result of validating and classifying an address.
type AddressInfo struct {
	Address        string
	Type           AddressType
	Network        Network
	ScriptProgram  []byte
	WitnessVersion byte // only meaningful for segwit/taproot types
}

// ValidateAddress parses address, verifies its checksum (base58 addresses)
// or bech32 checksum (segwit/taproot addresses), and confirms it belongs
// to the given network. It returns berr.Validation on any failure.
func ValidateAddress(address string, network Network) (*AddressInfo, error) {
	params := ParamsForNetwork(network)

	if hrp, version, program, ok := tryParseBech32(address); ok {
		if hrp != params.Bech32HRP {
			return nil, berr.Validationf("address_network", "address %q is not for network %s", address, params.Name)
		}
		return classifyWitness(address, network, version, program)
	}

	decoded, ok := tryParseBase58Check(address)
	if !ok {
		return nil, berr.Validationf("address_format", "address %q is not a recognized format", address)
	}

	version := decoded[0]
	hash := decoded[1:]

	switch version {
	case params.PubKeyHashAddrID:
		return &AddressInfo{Address: address, Type: AddressP2PKH, Network: network, ScriptProgram: hash}, nil
	case params.ScriptHashAddrID:
		return &AddressInfo{Address: address, Type: AddressP2SH, Network: network, ScriptProgram: hash}, nil
	default:
		return nil, berr.Validationf("address_network", "address %q is not for network %s", address, params.Name)
	}
}

func classifyWitness(address string, network Network, version byte, program []byte) (*AddressInfo, error) {
	switch {
	case version == 0 && len(program) == 20:
		return &AddressInfo{Address: address, Type: AddressP2WPKH, Network: network, ScriptProgram: program, WitnessVersion: version}, nil
	case version == 0 && len(program) == 32:
		return &AddressInfo{Address: address, Type: AddressP2WSH, Network: network, ScriptProgram: program, WitnessVersion: version}, nil
	case version == 1 && len(program) == 32:
		return &AddressInfo{Address: address, Type: AddressTaproot, Network: network, ScriptProgram: program, WitnessVersion: version}, nil
	default:
		return nil, berr.Validationf("address_format", "address %q has an unsupported witness program", address)
	}
}

func tryParseBech32(address string) (hrp string, version byte, program []byte, ok bool) {
	h, data, err := bech32.Decode(address)
	if err != nil || len(data) < 1 {
		return "", 0, nil, false
	}
	version = data[0]
	converted, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", 0, nil, false
	}
	return h, version, converted, true
}

func tryParseBase58Check(address string) ([]byte, bool) {
	decoded := base58.Decode(address)
	if len(decoded) != 25 {
		return nil, false
	}
	payload := decoded[:21]
	checksum := decoded[21:]
	expected := doubleSHA256(payload)[:4]
	for i := 0; i < 4; i++ {
		if checksum[i] != expected[i] {
			return nil, false
		}
	}
	return payload, true
}

// IsValidAddressFormat performs a quick format check (checksum only, no
// network binding), mirroring the teacher's IsValidShellAddressFormat.
func IsValidAddressFormat(address string) bool {
	if _, _, _, ok := tryParseBech32(address); ok {
		return true
	}
	_, ok := tryParseBase58Check(address)
	return ok
}

// ValidationError wraps berr.Validationf for address-shaped validation
// failures outside of ValidateAddress (e.g. txid/outpoint formats).
func ValidationError(rule, format string, args ...interface{}) error {
	return berr.Validationf(rule, format, args...)
}

func doubleSHA256(b []byte) []byte {
	h1 := sha256.Sum256(b)
	h2 := sha256.Sum256(h1[:])
	return h2[:]
}
