// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"github.com/bitvault/core/berr"
)

// ExtendedKey wraps a BIP32 master (or derived) extended key. It is
// ownership-exclusive to the vault that produced it and is never
// serialized to persistent storage, per spec §3.
type ExtendedKey struct {
	key *hdkeychain.ExtendedKey
}

// masterKeyFromSeed computes the BIP32 master key on mainnet from seed.
func masterKeyFromSeed(seed []byte) (*ExtendedKey, error) {
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "derive BIP32 master key", err)
	}
	return &ExtendedKey{key: key}, nil
}

// Derive walks the given BIP32 child path (non-hardened indices only, as
// BitVault's core never needs hardened derivation beyond the master key
// produced at generation time).
func (k *ExtendedKey) Derive(path []uint32) (*ExtendedKey, error) {
	cur := k.key
	for _, idx := range path {
		child, err := cur.Derive(idx)
		if err != nil {
			return nil, berr.Wrap(berr.Crypto, "derive BIP32 child key", err)
		}
		cur = child
	}
	return &ExtendedKey{key: cur}, nil
}

// Neuter strips the private key material, returning a public-only
// extended key safe to hand to address-derivation code that must not see
// private key bytes.
func (k *ExtendedKey) Neuter() (*ExtendedKey, error) {
	pub, err := k.key.Neuter()
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "neuter extended key", err)
	}
	return &ExtendedKey{key: pub}, nil
}

// String returns the serialized extended key in its standard base58check
// form (xprv/xpub). Callers must treat a private-key form result as
// sensitive.
func (k *ExtendedKey) String() string {
	if k == nil || k.key == nil {
		return ""
	}
	return k.key.String()
}

// IsPrivate reports whether this extended key carries private material.
func (k *ExtendedKey) IsPrivate() bool {
	return k != nil && k.key != nil && k.key.IsPrivate()
}

// Sign produces a DER-encoded ECDSA signature over hash using this key's
// private scalar. It lets a caller prove control of a derived key to a
// relying party - an authentication challenge, say - without handing over
// the mnemonic or the key itself.
func (k *ExtendedKey) Sign(hash [32]byte) ([]byte, error) {
	if !k.IsPrivate() {
		return nil, berr.Validationf("vault_sign_requires_private_key", "cannot sign with a neutered extended key")
	}
	priv, err := k.key.ECPrivKey()
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "derive signing key", err)
	}
	defer priv.Zero()
	return ecdsa.Sign(priv, hash[:]).Serialize(), nil
}

// VerifySignature checks sig against hash using this key's public point.
// It works on both private and neutered extended keys.
func (k *ExtendedKey) VerifySignature(hash [32]byte, sig []byte) (bool, error) {
	pub, err := k.key.ECPubKey()
	if err != nil {
		return false, berr.Wrap(berr.Crypto, "derive verification key", err)
	}
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false, berr.Wrap(berr.Crypto, "parse signature", err)
	}
	return parsed.Verify(hash[:], pub), nil
}
