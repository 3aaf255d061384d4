// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/bitvault/core/berr"
)

// sealMnemonic encrypts plaintext with AES-256-GCM under key and nonce,
// with empty AAD, per spec §4.1.
func sealMnemonic(key, nonce, plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "construct AES cipher", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(nonce))
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "construct AES-GCM", err)
	}
	return gcm.Seal(nil, nonce, plaintext, nil), nil
}

// openMnemonic decrypts and authenticates ciphertext. An AEAD tag mismatch
// (wrong password or tampering — the two are indistinguishable, per
// spec §7) surfaces as berr.Crypto.
func openMnemonic(key, nonce, ciphertext []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "construct AES cipher", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, len(nonce))
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "construct AES-GCM", err)
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, berr.New(berr.Crypto, "decrypt vault contents")
	}
	return plaintext, nil
}
