// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package vault implements BitVault's key-material vault: BIP39 mnemonic
// generation, password-based authenticated encryption, rotation, and
// verification of the wallet's root key material.
package vault

import (
	"crypto/rand"

	"github.com/tyler-smith/go-bip39"

	"github.com/bitvault/core/berr"
	"github.com/bitvault/core/secret"
)

// entropyBits is the entropy size for the 12-word mnemonic produced by
// Generate, per spec §4.1.
const entropyBits = 128

// Mnemonic wraps a BIP39 phrase as sensitive material. Word count is
// restricted to the BIP39-standard lengths: 12, 15, 18, 21, or 24.
type Mnemonic struct {
	phrase *secret.String
}

// NewMnemonicFromPhrase validates phrase as a well-formed BIP39 mnemonic
// (word count and checksum) and wraps it.
func NewMnemonicFromPhrase(phrase string) (*Mnemonic, error) {
	words := wordCount(phrase)
	switch words {
	case 12, 15, 18, 21, 24:
	default:
		return nil, berr.Validationf("mnemonic_word_count", "mnemonic has %d words, want 12/15/18/21/24", words)
	}
	if !bip39.IsMnemonicValid(phrase) {
		return nil, berr.New(berr.Crypto, "mnemonic checksum invalid")
	}
	return &Mnemonic{phrase: secret.NewString(phrase)}, nil
}

func wordCount(phrase string) int {
	n := 0
	inWord := false
	for _, r := range phrase {
		if r == ' ' {
			inWord = false
			continue
		}
		if !inWord {
			n++
			inWord = true
		}
	}
	return n
}

// GenerateMnemonic draws OS entropy and produces a 12-word BIP39 mnemonic.
// It fails with berr.Crypto when the OS RNG fails, per spec §4.1.
func GenerateMnemonic() (*Mnemonic, error) {
	entropy := make([]byte, entropyBits/8)
	if _, err := rand.Read(entropy); err != nil {
		return nil, berr.Wrap(berr.Crypto, "read OS entropy for mnemonic", err)
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, berr.Wrap(berr.Crypto, "encode mnemonic from entropy", err)
	}
	return &Mnemonic{phrase: secret.NewString(phrase)}, nil
}

// Phrase exposes the underlying mnemonic words. Callers must treat the
// result as sensitive and not retain it beyond immediate use.
func (m *Mnemonic) Phrase() string {
	if m == nil {
		return ""
	}
	return m.phrase.ExposeSecret()
}

// Clear zeroizes the wrapped phrase.
func (m *Mnemonic) Clear() {
	if m == nil {
		return
	}
	m.phrase.Clear()
}

// Equal compares two mnemonics by content.
func (m *Mnemonic) Equal(other *Mnemonic) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.phrase.Equal(other.phrase)
}

// Seed derives the BIP39 seed: PBKDF2-HMAC-SHA512(NFKD(mnemonic),
// "mnemonic"||password, 2048, 64), per spec §3. go-bip39 applies the NFKD
// normalization internally. The seed is never stored; it is re-derived on
// demand from a decrypted mnemonic.
func (m *Mnemonic) Seed(password string) *secret.Bytes {
	seed := bip39.NewSeed(m.Phrase(), password)
	return secret.NewBytes(seed)
}
