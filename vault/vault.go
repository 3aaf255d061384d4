// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"

	"github.com/bitvault/core/berr"
)

var log btclog.Logger = btclog.Disabled

// UseLogger configures a logger for the vault package, following the
// teacher's package-level logger convention.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// Generate draws OS entropy, produces a 12-word BIP39 mnemonic, derives
// the seed using password as the BIP39 passphrase, and computes the BIP32
// master key on mainnet, per spec §4.1.
func Generate(password string) (*Mnemonic, *ExtendedKey, error) {
	mnemonic, err := GenerateMnemonic()
	if err != nil {
		return nil, nil, err
	}
	seed := mnemonic.Seed(password)
	defer seed.Clear()

	key, err := masterKeyFromSeed(seed.ExposeSecret())
	if err != nil {
		return nil, nil, err
	}
	return mnemonic, key, nil
}

// EncryptAndStore encrypts mnemonic under password and writes it to path
// in the v2 rotation-capable format (spec §6), with the given key_version
// (callers pass 1 for a fresh vault). policy determines the PBKDF2
// iteration count used at encryption time; that count is recorded in the
// file so later policy changes never invalidate existing files.
func EncryptAndStore(mnemonic *Mnemonic, password string, path string, keyVersion uint32, policy IterationPolicy) error {
	salt, err := generateSalt()
	if err != nil {
		return err
	}
	nonce, err := generateNonce()
	if err != nil {
		return err
	}
	iterations := policy.resolve()
	key := deriveKey([]byte(password), salt, iterations)
	defer wipe(key)

	ciphertext, err := sealMnemonic(key, nonce, []byte(mnemonic.Phrase()))
	if err != nil {
		return err
	}

	data := serializeV2(keyVersion, iterations, salt, nonce, ciphertext)
	if err := atomicWriteFile(path, data); err != nil {
		return berr.Wrap(berr.Io, "write vault file", err)
	}
	return nil
}

// DecryptAndRetrieve parses either the legacy (v1) or rotation-capable
// (v2) vault file format at path, decrypts with password, and returns the
// extended key and mnemonic. It fails with berr.Crypto on wrong password
// (indistinguishable from corruption, per spec §7), berr.Io on a missing
// file, and berr.Crypto on an unsupported version.
func DecryptAndRetrieve(password string, path string) (*ExtendedKey, *Mnemonic, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, berr.Wrap(berr.Io, "read vault file", err)
	}

	file, err := deserializeVaultFile(raw)
	if err != nil {
		return nil, nil, err
	}

	key := deriveKey([]byte(password), file.salt, file.iterations)
	defer wipe(key)

	plaintext, err := openMnemonic(key, file.nonce, file.ciphertext)
	if err != nil {
		return nil, nil, err
	}
	defer wipe(plaintext)

	mnemonic, err := NewMnemonicFromPhrase(string(plaintext))
	if err != nil {
		return nil, nil, err
	}

	seed := mnemonic.Seed(password)
	defer seed.Clear()
	extKey, err := masterKeyFromSeed(seed.ExposeSecret())
	if err != nil {
		return nil, nil, err
	}
	return extKey, mnemonic, nil
}

// VerifyPassword attempts decryption and reports success without
// returning the mnemonic.
func VerifyPassword(password string, path string) bool {
	_, mnemonic, err := DecryptAndRetrieve(password, path)
	if err != nil {
		return false
	}
	mnemonic.Clear()
	return true
}

// KeyVersion reports the key_version recorded in the vault file at path
// without performing decryption (it is stored alongside, not inside, the
// ciphertext).
func KeyVersion(path string) (uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, berr.Wrap(berr.Io, "read vault file", err)
	}
	file, err := deserializeVaultFile(raw)
	if err != nil {
		return 0, err
	}
	return file.keyVersion, nil
}

// Rotate decrypts with oldPassword, then re-encrypts with newPassword and
// a fresh salt, incrementing key_version (a legacy v1 file promotes to
// version 2). The underlying Bitcoin key material (the mnemonic) is
// unchanged; only the wrapping credentials change. Returns the new
// key_version.
func Rotate(oldPassword, newPassword string, path string, policy IterationPolicy) (uint32, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, berr.Wrap(berr.Io, "read vault file for rotation", err)
	}
	file, err := deserializeVaultFile(raw)
	if err != nil {
		return 0, err
	}

	oldKey := deriveKey([]byte(oldPassword), file.salt, file.iterations)
	defer wipe(oldKey)
	plaintext, err := openMnemonic(oldKey, file.nonce, file.ciphertext)
	if err != nil {
		return 0, err
	}
	defer wipe(plaintext)

	mnemonic, err := NewMnemonicFromPhrase(string(plaintext))
	if err != nil {
		return 0, err
	}
	defer mnemonic.Clear()

	newKeyVersion := file.keyVersion + 1
	if err := EncryptAndStore(mnemonic, newPassword, path, newKeyVersion, policy); err != nil {
		return 0, err
	}
	log.Infof("vault: rotated key material at %s to key_version=%d", path, newKeyVersion)
	return newKeyVersion, nil
}

// atomicWriteFile writes data to a temporary sibling of path, then
// renames it into place, so a crash mid-write never leaves a truncated
// vault file on disk.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
