// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestSerializeV1DeserializeRoundTrip(t *testing.T) {
	salt := make([]byte, 16)
	nonce := make([]byte, 12)
	for i := range salt {
		salt[i] = byte(i)
	}
	for i := range nonce {
		nonce[i] = byte(i + 1)
	}
	ciphertext := []byte("ciphertext-and-tag-placeholder-16")

	data := serializeV1(salt, nonce, ciphertext)
	file, err := deserializeVaultFile(data)
	if err != nil {
		t.Fatalf("deserializeVaultFile: %v", err)
	}

	if string(file.salt) != string(salt) {
		t.Fatalf("salt mismatch - got %v, want %v", spew.Sdump(file.salt), spew.Sdump(salt))
	}
	if string(file.nonce) != string(nonce) {
		t.Fatalf("nonce mismatch - got %v, want %v", spew.Sdump(file.nonce), spew.Sdump(nonce))
	}
	if string(file.ciphertext) != string(ciphertext) {
		t.Fatalf("ciphertext mismatch - got %v, want %v", spew.Sdump(file.ciphertext), spew.Sdump(ciphertext))
	}
}

func TestSerializeV2DeserializeRoundTrip(t *testing.T) {
	salt := make([]byte, 16)
	nonce := make([]byte, 12)
	for i := range salt {
		salt[i] = byte(32 - i)
	}
	for i := range nonce {
		nonce[i] = byte(64 - i)
	}
	ciphertext := []byte("another-ciphertext-and-tag-16bt")

	data := serializeV2(7, 250_000, salt, nonce, ciphertext)
	file, err := deserializeVaultFile(data)
	if err != nil {
		t.Fatalf("deserializeVaultFile: %v", err)
	}

	if file.keyVersion != 7 || file.iterations != 250_000 {
		t.Fatalf("header mismatch - got %v", spew.Sdump(file))
	}
	if string(file.salt) != string(salt) || string(file.nonce) != string(nonce) {
		t.Fatalf("salt/nonce mismatch - got %v, want salt=%v nonce=%v",
			spew.Sdump(file), spew.Sdump(salt), spew.Sdump(nonce))
	}
	if string(file.ciphertext) != string(ciphertext) {
		t.Fatalf("ciphertext mismatch - got %v, want %v", spew.Sdump(file.ciphertext), spew.Sdump(ciphertext))
	}
}
