// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"encoding/binary"

	"github.com/bitvault/core/berr"
)

// File format versions, per spec §6.
const (
	fileVersion1 = 1 // legacy: fixed-iteration, no key_version field
	fileVersion2 = 2 // rotation-capable: explicit key_version + iteration count
)

const (
	v1HeaderLen = 1 + 16 + 12  // version + salt + nonce
	v2HeaderLen = 1 + 4 + 4 + 23 + 16 + 12 // version + key_version + iterations + reserved + salt + nonce
	v2ReservedLen = 23
	gcmTagLen = 16
)

// encryptedVaultFile is the decoded form of either on-disk version.
type encryptedVaultFile struct {
	version    uint8
	keyVersion uint32
	iterations uint32
	salt       []byte
	nonce      []byte
	ciphertext []byte // includes the trailing GCM tag
}

// serializeV1 renders the legacy layout of spec §6:
//
//	offset 0       : u8  version = 1
//	offset 1..=16  : 16 bytes salt
//	offset 17..=28 : 12 bytes nonce
//	offset 29..    : ciphertext || tag
func serializeV1(salt, nonce, ciphertext []byte) []byte {
	data := make([]byte, 0, v1HeaderLen+len(ciphertext))
	data = append(data, fileVersion1)
	data = append(data, salt...)
	data = append(data, nonce...)
	data = append(data, ciphertext...)
	return data
}

// serializeV2 renders the rotation-capable layout of spec §6:
//
//	offset 0       : u8  version = 2
//	offset 1..=4   : u32 key_version, little-endian
//	offset 5..=8   : u32 pbkdf2_iterations, little-endian
//	offset 9..=31  : reserved, zero
//	offset 32..=47 : 16 bytes salt
//	offset 48..=59 : 12 bytes nonce
//	offset 60..    : ciphertext || tag
func serializeV2(keyVersion, iterations uint32, salt, nonce, ciphertext []byte) []byte {
	data := make([]byte, 0, v2HeaderLen+len(ciphertext))
	data = append(data, fileVersion2)

	keyVersionBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(keyVersionBytes, keyVersion)
	data = append(data, keyVersionBytes...)

	iterationsBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(iterationsBytes, iterations)
	data = append(data, iterationsBytes...)

	data = append(data, make([]byte, v2ReservedLen)...)
	data = append(data, salt...)
	data = append(data, nonce...)
	data = append(data, ciphertext...)
	return data
}

// deserializeVaultFile parses either version, per spec §6. Readers accept
// either version; writers emit v2 except where v1 must be preserved by
// policy (Rotate always promotes to v2 or higher).
func deserializeVaultFile(data []byte) (*encryptedVaultFile, error) {
	if len(data) < 1 {
		return nil, berr.New(berr.Crypto, "vault file empty")
	}
	switch data[0] {
	case fileVersion1:
		if len(data) < v1HeaderLen+gcmTagLen {
			return nil, berr.New(berr.Crypto, "vault file v1 truncated")
		}
		return &encryptedVaultFile{
			version:    fileVersion1,
			keyVersion: 1,
			iterations: DefaultPBKDF2Iterations,
			salt:       data[1:17],
			nonce:      data[17:29],
			ciphertext: data[29:],
		}, nil

	case fileVersion2:
		if len(data) < v2HeaderLen+gcmTagLen {
			return nil, berr.New(berr.Crypto, "vault file v2 truncated")
		}
		keyVersion := binary.LittleEndian.Uint32(data[1:5])
		iterations := binary.LittleEndian.Uint32(data[5:9])
		salt := data[32:48]
		nonce := data[48:60]
		return &encryptedVaultFile{
			version:    fileVersion2,
			keyVersion: keyVersion,
			iterations: iterations,
			salt:       salt,
			nonce:      nonce,
			ciphertext: data[60:],
		}, nil

	default:
		return nil, berr.New(berr.Crypto, "vault file version unsupported")
	}
}
