// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package vault

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitvault/core/berr"
)

func testPolicy(t *testing.T) IterationPolicy {
	t.Helper()
	p, err := WithIterations(MinPBKDF2Iterations)
	require.NoError(t, err)
	return p
}

func TestGenerateProducesTwelveWords(t *testing.T) {
	mnemonic, key, err := Generate("correct horse")
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, 12, wordCount(mnemonic.Phrase()))
	assert.True(t, key.IsPrivate())
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.dat")

	mnemonic, _, err := Generate("correct horse")
	require.NoError(t, err)

	require.NoError(t, EncryptAndStore(mnemonic, "correct horse", path, 1, testPolicy(t)))

	_, decrypted, err := DecryptAndRetrieve("correct horse", path)
	require.NoError(t, err)
	assert.True(t, mnemonic.Equal(decrypted))

	_, _, err = DecryptAndRetrieve("wrong", path)
	require.Error(t, err)
	assert.True(t, berr.Is(err, berr.Crypto))
}

func TestVerifyPassword(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.dat")

	mnemonic, _, err := Generate("swordfish")
	require.NoError(t, err)
	require.NoError(t, EncryptAndStore(mnemonic, "swordfish", path, 1, testPolicy(t)))

	assert.True(t, VerifyPassword("swordfish", path))
	assert.False(t, VerifyPassword("nope", path))
}

func TestRotatePromotesKeyVersionAndSwapsPassword(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.dat")

	mnemonic, _, err := Generate("p1-password")
	require.NoError(t, err)
	require.NoError(t, EncryptAndStore(mnemonic, "p1-password", path, 1, testPolicy(t)))

	newVersion, err := Rotate("p1-password", "p2-password", path, testPolicy(t))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), newVersion)

	gotVersion, err := KeyVersion(path)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), gotVersion)

	assert.True(t, VerifyPassword("p2-password", path))
	assert.False(t, VerifyPassword("p1-password", path))
}

func TestRotateFromLegacyV1PromotesToV2(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wallet.dat")

	mnemonic, err := NewMnemonicFromPhrase(fixedTwelveWordMnemonic(t))
	require.NoError(t, err)

	salt, err := generateSalt()
	require.NoError(t, err)
	nonce, err := generateNonce()
	require.NoError(t, err)
	key := deriveKey([]byte("old-pw"), salt, DefaultPBKDF2Iterations)
	ciphertext, err := sealMnemonic(key, nonce, []byte(mnemonic.Phrase()))
	require.NoError(t, err)
	require.NoError(t, writeFileForTest(path, serializeV1(salt, nonce, ciphertext)))

	newVersion, err := Rotate("old-pw", "new-pw", path, testPolicy(t))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), newVersion)
	assert.True(t, VerifyPassword("new-pw", path))
}

func TestSaltQuality(t *testing.T) {
	salt, err := generateSalt()
	require.NoError(t, err)
	assert.Len(t, salt, 16)
	assert.GreaterOrEqual(t, byteEntropy(salt), saltQualityMinBitsPerByte)

	allZero := make([]byte, 16)
	assert.Error(t, checkSaltQuality(allZero))
}

func TestMinimumIterationFloor(t *testing.T) {
	_, err := WithIterations(99_999)
	require.Error(t, err)

	p, err := WithIterations(100_000)
	require.NoError(t, err)
	assert.Equal(t, uint32(100_000), p.resolve())
}

func TestSignAndVerifySignatureProvesKeyControl(t *testing.T) {
	_, key, err := Generate("correct horse")
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("prove you control this key"))
	sig, err := key.Sign(hash)
	require.NoError(t, err)

	ok, err := key.VerifySignature(hash, sig)
	require.NoError(t, err)
	assert.True(t, ok)

	other := sha256.Sum256([]byte("a different challenge"))
	ok, err = key.VerifySignature(other, sig)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignRejectsNeuteredKey(t *testing.T) {
	_, key, err := Generate("correct horse")
	require.NoError(t, err)

	pub, err := key.Neuter()
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("challenge"))
	_, err = pub.Sign(hash)
	require.Error(t, err)
}

func fixedTwelveWordMnemonic(t *testing.T) string {
	t.Helper()
	m, err := GenerateMnemonic()
	require.NoError(t, err)
	return m.Phrase()
}

func writeFileForTest(path string, data []byte) error {
	return atomicWriteFile(path, data)
}
