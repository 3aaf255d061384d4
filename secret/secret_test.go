// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package secret

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesClearWipesContents(t *testing.T) {
	b := NewBytes([]byte{1, 2, 3, 4})
	b.Clear()
	assert.Zero(t, b.Len())
	assert.Nil(t, b.ExposeSecret())
}

func TestBytesExposeSecretReturnsOriginalContents(t *testing.T) {
	b := NewBytes([]byte("top secret"))
	assert.Equal(t, []byte("top secret"), b.ExposeSecret())
	assert.Equal(t, 10, b.Len())
}

func TestBytesStringIsAlwaysTheLiteralRedacted(t *testing.T) {
	cases := []*Bytes{
		NewBytes(nil),
		NewBytes([]byte{}),
		NewBytes([]byte("x")),
		NewBytes([]byte("a very long secret value indeed")),
		(*Bytes)(nil),
	}
	for _, b := range cases {
		assert.Equal(t, "[REDACTED]", b.String())
		assert.Equal(t, "[REDACTED]", b.GoString())
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", b))
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%s", b))
	}
}

func TestBytesDebugStringRevealsLengthAndFingerprint(t *testing.T) {
	b := NewBytes([]byte("abcdefghij"))
	ds := b.DebugString()
	assert.Contains(t, ds, "len=10")
	assert.Contains(t, ds, "fp=")
}

func TestBytesDebugStringOmitsFingerprintForShortSecrets(t *testing.T) {
	b := NewBytes([]byte("ab"))
	ds := b.DebugString()
	assert.Contains(t, ds, "len=2")
	assert.NotContains(t, ds, "fp=")
}

func TestBytesEqualIsConstantTimeAndCorrect(t *testing.T) {
	a := NewBytes([]byte("same value"))
	b := NewBytes([]byte("same value"))
	c := NewBytes([]byte("different!"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(NewBytes([]byte("shorter"))))
}

func TestBytesEqualHandlesNilReceivers(t *testing.T) {
	var nilBytes *Bytes
	other := NewBytes([]byte("x"))

	assert.True(t, nilBytes.Equal(nil))
	assert.False(t, nilBytes.Equal(other))
	assert.False(t, other.Equal(nil))
}

func TestBytesMarshalJSONRefusesToSerialize(t *testing.T) {
	b := NewBytes([]byte("do not leak me"))
	_, err := b.MarshalJSON()
	require.Error(t, err)
}

func TestStringStringIsAlwaysTheLiteralRedacted(t *testing.T) {
	s := NewString("hunter2")
	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "[REDACTED]", s.GoString())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", s))

	var nilString *String
	assert.Equal(t, "[REDACTED]", nilString.String())
}

func TestStringClearWipesContents(t *testing.T) {
	s := NewString("hunter2")
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Empty(t, s.ExposeSecret())
}

func TestStringEqualIsConstantTimeAndCorrect(t *testing.T) {
	a := NewString("passphrase")
	b := NewString("passphrase")
	c := NewString("different!")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestStringMarshalJSONRefusesToSerialize(t *testing.T) {
	s := NewString("hunter2")
	_, err := s.MarshalJSON()
	require.Error(t, err)
}
