// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package secret implements sensitive byte containers whose contents are
// guaranteed to be overwritten with zero before the underlying memory may
// be reused, on every exit path (drop, reassignment, explicit clear).
package secret

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"runtime"
)

// redactedFingerprintMinLen is the minimum byte length at which Bytes
// exposes a redacted fingerprint (first 2, last 2 bytes) instead of
// nothing at all.
const redactedFingerprintMinLen = 6

// wipe overwrites b with zero byte-by-byte. The runtime.KeepAlive call
// after the loop keeps b reachable until the writes have happened, so
// they are not treated as stores to memory that is already dead.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Bytes is a byte-vector sensitive container. The zero value is an
// already-cleared, empty secret.
type Bytes struct {
	data []byte
}

// NewBytes takes ownership of b (the caller must not retain its own
// reference) and returns a Bytes wrapping it. The returned value is
// registered with a finalizer so that even an abandoned reference (never
// explicitly Clear'd) is wiped before its memory is reclaimed.
func NewBytes(b []byte) *Bytes {
	s := &Bytes{data: b}
	runtime.SetFinalizer(s, (*Bytes).Clear)
	return s
}

// Len returns the number of bytes held.
func (s *Bytes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data)
}

// ExposeSecret is the sole accessor that yields the plaintext bytes. The
// returned slice aliases internal storage; callers must not retain it
// beyond the container's lifetime.
func (s *Bytes) ExposeSecret() []byte {
	if s == nil {
		return nil
	}
	return s.data
}

// Clear overwrites the contents with zero and releases the backing array.
// Safe to call multiple times and on a nil receiver.
func (s *Bytes) Clear() {
	if s == nil {
		return
	}
	wipe(s.data)
	s.data = nil
}

// Equal compares contents in constant time.
func (s *Bytes) Equal(other *Bytes) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	if len(s.data) != len(other.data) {
		return false
	}
	return subtle.ConstantTimeCompare(s.data, other.data) == 1
}

// fingerprint renders the redacted hex fingerprint used by DebugString:
// first 2 and last 2 bytes, hex-encoded, for lengths >= 6.
func fingerprint(b []byte) string {
	if len(b) < redactedFingerprintMinLen {
		return ""
	}
	return fmt.Sprintf("%s..%s", hex.EncodeToString(b[:2]), hex.EncodeToString(b[len(b)-2:]))
}

// String never reveals contents, length, or anything else derived from
// them; every Bytes prints identically regardless of what it holds.
func (s *Bytes) String() string {
	return "[REDACTED]"
}

// GoString matches String; it must never reveal contents via %#v either.
func (s *Bytes) GoString() string {
	return s.String()
}

// DebugString is a diagnostic-only rendering that, unlike String, leaks
// length and (for lengths >= 6) a redacted fingerprint of the first and
// last two bytes. Intended for debug logging, never for user-facing
// output or anything that ends up in persisted state.
func (s *Bytes) DebugString() string {
	if s == nil || len(s.data) == 0 {
		return "[REDACTED len=0]"
	}
	if fp := fingerprint(s.data); fp != "" {
		return fmt.Sprintf("[REDACTED len=%d fp=%s]", len(s.data), fp)
	}
	return fmt.Sprintf("[REDACTED len=%d]", len(s.data))
}

// MarshalJSON deliberately refuses to serialize contents: sensitive bytes
// must be exposed only through ExposeSecret, never through serialization.
func (s *Bytes) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("secret.Bytes: refusing to marshal sensitive content; use ExposeSecret")
}

// String is a string-backed sensitive container with the same exit-path
// zeroization guarantee as Bytes.
type String struct {
	inner Bytes
}

// NewString wraps s as a sensitive container. Like NewBytes, it is
// registered with a finalizer as a backstop against a missed Clear.
func NewString(s string) *String {
	str := &String{inner: Bytes{data: []byte(s)}}
	runtime.SetFinalizer(str, (*String).Clear)
	return str
}

// Len returns the number of bytes held.
func (s *String) Len() int {
	if s == nil {
		return 0
	}
	return s.inner.Len()
}

// ExposeSecret returns the plaintext string.
func (s *String) ExposeSecret() string {
	if s == nil {
		return ""
	}
	return string(s.inner.data)
}

// Clear overwrites the contents with zero.
func (s *String) Clear() {
	if s == nil {
		return
	}
	s.inner.Clear()
}

// Equal compares contents in constant time.
func (s *String) Equal(other *String) bool {
	if s == nil || other == nil {
		return s == nil && other == nil
	}
	return s.inner.Equal(&other.inner)
}

func (s *String) String() string {
	return "[REDACTED]"
}

func (s *String) GoString() string {
	return s.String()
}

// DebugString mirrors Bytes.DebugString: diagnostic-only, leaks length
// and a redacted fingerprint, never for user-facing output.
func (s *String) DebugString() string {
	if s == nil {
		return "[REDACTED len=0]"
	}
	return s.inner.DebugString()
}

// MarshalJSON deliberately refuses to serialize contents.
func (s *String) MarshalJSON() ([]byte, error) {
	return nil, fmt.Errorf("secret.String: refusing to marshal sensitive content; use ExposeSecret")
}
