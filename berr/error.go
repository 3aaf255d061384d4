// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package berr implements BitVault's tagged-union error kinds and
// sanitized user-facing messages.
package berr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for routing and for producing a sanitized
// user-facing message. The set is closed.
type Kind uint8

const (
	// Unexpected is the catch-all for anything not otherwise categorized.
	Unexpected Kind = iota
	// Wallet covers higher-level wallet operation failures.
	Wallet
	// Crypto covers key derivation, encryption, and decryption failures.
	Crypto
	// Security covers boundary violations and policy failures.
	Security
	// Io covers filesystem errors.
	Io
	// Serialization covers format parse/emit failures.
	Serialization
	// Validation covers input that fails a declared rule.
	Validation
	// Network covers fee-provider or other remote data errors.
	Network
	// Config covers configuration save/load/validate errors.
	Config
	// ExternalApi covers an upstream service rejecting a request.
	ExternalApi
)

func (k Kind) String() string {
	switch k {
	case Wallet:
		return "wallet"
	case Crypto:
		return "crypto"
	case Security:
		return "security"
	case Io:
		return "io"
	case Serialization:
		return "serialization"
	case Validation:
		return "validation"
	case Network:
		return "network"
	case Config:
		return "config"
	case ExternalApi:
		return "external_api"
	default:
		return "unexpected"
	}
}

// Error is BitVault's error type. It carries a Kind for routing, an Op
// describing the operation that failed, an optional wrapped cause, and
// (for Validation errors) the name of the rule that was violated.
type Error struct {
	Kind  Kind
	Op    string
	Rule  string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Op)
}

// Unwrap exposes the wrapped cause so errors.Is/errors.As compose normally.
func (e *Error) Unwrap() error {
	return e.cause
}

// UserMessage produces the sanitized, secret-free message a caller may
// surface directly to a user. It never includes the underlying key,
// password, plaintext, or cryptographic detail.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case Crypto, Security:
		return "A security error occurred"
	case Io:
		return fmt.Sprintf("File operation error: %s", e.Op)
	case Serialization:
		return fmt.Sprintf("Data format error: %s", e.Op)
	case Validation:
		if e.Rule != "" {
			return fmt.Sprintf("Validation error: %s", e.Rule)
		}
		return fmt.Sprintf("Validation error: %s", e.Op)
	case Network:
		return fmt.Sprintf("Network error: %s", e.Op)
	case Config:
		return fmt.Sprintf("Configuration error: %s", e.Op)
	case ExternalApi:
		return fmt.Sprintf("External service error: %s", e.Op)
	case Wallet:
		return e.Op
	default:
		return fmt.Sprintf("Unexpected error: %s", e.Op)
	}
}

// New creates an Error of the given Kind with no wrapped cause.
func New(kind Kind, op string) *Error {
	return &Error{Kind: kind, Op: op}
}

// Wrap creates an Error of the given Kind around cause, adding op as
// propagation context. If cause is nil, Wrap returns nil.
func Wrap(kind Kind, op string, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, cause: cause}
}

// Validationf builds a Validation error naming the violated rule.
func Validationf(rule, format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Op: fmt.Sprintf(format, args...), Rule: rule}
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		var be *Error
		if !errors.As(err, &be) {
			return false
		}
		if be.Kind == kind {
			return true
		}
		err = be.cause
	}
	return false
}
