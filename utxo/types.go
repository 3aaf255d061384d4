// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package utxo implements BitVault's multi-strategy UTXO selection
// engine: fee estimation from transaction shape, dust-awareness, and
// optimal-subset search, per spec §4.2.
package utxo

import (
	"sync"

	"github.com/bitvault/core/berr"
	"github.com/bitvault/core/btcvalidate"
)

// Outpoint identifies a UTXO: a transaction id and output index. Identity
// of a UTXO is its outpoint, per spec §3.
type Outpoint struct {
	Txid string
	Vout uint32
}

// UTXO is an unspent transaction output tracked by a wallet, per spec §3.
type UTXO struct {
	Outpoint        Outpoint
	Amount          int64 // satoshis; invariant: > 0
	Confirmations   int64 // invariant: >= 0
	IsChange        bool
	IsFrozen        bool
	Address         string
	DerivationPath  string
	Label           string
	Network         btcvalidate.Network
}

// Validate enforces the UTXO invariants of spec §3.
func (u UTXO) Validate() error {
	if u.Amount <= 0 {
		return berr.Validationf("utxo_amount", "utxo %s:%d amount must be positive, got %d", u.Outpoint.Txid, u.Outpoint.Vout, u.Amount)
	}
	if u.Confirmations < 0 {
		return berr.Validationf("utxo_confirmations", "utxo %s:%d confirmations must be >= 0, got %d", u.Outpoint.Txid, u.Outpoint.Vout, u.Confirmations)
	}
	return nil
}

// Set is an outpoint-keyed collection of UTXOs for a single network,
// guarded by a single reader-writer lock (spec §5). No two entries may
// share an outpoint (spec §3). This is the sole UTXO-set representation
// BitVault carries — spec §9 flags that the source this design is drawn
// from had two overlapping UtxoSet types with different constructors;
// this reimplementation keeps one and rejects the other.
type Set struct {
	mu      sync.RWMutex
	network btcvalidate.Network
	byOutpoint map[Outpoint]UTXO
}

// NewSet constructs an empty Set for the given network.
func NewSet(network btcvalidate.Network) *Set {
	return &Set{network: network, byOutpoint: make(map[Outpoint]UTXO)}
}

// Network returns the network this set belongs to.
func (s *Set) Network() btcvalidate.Network {
	return s.network
}

// Insert adds a newly observed UTXO. Returns a Validation error if u is
// malformed or duplicates an existing outpoint.
func (s *Set) Insert(u UTXO) error {
	if err := u.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byOutpoint[u.Outpoint]; exists {
		return berr.Validationf("utxo_duplicate_outpoint", "outpoint %s:%d already present", u.Outpoint.Txid, u.Outpoint.Vout)
	}
	s.byOutpoint[u.Outpoint] = u
	return nil
}

// Remove deletes a UTXO once spent.
func (s *Set) Remove(o Outpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byOutpoint, o)
}

// SetFrozen toggles the freeze flag on an existing UTXO.
func (s *Set) SetFrozen(o Outpoint, frozen bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byOutpoint[o]
	if !ok {
		return berr.Validationf("utxo_not_found", "outpoint %s:%d not in set", o.Txid, o.Vout)
	}
	u.IsFrozen = frozen
	s.byOutpoint[o] = u
	return nil
}

// UpdateConfirmations mutates the confirmation count of an existing UTXO.
func (s *Set) UpdateConfirmations(o Outpoint, confirmations int64) error {
	if confirmations < 0 {
		return berr.Validationf("utxo_confirmations", "confirmations must be >= 0, got %d", confirmations)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byOutpoint[o]
	if !ok {
		return berr.Validationf("utxo_not_found", "outpoint %s:%d not in set", o.Txid, o.Vout)
	}
	u.Confirmations = confirmations
	s.byOutpoint[o] = u
	return nil
}

// Spendable returns a snapshot of all non-frozen UTXOs in the set.
func (s *Set) Spendable() []UTXO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UTXO, 0, len(s.byOutpoint))
	for _, u := range s.byOutpoint {
		if !u.IsFrozen {
			out = append(out, u)
		}
	}
	return out
}

// All returns a snapshot of every UTXO in the set, including frozen ones.
func (s *Set) All() []UTXO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]UTXO, 0, len(s.byOutpoint))
	for _, u := range s.byOutpoint {
		out = append(out, u)
	}
	return out
}

// Len reports the number of UTXOs currently tracked.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byOutpoint)
}

// SelectionResult is the outcome of a selection attempt, per spec §3.
type SelectionResult struct {
	Success           bool
	Selected          []UTXO
	Fee               int64
	Change            int64
	AvailableAmount   int64 // only meaningful when !Success
	RequiredAmount    int64 // only meaningful when !Success
}

// InsufficientFundsResult builds a failed SelectionResult.
func InsufficientFundsResult(available, required int64) SelectionResult {
	return SelectionResult{Success: false, AvailableAmount: available, RequiredAmount: required}
}

// SuccessResult builds a successful SelectionResult, per the invariant
// sum(selected) == target + fee + change (spec §3); callers construct
// it only after that arithmetic has been checked.
func SuccessResult(selected []UTXO, fee, change int64) SelectionResult {
	return SelectionResult{Success: true, Selected: selected, Fee: fee, Change: change}
}

func sumAmounts(utxos []UTXO) int64 {
	var total int64
	for _, u := range utxos {
		total += u.Amount
	}
	return total
}
