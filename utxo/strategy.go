// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	"context"
	"time"

	"github.com/bitvault/core/berr"
	"github.com/bitvault/core/btcvalidate"
)

// Strategy is the closed set of coin-selection algorithms of spec §4.2,
// modeled as a tagged variant dispatched through a common Select
// signature rather than through inheritance (spec §9).
type Strategy int

const (
	MinimizeFee Strategy = iota
	MinimizeChange
	OldestFirst
	PrivacyFocused
	MaximizePrivacy
	Consolidate
	CoinControl
	AvoidChange
)

func (s Strategy) String() string {
	switch s {
	case MinimizeFee:
		return "MinimizeFee"
	case MinimizeChange:
		return "MinimizeChange"
	case OldestFirst:
		return "OldestFirst"
	case PrivacyFocused:
		return "PrivacyFocused"
	case MaximizePrivacy:
		return "MaximizePrivacy"
	case Consolidate:
		return "Consolidate"
	case CoinControl:
		return "CoinControl"
	case AvoidChange:
		return "AvoidChange"
	default:
		return "Unknown"
	}
}

// Request is the common contract every strategy takes, per spec §4.2.
type Request struct {
	Available     []UTXO
	TargetAmount  int64
	FeeRate       float64 // sat/vB
	Network       btcvalidate.Network
	Strategy      Strategy
	Publisher     Publisher // optional; nil disables event emission

	// CoinControlInputs is only consulted when Strategy == CoinControl:
	// the exact set of outpoints the user chose to spend.
	CoinControlInputs []Outpoint

	// MinimizeChangeTimeout bounds MinimizeChange's combinatorial search
	// (default 100ms, per spec §4.2).
	MinimizeChangeTimeout time.Duration
}

// Select dispatches to the chosen strategy, applying the shared frozen-
// UTXO exclusion and emitting the lifecycle events of spec §4.2.
func Select(ctx context.Context, req Request) (SelectionResult, error) {
	candidates := excludeFrozen(req.Available)
	dustThreshold := btcvalidate.ParamsForNetwork(req.Network).DustThreshold

	emitSelectionStarted(req.Publisher, req.Strategy, req.TargetAmount, len(candidates))

	var result SelectionResult
	var err error

	switch req.Strategy {
	case MinimizeFee:
		result, err = selectMinimizeFee(candidates, req.TargetAmount, req.FeeRate, dustThreshold)
	case MinimizeChange:
		timeout := req.MinimizeChangeTimeout
		if timeout <= 0 {
			timeout = defaultMinimizeChangeTimeout
		}
		result, err = selectMinimizeChange(ctx, candidates, req.TargetAmount, req.FeeRate, dustThreshold, timeout)
	case OldestFirst:
		result, err = selectOldestFirst(candidates, req.TargetAmount, req.FeeRate, dustThreshold)
	case PrivacyFocused:
		result, err = selectPrivacyFocused(candidates, req.TargetAmount, req.FeeRate, dustThreshold)
	case MaximizePrivacy:
		result, err = selectMaximizePrivacy(candidates, req.TargetAmount, req.FeeRate, dustThreshold)
	case Consolidate:
		result, err = selectConsolidate(candidates, req.TargetAmount, req.FeeRate, dustThreshold)
	case CoinControl:
		result, err = selectCoinControl(candidates, req.CoinControlInputs, req.TargetAmount, req.FeeRate, dustThreshold)
	case AvoidChange:
		result, err = selectAvoidChange(candidates, req.TargetAmount, req.FeeRate, dustThreshold)
	default:
		return SelectionResult{}, berr.Validationf("utxo_strategy", "unknown selection strategy %d", req.Strategy)
	}

	if err != nil {
		return SelectionResult{}, err
	}

	if result.Success {
		emitSelectionCompleted(req.Publisher, req.Strategy, result)
	} else {
		emitSelectionFailed(req.Publisher, result.AvailableAmount, result.RequiredAmount)
	}
	return result, nil
}

func excludeFrozen(utxos []UTXO) []UTXO {
	out := make([]UTXO, 0, len(utxos))
	for _, u := range utxos {
		if !u.IsFrozen {
			out = append(out, u)
		}
	}
	return out
}

// foldChangeIfDust applies spec §4.2's rule: if change would fall below
// dustThreshold, it is folded into the fee and the output count drops to
// one. It returns the (possibly recomputed) fee and change for a
// selection of the given input count whose total is `total`.
func foldChangeIfDust(total, target int64, inputs int, feeRate float64, dustThreshold int64) (fee, change int64) {
	fee = feeWithChange(inputs, feeRate)
	change = total - target - fee
	if change < dustThreshold && total-target >= feeNoChange(inputs, feeRate) {
		return total - target, 0
	}
	return fee, change
}
