// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	"context"
	"sort"
	"time"
)

// defaultMinimizeChangeTimeout bounds the combinatorial search, per
// spec §4.2.
const defaultMinimizeChangeTimeout = 100 * time.Millisecond

// selectMinimizeChange searches combinations of candidates for the one
// leaving the smallest non-dust change (ideally zero), within a time
// budget. Larger wallets make exhaustive search impractical, so the
// search explores combinations depth-first from the largest amounts
// down and bails out at the deadline, returning the best candidate
// found so far; a plain greedy accumulation seeds that "best so far" so
// the strategy always returns a valid result even if the deadline
// arrives before the search improves on it.
func selectMinimizeChange(ctx context.Context, candidates []UTXO, target int64, feeRate float64, dustThreshold int64, timeout time.Duration) (SelectionResult, error) {
	if len(candidates) == 0 {
		return InsufficientFundsResult(0, target), nil
	}

	sorted := append([]UTXO(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	best, _ := accumulateUntilSufficient(sorted, target, feeRate, dustThreshold)
	if !best.Success {
		return best, nil
	}
	bestChange := best.Change

	deadline := time.Now().Add(timeout)
	var current []UTXO
	search(sorted, 0, current, 0, target, feeRate, dustThreshold, deadline, ctx, &best, &bestChange)

	return best, nil
}

func search(
	pool []UTXO,
	idx int,
	current []UTXO,
	total int64,
	target int64,
	feeRate float64,
	dustThreshold int64,
	deadline time.Time,
	ctx context.Context,
	best *SelectionResult,
	bestChange *int64,
) {
	if *bestChange == 0 {
		return
	}
	if idx >= len(pool) || time.Now().After(deadline) {
		return
	}
	select {
	case <-ctx.Done():
		return
	default:
	}

	fee := feeWithChange(len(current)+1, feeRate)
	if total+pool[idx].Amount >= target+fee {
		candidate := append(append([]UTXO(nil), current...), pool[idx])
		candTotal := total + pool[idx].Amount
		candFee, candChange := foldChangeIfDust(candTotal, target, len(candidate), feeRate, dustThreshold)
		if candTotal >= target+candFee && candChange < *bestChange {
			*best = SuccessResult(candidate, candFee, candChange)
			*bestChange = candChange
		}
	}

	// Branch: include pool[idx], then exclude it, exploring largest-
	// amount-first so a small budget still sees the most promising
	// combinations before the deadline.
	search(pool, idx+1, append(current, pool[idx]), total+pool[idx].Amount, target, feeRate, dustThreshold, deadline, ctx, best, bestChange)
	search(pool, idx+1, current, total, target, feeRate, dustThreshold, deadline, ctx, best, bestChange)
}
