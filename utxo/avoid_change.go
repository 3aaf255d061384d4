// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import "sort"

// avoidChangeExhaustiveLimit bounds the subset-sum search: above this
// many candidates, 2^n bitmask enumeration stops being practical and a
// greedy heuristic takes over, per spec §4.2.
const avoidChangeExhaustiveLimit = 20

// avoidChangeSingleUTXOOvershootLimit is the maximum fraction by which a
// single UTXO may overshoot target+fee(1,1) and still have its surplus
// absorbed into the fee outright, per spec §4.2 step (a).
const avoidChangeSingleUTXOOvershootLimit = 0.05

// selectAvoidChange looks for a no-change spend of candidates. It first
// checks whether a single UTXO alone overshoots target+fee(1,1) by no
// more than 5%, in which case the excess is simply absorbed into the
// fee. Failing that, it searches for a subset whose total lands within
// dustThreshold above target+fee: exhaustive for up to
// avoidChangeExhaustiveLimit candidates, a greedy heuristic above that. A
// surplus at or above dustThreshold is real value, not noise, so it is
// never discarded as fee — such a subset is rejected. If nothing
// qualifies, it falls back to PrivacyFocused (which will produce a
// normal change output) rather than failing outright, per spec §4.2.
func selectAvoidChange(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	if result, ok := singleUTXOOvershootSearch(candidates, target, feeRate); ok {
		return result, nil
	}
	if len(candidates) <= avoidChangeExhaustiveLimit {
		if result, ok := exhaustiveNoChangeSearch(candidates, target, feeRate, dustThreshold); ok {
			return result, nil
		}
	} else if result, ok := greedyNoChangeSearch(candidates, target, feeRate, dustThreshold); ok {
		return result, nil
	}
	return selectPrivacyFocused(candidates, target, feeRate, dustThreshold)
}

// singleUTXOOvershootSearch implements spec §4.2 step (a): among
// candidates whose amount alone covers target+fee(1,1), pick the
// smallest one that overshoots that baseline by no more than 5% and
// spend it alone, folding the whole excess into the fee.
func singleUTXOOvershootSearch(candidates []UTXO, target int64, feeRate float64) (SelectionResult, bool) {
	fee1 := feeNoChange(1, feeRate)
	baseline := target + fee1
	if baseline <= 0 {
		return SelectionResult{}, false
	}

	var best *UTXO
	for i, u := range candidates {
		if u.Amount < baseline {
			continue
		}
		overshoot := float64(u.Amount-baseline) / float64(baseline)
		if overshoot > avoidChangeSingleUTXOOvershootLimit {
			continue
		}
		if best == nil || u.Amount < best.Amount {
			best = &candidates[i]
		}
	}
	if best == nil {
		return SelectionResult{}, false
	}

	fee := best.Amount - target
	return SuccessResult([]UTXO{*best}, fee, 0), true
}

func exhaustiveNoChangeSearch(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, bool) {
	n := len(candidates)
	var best []UTXO
	bestSurplus := int64(-1)

	for mask := 1; mask < (1 << uint(n)); mask++ {
		var subset []UTXO
		var total int64
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				subset = append(subset, candidates[i])
				total += candidates[i].Amount
			}
		}
		fee := feeNoChange(len(subset), feeRate)
		if total < target+fee {
			continue
		}
		surplus := total - target - fee
		if surplus >= dustThreshold {
			continue // real change, not noise worth folding into fee
		}
		if bestSurplus == -1 || surplus < bestSurplus {
			best = subset
			bestSurplus = surplus
		}
	}

	if best == nil {
		return SelectionResult{}, false
	}
	fee := sumAmounts(best) - target
	return SuccessResult(best, fee, 0), true
}

func greedyNoChangeSearch(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, bool) {
	sorted := append([]UTXO(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })

	var selected []UTXO
	var total int64
	for _, u := range sorted {
		selected = append(selected, u)
		total += u.Amount
		fee := feeNoChange(len(selected), feeRate)
		if total >= target+fee && total-target-fee < dustThreshold {
			return SuccessResult(selected, total-target, 0), true
		}
	}
	return SelectionResult{}, false
}
