// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import "sort"

// selectMinimizeFee greedily picks the largest UTXOs first, minimizing
// the input count (and therefore the fee), per spec §4.2.
func selectMinimizeFee(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	sorted := append([]UTXO(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount > sorted[j].Amount })
	return accumulateUntilSufficient(sorted, target, feeRate, dustThreshold)
}

// accumulateUntilSufficient is the shared greedy-accumulation core used by
// MinimizeFee, OldestFirst and Consolidate (and to seed MinimizeChange's
// search): walk the given ordering,
// adding UTXOs one at a time until the running total covers target plus
// the fee for the inputs selected so far (with dust-change folding).
func accumulateUntilSufficient(ordered []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	var selected []UTXO
	var total int64
	for _, u := range ordered {
		selected = append(selected, u)
		total += u.Amount
		fee, change := foldChangeIfDust(total, target, len(selected), feeRate, dustThreshold)
		if total >= target+fee {
			return SuccessResult(selected, fee, change), nil
		}
	}
	required := target + feeNoChange(len(ordered), feeRate)
	return InsufficientFundsResult(sumAmounts(ordered), required), nil
}
