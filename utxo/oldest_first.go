// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import "sort"

// selectOldestFirst spends the UTXOs with the most confirmations first,
// shrinking the UTXO set's tail and reducing future reorg exposure, per
// spec §4.2. Ties break on amount, largest first, so the result stays
// deterministic.
func selectOldestFirst(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	sorted := append([]UTXO(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Confirmations != sorted[j].Confirmations {
			return sorted[i].Confirmations > sorted[j].Confirmations
		}
		return sorted[i].Amount > sorted[j].Amount
	})
	return accumulateUntilSufficient(sorted, target, feeRate, dustThreshold)
}
