// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import "sort"

// selectConsolidate sorts candidates by amount ascending and takes them
// until the target is covered, per spec §4.2. Preferring the smallest
// UTXOs first is what gives consolidation its purpose: the dust and
// near-dust outputs that would otherwise sit in the wallet forever are
// the first ones drawn in, shrinking the UTXO set, while a single large
// UTXO that already covers the payment alone is left untouched.
func selectConsolidate(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	sorted := append([]UTXO(nil), candidates...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Amount < sorted[j].Amount })
	return accumulateUntilSufficient(sorted, target, feeRate, dustThreshold)
}
