// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import "github.com/bitvault/core/berr"

// selectCoinControl spends exactly the outpoints the user chose, per
// spec §4.2. It is the only strategy whose result is fully determined
// by its input rather than search or heuristic, which is what makes it
// suitable for exercises like avoiding a specific UTXO's history or
// deliberately merging two named coins.
func selectCoinControl(candidates []UTXO, wanted []Outpoint, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	if len(wanted) == 0 {
		return SelectionResult{}, berr.Validationf("coin_control_empty", "coin control selection requires at least one outpoint")
	}

	byOutpoint := make(map[Outpoint]UTXO, len(candidates))
	for _, u := range candidates {
		byOutpoint[u.Outpoint] = u
	}

	selected := make([]UTXO, 0, len(wanted))
	for _, o := range wanted {
		u, ok := byOutpoint[o]
		if !ok {
			return SelectionResult{}, berr.Validationf("coin_control_unavailable", "outpoint %s:%d is not a spendable UTXO", o.Txid, o.Vout)
		}
		selected = append(selected, u)
	}

	total := sumAmounts(selected)
	fee, change := foldChangeIfDust(total, target, len(selected), feeRate, dustThreshold)
	if total < target+fee {
		return InsufficientFundsResult(total, target+fee), nil
	}
	return SuccessResult(selected, fee, change), nil
}
