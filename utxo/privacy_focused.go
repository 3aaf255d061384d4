// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"sort"
)

// selectPrivacyFocused avoids address reuse within a single transaction,
// per spec §4.2: a two-pass algorithm that first selects UTXOs whose
// address and derivation_path have not yet appeared in the selection,
// then backfills from the rest if the target is still unmet.
//
// Before either pass, candidates are sorted non-change-first, then by
// confirmations descending, with a once-per-call random tie-break
// between largest-first and smallest-first on amount - breaking the
// fingerprintable fixed ordering MinimizeFee/OldestFirst leave behind.
// The original design seeded that tie-break from wall-clock parity
// (flagged as a redesign candidate, spec §9); here the coin flip is
// drawn from crypto/rand instead, without changing the observable
// contract.
func selectPrivacyFocused(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	ordered := sortForPrivacy(candidates)

	var selected []UTXO
	var total int64
	usedPaths := make(map[string]bool)
	usedAddresses := make(map[string]bool)

	// First pass: only UTXOs with a not-yet-seen address/derivation_path.
	for _, u := range ordered {
		if total >= target+feeWithChange(len(selected), feeRate) {
			break
		}
		if u.DerivationPath != "" && usedPaths[u.DerivationPath] {
			continue
		}
		if u.Address != "" && usedAddresses[u.Address] {
			continue
		}
		selected = append(selected, u)
		total += u.Amount
		if u.DerivationPath != "" {
			usedPaths[u.DerivationPath] = true
		}
		if u.Address != "" {
			usedAddresses[u.Address] = true
		}
	}

	// Second pass: backfill from whatever is left, in the same order.
	if total < target+feeWithChange(len(selected), feeRate) {
		alreadySelected := make(map[Outpoint]bool, len(selected))
		for _, u := range selected {
			alreadySelected[u.Outpoint] = true
		}
		for _, u := range ordered {
			if total >= target+feeWithChange(len(selected), feeRate) {
				break
			}
			if alreadySelected[u.Outpoint] {
				continue
			}
			selected = append(selected, u)
			total += u.Amount
		}
	}

	fee := feeWithChange(len(selected), feeRate)
	if total < target+fee {
		required := target + feeNoChange(len(ordered), feeRate)
		return InsufficientFundsResult(sumAmounts(ordered), required), nil
	}

	fee, change := foldChangeIfDust(total, target, len(selected), feeRate, dustThreshold)
	return SuccessResult(selected, fee, change), nil
}

// sortForPrivacy orders candidates non-change-first, then by
// confirmations descending, then by amount - largest-first or
// smallest-first chosen once per call by a crypto/rand coin flip.
func sortForPrivacy(candidates []UTXO) []UTXO {
	ordered := append([]UTXO(nil), candidates...)
	largestFirst := randomSeed()%2 != 0
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.IsChange != b.IsChange {
			return !a.IsChange
		}
		if a.Confirmations != b.Confirmations {
			return a.Confirmations > b.Confirmations
		}
		if largestFirst {
			return a.Amount > b.Amount
		}
		return a.Amount < b.Amount
	})
	return ordered
}

// randomSeed draws a fresh int64 seed from the operating system's CSPRNG.
// Falls back to 1 (a fixed, harmless seed) if the read somehow fails,
// since a failed tie-break read must never abort a selection.
func randomSeed() int64 {
	var buf [8]byte
	if _, err := cryptorand.Read(buf[:]); err != nil {
		return 1
	}
	return int64(binary.LittleEndian.Uint64(buf[:]))
}
