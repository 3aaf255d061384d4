// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import "sort"

// maximizePrivacyBucketBounds are the five fixed amount-range bucket
// upper bounds of spec §4.2 item 5 (sats): <=1k, 1k-10k, 10k-100k,
// 100k-1M, and a final open-ended >1M bucket.
var maximizePrivacyBucketBounds = [4]int64{1_000, 10_000, 100_000, 1_000_000}

// maximizePrivacyBucket returns which of the five fixed buckets amount
// falls into.
func maximizePrivacyBucket(amount int64) int {
	for i, bound := range maximizePrivacyBucketBounds {
		if amount <= bound {
			return i
		}
	}
	return len(maximizePrivacyBucketBounds)
}

// maximizePrivacyTargetInputCount chooses the input-count goal of spec
// §4.2 item 5: 2 below 100k sats, 3 from 100k up to 1M, 4 at or above 1M.
func maximizePrivacyTargetInputCount(target int64) int {
	switch {
	case target >= 1_000_000:
		return 4
	case target >= 100_000:
		return 3
	default:
		return 2
	}
}

// selectMaximizePrivacy buckets candidates into the five fixed amount
// ranges of spec §4.2, draws across buckets up to a target input count
// chosen from the payment size, preferring UTXOs whose address hasn't
// been used yet and the oldest (most-confirmed) within each bucket, then
// backfills further draws if the diversified set doesn't cover the
// target plus fee.
func selectMaximizePrivacy(candidates []UTXO, target int64, feeRate float64, dustThreshold int64) (SelectionResult, error) {
	targetInputs := maximizePrivacyTargetInputCount(target)

	buckets := make([][]UTXO, len(maximizePrivacyBucketBounds)+1)
	for _, u := range candidates {
		idx := maximizePrivacyBucket(u.Amount)
		buckets[idx] = append(buckets[idx], u)
	}
	for i := range buckets {
		sort.Slice(buckets[i], func(a, b int) bool {
			return buckets[i][a].Confirmations > buckets[i][b].Confirmations
		})
	}

	var selected []UTXO
	var total int64
	usedAddresses := make(map[string]bool)
	taken := make(map[Outpoint]bool)
	cursors := make([]int, len(buckets))
	nextBucket := 0

	// take visits the buckets round-robin, starting with the bucket after
	// the one last drawn from, and returns the first not-yet-taken
	// candidate; when preferUnused is set it skips candidates whose
	// address has already been used in this selection.
	take := func(preferUnused bool) bool {
		for off := range buckets {
			b := (nextBucket + off) % len(buckets)
			bucket := buckets[b]
			for i := cursors[b]; i < len(bucket); i++ {
				u := bucket[i]
				if taken[u.Outpoint] {
					continue
				}
				if preferUnused && u.Address != "" && usedAddresses[u.Address] {
					continue
				}
				selected = append(selected, u)
				total += u.Amount
				taken[u.Outpoint] = true
				if u.Address != "" {
					usedAddresses[u.Address] = true
				}
				cursors[b] = i + 1
				nextBucket = b + 1
				return true
			}
		}
		return false
	}
	drawOne := func() bool {
		if take(true) {
			return true
		}
		return take(false)
	}

	for len(selected) < targetInputs {
		if !drawOne() {
			break
		}
	}
	for total < target+feeWithChange(len(selected), feeRate) {
		if !drawOne() {
			break
		}
	}

	fee := feeWithChange(len(selected), feeRate)
	if total < target+fee {
		required := target + feeNoChange(len(candidates), feeRate)
		return InsufficientFundsResult(sumAmounts(candidates), required), nil
	}

	fee, change := foldChangeIfDust(total, target, len(selected), feeRate, dustThreshold)
	return SuccessResult(selected, fee, change), nil
}
