// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	"testing"

	"pgregory.net/rapid"
)

// TestFeeIsNeverNegativeAndGrowsWithFeeRate property-checks estimateFee
// over arbitrary input/output counts and fee rates: the fee must never
// be negative, and raising the fee rate must never lower it.
func TestFeeIsNeverNegativeAndGrowsWithFeeRate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inputs := rapid.IntRange(0, 50).Draw(t, "inputs")
		outputs := rapid.IntRange(0, 50).Draw(t, "outputs")
		lowRate := rapid.Float64Range(0.1, 500).Draw(t, "lowRate")
		delta := rapid.Float64Range(0, 500).Draw(t, "delta")
		highRate := lowRate + delta

		low := estimateFee(inputs, outputs, lowRate)
		high := estimateFee(inputs, outputs, highRate)

		if low < 0 || high < 0 {
			t.Fatalf("negative fee: low=%d high=%d", low, high)
		}
		if high < low {
			t.Fatalf("fee decreased as rate rose: rate %v -> %d, rate %v -> %d", lowRate, low, highRate, high)
		}
	})
}

// TestFeeWithChangeAlwaysExceedsFeeNoChange property-checks that a
// 2-output transaction never costs less than its 1-output counterpart
// for the same input count and fee rate.
func TestFeeWithChangeAlwaysExceedsFeeNoChange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		inputs := rapid.IntRange(1, 50).Draw(t, "inputs")
		feeRate := rapid.Float64Range(0.1, 1000).Draw(t, "feeRate")

		withChange := feeWithChange(inputs, feeRate)
		noChange := feeNoChange(inputs, feeRate)

		if withChange < noChange {
			t.Fatalf("feeWithChange(%d, %v) = %d < feeNoChange = %d", inputs, feeRate, withChange, noChange)
		}
	})
}
