// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feeestimate

import (
	"math"

	"github.com/bitvault/core/berr"
	"github.com/bitvault/core/btcvalidate"
)

// outlierSmoothingThreshold is the fractional deviation above which a
// new rate is smoothed against the stored one rather than accepted
// outright, per spec §4.3.
const outlierSmoothingThreshold = 0.5

// smoothedStoredWeight and smoothedNewWeight are the weights applied
// when smoothing, per spec §4.3: stored := 0.7*stored + 0.3*new.
const (
	smoothedStoredWeight = 0.7
	smoothedNewWeight    = 0.3
)

// ValidateFeeRate rejects a rate outside the network's
// [min_reasonable, max_reasonable] sat/vB envelope, per spec §4.3.
func ValidateFeeRate(rate float64, network btcvalidate.Network) error {
	params := btcvalidate.ParamsForNetwork(network)
	if rate < params.MinReasonableFeeRate || rate > params.MaxReasonableFeeRate {
		return berr.Validationf("fee_rate_envelope", "fee rate %.4f sat/vB outside reasonable envelope [%.4f, %.4f] for %s",
			rate, params.MinReasonableFeeRate, params.MaxReasonableFeeRate, network)
	}
	return nil
}

// SmoothedRate applies spec §4.3's outlier-smoothing rule: if newRate
// deviates from stored by more than outlierSmoothingThreshold, blend
// rather than replace outright.
func SmoothedRate(stored, newRate float64) float64 {
	if stored == 0 {
		return newRate
	}
	deviation := math.Abs(newRate-stored) / stored
	if deviation > outlierSmoothingThreshold {
		return smoothedStoredWeight*stored + smoothedNewWeight*newRate
	}
	return newRate
}

// clampToEnvelope clamps rate into the network's reasonable envelope.
func clampToEnvelope(rate float64, network btcvalidate.Network) float64 {
	params := btcvalidate.ParamsForNetwork(network)
	if rate < params.MinReasonableFeeRate {
		return params.MinReasonableFeeRate
	}
	if rate > params.MaxReasonableFeeRate {
		return params.MaxReasonableFeeRate
	}
	return rate
}
