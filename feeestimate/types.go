// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package feeestimate implements BitVault's fee estimation service: a
// priority-ordered provider chain, a staleness-aware cache, congestion
// and time-of-day adjustments, and historical fee aggregation.
package feeestimate

import (
	"time"

	"github.com/bitvault/core/btcvalidate"
)

// FeeLevel is the closed set of urgency tiers a caller can request a
// rate for, matching the wallet.fee_level values the configuration
// manager validates against.
type FeeLevel int

const (
	Low FeeLevel = iota
	Medium
	High
)

func (l FeeLevel) String() string {
	switch l {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Congestion classifies network mempool pressure.
type Congestion int

const (
	CongestionLow Congestion = iota
	CongestionModerate
	CongestionHigh
	CongestionSevere
)

// Rate is a single fee recommendation: a sat/vB rate and the block
// target it is expected to confirm within.
type Rate struct {
	SatPerVByte float64
	BlockTarget int
}

// FeeRecommendations is the outcome of a fee estimation attempt, keyed by
// urgency level, per spec §4.3.
type FeeRecommendations struct {
	Network     btcvalidate.Network
	Rates       map[FeeLevel]Rate
	Congestion  Congestion
	LastUpdated time.Time
	Source      string
}

// UpdateRate validates newRate against the network's reasonable envelope
// and applies 50%-deviation smoothing against any existing rate for the
// same level, per spec §4.3. Returns an error (never panics) if newRate
// falls outside the envelope; the stored rate is left untouched in that
// case.
func (f *FeeRecommendations) UpdateRate(level FeeLevel, newRate float64, blockTarget int) error {
	if err := ValidateFeeRate(newRate, f.Network); err != nil {
		return err
	}
	if f.Rates == nil {
		f.Rates = make(map[FeeLevel]Rate)
	}
	existing, ok := f.Rates[level]
	rate := newRate
	if ok {
		rate = SmoothedRate(existing.SatPerVByte, newRate)
	}
	f.Rates[level] = Rate{SatPerVByte: rate, BlockTarget: blockTarget}
	return nil
}
