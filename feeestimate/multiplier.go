// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feeestimate

import (
	"time"

	"github.com/bitvault/core/btcvalidate"
)

// CongestionMultiplier maps a congestion level to its rate multiplier,
// per spec §4.3.
func CongestionMultiplier(c Congestion) float64 {
	switch c {
	case CongestionModerate:
		return 1.2
	case CongestionHigh:
		return 1.5
	case CongestionSevere:
		return 2.0
	default:
		return 1.0
	}
}

// TimeOfDayMultiplier discounts the quiet overnight hours and surcharges
// the mid-morning/afternoon peak, per spec §4.3. Hour is taken in UTC.
func TimeOfDayMultiplier(now time.Time) float64 {
	hour := now.UTC().Hour()
	switch {
	case hour >= 1 && hour <= 5:
		return 0.8
	case hour >= 10 && hour <= 17:
		return 1.2
	default:
		return 1.0
	}
}

// AdjustedRate applies the congestion and time-of-day multipliers to a
// base rate, then clamps the result into the network's reasonable
// envelope, per spec §4.3.
func AdjustedRate(base float64, congestion Congestion, now time.Time, network btcvalidate.Network) float64 {
	adjusted := base * CongestionMultiplier(congestion) * TimeOfDayMultiplier(now)
	return clampToEnvelope(adjusted, network)
}
