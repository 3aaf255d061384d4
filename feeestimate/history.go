// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feeestimate

import (
	"fmt"
	"sync"
	"time"

	"github.com/bitvault/core/btcvalidate"
)

// Sample is a single observed fee-rate data point, per spec §4.3.
type Sample struct {
	Timestamp   time.Time
	BlockTarget int
	SatPerVByte float64
}

// targetStats tracks the observed range for one block target.
type targetStats struct {
	min, max float64
}

// HistoricalFeeData aggregates fee-rate samples into daily/weekly
// averages and per-target observed ranges, dropping outlier samples
// (non-positive, or outside the network's reasonable envelope), per
// spec §4.3.
type HistoricalFeeData struct {
	mu      sync.RWMutex
	network btcvalidate.Network
	samples []Sample
	byDay   map[string][]float64
	byWeek  map[string][]float64
	byTarget map[int]*targetStats
}

// NewHistoricalFeeData constructs an empty aggregator for a network.
func NewHistoricalFeeData(network btcvalidate.Network) *HistoricalFeeData {
	return &HistoricalFeeData{
		network:  network,
		byDay:    make(map[string][]float64),
		byWeek:   make(map[string][]float64),
		byTarget: make(map[int]*targetStats),
	}
}

// AddSample records a sample, dropping it silently if it is an outlier:
// non-positive or outside the reasonable envelope for the network.
func (h *HistoricalFeeData) AddSample(s Sample) {
	if s.SatPerVByte <= 0 {
		return
	}
	if ValidateFeeRate(s.SatPerVByte, h.network) != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.samples = append(h.samples, s)

	dayKey := s.Timestamp.UTC().Format("2006-01-02")
	h.byDay[dayKey] = append(h.byDay[dayKey], s.SatPerVByte)

	year, week := s.Timestamp.UTC().ISOWeek()
	weekKey := isoWeekKey(year, week)
	h.byWeek[weekKey] = append(h.byWeek[weekKey], s.SatPerVByte)

	stats, ok := h.byTarget[s.BlockTarget]
	if !ok {
		stats = &targetStats{min: s.SatPerVByte, max: s.SatPerVByte}
		h.byTarget[s.BlockTarget] = stats
	} else {
		if s.SatPerVByte < stats.min {
			stats.min = s.SatPerVByte
		}
		if s.SatPerVByte > stats.max {
			stats.max = s.SatPerVByte
		}
	}
}

// DailyAverage returns the mean sat/vB rate observed on the UTC calendar
// day containing t, and whether any samples exist for that day.
func (h *HistoricalFeeData) DailyAverage(t time.Time) (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rates, ok := h.byDay[t.UTC().Format("2006-01-02")]
	if !ok || len(rates) == 0 {
		return 0, false
	}
	return mean(rates), true
}

// WeeklyAverage returns the mean sat/vB rate observed in t's ISO week.
func (h *HistoricalFeeData) WeeklyAverage(t time.Time) (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	year, week := t.UTC().ISOWeek()
	rates, ok := h.byWeek[isoWeekKey(year, week)]
	if !ok || len(rates) == 0 {
		return 0, false
	}
	return mean(rates), true
}

// ObservedRange returns the min/max sat/vB rate ever recorded for a
// given block target.
func (h *HistoricalFeeData) ObservedRange(blockTarget int) (min, max float64, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	stats, found := h.byTarget[blockTarget]
	if !found {
		return 0, 0, false
	}
	return stats.min, stats.max, true
}

// SampleCount reports how many non-outlier samples have been recorded.
func (h *HistoricalFeeData) SampleCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.samples)
}

func isoWeekKey(year, week int) string {
	return fmt.Sprintf("%d-W%02d", year, week)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
