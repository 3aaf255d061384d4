// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feeestimate

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bitvault/core/btcvalidate"
	"github.com/bitvault/core/eventbus"
	"github.com/jellydator/ttlcache/v3"
)

// defaultMaxAge is the cache freshness window, per spec §4.3.
const defaultMaxAge = 1800 * time.Second

const cacheKey = "current"

// fallbackBaseRate seeds a synthesized default recommendation when no
// provider has ever succeeded: half the midpoint of the network's
// reasonable envelope ((min+max)/4), adjusted for an assumed Moderate
// congestion, per spec §4.3.
func fallbackBaseRate(network btcvalidate.Network) float64 {
	params := btcvalidate.ParamsForNetwork(network)
	return (params.MinReasonableFeeRate + params.MaxReasonableFeeRate) / 4
}

// Service implements spec §4.3's fee estimation algorithm: a staleness-
// aware cache in front of a priority-ordered provider chain, with a
// synthesized fallback when every provider and the cache are empty.
type Service struct {
	mu        sync.RWMutex
	network   btcvalidate.Network
	providers []Provider
	maxAge    time.Duration
	cache     *ttlcache.Cache[string, FeeRecommendations]
	lastGood  *FeeRecommendations
	history   *HistoricalFeeData
	publisher Publisher
}

// Config configures a Service.
type Config struct {
	Network   btcvalidate.Network
	Providers []Provider
	MaxAge    time.Duration
	Publisher Publisher
}

// New constructs a Service, sorting providers by ascending Priority
// once, per spec §4.3.
func New(cfg Config) *Service {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = defaultMaxAge
	}

	providers := append([]Provider(nil), cfg.Providers...)
	sort.SliceStable(providers, func(i, j int) bool { return providers[i].Priority() < providers[j].Priority() })

	cache := ttlcache.New[string, FeeRecommendations](
		ttlcache.WithTTL[string, FeeRecommendations](maxAge),
		ttlcache.WithDisableTouchOnHit[string, FeeRecommendations](),
	)
	go cache.Start()

	return &Service{
		network:   cfg.Network,
		providers: providers,
		maxAge:    maxAge,
		cache:     cache,
		history:   NewHistoricalFeeData(cfg.Network),
		publisher: cfg.Publisher,
	}
}

// Close stops the cache's background eviction goroutine.
func (s *Service) Close() {
	s.cache.Stop()
}

// GetRecommendations implements spec §4.3's three-step algorithm: serve
// from cache if fresh, otherwise try providers in priority order,
// otherwise fall back to a stale cached value or a synthesized default.
func (s *Service) GetRecommendations(ctx context.Context) (FeeRecommendations, error) {
	if item := s.cache.Get(cacheKey); item != nil {
		return item.Value(), nil
	}

	s.mu.RLock()
	providers := append([]Provider(nil), s.providers...)
	s.mu.RUnlock()

	for _, p := range providers {
		if !p.IsAvailable(ctx) {
			continue
		}
		rec, err := p.GetFeeEstimates(ctx)
		if err != nil {
			continue
		}
		rec.LastUpdated = currentTime()
		rec.Source = p.ProviderName()
		s.store(rec)
		emitFeeUpdate(s.publisher, s.network.String(), rec.Source, "", eventbus.Low)
		return rec, nil
	}

	s.mu.RLock()
	stale := s.lastGood
	s.mu.RUnlock()
	if stale != nil {
		emitFeeUpdate(s.publisher, s.network.String(), stale.Source, "all providers unavailable, serving stale cache", eventbus.Medium)
		return *stale, nil
	}

	def := s.synthesizeDefault()
	emitFeeUpdate(s.publisher, s.network.String(), "synthesized-default", "no provider ever succeeded, using synthesized default", eventbus.High)
	return def, nil
}

func (s *Service) store(rec FeeRecommendations) {
	s.cache.Set(cacheKey, rec, ttlcache.DefaultTTL)
	s.mu.Lock()
	cp := rec
	s.lastGood = &cp
	s.mu.Unlock()
}

// synthesizeDefault builds a FeeRecommendations out of nothing but the
// network's reasonable envelope and an assumed Moderate congestion, per
// spec §4.3's final fallback.
func (s *Service) synthesizeDefault() FeeRecommendations {
	base := fallbackBaseRate(s.network)
	now := currentTime()
	rate := AdjustedRate(base, CongestionModerate, now, s.network)

	rec := FeeRecommendations{
		Network:     s.network,
		Rates:       make(map[FeeLevel]Rate),
		Congestion:  CongestionModerate,
		LastUpdated: now,
		Source:      "synthesized-default",
	}
	rec.Rates[Low] = Rate{SatPerVByte: rate * 0.75, BlockTarget: 6}
	rec.Rates[Medium] = Rate{SatPerVByte: rate, BlockTarget: 3}
	rec.Rates[High] = Rate{SatPerVByte: rate * 1.5, BlockTarget: 1}
	return rec
}

// RecordHistoricalSample feeds a fresh observation into the service's
// historical aggregator, per spec §4.3.
func (s *Service) RecordHistoricalSample(sample Sample) {
	s.history.AddSample(sample)
}

// History exposes the historical aggregator for read access.
func (s *Service) History() *HistoricalFeeData {
	return s.history
}

// currentTime is a seam over time.Now so tests can fake the clock; no
// production code outside this file calls time.Now directly.
var currentTime = time.Now
