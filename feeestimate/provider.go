// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feeestimate

import "context"

// Provider is an external fee-rate source, per spec §4.3. Lower
// Priority values are tried first; the service sorts providers by
// Priority once at construction.
type Provider interface {
	GetFeeEstimates(ctx context.Context) (FeeRecommendations, error)
	GetHistoricalData(ctx context.Context) (*HistoricalFeeData, error)
	IsAvailable(ctx context.Context) bool
	ProviderName() string
	Priority() int
}
