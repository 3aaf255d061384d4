// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package feeestimate

import (
	"encoding/json"

	"github.com/bitvault/core/eventbus"
)

// Publisher is the narrow event-bus surface the fee service needs.
type Publisher interface {
	Publish(t eventbus.EventType, payload string, priority eventbus.Priority)
}

type feeUpdatePayload struct {
	Source  string `json:"source"`
	Warning string `json:"warning,omitempty"`
	Network string `json:"network"`
}

func emitFeeUpdate(pub Publisher, network, source, warning string, priority eventbus.Priority) {
	if pub == nil {
		return
	}
	payload, err := json.Marshal(feeUpdatePayload{Source: source, Warning: warning, Network: network})
	if err != nil {
		return
	}
	pub.Publish(eventbus.FeeEstimationUpdate, string(payload), priority)
}
