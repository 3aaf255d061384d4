// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package utxo

import (
	"encoding/json"

	"github.com/bitvault/core/eventbus"
)

// Publisher is the narrow event-bus surface the selection engine needs.
// Selection code depends on this interface rather than *eventbus.Bus
// directly, matching spec §9's preference for dependency injection over
// ambient state.
type Publisher interface {
	Publish(t eventbus.EventType, payload string, priority eventbus.Priority)
}

type utxoSelectedPayload struct {
	Target     int64    `json:"target"`
	Strategy   string   `json:"strategy"`
	UtxoCount  int      `json:"utxo_count"`
}

type selectedOutpoint struct {
	Txid   string `json:"txid"`
	Vout   uint32 `json:"vout"`
	Amount int64  `json:"amount"`
}

type selectionCompletedPayload struct {
	Strategy      string             `json:"strategy"`
	SelectedCount int                `json:"selected_count"`
	Fee           int64              `json:"fee"`
	Change        int64              `json:"change"`
	SelectedUtxos []selectedOutpoint `json:"selected_utxos"`
}

type utxoStatusChangedPayload struct {
	Reason    string `json:"reason"`
	Available int64  `json:"available"`
	Required  int64  `json:"required"`
}

func emitSelectionStarted(pub Publisher, strategy Strategy, target int64, candidateCount int) {
	if pub == nil {
		return
	}
	payload, err := json.Marshal(utxoSelectedPayload{Target: target, Strategy: strategy.String(), UtxoCount: candidateCount})
	if err != nil {
		return
	}
	pub.Publish(eventbus.UtxoSelected, string(payload), eventbus.Low)
}

func emitSelectionCompleted(pub Publisher, strategy Strategy, result SelectionResult) {
	if pub == nil {
		return
	}
	outs := make([]selectedOutpoint, 0, len(result.Selected))
	for _, u := range result.Selected {
		outs = append(outs, selectedOutpoint{Txid: u.Outpoint.Txid, Vout: u.Outpoint.Vout, Amount: u.Amount})
	}
	payload, err := json.Marshal(selectionCompletedPayload{
		Strategy:      strategy.String(),
		SelectedCount: len(result.Selected),
		Fee:           result.Fee,
		Change:        result.Change,
		SelectedUtxos: outs,
	})
	if err != nil {
		return
	}
	// UtxoSelectionCompleted carries the full outcome for consumers that
	// track selection history; UtxoSelected (emitted at start) is the
	// lighter-weight "selection in progress" signal.
	pub.Publish(eventbus.UtxoSelectionCompleted, string(payload), eventbus.Medium)
}

func emitSelectionFailed(pub Publisher, available, required int64) {
	if pub == nil {
		return
	}
	payload, err := json.Marshal(utxoStatusChangedPayload{Reason: "insufficient_funds", Available: available, Required: required})
	if err != nil {
		return
	}
	pub.Publish(eventbus.UtxoStatusChanged, string(payload), eventbus.Medium)
}
