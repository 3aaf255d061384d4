// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package eventbus implements BitVault's in-process, typed pub/sub event
// bus: priority-aware rate limiting, persistent critical-event history
// with replay, and a dead-letter channel for failed subscriber
// processing.
package eventbus

import (
	"fmt"
	"time"
)

func errUnknownEventType(name string) error {
	return fmt.Errorf("eventbus: unknown event_type %q in history file", name)
}

func errUnknownPriority(name string) error {
	return fmt.Errorf("eventbus: unknown priority %q in history file", name)
}

// EventType is the closed set of event kinds the bus carries, per spec §4.4.
type EventType uint8

const (
	WalletUpdate EventType = iota
	TransactionReceived
	TransactionSent
	TransactionConfirmed
	NetworkStatus
	SecurityAlert
	BackupRequired
	SyncStatus
	Settings
	System
	CoreRequest
	CoreResponse
	UiRequest
	UiResponse
	UtxoSelected
	UtxoSelectionCompleted
	UtxoStatusChanged
	FeeEstimationUpdate
)

var eventTypeNames = map[EventType]string{
	WalletUpdate:           "WalletUpdate",
	TransactionReceived:    "TransactionReceived",
	TransactionSent:        "TransactionSent",
	TransactionConfirmed:   "TransactionConfirmed",
	NetworkStatus:          "NetworkStatus",
	SecurityAlert:          "SecurityAlert",
	BackupRequired:         "BackupRequired",
	SyncStatus:             "SyncStatus",
	Settings:               "Settings",
	System:                 "System",
	CoreRequest:            "CoreRequest",
	CoreResponse:           "CoreResponse",
	UiRequest:              "UiRequest",
	UiResponse:             "UiResponse",
	UtxoSelected:           "UtxoSelected",
	UtxoSelectionCompleted: "UtxoSelectionCompleted",
	UtxoStatusChanged:      "UtxoStatusChanged",
	FeeEstimationUpdate:    "FeeEstimationUpdate",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Priority ranks an event for rate-limiting and history-persistence
// purposes, per spec §3/§4.4.
type Priority uint8

const (
	Low Priority = iota
	Medium
	High
	Critical
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Critical:
		return "Critical"
	default:
		return "Unknown"
	}
}

// securityBoundaryTypes cross a security boundary and must carry
// priority >= High, per spec §4.4.
var securityBoundaryTypes = map[EventType]bool{
	CoreRequest:  true,
	CoreResponse: true,
}

// RequiresHighPriority reports whether t crosses a security boundary and
// therefore must be published at High priority or above.
func RequiresHighPriority(t EventType) bool {
	return securityBoundaryTypes[t]
}

// Event is a single dispatched message, per spec §3.
type Event struct {
	ID        uint64    `json:"id"`
	Type      EventType `json:"event_type"`
	Payload   string    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	Priority  Priority  `json:"priority"`
}

// jsonEvent is Event's on-the-wire shape (spec §6: event history file),
// with EventType/Priority rendered as their String() names and Timestamp
// as RFC 3339, independent of Go's default JSON encodings for the
// underlying integer types.
type jsonEvent struct {
	ID        uint64 `json:"id"`
	EventType string `json:"event_type"`
	Payload   string `json:"payload"`
	Timestamp string `json:"timestamp"`
	Priority  string `json:"priority"`
}

func (e Event) toJSON() jsonEvent {
	return jsonEvent{
		ID:        e.ID,
		EventType: e.Type.String(),
		Payload:   e.Payload,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Priority:  e.Priority.String(),
	}
}

var eventTypeByName = func() map[string]EventType {
	m := make(map[string]EventType, len(eventTypeNames))
	for t, name := range eventTypeNames {
		m[name] = t
	}
	return m
}()

var priorityByName = map[string]Priority{
	"Low":      Low,
	"Medium":   Medium,
	"High":     High,
	"Critical": Critical,
}

func (j jsonEvent) toEvent() (Event, error) {
	ts, err := time.Parse(time.RFC3339, j.Timestamp)
	if err != nil {
		return Event{}, err
	}
	eventType, ok := eventTypeByName[j.EventType]
	if !ok {
		return Event{}, errUnknownEventType(j.EventType)
	}
	priority, ok := priorityByName[j.Priority]
	if !ok {
		return Event{}, errUnknownPriority(j.Priority)
	}
	return Event{
		ID:        j.ID,
		Type:      eventType,
		Payload:   j.Payload,
		Timestamp: ts,
		Priority:  priority,
	}, nil
}
