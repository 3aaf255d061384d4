// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/jrick/logrotate/rotator"

	"github.com/bitvault/core/berr"
)

// historyFileThreshold is the size, in bytes, at which the persisted
// event history file rolls over to a fresh one.
const historyFileThreshold = 10 * 1024 * 1024

// historyMaxRolls is the number of rolled-over history files kept
// alongside the active one before the oldest is deleted.
const historyMaxRolls = 3

// historyRingCapacity is the in-memory ring size for Critical/SecurityAlert
// events, per spec §4.4.
const historyRingCapacity = 1000

// history persists Critical-priority or SecurityAlert-type events to a
// JSONL file (spec §6) and keeps the most recent historyRingCapacity of
// them in memory for SubscribeWithReplay.
type history struct {
	mu   sync.Mutex
	path string // empty disables file persistence
	ring *ring[Event]
	rot  *rotator.Rotator // lazily opened on the first persisted event
}

func newHistory(path string) *history {
	return &history{path: path, ring: newRing[Event](historyRingCapacity)}
}

// openRotator lazily creates the rotating log writer backing file
// persistence. Callers hold h.mu.
func (h *history) openRotator() (*rotator.Rotator, error) {
	if h.rot != nil {
		return h.rot, nil
	}
	r, err := rotator.New(h.path, historyFileThreshold, false, historyMaxRolls)
	if err != nil {
		return nil, berr.Wrap(berr.Io, "open rotating event history file", err)
	}
	h.rot = r
	return r, nil
}

// Close releases the rotating history file, if one was opened.
func (h *history) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rot == nil {
		return nil
	}
	err := h.rot.Close()
	h.rot = nil
	return err
}

// shouldPersist reports whether e qualifies for history persistence and
// replay, per spec §4.4: priority Critical or type SecurityAlert.
func shouldPersist(e Event) bool {
	return e.Priority == Critical || e.Type == SecurityAlert
}

func (h *history) record(e Event) error {
	if !shouldPersist(e) {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ring.push(e)

	if h.path == "" {
		return nil
	}
	r, err := h.openRotator()
	if err != nil {
		return err
	}
	return appendJSONLine(r, e.toJSON())
}

func (h *history) snapshot(t EventType) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	all := h.ring.snapshot()
	out := make([]Event, 0, len(all))
	for _, e := range all {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func appendJSONLine(w io.Writer, v jsonEvent) error {
	data, err := json.Marshal(v)
	if err != nil {
		return berr.Wrap(berr.Serialization, "encode event history line", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return berr.Wrap(berr.Io, "write event history line", err)
	}
	return nil
}

// loadHistory replays a JSONL history file, tolerating a structurally
// corrupt trailing line by stopping further loading rather than failing
// the whole load (spec §7: "structural corruption of the event history
// stops loading further, but does not crash").
func loadHistory(path string) ([]Event, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, berr.Wrap(berr.Io, "open event history file", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var j jsonEvent
		if err := json.Unmarshal(line, &j); err != nil {
			break // stop loading further; already-loaded events are preserved
		}
		e, err := j.toEvent()
		if err != nil {
			break
		}
		events = append(events, e)
	}
	return events, nil
}
