// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import (
	"sync"
	"time"

	"github.com/btcsuite/btclog"
	"go.uber.org/atomic"
)

var log btclog.Logger = btclog.Disabled

// UseLogger configures a logger for the eventbus package, following the
// teacher's package-level logger convention.
func UseLogger(logger btclog.Logger) {
	log = logger
}

// subscriberBufferSize is the per-subscriber channel capacity. A
// subscriber that cannot keep up has its delivery dropped and logged
// rather than blocking the dispatcher (spec §4.4/§5).
const subscriberBufferSize = 256

// Config configures a Bus at construction time.
type Config struct {
	// HistoryPath, if non-empty, is the JSONL file Critical/SecurityAlert
	// events are appended to (spec §6).
	HistoryPath string
	// RateLimitPerSecond overrides DefaultRateLimitPerSecond.
	RateLimitPerSecond int
	// DeadLetterCapacity overrides DefaultDeadLetterCapacity. Pass -1 to
	// disable the dead-letter queue entirely.
	DeadLetterCapacity int
}

type subscription struct {
	id      string
	evtType EventType
	ch      chan Event
}

// Bus is BitVault's in-process, multi-producer/multi-consumer event bus.
type Bus struct {
	nextID    atomic.Uint64
	limiter   *rateLimiter
	history   *history
	deadLetter *deadLetterQueue

	queueMu sync.Mutex
	queue   []Event
	queueCh chan struct{} // signaled (non-blocking) whenever the queue becomes non-empty

	subMu sync.Mutex
	subs  map[EventType][]*subscription
	nextSubID atomic.Uint64

	stopCh chan struct{}
	stopOnce sync.Once
	doneCh chan struct{}
}

// New constructs a Bus and starts its dispatcher goroutine.
func New(cfg Config) *Bus {
	deadLetterCap := cfg.DeadLetterCapacity
	var dl *deadLetterQueue
	if deadLetterCap != -1 {
		dl = newDeadLetterQueue(deadLetterCap)
	}

	b := &Bus{
		limiter:    newRateLimiter(cfg.RateLimitPerSecond),
		history:    newHistory(cfg.HistoryPath),
		deadLetter: dl,
		queueCh:    make(chan struct{}, 1),
		subs:       make(map[EventType][]*subscription),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
	go b.dispatchLoop()
	return b
}

// Publish enqueues an event for asynchronous dispatch. Publish never
// blocks on subscribers: it only appends to the bus's internal queue.
// Over-limit events (below Critical priority) are dropped and logged.
func (b *Bus) Publish(t EventType, payload string, priority Priority) {
	if !b.limiter.allow(t, priority) {
		log.Warnf("eventbus: dropping %s event, rate limit exceeded", t)
		return
	}
	e := Event{
		ID:        b.nextID.Add(1),
		Type:      t,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		Priority:  priority,
	}
	b.enqueue(e)
}

func (b *Bus) enqueue(e Event) {
	b.queueMu.Lock()
	b.queue = append(b.queue, e)
	b.queueMu.Unlock()
	select {
	case b.queueCh <- struct{}{}:
	default:
	}
}

func (b *Bus) dequeueAll() []Event {
	b.queueMu.Lock()
	defer b.queueMu.Unlock()
	if len(b.queue) == 0 {
		return nil
	}
	out := b.queue
	b.queue = nil
	return out
}

// dispatchLoop is the single dispatcher task that pumps the global queue;
// per-event-type subscriber fan-out happens synchronously within this
// loop, in FIFO order per (type, subscriber), per spec §4.4.
func (b *Bus) dispatchLoop() {
	defer close(b.doneCh)
	for {
		select {
		case <-b.stopCh:
			b.drainAndClose()
			return
		case <-b.queueCh:
			for _, e := range b.dequeueAll() {
				b.dispatch(e)
			}
		}
	}
}

func (b *Bus) drainAndClose() {
	for _, e := range b.dequeueAll() {
		b.dispatch(e)
	}
	b.subMu.Lock()
	defer b.subMu.Unlock()
	for _, subs := range b.subs {
		for _, s := range subs {
			close(s.ch)
		}
	}
	b.subs = make(map[EventType][]*subscription)
}

func (b *Bus) dispatch(e Event) {
	if err := b.history.record(e); err != nil {
		log.Errorf("eventbus: failed to persist event history: %v", err)
	}

	b.subMu.Lock()
	subs := append([]*subscription(nil), b.subs[e.Type]...)
	b.subMu.Unlock()

	for _, s := range subs {
		select {
		case s.ch <- e:
		default:
			log.Warnf("eventbus: subscriber %s channel full, dropping %s event %d", s.id, e.Type, e.ID)
		}
	}
}

// Subscribe returns a channel of future events of type t.
func (b *Bus) Subscribe(t EventType) (id string, ch <-chan Event) {
	s := b.newSubscription(t)
	return s.id, s.ch
}

// SubscribeWithReplay returns a channel that first yields the matching
// subset of persisted Critical/SecurityAlert history, then streams live
// events of type t (spec §4.4).
func (b *Bus) SubscribeWithReplay(t EventType) (id string, ch <-chan Event) {
	s := b.newSubscription(t)
	for _, e := range b.history.snapshot(t) {
		select {
		case s.ch <- e:
		default:
			log.Warnf("eventbus: replay buffer full for subscriber %s", s.id)
		}
	}
	return s.id, s.ch
}

func (b *Bus) newSubscription(t EventType) *subscription {
	s := &subscription{
		id:      subscriberID(b.nextSubID.Add(1)),
		evtType: t,
		ch:      make(chan Event, subscriberBufferSize),
	}
	b.subMu.Lock()
	b.subs[t] = append(b.subs[t], s)
	b.subMu.Unlock()
	return s
}

func subscriberID(n uint64) string {
	const hexDigits = "0123456789abcdef"
	if n == 0 {
		return "sub-0"
	}
	buf := make([]byte, 0, 20)
	for n > 0 {
		buf = append([]byte{hexDigits[n%16]}, buf...)
		n /= 16
	}
	return "sub-" + string(buf)
}

// ReportFailedProcessing lets a subscriber (identified by the opaque ID
// returned from Subscribe/SubscribeWithReplay) record that it failed to
// process an event, for later inspection via DeadLetters.
func (b *Bus) ReportFailedProcessing(subscriberID string, e Event, reason string) {
	if b.deadLetter == nil {
		return
	}
	b.deadLetter.record(FailedDelivery{
		SubscriberID: subscriberID,
		EventID:      e.ID,
		EventType:    e.Type,
		Reason:       reason,
		Timestamp:    time.Now().UTC(),
	})
	log.Warnf("eventbus: subscriber %s failed to process %s event %d: %s", subscriberID, e.Type, e.ID, reason)
}

// DeadLetters returns a snapshot of the dead-letter ring, oldest first.
// Returns nil if the bus was constructed with DeadLetterCapacity: -1.
func (b *Bus) DeadLetters() []FailedDelivery {
	if b.deadLetter == nil {
		return nil
	}
	return b.deadLetter.snapshot()
}

// LoadHistory reads previously persisted history from path and seeds the
// bus's in-memory ring so SubscribeWithReplay can serve it without
// waiting for new Critical/SecurityAlert events to occur in this process.
func (b *Bus) LoadHistory(path string) error {
	events, err := loadHistory(path)
	if err != nil {
		return err
	}
	b.history.mu.Lock()
	for _, e := range events {
		b.history.ring.push(e)
	}
	b.history.mu.Unlock()
	return nil
}

// Shutdown stops the dispatcher loop after draining any already-queued
// events, and closes every subscriber channel. It blocks until the
// dispatcher has exited.
func (b *Bus) Shutdown() {
	b.stopOnce.Do(func() {
		close(b.stopCh)
	})
	<-b.doneCh
	if err := b.history.Close(); err != nil {
		log.Errorf("eventbus: failed to close rotating event history file: %v", err)
	}
}
