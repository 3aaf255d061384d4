// Copyright (c) 2025 The BitVault developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package eventbus

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRateLimitPerSecond is the default per-event-type publish
// ceiling, per spec §4.4.
const DefaultRateLimitPerSecond = 100

// rateLimiter enforces a sliding-window-style publish ceiling per event
// type using a token bucket per type. Critical-priority events always
// bypass the limiter (spec §4.4, §8 invariant 9).
type rateLimiter struct {
	mu        sync.Mutex
	perSecond int
	limiters  map[EventType]*rate.Limiter
}

func newRateLimiter(perSecond int) *rateLimiter {
	if perSecond <= 0 {
		perSecond = DefaultRateLimitPerSecond
	}
	return &rateLimiter{perSecond: perSecond, limiters: make(map[EventType]*rate.Limiter)}
}

func (r *rateLimiter) limiterFor(t EventType) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.limiters[t]
	if !ok {
		l = rate.NewLimiter(rate.Limit(r.perSecond), r.perSecond)
		r.limiters[t] = l
	}
	return l
}

// allow reports whether an event of the given type and priority may be
// published right now, consuming a token if so.
func (r *rateLimiter) allow(t EventType, p Priority) bool {
	if p == Critical {
		return true
	}
	return r.limiterFor(t).AllowN(time.Now(), 1)
}
