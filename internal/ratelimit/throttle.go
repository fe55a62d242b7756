package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Throttle is a token bucket per key, used for per-device write APIs.
type Throttle struct {
	limit rate.Limit
	burst int
	clock Clock

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle allows perSecond events per key with the given burst.
func NewThrottle(perSecond float64, burst int, clock Clock) *Throttle {
	if clock == nil {
		clock = realClock{}
	}
	return &Throttle{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clock:   clock,
		buckets: make(map[string]*bucket),
	}
}

// Allow consumes one token for key.
func (t *Throttle) Allow(key string) bool {
	now := t.clock.Now()

	t.mu.Lock()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.buckets[key] = b
	}
	b.lastSeen = now
	t.mu.Unlock()

	return b.limiter.AllowN(now, 1)
}

// Sweep forgets keys idle longer than idle.
func (t *Throttle) Sweep(ctx context.Context, idle time.Duration) int {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for key, b := range t.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(t.buckets, key)
			removed++
		}
	}
	if removed > 0 {
		log.Ctx(ctx).Debug().Int("removed", removed).Msg("Swept throttle buckets")
	}
	return removed
}
