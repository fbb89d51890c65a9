package ratelimit

import (
	"sync"

	"golang.org/x/time/rate"
)

// PerSender tracks a token-bucket limiter per sender id. Used to absorb
// client retry storms on message sends without touching the database.
type PerSender struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// creates a per-sender limiter allowing eventsPerSecond sustained with the
// given burst capacity
func NewPerSender(eventsPerSecond float64, burst int) *PerSender {
	return &PerSender{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(eventsPerSecond),
		burst:    burst,
	}
}

// reports whether the sender may proceed now
func (p *PerSender) Allow(senderID string) bool {
	p.mu.Lock()
	limiter, ok := p.limiters[senderID]
	if !ok {
		limiter = rate.NewLimiter(p.limit, p.burst)
		p.limiters[senderID] = limiter
	}
	p.mu.Unlock()

	return limiter.Allow()
}
