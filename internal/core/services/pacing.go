package services

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// moveBackoff is the pause after a failed move, multiplied by the attempt.
const moveBackoff = 200 * time.Millisecond

// movePacer paces move attempts across all workers of a batch.
// It uses a token bucket plus a backoff window set after a failed move.
type movePacer struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	backoff time.Duration
}

// newMovePacer creates a pacer allowing perSecond moves.
// A non-positive rate disables pacing.
func newMovePacer(perSecond float64) *movePacer {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &movePacer{
		limiter: rate.NewLimiter(limit, 1),
		backoff: moveBackoff,
	}
}

// Wait blocks until a move can be attempted.
// It also respects any backoff period set by RecordFailure.
func (p *movePacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	retryAt := p.retryAt
	p.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return p.limiter.Wait(ctx)
}

// RecordFailure pushes the next attempt back by attempt times the backoff.
func (p *movePacer) RecordFailure(attempt int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := time.Now().Add(time.Duration(attempt) * p.backoff)
	if next.After(p.retryAt) {
		p.retryAt = next
	}
}
