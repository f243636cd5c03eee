// Package ratelimit enforces the E-utilities per-second request quota with a
// sliding-window limiter. NCBI allows 3 requests per second without an API key
// and 10 per second with one; exceeding the quota risks an IP block, so every
// dispatch must pass through Acquire before touching the network.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Quota tiers documented by NCBI for the E-utilities.
const (
	// AnonymousQuota is the requests-per-second limit without an API key.
	AnonymousQuota = 3

	// APIKeyQuota is the requests-per-second limit with an API key.
	APIKeyQuota = 10

	// Window is the quota accounting window.
	Window = time.Second
)

// Prometheus metrics for rate limiting.
var (
	entrezRateLimitGrantsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entrez_rate_limit_grants_total",
		Help: "Total number of rate limit slots granted",
	})

	entrezRateLimitWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "entrez_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a rate limit slot",
		Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
	})

	entrezRateLimitCancelsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entrez_rate_limit_cancels_total",
		Help: "Total number of acquisitions abandoned due to context cancellation",
	})
)

// QuotaFor returns the quota tier for the given credential. The tier is fixed
// for the lifetime of a Limiter; NCBI does not adjust it per response.
func QuotaFor(apiKey string) int {
	if apiKey != "" {
		return APIKeyQuota
	}
	return AnonymousQuota
}

// Limiter grants at most quota request slots per trailing window. It is safe
// for concurrent use and may be shared by any number of callers; a single
// mutex guards the grant timestamps so concurrent acquirers always observe a
// consistent window.
//
// Acquire is the only blocking operation in the client. The wait is always
// bounded: the window holds at most quota timestamps, so the oldest one exits
// it within Window.
type Limiter struct {
	mu     sync.Mutex
	quota  int
	window time.Duration
	grants []time.Time // accepted request times within the window, oldest first

	// Injected for deterministic tests; defaults to the real clock.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	logger zerolog.Logger
}

// New creates a limiter for the given quota tier.
func New(quota int, logger zerolog.Logger) *Limiter {
	if quota <= 0 {
		quota = AnonymousQuota
	}
	return &Limiter{
		quota:  quota,
		window: Window,
		grants: make([]time.Time, 0, quota),
		now:    time.Now,
		sleep:  sleepContext,
		logger: logger,
	}
}

// Quota returns the configured requests-per-window limit.
func (l *Limiter) Quota() int {
	return l.quota
}

// Acquire blocks until a request slot is available under the quota, then
// records the grant. It returns the context error if the wait is cancelled;
// an abandoned wait records no grant and leaves the window untouched.
func (l *Limiter) Acquire(ctx context.Context) error {
	start := l.nowLocked()

	for {
		if err := ctx.Err(); err != nil {
			entrezRateLimitCancelsTotal.Inc()
			return err
		}

		l.mu.Lock()
		now := l.now()
		l.prune(now)

		if len(l.grants) < l.quota {
			l.grants = append(l.grants, now)
			l.mu.Unlock()

			waited := now.Sub(start)
			entrezRateLimitGrantsTotal.Inc()
			entrezRateLimitWaitSeconds.Observe(waited.Seconds())
			if waited > 0 {
				l.logger.Debug().
					Dur("waited", waited).
					Int("quota", l.quota).
					Msg("Rate limit slot granted after wait")
			}
			return nil
		}

		// Window is full: wait until the oldest grant leaves it, then loop
		// and re-check. Concurrent acquirers may race for the freed slot.
		wait := l.window - now.Sub(l.grants[0])
		l.mu.Unlock()

		if wait <= 0 {
			continue
		}
		if err := l.sleep(ctx, wait); err != nil {
			entrezRateLimitCancelsTotal.Inc()
			l.logger.Debug().
				Dur("pending_wait", wait).
				Msg("Rate limit wait cancelled")
			return err
		}
	}
}

// prune drops grant timestamps that have exited the trailing window.
// Caller must hold mu.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.grants) && !l.grants[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.grants = append(l.grants[:0], l.grants[i:]...)
	}
}

func (l *Limiter) nowLocked() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now()
}

// sleepContext waits for d or until ctx is done, whichever comes first.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
