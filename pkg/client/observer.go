package client

import (
	"time"

	"github.com/amdshrif/ncbi-client/pkg/retry"
)

// Observer receives structured events from the executor. Implementations must
// be safe for concurrent use and must not block; the executor calls them
// inline on the request path.
type Observer interface {
	// CacheHit fires when an idempotent request is served from cache.
	CacheHit(op string)

	// CacheMiss fires when the cache has no usable entry.
	CacheMiss(op string)

	// CacheError fires when a cache read or write fails. The request
	// proceeds as a miss.
	CacheError(op string, err error)

	// RateLimitWait fires after a rate limit slot is granted, with the
	// time spent waiting for it.
	RateLimitWait(op string, wait time.Duration)

	// RetryAttempt fires before each backoff wait.
	RetryAttempt(op string, attempt int, delay time.Duration, kind retry.Kind)

	// TerminalFailure fires once per request that ends in an error.
	TerminalFailure(op string, kind retry.Kind)
}

// NopObserver is the default Observer; every event is discarded.
type NopObserver struct{}

func (NopObserver) CacheHit(string)                                      {}
func (NopObserver) CacheMiss(string)                                     {}
func (NopObserver) CacheError(string, error)                             {}
func (NopObserver) RateLimitWait(string, time.Duration)                  {}
func (NopObserver) RetryAttempt(string, int, time.Duration, retry.Kind)  {}
func (NopObserver) TerminalFailure(string, retry.Kind)                   {}
