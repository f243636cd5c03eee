// Package client provides the core E-utilities request executor: cache
// lookup, rate limiting, dispatch, and retry with exponential backoff.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/amdshrif/ncbi-client/pkg/cache"
	"github.com/amdshrif/ncbi-client/pkg/ratelimit"
	"github.com/amdshrif/ncbi-client/pkg/retry"
)

// Prometheus metrics for executor operations.
var (
	entrezRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_requests_total",
		Help: "Total E-utilities requests by operation and status",
	}, []string{"op", "status"})

	entrezRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entrez_request_duration_seconds",
		Help:    "E-utilities request duration in seconds by operation",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"op"})

	entrezErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_errors_total",
		Help: "Total terminal errors by taxonomy kind",
	}, []string{"kind"})

	entrezRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_retries_total",
		Help: "Total number of retry attempts by taxonomy kind",
	}, []string{"kind"})

	entrezRetryBackoffSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "entrez_retry_backoff_seconds",
		Help:    "Backoff duration for retries by taxonomy kind",
		Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"kind"})

	entrezRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entrez_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by taxonomy kind",
	}, []string{"kind"})
)

// Config holds the executor configuration.
type Config struct {
	// APIKey is the NCBI API key. Its presence selects the 10 req/s quota
	// tier; without it the limiter enforces 3 req/s.
	APIKey string

	// Email identifies the caller to NCBI (recommended by their usage
	// policy).
	Email string

	// Tool is the client identifier sent with every request.
	Tool string

	// BaseURL overrides the production endpoint (tests, mirrors).
	BaseURL string

	// Cache short-circuits idempotent requests. Nil disables caching.
	Cache cache.Store

	// CacheTTL is the time-to-live written with each cached response.
	CacheTTL time.Duration

	// Transport overrides the default HTTP transport.
	Transport Transport

	// Retry is the classification and backoff policy.
	Retry retry.Policy

	// Observer receives structured events. Nil means NopObserver.
	Observer Observer

	// RateLimit overrides the quota tier. Zero selects by APIKey presence.
	RateLimit int

	// Limiter shares rate-limit state across clients, e.g. two clients
	// using the same API key staying inside one quota window together.
	// Nil builds a dedicated limiter from RateLimit/APIKey.
	Limiter *ratelimit.Limiter
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		Tool:     "ncbi-client-go",
		CacheTTL: time.Hour,
		Retry:    retry.DefaultPolicy(),
	}
}

// Client executes logical requests against the E-utilities. It owns the
// limiter and the cache reference passed at construction and is safe for
// concurrent use.
type Client struct {
	transport Transport
	limiter   *ratelimit.Limiter
	cache     cache.Store
	retry     retry.Policy
	observer  Observer
	config    Config
	logger    zerolog.Logger

	// Injected for deterministic backoff tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an executor from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.Tool == "" {
		return nil, fmt.Errorf("tool identifier is required")
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must be >= 0 (got %d)", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.BaseDelay <= 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = time.Hour
	}

	logger := log.With().Str("component", "entrez-client").Logger()

	limiter := cfg.Limiter
	if limiter == nil {
		quota := cfg.RateLimit
		if quota == 0 {
			quota = ratelimit.QuotaFor(cfg.APIKey)
		}
		limiter = ratelimit.New(quota, logger)
	}

	transport := cfg.Transport
	if transport == nil {
		transport = NewHTTPTransport(cfg.BaseURL, userAgent(cfg))
	}

	observer := cfg.Observer
	if observer == nil {
		observer = NopObserver{}
	}

	return &Client{
		transport: transport,
		limiter:   limiter,
		cache:     cfg.Cache,
		retry:     cfg.Retry,
		observer:  observer,
		config:    cfg,
		logger:    logger,
		sleep:     sleepContext,
	}, nil
}

// Quota returns the requests-per-second tier the limiter enforces.
func (c *Client) Quota() int {
	return c.limiter.Quota()
}

// Execute runs one logical request: cache lookup for idempotent descriptors,
// rate limit acquisition, dispatch, and retry on retryable outcomes. It
// returns the normalized response or exactly one terminal error carrying its
// taxonomy kind and the last underlying cause.
func (c *Client) Execute(ctx context.Context, d Descriptor) (*Response, error) {
	start := time.Now()
	defer func() {
		entrezRequestDuration.WithLabelValues(d.Op).Observe(time.Since(start).Seconds())
	}()

	// Cache hits consume no quota. This is intentional: it rewards callers
	// that cache aggressively.
	if d.Idempotent && c.cache != nil {
		if resp := c.cacheLookup(ctx, d); resp != nil {
			return resp, nil
		}
	}

	params := c.withCredentials(d)

	var lastErr *Error
	for attempt := 0; ; attempt++ {
		waitStart := time.Now()
		if err := c.limiter.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, err)
		}
		c.observer.RateLimitWait(d.Op, time.Since(waitStart))

		resp, err := c.transport.Send(ctx, d, params)

		var decision retry.Decision
		if err != nil {
			decision = c.retry.Classify(0, nil, err)
			c.logger.Warn().Err(err).Str("op", d.Op).Int("attempt", attempt+1).
				Msg("Dispatch failed")
			entrezRequestsTotal.WithLabelValues(d.Op, "transport_error").Inc()
		} else {
			decision = c.retry.Classify(resp.StatusCode, resp.Body, nil)
			entrezRequestsTotal.WithLabelValues(d.Op, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		}

		if decision.Kind == "" {
			// Success. Idempotent responses are cached before returning;
			// session-mutating posts bypass the cache on write as well.
			if d.Idempotent && c.cache != nil {
				c.cacheStore(ctx, d, resp)
			}
			if attempt > 0 {
				c.logger.Info().Str("op", d.Op).Int("attempt", attempt+1).
					Msg("Request succeeded after retry")
			}
			return resp, nil
		}

		lastErr = c.terminalError(d, resp, err, decision.Kind)

		if !decision.Retryable {
			c.fail(d.Op, decision.Kind)
			return nil, lastErr
		}

		if attempt >= c.retry.MaxRetries {
			entrezRetryExhaustedTotal.WithLabelValues(string(decision.Kind)).Inc()
			c.fail(d.Op, decision.Kind)
			lastErr.Err = fmt.Errorf("%w after %d attempts: %w",
				ErrRetryExhausted, attempt+1, causeOf(lastErr.Err, lastErr.Message))
			return nil, lastErr
		}

		delay := c.retry.Backoff(attempt)
		c.observer.RetryAttempt(d.Op, attempt+1, delay, decision.Kind)
		entrezRetriesTotal.WithLabelValues(string(decision.Kind)).Inc()
		entrezRetryBackoffSeconds.WithLabelValues(string(decision.Kind)).Observe(delay.Seconds())

		c.logger.Debug().
			Str("op", d.Op).
			Str("kind", string(decision.Kind)).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("Retrying request after backoff")

		if err := c.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrContextCancelled, err)
		}
		// Each retry is a new request from the service's perspective and
		// acquires a fresh rate limit slot on the next loop iteration.
	}
}

// cacheLookup returns a cached response, or nil on any kind of miss. Cache
// failures degrade to a miss and are reported, never propagated.
func (c *Client) cacheLookup(ctx context.Context, d Descriptor) *Response {
	entry, err := c.cache.Get(ctx, d.CacheKey())
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.logger.Warn().Err(err).Str("op", d.Op).Msg("Cache get error")
			c.observer.CacheError(d.Op, err)
		}
		c.observer.CacheMiss(d.Op)
		return nil
	}

	c.observer.CacheHit(d.Op)
	entrezRequestsTotal.WithLabelValues(d.Op, "cache_hit").Inc()
	return &Response{
		StatusCode: http.StatusOK,
		Body:       entry.Data,
		FromCache:  true,
	}
}

// cacheStore writes a successful response with the configured TTL.
func (c *Client) cacheStore(ctx context.Context, d Descriptor, resp *Response) {
	entry := cache.NewEntry(resp.Body, d.Format, c.config.CacheTTL)
	if err := c.cache.Set(ctx, d.CacheKey(), entry); err != nil {
		c.logger.Warn().Err(err).Str("op", d.Op).Msg("Failed to cache response")
		c.observer.CacheError(d.Op, err)
	}
}

// withCredentials merges api_key/email/tool into a copy of the descriptor's
// params. The descriptor itself stays credential-free so cache keys are
// stable across credential changes.
func (c *Client) withCredentials(d Descriptor) url.Values {
	params := make(url.Values, len(d.Params)+3)
	for name, values := range d.Params {
		params[name] = values
	}
	if c.config.APIKey != "" {
		params.Set("api_key", c.config.APIKey)
	}
	if c.config.Email != "" {
		params.Set("email", c.config.Email)
	}
	params.Set("tool", c.config.Tool)
	if d.Format != "" && params.Get("retmode") == "" {
		params.Set("retmode", d.Format)
	}
	return params
}

func (c *Client) terminalError(d Descriptor, resp *Response, err error, kind retry.Kind) *Error {
	e := &Error{Kind: kind, Op: d.Op, Err: err}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		e.Message = http.StatusText(resp.StatusCode)
		if kind == retry.KindValidation || kind == retry.KindSessionExpired {
			e.Message = bodyErrorMessage(resp.Body)
		}
	} else {
		e.Message = "no response"
	}
	return e
}

func (c *Client) fail(op string, kind retry.Kind) {
	entrezErrorsTotal.WithLabelValues(string(kind)).Inc()
	c.observer.TerminalFailure(op, kind)
	c.logger.Warn().Str("op", op).Str("kind", string(kind)).Msg("Request failed terminally")
}

// causeOf keeps the error chain non-nil when the failure came from a
// response rather than a transport error.
func causeOf(err error, message string) error {
	if err != nil {
		return err
	}
	return errors.New(message)
}

func userAgent(cfg Config) string {
	if cfg.Email != "" {
		return fmt.Sprintf("%s (%s)", cfg.Tool, cfg.Email)
	}
	return cfg.Tool
}

// sleepContext waits for d or until ctx is done.
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
