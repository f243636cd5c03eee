// Package retry classifies request outcomes and computes backoff delays.
//
// Classification is explicit data rather than control flow: the executor asks
// the policy for a Decision and acts on it, and only the final terminal
// condition surfaces to the caller as an error.
package retry

import (
	"bytes"
	"math/rand"
	"net/http"
	"time"
)

// Kind is the terminal error taxonomy shared with pkg/client.
type Kind string

const (
	// KindTransport covers network failures, timeouts and 5xx responses.
	KindTransport Kind = "transport"

	// KindRateLimit covers quota-exceeded responses from the service. These
	// can occur despite local limiting (clock skew, shared external usage).
	KindRateLimit Kind = "rate_limit"

	// KindValidation covers malformed-parameter rejections.
	KindValidation Kind = "validation"

	// KindAuthentication covers rejected API keys.
	KindAuthentication Kind = "authentication"

	// KindSessionExpired covers history sessions no longer honored by the
	// service.
	KindSessionExpired Kind = "session_expired"

	// KindCache marks cache backend failures. Never caller-visible; the
	// executor degrades these to a miss.
	KindCache Kind = "cache"
)

// Decision is the policy's verdict on a single outcome.
type Decision struct {
	Kind      Kind
	Retryable bool
}

// Policy computes retry decisions and exponential backoff delays.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int

	// BaseDelay is the backoff for the first retry; attempt k waits
	// BaseDelay * 2^k.
	BaseDelay time.Duration

	// MaxDelay caps the computed backoff.
	MaxDelay time.Duration

	// Jitter is the fractional randomization applied to each delay, in
	// [0, 1]. The rate limiter already spaces requests, so jitter is a
	// courtesy rather than a correctness requirement.
	Jitter float64
}

// DefaultPolicy returns the policy used when none is configured.
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  time.Second,
		MaxDelay:   30 * time.Second,
		Jitter:     0.2,
	}
}

// Entrez reports some failures inside a 200 response body. These fragments
// come from observed E-utilities error payloads.
var (
	bodyErrorOpen      = []byte("<ERROR>")
	sessionExpiredMsgs = [][]byte{
		[]byte("Unable to obtain query #"),
		[]byte("History server error"),
		[]byte("WebEnv value is expired"),
	}
	authErrorMsgs = [][]byte{
		[]byte("API key invalid"),
		[]byte("Invalid API key"),
	}
)

// Classify maps a transport error or a received response onto the taxonomy.
// A non-nil err means no response was obtained; statusCode and body describe
// a received response otherwise.
func (p Policy) Classify(statusCode int, body []byte, err error) Decision {
	if err != nil {
		return Decision{Kind: KindTransport, Retryable: true}
	}

	switch {
	case statusCode == http.StatusTooManyRequests:
		return Decision{Kind: KindRateLimit, Retryable: true}
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return Decision{Kind: KindAuthentication, Retryable: false}
	case statusCode == http.StatusBadRequest,
		statusCode == http.StatusNotFound,
		statusCode == http.StatusRequestURITooLong:
		return Decision{Kind: KindValidation, Retryable: false}
	case statusCode >= 500:
		return Decision{Kind: KindTransport, Retryable: true}
	case statusCode < 200 || statusCode >= 300:
		// Unmapped error statuses (408, 410, redirects the transport did
		// not follow, ...) are treated like transient transport failures,
		// never as success.
		return Decision{Kind: KindTransport, Retryable: true}
	}

	if d, ok := classifyBody(body); ok {
		return d
	}

	return Decision{}
}

// classifyBody inspects a 2xx payload for an embedded E-utilities error.
func classifyBody(body []byte) (Decision, bool) {
	if !bytes.Contains(body, bodyErrorOpen) {
		return Decision{}, false
	}

	for _, msg := range sessionExpiredMsgs {
		if bytes.Contains(body, msg) {
			return Decision{Kind: KindSessionExpired, Retryable: false}, true
		}
	}
	for _, msg := range authErrorMsgs {
		if bytes.Contains(body, msg) {
			return Decision{Kind: KindAuthentication, Retryable: false}, true
		}
	}

	// Remaining <ERROR> payloads are parameter rejections ("Invalid db name
	// specified", "Empty term and query_key").
	return Decision{Kind: KindValidation, Retryable: false}, true
}

// Backoff returns the delay before retry attempt k (zero-based).
func (p Policy) Backoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30 // shift would overflow
	}

	delay := p.BaseDelay << uint(attempt)
	if p.MaxDelay > 0 && (delay > p.MaxDelay || delay < 0) {
		delay = p.MaxDelay
	}

	if p.Jitter > 0 {
		j := p.Jitter
		if j > 1 {
			j = 1
		}
		span := float64(delay) * j
		delay = time.Duration(float64(delay) - span/2 + rand.Float64()*span)
	}

	return delay
}
