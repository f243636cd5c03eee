package retry

import (
	"errors"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name       string
		statusCode int
		body       string
		err        error
		wantKind   Kind
		wantRetry  bool
	}{
		{
			name:      "transport error",
			err:       errors.New("connection reset"),
			wantKind:  KindTransport,
			wantRetry: true,
		},
		{
			name:       "429 too many requests",
			statusCode: 429,
			wantKind:   KindRateLimit,
			wantRetry:  true,
		},
		{
			name:       "503 service unavailable",
			statusCode: 503,
			wantKind:   KindTransport,
			wantRetry:  true,
		},
		{
			name:       "500 internal error",
			statusCode: 500,
			wantKind:   KindTransport,
			wantRetry:  true,
		},
		{
			name:       "400 bad request",
			statusCode: 400,
			wantKind:   KindValidation,
			wantRetry:  false,
		},
		{
			name:       "414 uri too long",
			statusCode: 414,
			wantKind:   KindValidation,
			wantRetry:  false,
		},
		{
			name:       "401 unauthorized",
			statusCode: 401,
			wantKind:   KindAuthentication,
			wantRetry:  false,
		},
		{
			name:       "403 forbidden",
			statusCode: 403,
			wantKind:   KindAuthentication,
			wantRetry:  false,
		},
		{
			name:       "408 request timeout",
			statusCode: 408,
			wantKind:   KindTransport,
			wantRetry:  true,
		},
		{
			name:       "410 gone",
			statusCode: 410,
			body:       "gone",
			wantKind:   KindTransport,
			wantRetry:  true,
		},
		{
			name:       "302 unfollowed redirect",
			statusCode: 302,
			wantKind:   KindTransport,
			wantRetry:  true,
		},
		{
			name:       "embedded invalid db error",
			statusCode: 200,
			body:       `<eSearchResult><ERROR>Invalid db name specified: pubmedd</ERROR></eSearchResult>`,
			wantKind:   KindValidation,
			wantRetry:  false,
		},
		{
			name:       "embedded expired history error",
			statusCode: 200,
			body:       `<eFetchResult><ERROR>Unable to obtain query #1</ERROR></eFetchResult>`,
			wantKind:   KindSessionExpired,
			wantRetry:  false,
		},
		{
			name:       "embedded api key error",
			statusCode: 200,
			body:       `<eSearchResult><ERROR>API key invalid</ERROR></eSearchResult>`,
			wantKind:   KindAuthentication,
			wantRetry:  false,
		},
		{
			name:       "clean success",
			statusCode: 200,
			body:       `<eSearchResult><Count>12</Count></eSearchResult>`,
			wantKind:   "",
			wantRetry:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Classify(tt.statusCode, []byte(tt.body), tt.err)
			if d.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", d.Kind, tt.wantKind)
			}
			if d.Retryable != tt.wantRetry {
				t.Errorf("Retryable = %v, want %v", d.Retryable, tt.wantRetry)
			}
		})
	}
}

func TestBackoff_ExponentialWithoutJitter(t *testing.T) {
	p := Policy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 0, want: time.Second},
		{attempt: 1, want: 2 * time.Second},
		{attempt: 2, want: 4 * time.Second},
		{attempt: 3, want: 8 * time.Second},
		{attempt: 10, want: 30 * time.Second}, // capped
		{attempt: -1, want: time.Second},      // clamped to first retry
	}

	for _, tt := range tests {
		if got := p.Backoff(tt.attempt); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_JitterStaysNearTarget(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: time.Minute, Jitter: 0.2}

	for i := 0; i < 100; i++ {
		got := p.Backoff(1) // nominal 2s, ±10%
		if got < 1800*time.Millisecond || got > 2200*time.Millisecond {
			t.Fatalf("Backoff(1) = %v, want within ±10%% of 2s", got)
		}
	}
}

func TestBackoff_LargeAttemptDoesNotOverflow(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: time.Minute}

	if got := p.Backoff(62); got != time.Minute {
		t.Errorf("Backoff(62) = %v, want cap %v", got, time.Minute)
	}
}
