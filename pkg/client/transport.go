package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production E-utilities endpoint.
const DefaultBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/"

// Response is the normalized result of a dispatch: the raw body plus enough
// envelope to classify it. Parsing is the caller's concern.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header

	// FromCache marks responses served without network activity.
	FromCache bool
}

// Transport dispatches a descriptor and returns either a response or a
// transport-level error. A non-nil error means no response was obtained;
// an application-level error response (received but semantically an error)
// comes back as a Response and is classified by the retry policy.
type Transport interface {
	Send(ctx context.Context, d Descriptor, params url.Values) (*Response, error)
}

// HTTPTransport is the default Transport over net/http. Connect and read
// timeouts live here; the executor treats a timeout as a retryable transport
// failure.
type HTTPTransport struct {
	base       string
	userAgent  string
	httpClient *http.Client
}

// NewHTTPTransport creates a transport against baseURL. An empty baseURL
// selects the production endpoint.
func NewHTTPTransport(baseURL, userAgent string) *HTTPTransport {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &HTTPTransport{
		base:      baseURL,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, d Descriptor, params url.Values) (*Response, error) {
	var req *http.Request
	var err error

	endpoint := t.base + strings.TrimPrefix(d.Op, "/")

	switch d.Method {
	case http.MethodPost:
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
			strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		target := endpoint
		if len(params) > 0 {
			target += "?" + params.Encode()
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Header:     resp.Header.Clone(),
	}, nil
}
