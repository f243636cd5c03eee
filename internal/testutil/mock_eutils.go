// Package testutil provides testing utilities for the Entrez client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior of one mock E-utilities endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockEutils is a configurable mock E-utilities server for testing. Handlers
// are keyed by endpoint name ("esearch.fcgi", "efetch.fcgi", ...).
type MockEutils struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]http.HandlerFunc

	requestCount int
	opCounts     map[string]int
	lastQuery    url.Values
}

// NewMockEutils creates a mock server. Endpoints without a configured
// handler answer 404 with an Entrez-style error body.
func NewMockEutils() *MockEutils {
	mock := &MockEutils{
		handlers: make(map[string]http.HandlerFunc),
		opCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			r.ParseForm()
		}
		op := r.URL.Path[1:] // strip leading slash

		mock.mu.Lock()
		mock.requestCount++
		mock.opCounts[op]++
		if r.Method == http.MethodPost {
			mock.lastQuery = r.PostForm
		} else {
			mock.lastQuery = r.URL.Query()
		}
		handler := mock.handlers[op]
		mock.mu.Unlock()

		if handler != nil {
			handler(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "<eSearchResult><ERROR>Unknown endpoint %s</ERROR></eSearchResult>", op)
	}))

	return mock
}

// URL returns the mock server's base URL with a trailing slash, suitable for
// the client's BaseURL.
func (m *MockEutils) URL() string {
	return m.server.URL + "/"
}

// Close shuts down the mock server.
func (m *MockEutils) Close() {
	m.server.Close()
}

// Reset clears tracking counters and handlers.
func (m *MockEutils) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.opCounts = make(map[string]int)
	m.lastQuery = nil
	m.handlers = make(map[string]http.HandlerFunc)
}

// SetHandler installs a custom handler for an endpoint.
func (m *MockEutils) SetHandler(op string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[op] = handler
}

// SetResponse configures a fixed response for an endpoint.
func (m *MockEutils) SetResponse(op string, resp MockResponse) {
	m.SetHandler(op, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetResponseSequence plays responses back in order, repeating the last one
// once the script runs out. Useful for fails-then-succeeds retry tests.
func (m *MockEutils) SetResponseSequence(op string, resps []MockResponse) {
	var mu sync.Mutex
	var i int
	m.SetHandler(op, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		resp := resps[len(resps)-1]
		if i < len(resps) {
			resp = resps[i]
			i++
		}
		mu.Unlock()
		w.WriteHeader(resp.StatusCode)
		w.Write([]byte(resp.Body))
	})
}

// SetSearchResponse configures esearch.fcgi with a well-formed envelope.
// WebEnv and queryKey are included only when webEnv is non-empty, matching
// the service's usehistory behavior.
func (m *MockEutils) SetSearchResponse(count int, ids []string, webEnv string, queryKey int) {
	body := "<?xml version=\"1.0\"?><eSearchResult><Count>" + strconv.Itoa(count) + "</Count>"
	if webEnv != "" {
		body += "<QueryKey>" + strconv.Itoa(queryKey) + "</QueryKey><WebEnv>" + webEnv + "</WebEnv>"
	}
	body += "<IdList>"
	for _, id := range ids {
		body += "<Id>" + id + "</Id>"
	}
	body += "</IdList></eSearchResult>"
	m.SetResponse("esearch.fcgi", MockResponse{StatusCode: http.StatusOK, Body: body})
}

// SetPostResponse configures epost.fcgi with a well-formed envelope.
func (m *MockEutils) SetPostResponse(webEnv string, queryKey int) {
	body := fmt.Sprintf("<?xml version=\"1.0\"?><ePostResult><QueryKey>%d</QueryKey><WebEnv>%s</WebEnv></ePostResult>",
		queryKey, webEnv)
	m.SetResponse("epost.fcgi", MockResponse{StatusCode: http.StatusOK, Body: body})
}

// SetSessionExpiredResponse configures an endpoint to answer with the
// in-band error Entrez returns for a stale WebEnv.
func (m *MockEutils) SetSessionExpiredResponse(op string) {
	m.SetResponse(op, MockResponse{
		StatusCode: http.StatusOK,
		Body:       "<eFetchResult><ERROR>Unable to obtain query #1</ERROR></eFetchResult>",
	})
}

// RequestCount returns the total number of requests served.
func (m *MockEutils) RequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.requestCount
}

// OpCount returns the number of requests served for one endpoint.
func (m *MockEutils) OpCount(op string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.opCounts[op]
}

// LastQuery returns the parameters of the most recent request.
func (m *MockEutils) LastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}
