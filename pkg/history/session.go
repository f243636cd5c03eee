// Package history models Entrez history-server state and paged retrieval
// against it. A search or post with usehistory stores its result set
// server-side; the session token (WebEnv) and query key reference that set in
// later fetch and summary calls, so large result sets can be paged without
// re-sending the query.
package history

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Session references one server-side stored result set. It is plain data:
// nothing mutates it after creation, and it stays usable until the service
// expires it server-side. Expiry is not tracked locally; an expired session
// surfaces as a session_expired error on the next call that uses it.
type Session struct {
	// WebEnv is the opaque session token issued by the service.
	WebEnv string

	// QueryKey indexes this query within the WebEnv.
	QueryKey int

	// DB is the database the result set was drawn from.
	DB string

	// Term is the originating query, empty for posted ID sets.
	Term string

	// Count is the total result count reported by the originating search.
	// It is fixed at session creation and never re-queried.
	Count int
}

// Valid reports whether the session carries usable history references.
func (s *Session) Valid() bool {
	return s != nil && s.WebEnv != "" && s.QueryKey > 0
}

// Params returns the request parameters that address this session.
func (s *Session) Params() url.Values {
	return url.Values{
		"db":        []string{s.DB},
		"WebEnv":    []string{s.WebEnv},
		"query_key": []string{strconv.Itoa(s.QueryKey)},
	}
}

// CombineQueries builds a search term referencing earlier queries in the same
// WebEnv, e.g. "#1 AND #3". Operator is AND, OR or NOT.
func CombineQueries(queryKeys []int, operator string) (string, error) {
	if len(queryKeys) < 2 {
		return "", fmt.Errorf("need at least 2 query keys to combine, got %d", len(queryKeys))
	}
	switch operator {
	case "AND", "OR", "NOT":
	default:
		return "", fmt.Errorf("unsupported operator %q", operator)
	}

	terms := make([]string, len(queryKeys))
	for i, key := range queryKeys {
		terms[i] = fmt.Sprintf("#%d", key)
	}
	return strings.Join(terms, " "+operator+" "), nil
}

// Record is one entry in a session log.
type Record struct {
	Session   *Session
	Operation string // "search" or "post"
	CreatedAt time.Time
}

// Log keeps the sessions created during a client's lifetime, so callers can
// refer back to earlier query keys when combining queries. Safe for
// concurrent use.
type Log struct {
	mu      sync.Mutex
	records []Record
}

// Add appends a session to the log.
func (l *Log) Add(s *Session, operation string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, Record{
		Session:   s,
		Operation: operation,
		CreatedAt: time.Now(),
	})
}

// Records returns a copy of the log.
func (l *Log) Records() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// ByQueryKey returns the logged session with the given query key, or nil.
func (l *Log) ByQueryKey(key int) *Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if r.Session != nil && r.Session.QueryKey == key {
			return r.Session
		}
	}
	return nil
}
