package client

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/amdshrif/ncbi-client/pkg/retry"
)

// Common errors returned by the executor.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during
	// a rate limit wait or retry backoff.
	ErrContextCancelled = errors.New("context cancelled")
)

// Error is the single terminal error shape callers receive: the taxonomy kind
// plus the last underlying cause.
type Error struct {
	Kind       retry.Kind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entrez %s error (%s, status %d): %s: %v",
			e.Kind, e.Op, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("entrez %s error (%s, status %d): %s",
		e.Kind, e.Op, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err carries the given taxonomy kind.
func IsKind(err error, kind retry.Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// bodyErrorMessage extracts the text of an embedded <ERROR> element from an
// E-utilities payload.
func bodyErrorMessage(body []byte) string {
	open := []byte("<ERROR>")
	if i := bytes.Index(body, open); i >= 0 {
		rest := body[i+len(open):]
		if j := bytes.Index(rest, []byte("</ERROR>")); j >= 0 {
			return string(rest[:j])
		}
	}
	return "request rejected"
}
