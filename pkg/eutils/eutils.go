// Package eutils provides typed builders for the NCBI Entrez E-utilities
// endpoints. Each builder assembles a request descriptor, hands it to the
// executor, and decodes just enough of the response envelope to return typed
// results and history sessions. Payload interpretation beyond that (record
// parsing, per-database schemas) is left to the caller.
package eutils

import (
	"context"
	"strings"

	"github.com/amdshrif/ncbi-client/pkg/client"
	"github.com/amdshrif/ncbi-client/pkg/history"
	"github.com/amdshrif/ncbi-client/pkg/retry"
)

// Executor dispatches built requests. *client.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, d client.Descriptor) (*client.Response, error)
}

// Service exposes the E-utilities endpoints over one executor. Sessions
// created by Search and Post are recorded in History so later calls can
// combine earlier queries by key.
type Service struct {
	exec Executor

	// History logs every session this service creates.
	History *history.Log
}

// New returns a Service over exec.
func New(exec Executor) *Service {
	return &Service{
		exec:    exec,
		History: &history.Log{},
	}
}

func validationErr(op, message string) error {
	return &client.Error{
		Kind:    retry.KindValidation,
		Op:      op,
		Message: message,
	}
}

// joinIDs renders an ID list as the comma-separated form the service expects.
func joinIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// postThreshold is the ID count above which builders switch from GET to POST
// to keep URLs under the service's length limit.
const postThreshold = 200

var _ Executor = (*client.Client)(nil)
