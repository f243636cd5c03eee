package client

import (
	"net/http"
	"net/url"

	"github.com/amdshrif/ncbi-client/pkg/cache"
)

// Descriptor is an immutable description of one logical E-utilities request.
// Builders construct a Descriptor; the executor owns everything after that.
// Callers must not mutate Params after handing the descriptor over.
type Descriptor struct {
	// Op is the endpoint name, e.g. "esearch.fcgi".
	Op string

	// Params are the operation parameters, without credentials. The
	// executor merges api_key/email/tool in at dispatch time so cache keys
	// stay credential-independent.
	Params url.Values

	// Format is the requested retmode (xml, json, text). Informational;
	// builders also set the retmode parameter.
	Format string

	// Method is the HTTP method. Large ID lists go via POST.
	Method string

	// Idempotent marks requests that are safe to serve from cache.
	// Searches and fetches are idempotent; posts that mutate server-side
	// history state are not.
	Idempotent bool
}

// NewGet returns an idempotent GET descriptor.
func NewGet(op string, params url.Values, format string) Descriptor {
	return Descriptor{
		Op:         op,
		Params:     params,
		Format:     format,
		Method:     http.MethodGet,
		Idempotent: true,
	}
}

// NewPost returns a non-idempotent POST descriptor for operations that create
// or mutate server-side session state.
func NewPost(op string, params url.Values, format string) Descriptor {
	return Descriptor{
		Op:         op,
		Params:     params,
		Format:     format,
		Method:     http.MethodPost,
		Idempotent: false,
	}
}

// CacheKey derives the stable cache key for this descriptor.
func (d Descriptor) CacheKey() cache.Key {
	return cache.Key{Op: d.Op, Params: d.Params}
}
