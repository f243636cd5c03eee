package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached response. It is derived from the logical request
// (operation plus parameters) before credentials are merged in, so the same
// query hits the same entry regardless of the API key used.
type Key struct {
	// Op is the E-utility endpoint name (e.g. "esearch.fcgi").
	Op string

	// Params are the request parameters.
	Params url.Values
}

// String generates a deterministic key string. Parameters are sorted so that
// logically identical requests serialize identically.
//
// Example:
//
//	entrez:esearch.fcgi:db=pubmed:retmax=20:term=crispr
func (k Key) String() string {
	parts := []string{"entrez"}

	op := strings.Trim(k.Op, "/")
	if op != "" {
		parts = append(parts, op)
	}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			// Multi-valued params keep their submission order.
			for _, v := range k.Params[name] {
				parts = append(parts, fmt.Sprintf("%s=%s", name, v))
			}
		}
	}

	return strings.Join(parts, ":")
}
