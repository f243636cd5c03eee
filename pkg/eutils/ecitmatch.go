package eutils

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/amdshrif/ncbi-client/pkg/client"
)

// Citation is one citation to resolve to a PubMed ID. Key is an opaque
// caller-chosen tag echoed back in the result line.
type Citation struct {
	Journal   string
	Year      string
	Volume    string
	FirstPage string
	Author    string
	Key       string
}

// bdata renders the citation in the pipe-delimited form ecitmatch expects.
func (c Citation) bdata() string {
	return strings.Join([]string{
		c.Journal, c.Year, c.Volume, c.FirstPage, c.Author, c.Key,
	}, "|") + "|"
}

// CitMatch resolves citations to PubMed IDs. The response is the service's
// plain-text format: one line per citation, the input fields echoed back with
// the PMID (or "NOT_FOUND") appended.
func (s *Service) CitMatch(ctx context.Context, citations []Citation) ([]byte, error) {
	const op = "ecitmatch.cgi"
	if len(citations) == 0 {
		return nil, validationErr(op, "at least one citation is required")
	}
	for i, c := range citations {
		if c.Journal == "" || c.Year == "" {
			return nil, validationErr(op, fmt.Sprintf("citation %d needs at least journal and year", i))
		}
	}

	lines := make([]string, len(citations))
	for i, c := range citations {
		lines[i] = c.bdata()
	}
	params := url.Values{
		"db":      []string{"pubmed"},
		"retmode": []string{"xml"},
		"bdata":   []string{strings.Join(lines, "\r")},
	}

	resp, err := s.exec.Execute(ctx, client.NewGet(op, params, "xml"))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
