package eutils

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/amdshrif/ncbi-client/pkg/client"
)

type eSpellResult struct {
	XMLName        xml.Name `xml:"eSpellResult"`
	CorrectedQuery string   `xml:"CorrectedQuery"`
}

// Spell returns the service's spelling suggestion for term, or the empty
// string when the service has none.
func (s *Service) Spell(ctx context.Context, db, term string) (string, error) {
	const op = "espell.fcgi"
	if db == "" {
		return "", validationErr(op, "db is required")
	}
	if term == "" {
		return "", validationErr(op, "term is required")
	}

	params := url.Values{
		"db":   []string{db},
		"term": []string{term},
	}
	resp, err := s.exec.Execute(ctx, client.NewGet(op, params, "xml"))
	if err != nil {
		return "", err
	}

	var envelope eSpellResult
	if err := xml.Unmarshal(resp.Body, &envelope); err != nil {
		return "", fmt.Errorf("decode espell response: %w", err)
	}
	return envelope.CorrectedQuery, nil
}
