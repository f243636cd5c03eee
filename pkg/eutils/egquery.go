package eutils

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/amdshrif/ncbi-client/pkg/client"
)

// GlobalCount is one database's hit count for a global query.
type GlobalCount struct {
	DbName string `xml:"DbName"`
	Count  int    `xml:"Count"`
	Status string `xml:"Status"`
}

type eGQueryResult struct {
	XMLName xml.Name      `xml:"Result"`
	Term    string        `xml:"Term"`
	Counts  []GlobalCount `xml:"eGQueryResult>ResultItem"`
}

// GlobalQuery runs term against every Entrez database and returns the per-
// database hit counts.
func (s *Service) GlobalQuery(ctx context.Context, term string) ([]GlobalCount, error) {
	const op = "egquery.fcgi"
	if term == "" {
		return nil, validationErr(op, "term is required")
	}

	params := url.Values{"term": []string{term}}
	resp, err := s.exec.Execute(ctx, client.NewGet(op, params, "xml"))
	if err != nil {
		return nil, err
	}

	var envelope eGQueryResult
	if err := xml.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("decode egquery response: %w", err)
	}
	return envelope.Counts, nil
}
