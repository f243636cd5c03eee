package eutils

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/amdshrif/ncbi-client/pkg/client"
)

type eInfoResult struct {
	XMLName xml.Name `xml:"eInfoResult"`
	DbNames []string `xml:"DbList>DbName"`
}

// Info returns database metadata: field lists, link lists and record counts
// for db, or the full database list when db is empty. The raw envelope is
// returned; Databases decodes the list form.
func (s *Service) Info(ctx context.Context, db string) ([]byte, error) {
	const op = "einfo.fcgi"
	params := url.Values{"retmode": []string{"xml"}}
	if db != "" {
		params.Set("db", db)
	}
	resp, err := s.exec.Execute(ctx, client.NewGet(op, params, "xml"))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// Databases returns the names of all Entrez databases.
func (s *Service) Databases(ctx context.Context) ([]string, error) {
	body, err := s.Info(ctx, "")
	if err != nil {
		return nil, err
	}
	var envelope eInfoResult
	if err := xml.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode einfo response: %w", err)
	}
	return envelope.DbNames, nil
}
