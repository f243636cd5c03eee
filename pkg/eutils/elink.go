package eutils

import (
	"context"
	"net/url"

	"github.com/amdshrif/ncbi-client/pkg/client"
)

// LinkOptions tune an ELink request.
type LinkOptions struct {
	// LinkName restricts the traversal to one named link (e.g.
	// "pubmed_protein").
	LinkName string

	// Cmd selects the elink command mode; defaults to "neighbor".
	Cmd string

	// Holding restricts LinkOut providers.
	Holding string
}

// Link finds records in db linked to the given IDs in dbfrom.
func (s *Service) Link(ctx context.Context, dbfrom, db string, ids []string, opts LinkOptions) ([]byte, error) {
	const op = "elink.fcgi"
	if dbfrom == "" {
		return nil, validationErr(op, "dbfrom is required")
	}
	if len(ids) == 0 {
		return nil, validationErr(op, "at least one id is required")
	}

	params := url.Values{
		"dbfrom":  []string{dbfrom},
		"id":      []string{joinIDs(ids)},
		"retmode": []string{"xml"},
	}
	if db != "" {
		params.Set("db", db)
	}
	if opts.LinkName != "" {
		params.Set("linkname", opts.LinkName)
	}
	if opts.Cmd != "" {
		params.Set("cmd", opts.Cmd)
	}
	if opts.Holding != "" {
		params.Set("holding", opts.Holding)
	}

	resp, err := s.exec.Execute(ctx, client.NewGet(op, params, "xml"))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
