package eutils

import (
	"context"
	"net/url"
	"strconv"

	"github.com/amdshrif/ncbi-client/pkg/client"
	"github.com/amdshrif/ncbi-client/pkg/history"
)

// SummaryOptions tune an ESummary request.
type SummaryOptions struct {
	// RetMode selects the serialization. Defaults to xml; "json" pairs
	// with Version 2.0.
	RetMode string

	// Version selects the DocSum schema; "2.0" is the current one.
	Version string

	// RetStart and RetMax page through a session's result set.
	RetStart int
	RetMax   int
}

func (o SummaryOptions) apply(params url.Values) string {
	mode := o.RetMode
	if mode == "" {
		mode = "xml"
	}
	params.Set("retmode", mode)
	if o.Version != "" {
		params.Set("version", o.Version)
	}
	if o.RetStart > 0 {
		params.Set("retstart", strconv.Itoa(o.RetStart))
	}
	if o.RetMax > 0 {
		params.Set("retmax", strconv.Itoa(o.RetMax))
	}
	return mode
}

// Summary retrieves document summaries for an explicit ID list.
func (s *Service) Summary(ctx context.Context, db string, ids []string, opts SummaryOptions) ([]byte, error) {
	const op = "esummary.fcgi"
	if db == "" {
		return nil, validationErr(op, "db is required")
	}
	if len(ids) == 0 {
		return nil, validationErr(op, "at least one id is required")
	}

	params := url.Values{
		"db": []string{db},
		"id": []string{joinIDs(ids)},
	}
	mode := opts.apply(params)

	d := client.NewGet(op, params, mode)
	if len(ids) > postThreshold {
		d = client.NewPost(op, params, mode)
	}
	resp, err := s.exec.Execute(ctx, d)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// SummarySession retrieves document summaries from a stored history session.
func (s *Service) SummarySession(ctx context.Context, session *history.Session, opts SummaryOptions) ([]byte, error) {
	const op = "esummary.fcgi"
	if !session.Valid() {
		return nil, validationErr(op, "session has no history references")
	}

	params := session.Params()
	mode := opts.apply(params)
	resp, err := s.exec.Execute(ctx, client.NewGet(op, params, mode))
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
