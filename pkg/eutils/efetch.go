package eutils

import (
	"context"
	"net/url"
	"strconv"

	"github.com/amdshrif/ncbi-client/pkg/client"
	"github.com/amdshrif/ncbi-client/pkg/history"
)

// FetchOptions tune an EFetch request.
type FetchOptions struct {
	// RetType selects the record type (e.g. "abstract", "fasta", "gb").
	RetType string

	// RetMode selects the serialization ("xml", "text", "json"). Defaults
	// to xml.
	RetMode string

	// RetStart and RetMax page through the result set.
	RetStart int
	RetMax   int

	// Strand, SeqStart and SeqStop subset sequence records.
	Strand   int
	SeqStart int
	SeqStop  int
}

func (o FetchOptions) apply(params url.Values) string {
	mode := o.RetMode
	if mode == "" {
		mode = "xml"
	}
	params.Set("retmode", mode)
	if o.RetType != "" {
		params.Set("rettype", o.RetType)
	}
	if o.RetStart > 0 {
		params.Set("retstart", strconv.Itoa(o.RetStart))
	}
	if o.RetMax > 0 {
		params.Set("retmax", strconv.Itoa(o.RetMax))
	}
	if o.Strand > 0 {
		params.Set("strand", strconv.Itoa(o.Strand))
	}
	if o.SeqStart > 0 {
		params.Set("seq_start", strconv.Itoa(o.SeqStart))
	}
	if o.SeqStop > 0 {
		params.Set("seq_stop", strconv.Itoa(o.SeqStop))
	}
	return mode
}

// Fetch retrieves full records for an explicit ID list. ID lists beyond the
// URL length threshold are sent as POST bodies, which also takes them out of
// the cache path.
func (s *Service) Fetch(ctx context.Context, db string, ids []string, opts FetchOptions) ([]byte, error) {
	const op = "efetch.fcgi"
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

// FetchSession retrieves records from a stored history session.
func (s *Service) FetchSession(ctx context.Context, session *history.Session, opts FetchOptions) ([]byte, error) {
	const op = "efetch.fcgi"
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

// FetchPager returns a pager that streams the session's records in pageSize
// windows, carrying opts (rettype, retmode) on every page request.
func (s *Service) FetchPager(session *history.Session, pageSize int, opts FetchOptions) (*history.Pager, error) {
	page := func(retstart, retmax int) client.Descriptor {
		params := session.Params()
		mode := opts.apply(params)
		params.Set("retstart", strconv.Itoa(retstart))
		params.Set("retmax", strconv.Itoa(retmax))
		return client.NewGet("efetch.fcgi", params, mode)
	}
	return history.NewPager(s.exec, session, history.PagerConfig{
		PageSize: pageSize,
		Page:     page,
	})
}
