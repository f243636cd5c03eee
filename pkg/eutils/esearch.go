package eutils

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strconv"

	"github.com/amdshrif/ncbi-client/pkg/client"
	"github.com/amdshrif/ncbi-client/pkg/history"
)

// SearchOptions tune an ESearch request. The zero value asks for the
// service defaults.
type SearchOptions struct {
	// RetMax bounds the number of IDs returned inline.
	RetMax int

	// RetStart offsets the inline ID list.
	RetStart int

	// Sort orders results (e.g. "pub_date", "relevance").
	Sort string

	// Field restricts the term to one search field.
	Field string

	// DateType, MinDate, MaxDate and RelDate constrain by date. MinDate
	// and MaxDate must be set together.
	DateType string
	MinDate  string
	MaxDate  string
	RelDate  int

	// UseHistory stores the result set server-side and returns a Session.
	UseHistory bool

	// Session appends this query to an existing WebEnv instead of opening
	// a new one. Implies UseHistory.
	Session *history.Session
}

// SearchResult is the decoded esearch envelope.
type SearchResult struct {
	// Count is the total number of matching records.
	Count int

	// IDs is the inline ID list, bounded by retmax.
	IDs []string

	// QueryTranslation is the service's interpretation of the term.
	QueryTranslation string

	// Session references the server-side result set when UseHistory was
	// requested, nil otherwise.
	Session *history.Session

	// Raw is the undecoded response body.
	Raw []byte
}

type eSearchResult struct {
	XMLName          xml.Name `xml:"eSearchResult"`
	Count            int      `xml:"Count"`
	QueryKey         int      `xml:"QueryKey"`
	WebEnv           string   `xml:"WebEnv"`
	IDs              []string `xml:"IdList>Id"`
	QueryTranslation string   `xml:"QueryTranslation"`
}

// Search runs an ESearch query against db. When opts requests history, the
// returned result carries a Session and the session is added to s.History.
func (s *Service) Search(ctx context.Context, db, term string, opts SearchOptions) (*SearchResult, error) {
	const op = "esearch.fcgi"
	if db == "" {
		return nil, validationErr(op, "db is required")
	}
	if term == "" {
		return nil, validationErr(op, "term is required")
	}

	params := url.Values{
		"db":   []string{db},
		"term": []string{term},
	}
	if opts.RetMax > 0 {
		params.Set("retmax", strconv.Itoa(opts.RetMax))
	}
	if opts.RetStart > 0 {
		params.Set("retstart", strconv.Itoa(opts.RetStart))
	}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Field != "" {
		params.Set("field", opts.Field)
	}
	if opts.DateType != "" {
		params.Set("datetype", opts.DateType)
	}
	if (opts.MinDate == "") != (opts.MaxDate == "") {
		return nil, validationErr(op, "mindate and maxdate must be set together")
	}
	if opts.MinDate != "" {
		params.Set("mindate", opts.MinDate)
		params.Set("maxdate", opts.MaxDate)
	}
	if opts.RelDate > 0 {
		params.Set("reldate", strconv.Itoa(opts.RelDate))
	}

	useHistory := opts.UseHistory || opts.Session != nil
	if useHistory {
		params.Set("usehistory", "y")
	}
	if opts.Session != nil {
		if !opts.Session.Valid() {
			return nil, validationErr(op, "session has no history references")
		}
		params.Set("WebEnv", opts.Session.WebEnv)
	}

	resp, err := s.exec.Execute(ctx, client.NewGet(op, params, "xml"))
	if err != nil {
		return nil, err
	}

	var envelope eSearchResult
	if err := xml.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("decode esearch response: %w", err)
	}

	result := &SearchResult{
		Count:            envelope.Count,
		IDs:              envelope.IDs,
		QueryTranslation: envelope.QueryTranslation,
		Raw:              resp.Body,
	}
	if useHistory {
		if envelope.WebEnv == "" || envelope.QueryKey == 0 {
			return nil, fmt.Errorf("esearch with usehistory returned no history references")
		}
		result.Session = &history.Session{
			WebEnv:   envelope.WebEnv,
			QueryKey: envelope.QueryKey,
			DB:       db,
			Term:     term,
			Count:    envelope.Count,
		}
		s.History.Add(result.Session, "search")
	}
	return result, nil
}

// CombineSearch runs a search whose term references earlier query keys in the
// same WebEnv, e.g. joining query #1 and #2 with AND.
func (s *Service) CombineSearch(ctx context.Context, session *history.Session, queryKeys []int, operator string) (*SearchResult, error) {
	const op = "esearch.fcgi"
	if !session.Valid() {
		return nil, validationErr(op, "session has no history references")
	}
	term, err := history.CombineQueries(queryKeys, operator)
	if err != nil {
		return nil, validationErr(op, err.Error())
	}
	return s.Search(ctx, session.DB, term, SearchOptions{Session: session})
}
