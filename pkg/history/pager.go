package history

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/amdshrif/ncbi-client/pkg/client"
)

// DefaultPageSize is the retrieval window used when none is configured.
const DefaultPageSize = 500

// State is the pager's position in its lifecycle.
type State int

const (
	// Idle means the next page can be requested.
	Idle State = iota

	// Fetching means a page request is in flight.
	Fetching

	// Exhausted means the full result set has been retrieved. Terminal;
	// further Next calls are no-ops.
	Exhausted

	// Failed means a page request failed terminally. Terminal; pages
	// already retrieved remain valid.
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Executor dispatches page requests. *client.Client satisfies it.
type Executor interface {
	Execute(ctx context.Context, d client.Descriptor) (*client.Response, error)
}

// Page is one bounded slice of a session's results.
type Page struct {
	// Data is the raw response for this window.
	Data []byte

	// Start is the retstart offset this page was fetched at.
	Start int

	// Count is the number of items in this page.
	Count int

	// HasMore reports whether another page remains.
	HasMore bool
}

// PageFunc builds the descriptor for one retrieval window.
type PageFunc func(retstart, retmax int) client.Descriptor

// CountFunc extracts the item count from a page payload. When nil, the pager
// assumes the service returned the full requested window (bounded by the
// session's total count).
type CountFunc func(data []byte) int

// PagerConfig tunes a Pager.
type PagerConfig struct {
	// PageSize is the retmax per request. Defaults to DefaultPageSize.
	PageSize int

	// Page overrides the default efetch-from-history descriptor.
	Page PageFunc

	// Count overrides the default per-page item counting.
	Count CountFunc
}

// Pager drives multi-page retrieval against one history session. Pages are
// issued in strictly increasing retstart order and must be driven by a single
// logical caller; the pager does not serialize concurrent use.
//
// The session's total count is trusted for the pager's lifetime. If the
// remote dataset shrinks mid-pagination, the final page comes back short and
// the pager treats that as normal exhaustion.
type Pager struct {
	exec      Executor
	session   *Session
	pageSize  int
	pageFn    PageFunc
	countFn   CountFunc
	state     State
	retrieved int
	err       error
	logger    zerolog.Logger
}

// NewPager creates a pager over session.
func NewPager(exec Executor, session *Session, cfg PagerConfig) (*Pager, error) {
	if !session.Valid() {
		return nil, fmt.Errorf("session has no history references")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	p := &Pager{
		exec:     exec,
		session:  session,
		pageSize: cfg.PageSize,
		pageFn:   cfg.Page,
		countFn:  cfg.Count,
		logger: log.With().
			Str("component", "history-pager").
			Str("db", session.DB).
			Int("query_key", session.QueryKey).
			Logger(),
	}
	if p.pageFn == nil {
		p.pageFn = p.fetchDescriptor
	}
	return p, nil
}

// State returns the current lifecycle state.
func (p *Pager) State() State { return p.state }

// Retrieved returns the cumulative number of items retrieved so far.
func (p *Pager) Retrieved() int { return p.retrieved }

// Err returns the terminal failure, if any.
func (p *Pager) Err() error { return p.err }

// Next retrieves the next page. It returns (nil, nil) once the set is
// exhausted, and repeats the terminal error once the pager has failed.
func (p *Pager) Next(ctx context.Context) (*Page, error) {
	switch p.state {
	case Exhausted:
		return nil, nil
	case Failed:
		return nil, p.err
	case Fetching:
		return nil, fmt.Errorf("pager already fetching; pages must be requested sequentially")
	}

	if p.retrieved >= p.session.Count {
		p.state = Exhausted
		return nil, nil
	}

	start := p.retrieved
	window := p.pageSize
	if remaining := p.session.Count - start; remaining < window {
		window = remaining
	}

	p.state = Fetching
	resp, err := p.exec.Execute(ctx, p.pageFn(start, window))
	if err != nil {
		// Terminal for the pager; pages already delivered stay valid.
		p.state = Failed
		p.err = err
		p.logger.Warn().Err(err).Int("retstart", start).Msg("Page fetch failed")
		return nil, err
	}

	count := window
	if p.countFn != nil {
		count = p.countFn(resp.Body)
		if count > window {
			count = window
		}
	}
	p.retrieved += count

	// A short or empty page without an explicit service error means the
	// result set ended early; treat it as normal exhaustion.
	if p.retrieved >= p.session.Count || count < window {
		p.state = Exhausted
	} else {
		p.state = Idle
	}

	p.logger.Debug().
		Int("retstart", start).
		Int("count", count).
		Int("retrieved", p.retrieved).
		Int("total", p.session.Count).
		Stringer("state", p.state).
		Msg("Page retrieved")

	return &Page{
		Data:    resp.Body,
		Start:   start,
		Count:   count,
		HasMore: p.state == Idle,
	}, nil
}

// fetchDescriptor is the default page request: efetch against the session.
func (p *Pager) fetchDescriptor(retstart, retmax int) client.Descriptor {
	params := p.session.Params()
	params.Set("retstart", strconv.Itoa(retstart))
	params.Set("retmax", strconv.Itoa(retmax))
	return client.NewGet("efetch.fcgi", params, "xml")
}
