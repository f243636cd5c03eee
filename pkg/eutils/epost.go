package eutils

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/amdshrif/ncbi-client/pkg/client"
	"github.com/amdshrif/ncbi-client/pkg/history"
)

type ePostResult struct {
	XMLName  xml.Name `xml:"ePostResult"`
	QueryKey int      `xml:"QueryKey"`
	WebEnv   string   `xml:"WebEnv"`
}

// Post uploads an ID list to the history server and returns the session
// referencing it. Passing an existing session appends the posted set to that
// session's WebEnv as a new query key. EPost mutates server-side state, so it
// is never cached.
func (s *Service) Post(ctx context.Context, db string, ids []string, session *history.Session) (*history.Session, error) {
	const op = "epost.fcgi"
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
	if session != nil {
		if !session.Valid() {
			return nil, validationErr(op, "session has no history references")
		}
		params.Set("WebEnv", session.WebEnv)
	}

	resp, err := s.exec.Execute(ctx, client.NewPost(op, params, "xml"))
	if err != nil {
		return nil, err
	}

	var envelope ePostResult
	if err := xml.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, fmt.Errorf("decode epost response: %w", err)
	}
	if envelope.WebEnv == "" || envelope.QueryKey == 0 {
		return nil, fmt.Errorf("epost returned no history references")
	}

	created := &history.Session{
		WebEnv:   envelope.WebEnv,
		QueryKey: envelope.QueryKey,
		DB:       db,
		Count:    len(ids),
	}
	s.History.Add(created, "post")
	return created, nil
}
