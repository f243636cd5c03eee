package client

import (
	"net/http"
	"net/url"
	"testing"
)

func TestNewGet(t *testing.T) {
	d := NewGet("esearch.fcgi", url.Values{"db": []string{"pubmed"}}, "xml")

	if d.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", d.Method)
	}
	if !d.Idempotent {
		t.Error("GET descriptor must be idempotent")
	}
}

func TestNewPost(t *testing.T) {
	d := NewPost("epost.fcgi", url.Values{"id": []string{"1,2"}}, "xml")

	if d.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", d.Method)
	}
	if d.Idempotent {
		t.Error("session-mutating POST descriptor must not be idempotent")
	}
}

func TestDescriptor_CacheKey(t *testing.T) {
	params := url.Values{"db": []string{"pubmed"}, "term": []string{"crispr"}}
	a := NewGet("esearch.fcgi", params, "xml")
	b := NewGet("esearch.fcgi", params, "xml")

	if a.CacheKey().String() != b.CacheKey().String() {
		t.Error("identical descriptors derive different cache keys")
	}

	c := NewGet("esummary.fcgi", params, "xml")
	if a.CacheKey().String() == c.CacheKey().String() {
		t.Error("different operations derive the same cache key")
	}
}
