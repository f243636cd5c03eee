package cache

import (
	"testing"
	"time"
)

func TestNewEntry(t *testing.T) {
	entry := NewEntry([]byte("<eSearchResult/>"), "xml", time.Minute)

	if string(entry.Data) != "<eSearchResult/>" {
		t.Errorf("Data = %q", entry.Data)
	}
	if entry.Format != "xml" {
		t.Errorf("Format = %q, want xml", entry.Format)
	}
	if got := entry.ExpiresAt.Sub(entry.CreatedAt); got != time.Minute {
		t.Errorf("expiry offset = %v, want 1m", got)
	}
}

func TestEntry_ExpiredAt(t *testing.T) {
	created := time.Unix(1700000000, 0)
	entry := &Entry{
		CreatedAt: created,
		ExpiresAt: created.Add(time.Hour),
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "fresh", at: created.Add(time.Minute), want: false},
		{name: "at expiry instant", at: created.Add(time.Hour), want: false},
		{name: "past expiry", at: created.Add(time.Hour + time.Nanosecond), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := entry.ExpiredAt(tt.at); got != tt.want {
				t.Errorf("ExpiredAt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntry_TTL(t *testing.T) {
	fresh := NewEntry(nil, "xml", time.Hour)
	if ttl := fresh.TTL(); ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL() = %v, want (0, 1h]", ttl)
	}

	stale := &Entry{ExpiresAt: time.Now().Add(-time.Minute)}
	if ttl := stale.TTL(); ttl != 0 {
		t.Errorf("TTL() of expired entry = %v, want 0", ttl)
	}
}
