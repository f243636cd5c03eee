package cache

import (
	"time"
)

// Entry is a cached E-utilities response.
type Entry struct {
	// Data is the raw response body as returned by the service.
	Data []byte `json:"data"`

	// Format is the retmode the response was requested in (xml, json, text).
	Format string `json:"format"`

	// CreatedAt is when the entry was written.
	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is when the entry becomes stale.
	ExpiresAt time.Time `json:"expires_at"`
}

// NewEntry creates an entry expiring ttl from now.
func NewEntry(data []byte, format string, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:      data,
		Format:    format,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// ExpiredAt reports whether the entry is stale at the given instant.
func (e *Entry) ExpiredAt(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// IsExpired reports whether the entry is stale now.
func (e *Entry) IsExpired() bool {
	return e.ExpiredAt(time.Now())
}

// TTL returns the time until expiration, or 0 if already expired.
func (e *Entry) TTL() time.Duration {
	ttl := time.Until(e.ExpiresAt)
	if ttl < 0 {
		return 0
	}
	return ttl
}
