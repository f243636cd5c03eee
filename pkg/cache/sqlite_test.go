package cache

import (
	"context"
	"errors"
	"net/url"
	"path/filepath"
	"testing"
	"time"
)

func setupSQLite(t *testing.T) *SQLite {
	t.Helper()

	store, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLite_RoundTrip(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	key := Key{Op: "efetch.fcgi", Params: url.Values{"id": []string{"99"}}}

	entry := NewEntry([]byte(">seq1\nACGT"), "text", time.Minute)
	if err := store.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Data) != ">seq1\nACGT" {
		t.Errorf("Data = %q", got.Data)
	}
	if got.Format != "text" {
		t.Errorf("Format = %q, want text", got.Format)
	}
}

func TestSQLite_MissOnAbsentKey(t *testing.T) {
	store := setupSQLite(t)

	_, err := store.Get(context.Background(), Key{Op: "einfo.fcgi"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestSQLite_ReadTimeExpiry(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	key := Key{Op: "esearch.fcgi", Params: url.Values{"term": []string{"old"}}}

	if err := store.Set(ctx, key, NewEntry([]byte("x"), "xml", time.Minute)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	store.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := store.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after simulated expiry error = %v, want ErrCacheMiss", err)
	}
}

func TestSQLite_OverwriteReplaces(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()
	key := Key{Op: "esummary.fcgi", Params: url.Values{"id": []string{"1"}}}

	_ = store.Set(ctx, key, NewEntry([]byte("first"), "xml", time.Hour))
	if err := store.Set(ctx, key, NewEntry([]byte("second"), "xml", time.Hour)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Data) != "second" {
		t.Errorf("Data = %q, want second", got.Data)
	}
}

func TestSQLite_ClearExpired(t *testing.T) {
	store := setupSQLite(t)
	ctx := context.Background()

	_ = store.Set(ctx, Key{Op: "a"}, NewEntry(nil, "xml", time.Hour))

	stale := &Entry{
		Data:      []byte("x"),
		Format:    "xml",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	_ = store.Set(ctx, Key{Op: "b"}, stale)

	removed, err := store.ClearExpired(ctx)
	if err != nil {
		t.Fatalf("ClearExpired() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("ClearExpired() removed = %d, want 1", removed)
	}

	if _, err := store.Get(ctx, Key{Op: "a"}); err != nil {
		t.Errorf("fresh entry removed by ClearExpired: %v", err)
	}
}

func TestSQLite_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()
	key := Key{Op: "efetch.fcgi", Params: url.Values{"id": []string{"42"}}}

	first, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	if err := first.Set(ctx, key, NewEntry([]byte("durable"), "xml", time.Hour)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	first.Close()

	second, err := NewSQLite(path)
	if err != nil {
		t.Fatalf("NewSQLite() reopen error = %v", err)
	}
	defer second.Close()

	got, err := second.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() after reopen error = %v", err)
	}
	if string(got.Data) != "durable" {
		t.Errorf("Data = %q, want durable", got.Data)
	}
}
