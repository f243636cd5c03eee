package cache

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"
)

func memKey(term string) Key {
	return Key{Op: "esearch.fcgi", Params: url.Values{"term": []string{term}}}
}

func TestMemory_RoundTrip(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()
	key := memKey("crispr")

	entry := NewEntry([]byte("payload"), "xml", time.Minute)
	if err := m.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got.Data) != "payload" {
		t.Errorf("Data = %q, want payload", got.Data)
	}
}

func TestMemory_MissOnAbsentKey(t *testing.T) {
	m := NewMemory(10)

	_, err := m.Get(context.Background(), memKey("nothing"))
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemory_ExpiryAtReadTime(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()
	key := memKey("aging")

	if err := m.Set(ctx, key, NewEntry([]byte("x"), "xml", time.Minute)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	// Simulate the clock advancing past the TTL.
	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	if _, err := m.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("Get() after expiry error = %v, want ErrCacheMiss", err)
	}

	// Expired entry is removed as a side effect of the lookup.
	if m.Len() != 0 {
		t.Errorf("Len() = %d after lazy eviction, want 0", m.Len())
	}
}

func TestMemory_EvictsOldestInsertionWhenFull(t *testing.T) {
	m := NewMemory(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		key := memKey(fmt.Sprintf("term-%d", i))
		if err := m.Set(ctx, key, NewEntry([]byte{byte(i)}, "xml", time.Hour)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	// Touch the oldest entry; FIFO eviction must ignore the access.
	if _, err := m.Get(ctx, memKey("term-0")); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if err := m.Set(ctx, memKey("term-3"), NewEntry([]byte{3}, "xml", time.Hour)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := m.Get(ctx, memKey("term-0")); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("oldest insertion survived eviction, error = %v", err)
	}
	for _, term := range []string{"term-1", "term-2", "term-3"} {
		if _, err := m.Get(ctx, memKey(term)); err != nil {
			t.Errorf("Get(%s) error = %v, want hit", term, err)
		}
	}
}

func TestMemory_OverwriteDoesNotGrow(t *testing.T) {
	m := NewMemory(5)
	ctx := context.Background()
	key := memKey("same")

	for i := 0; i < 10; i++ {
		if err := m.Set(ctx, key, NewEntry([]byte{byte(i)}, "xml", time.Hour)); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if m.Len() != 1 {
		t.Errorf("Len() = %d after repeated overwrites, want 1", m.Len())
	}

	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Data[0] != 9 {
		t.Errorf("Data[0] = %d, want latest write 9", got.Data[0])
	}
}

func TestMemory_DeleteAndClear(t *testing.T) {
	m := NewMemory(10)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_ = m.Set(ctx, memKey(fmt.Sprintf("t%d", i)), NewEntry(nil, "xml", time.Hour))
	}

	if err := m.Delete(ctx, memKey("t1")); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := m.Get(ctx, memKey("t1")); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Get() after delete error = %v, want ErrCacheMiss", err)
	}

	// Deleting a missing key is a no-op.
	if err := m.Delete(ctx, memKey("never")); err != nil {
		t.Errorf("Delete() of absent key error = %v", err)
	}

	if err := m.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", m.Len())
	}
}

// TestMemory_ConcurrentWriters verifies the size bound stays exact under
// concurrent insertion.
func TestMemory_ConcurrentWriters(t *testing.T) {
	m := NewMemory(8)
	ctx := context.Background()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := memKey(fmt.Sprintf("w%d-i%d", w, i))
				_ = m.Set(ctx, key, NewEntry(nil, "xml", time.Hour))
			}
		}(w)
	}
	wg.Wait()

	if m.Len() > 8 {
		t.Errorf("Len() = %d, size bound 8 violated", m.Len())
	}
}

func TestNewMemory_DefaultsInvalidBound(t *testing.T) {
	m := NewMemory(0)
	if m.maxEntries != DefaultMaxEntries {
		t.Errorf("maxEntries = %d, want %d", m.maxEntries, DefaultMaxEntries)
	}
}
