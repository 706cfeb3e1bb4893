package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stackdump/tdw-resolver/internal/didlog"
)

func TestFetch_CallsFetchOnMiss(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	c := New(tmpDir, time.Minute)
	calls := 0
	fetch := func(ctx context.Context) ([]didlog.Entry, error) {
		calls++
		return []didlog.Entry{{VersionID: "1-hash"}}, nil
	}

	entries, err := c.Fetch(context.Background(), "https://example.com/did.jsonl", fetch)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(entries) != 1 || entries[0].VersionID != "1-hash" {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if calls != 1 {
		t.Errorf("expected fetch to be called once, got %d", calls)
	}
}

func TestFetch_ServesFreshCacheWithoutCallingFetch(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	c := New(tmpDir, time.Minute)
	calls := 0
	fetch := func(ctx context.Context) ([]didlog.Entry, error) {
		calls++
		return []didlog.Entry{{VersionID: "1-hash"}}, nil
	}

	url := "https://example.com/did.jsonl"
	if _, err := c.Fetch(context.Background(), url, fetch); err != nil {
		t.Fatalf("first Fetch failed: %v", err)
	}
	if _, err := c.Fetch(context.Background(), url, fetch); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected cached result to avoid a second fetch, fetch called %d times", calls)
	}
}

func TestFetch_RefetchesAfterExpiry(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "cache-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	c := New(tmpDir, time.Nanosecond)
	calls := 0
	fetch := func(ctx context.Context) ([]didlog.Entry, error) {
		calls++
		return []didlog.Entry{{VersionID: "1-hash"}}, nil
	}

	url := "https://example.com/did.jsonl"
	if _, err := c.Fetch(context.Background(), url, fetch); err != nil {
		t.Fatalf("first Fetch failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, err := c.Fetch(context.Background(), url, fetch); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected expiry to trigger a second fetch, fetch called %d times", calls)
	}
}

func TestFetch_NilCacheAlwaysCallsFetch(t *testing.T) {
	var c *Cache
	calls := 0
	fetch := func(ctx context.Context) ([]didlog.Entry, error) {
		calls++
		return nil, nil
	}
	if _, err := c.Fetch(context.Background(), "https://example.com/did.jsonl", fetch); err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected fetch to be called, got %d calls", calls)
	}
}
