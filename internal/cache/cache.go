// Package cache provides a TTL-aware on-disk cache for fetched did:tdw
// logs, adapted from the teacher's internal/store.FSStore: the same
// mutex-protected read-modify-write discipline, repurposed to cache log
// entries instead of sealed objects, with files named by a sha256 hash of
// the log URL instead of a sanitized path. Concurrent
// fetches of the same log URL are collapsed with singleflight rather than
// each hitting the network.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stackdump/tdw-resolver/internal/didlog"
)

// FetchFunc retrieves fresh log entries on a cache miss.
type FetchFunc func(ctx context.Context) ([]didlog.Entry, error)

// Cache stores fetched log entries under base, keyed by a hash of their
// source URL, and treats an entry as fresh for ttl after it was written.
// A zero ttl disables read caching; entries are still deduplicated across
// concurrent in-flight fetches via singleflight.
type Cache struct {
	base string
	ttl  time.Duration

	mu    sync.Mutex
	group singleflight.Group
}

type cachedLog struct {
	FetchedAt time.Time      `json:"fetchedAt"`
	Entries   []didlog.Entry `json:"entries"`
}

// New builds a Cache rooted at base whose entries stay fresh for ttl. The
// ttl is fixed by the caller; the ttl a did:tdw log's parameters declare is
// not read by this type.
func New(base string, ttl time.Duration) *Cache {
	return &Cache{base: base, ttl: ttl}
}

func (c *Cache) pathFor(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.base, hex.EncodeToString(sum[:])+".json")
}

// Fetch returns cached entries for url if they are still fresh, otherwise
// calls fetch, collapsing concurrent calls for the same url into one
// network round trip, and persists the result before returning it.
func (c *Cache) Fetch(ctx context.Context, url string, fetch FetchFunc) ([]didlog.Entry, error) {
	if c == nil {
		return fetch(ctx)
	}

	if entries, ok := c.readFresh(url); ok {
		return entries, nil
	}

	v, err, _ := c.group.Do(url, func() (interface{}, error) {
		entries, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.write(url, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]didlog.Entry), nil
}

func (c *Cache) readFresh(url string) ([]didlog.Entry, bool) {
	if c.base == "" || c.ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	raw, err := os.ReadFile(c.pathFor(url))
	if err != nil {
		return nil, false
	}

	var cached cachedLog
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}

	if time.Since(cached.FetchedAt) > c.ttl {
		return nil, false
	}
	return cached.Entries, true
}

func (c *Cache) write(url string, entries []didlog.Entry) {
	if c.base == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.base, 0o755); err != nil {
		return
	}

	raw, err := json.Marshal(cachedLog{FetchedAt: time.Now(), Entries: entries})
	if err != nil {
		return
	}

	tmp := c.pathFor(url) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, c.pathFor(url))
}
