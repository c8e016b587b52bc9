package analytics

import (
	"bytes"
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/golang/snappy"

	"datalens/internal/core/querygen"
	"datalens/internal/core/rowset"
	pnet "datalens/internal/platform/net"
)

// CacheOptions configures Cached
type CacheOptions struct {
	// Size is the most result sets kept, 0 disables caching
	Size int
	TTL  time.Duration
}

// CacheStats is a point in time view of cache activity
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
	Bytes   int   `json:"bytes"`
}

type cacheEntry struct {
	key     string
	payload []byte
	expires time.Time
}

// Cached keeps recent query results in a snappy compressed LRU
// column listings always go to the inner executor
type Cached struct {
	inner Executor
	opts  CacheOptions
	now   func() time.Time

	mu      sync.Mutex
	order   *list.List
	entries map[string]*list.Element
	bytes   int
	hits    int64
	misses  int64
}

var _ Executor = (*Cached)(nil)

// NewCached wraps inner; a zero Size returns a pass through cache
func NewCached(inner Executor, o CacheOptions) *Cached {
	if o.TTL <= 0 {
		o.TTL = time.Minute
	}
	return &Cached{
		inner:   inner,
		opts:    o,
		now:     time.Now,
		order:   list.New(),
		entries: map[string]*list.Element{},
	}
}

// CacheKey is the hex sha256 of the caller's bearer token and sql. The
// gateway authorizes per token, so entries are never shared across callers.
func CacheKey(bearer, sql string) string {
	h := sha256.New()
	h.Write([]byte(bearer))
	h.Write([]byte{0})
	h.Write([]byte(sql))
	return hex.EncodeToString(h.Sum(nil))
}

// Query serves sql from cache when fresh and fills the cache on a miss
func (c *Cached) Query(ctx context.Context, sql string) (rowset.Set, error) {
	if c.opts.Size <= 0 {
		return c.inner.Query(ctx, sql)
	}
	key := CacheKey(pnet.Bearer(ctx), sql)
	if set, ok := c.get(key); ok {
		return set, nil
	}
	set, err := c.inner.Query(ctx, sql)
	if err != nil {
		return rowset.Set{}, err
	}
	c.put(key, set)
	return set, nil
}

// Columns always asks the inner executor
func (c *Cached) Columns(ctx context.Context, dataset string) ([]querygen.Column, error) {
	return c.inner.Columns(ctx, dataset)
}

// Ping forwards to the inner executor when it can report readiness
func (c *Cached) Ping(ctx context.Context) error {
	if p, ok := c.inner.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Stats returns hit, miss and size counters
func (c *Cached) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{Hits: c.hits, Misses: c.misses, Entries: c.order.Len(), Bytes: c.bytes}
}

// Purge drops every entry
func (c *Cached) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.entries = map[string]*list.Element{}
	c.bytes = 0
}

func (c *Cached) get(key string) (rowset.Set, bool) {
	c.mu.Lock()
	el, ok := c.entries[key]
	if !ok {
		c.misses++
		c.mu.Unlock()
		return rowset.Set{}, false
	}
	e := el.Value.(*cacheEntry)
	if !c.now().Before(e.expires) {
		c.remove(el)
		c.misses++
		c.mu.Unlock()
		return rowset.Set{}, false
	}
	c.order.MoveToFront(el)
	c.hits++
	payload := e.payload
	c.mu.Unlock()

	set, err := decodeEntry(payload)
	if err != nil {
		return rowset.Set{}, false
	}
	return set, true
}

func (c *Cached) put(key string, set rowset.Set) {
	payload, err := encodeEntry(set)
	if err != nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		c.remove(el)
	}
	el := c.order.PushFront(&cacheEntry{key: key, payload: payload, expires: c.now().Add(c.opts.TTL)})
	c.entries[key] = el
	c.bytes += len(payload)

	for c.order.Len() > c.opts.Size {
		c.remove(c.order.Back())
	}
}

// remove must be called with mu held
func (c *Cached) remove(el *list.Element) {
	e := c.order.Remove(el).(*cacheEntry)
	delete(c.entries, e.key)
	c.bytes -= len(e.payload)
}

func encodeEntry(set rowset.Set) ([]byte, error) {
	raw, err := json.Marshal(set)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

func decodeEntry(payload []byte) (rowset.Set, error) {
	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return rowset.Set{}, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var set rowset.Set
	if err := dec.Decode(&set); err != nil {
		return rowset.Set{}, err
	}
	return set, nil
}
