package tablemap

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/ukaji3/tablegrid-go/pkg/tablegrid/models"
)

// DefaultCacheSize is the capacity of a RingCache created with size <= 0.
const DefaultCacheSize = 10

// Cache stores computed maps per table node version. Hits are only valid
// because nodes are immutable: a changed table is always a new node.
type Cache interface {
	// Get returns the map cached for table.
	Get(table *models.Node) (*TableMap, bool)
	// Add stores m for table unless a map is already stored, and returns
	// the stored map.
	Add(table *models.Node, m *TableMap) *TableMap
}

// WeakCache keys maps by node identity without keeping nodes alive. An
// entry is dropped once its node is garbage collected.
type WeakCache struct {
	mu      sync.Mutex
	entries map[weak.Pointer[models.Node]]*TableMap
}

// NewWeakCache returns an empty WeakCache.
func NewWeakCache() *WeakCache {
	return &WeakCache{entries: make(map[weak.Pointer[models.Node]]*TableMap)}
}

// Get implements Cache.
func (c *WeakCache) Get(table *models.Node) (*TableMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.entries[weak.Make(table)]
	return m, ok
}

// Add implements Cache.
func (c *WeakCache) Add(table *models.Node, m *TableMap) *TableMap {
	key := weak.Make(table)
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing
	}
	c.entries[key] = m
	runtime.AddCleanup(table, c.evict, key)
	return m
}

// Len returns the number of live entries.
func (c *WeakCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *WeakCache) evict(key weak.Pointer[models.Node]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// RingCache keys maps by node handle and keeps at most a fixed number of
// entries, evicting the oldest first.
type RingCache struct {
	mu   sync.Mutex
	keys []models.Handle
	maps []*TableMap
	next int
}

// NewRingCache returns a RingCache holding up to size entries.
func NewRingCache(size int) *RingCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &RingCache{
		keys: make([]models.Handle, 0, size),
		maps: make([]*TableMap, 0, size),
	}
}

// Get implements Cache.
func (c *RingCache) Get(table *models.Node) (*TableMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(table.Handle())
}

func (c *RingCache) lookup(h models.Handle) (*TableMap, bool) {
	for i, k := range c.keys {
		if k == h {
			return c.maps[i], true
		}
	}
	return nil, false
}

// Add implements Cache.
func (c *RingCache) Add(table *models.Node, m *TableMap) *TableMap {
	h := table.Handle()
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.lookup(h); ok {
		return existing
	}
	if len(c.keys) < cap(c.keys) {
		c.keys = append(c.keys, h)
		c.maps = append(c.maps, m)
		return m
	}
	slog.Debug("evicting table map", slog.String("component", "tablemap"), slog.Uint64("handle", uint64(c.keys[c.next])))
	c.keys[c.next] = h
	c.maps[c.next] = m
	c.next = (c.next + 1) % len(c.keys)
	return m
}

type cacheHolder struct{ c Cache }

var defaultCache atomic.Pointer[cacheHolder]

func init() {
	defaultCache.Store(&cacheHolder{c: NewWeakCache()})
}

// SetDefaultCache replaces the cache used by Get.
func SetDefaultCache(c Cache) {
	defaultCache.Store(&cacheHolder{c: c})
}

// DefaultCache returns the cache used by Get.
func DefaultCache() Cache {
	return defaultCache.Load().c
}

// Get returns the map for table, computing it on a cache miss.
func Get(table *models.Node) (*TableMap, error) {
	return GetFrom(DefaultCache(), table)
}

// GetFrom is Get with an explicit cache.
func GetFrom(c Cache, table *models.Node) (*TableMap, error) {
	if m, ok := c.Get(table); ok {
		return m, nil
	}
	m, err := Compute(table)
	if err != nil {
		return nil, err
	}
	return c.Add(table, m), nil
}
