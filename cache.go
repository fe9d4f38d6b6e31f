package springforge

import (
	"errors"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrCacheMiss is returned by Cache.Get when no entry exists for a key.
var ErrCacheMiss = errors.New("springforge: cache miss")

// Cache stores generated projects keyed by diagram fingerprint, letting a
// repeated request for an unchanged diagram skip regeneration. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(key string) (*GeneratedProject, error)
	Put(key string, project *GeneratedProject) error
	Evict(key string)
}

// MemCache is an in-memory Cache holding msgpack-encoded projects. Encoding
// on Put means callers get an independent copy back from Get.
type MemCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemCache returns an empty in-memory cache.
func NewMemCache() *MemCache {
	return &MemCache{entries: make(map[string][]byte)}
}

// Get decodes and returns the project stored under key, or ErrCacheMiss.
func (c *MemCache) Get(key string) (*GeneratedProject, error) {
	c.mu.RLock()
	buf, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrCacheMiss
	}
	var p GeneratedProject
	if err := msgpack.Unmarshal(buf, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Put encodes and stores the project under key, replacing any previous entry.
func (c *MemCache) Put(key string, project *GeneratedProject) error {
	buf, err := msgpack.Marshal(project)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries[key] = buf
	c.mu.Unlock()
	return nil
}

// Evict removes the entry for key, if any.
func (c *MemCache) Evict(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *MemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
