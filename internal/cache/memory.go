package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

const bufferItems = 64

// Memory is an in-process cache backed by ristretto. Every entry costs 1,
// so MaxCost is the entry limit.
type Memory struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewMemory creates a Memory cache holding up to maxEntries values for ttl.
func NewMemory(maxEntries int64, ttl time.Duration) (*Memory, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxEntries * 10,
		MaxCost:            maxEntries,
		BufferItems:        bufferItems,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create memory cache: %w", err)
	}
	return &Memory{cache: c, ttl: ttl}, nil
}

// Get returns the cached value for key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.cache.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

// Set stores value and waits for the write buffer to drain so the entry is
// visible to the next Get.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.cache.SetWithTTL(key, value, 1, m.ttl)
	m.cache.Wait()
	return nil
}

// Close stops the ristretto background goroutines.
func (m *Memory) Close() error {
	m.cache.Close()
	return nil
}
