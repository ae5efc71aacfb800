package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultSize = 256

// MemoryStore is the single-instance cache used when no Redis is configured.
type MemoryStore struct {
	lru *expirable.LRU[string, Entry]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryStore{lru: expirable.NewLRU[string, Entry](size, nil, ttl)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	entry, ok := m.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return &entry, true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, entry Entry) error {
	m.lru.Add(key, entry)
	return nil
}

func (m *MemoryStore) Len() int {
	return m.lru.Len()
}
