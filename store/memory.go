package store

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// Memory is the in-process backend. Entries never expire: ledgers and
// sessions live for the server's lifetime.
type Memory struct {
	c *cache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: cache.New(cache.NoExpiration, 0)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *Memory) Put(_ context.Context, key string, doc []byte) error {
	m.c.Set(key, doc, cache.NoExpiration)
	return nil
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.c.Get(key)
	return ok, nil
}
