package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/avast/retry-go"
)

const probeTimeout = 2 * time.Second

// Durable is the primary backend contract: a Store that can report
// connectivity.
type Durable interface {
	Store
	Ping(ctx context.Context) error
}

// Fallback serves from the durable backend while it is reachable and
// degrades to the in-memory backend on any connectivity failure. Degradation
// is logged and never surfaced to callers. Writes made while degraded stay
// in memory; they are not replayed after an upgrade.
type Fallback struct {
	durable Durable
	memory  *Memory

	mu       sync.Mutex
	degraded bool
}

func NewFallback(durable Durable) *Fallback {
	return &Fallback{
		durable: durable,
		memory:  NewMemory(),
	}
}

// Probe re-checks connectivity when degraded; callers run it at the start of
// each request. A successful probe upgrades the store back to durable mode.
func (f *Fallback) Probe(ctx context.Context) {
	if !f.isDegraded() {
		return
	}
	err := retry.Do(
		func() error {
			ctx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()
			return f.durable.Ping(ctx)
		},
		retry.Attempts(2),
		retry.Delay(100*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return
	}
	f.setDegraded(false)
	slog.Info("durable store reachable again, leaving in-memory mode")
}

func (f *Fallback) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.isDegraded() {
		return f.memory.Get(ctx, key)
	}
	doc, ok, err := f.durable.Get(ctx, key)
	if err != nil {
		f.degrade("get", err)
		return f.memory.Get(ctx, key)
	}
	return doc, ok, nil
}

func (f *Fallback) Put(ctx context.Context, key string, doc []byte) error {
	if f.isDegraded() {
		return f.memory.Put(ctx, key, doc)
	}
	if err := f.durable.Put(ctx, key, doc); err != nil {
		f.degrade("put", err)
		return f.memory.Put(ctx, key, doc)
	}
	return nil
}

func (f *Fallback) Exists(ctx context.Context, key string) (bool, error) {
	if f.isDegraded() {
		return f.memory.Exists(ctx, key)
	}
	ok, err := f.durable.Exists(ctx, key)
	if err != nil {
		f.degrade("exists", err)
		return f.memory.Exists(ctx, key)
	}
	return ok, nil
}

func (f *Fallback) degrade(op string, err error) {
	f.mu.Lock()
	already := f.degraded
	f.degraded = true
	f.mu.Unlock()
	if !already {
		slog.Warn("durable store unavailable, falling back to in-memory mode", "op", op, "error", err)
	}
}

func (f *Fallback) isDegraded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.degraded
}

func (f *Fallback) setDegraded(v bool) {
	f.mu.Lock()
	f.degraded = v
	f.mu.Unlock()
}
