package numerator

import (
	"context"
	"sync"
)

// MockGenerator is a test implementation of Generator.
// Without NextFunc it counts per prefix starting from the seed.
type MockGenerator struct {
	NextFunc func(ctx context.Context, cfg Config) (string, error)
	PeekFunc func(ctx context.Context, cfg Config) (string, error)
	SyncFunc func(ctx context.Context, cfg Config) (int64, error)

	mu       sync.Mutex
	counters map[string]int64
}

// Next implements Generator.
func (m *MockGenerator) Next(ctx context.Context, cfg Config) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx, cfg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counters == nil {
		m.counters = make(map[string]int64)
	}
	m.counters[cfg.Prefix]++
	return Format(cfg, m.counters[cfg.Prefix]), nil
}

// Peek implements Generator.
func (m *MockGenerator) Peek(ctx context.Context, cfg Config) (string, error) {
	if m.PeekFunc != nil {
		return m.PeekFunc(ctx, cfg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return Format(cfg, m.counters[cfg.Prefix]+1), nil
}

// Sync implements Generator.
func (m *MockGenerator) Sync(ctx context.Context, cfg Config) (int64, error) {
	if m.SyncFunc != nil {
		return m.SyncFunc(ctx, cfg)
	}
	return 0, nil
}

var _ Generator = (*MockGenerator)(nil)
