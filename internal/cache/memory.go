package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	value   []byte
	expires time.Time
}

// Memory is a mutex-guarded in-process cache for dev and single-client use.
type Memory struct {
	ttl   time.Duration
	mu    sync.Mutex
	data  map[string]map[string]entry
	clock func() time.Time
}

// NewMemory creates an in-memory cache. ttl <= 0 disables expiry.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		ttl:   ttl,
		data:  make(map[string]map[string]entry),
		clock: time.Now,
	}
}

// Get returns the cached value when present and not expired.
func (m *Memory) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		return nil, false, nil
	}
	e, ok := ns[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && m.clock().After(e.expires) {
		delete(ns, key)
		return nil, false, nil
	}
	// Copy so callers cannot mutate the cached bytes.
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

// Set stores a value under (namespace, key).
func (m *Memory) Set(_ context.Context, namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns, ok := m.data[namespace]
	if !ok {
		ns = make(map[string]entry)
		m.data[namespace] = ns
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	var exp time.Time
	if m.ttl > 0 {
		exp = m.clock().Add(m.ttl)
	}
	ns[key] = entry{value: stored, expires: exp}
	return nil
}

// Invalidate drops the whole namespace.
func (m *Memory) Invalidate(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, namespace)
	return nil
}

// Close releases all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[string]entry)
	return nil
}
