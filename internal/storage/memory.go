package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Clock allows tests to control expiry.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type bucket struct {
	values   map[string]string
	lastUsed time.Time
}

// MemoryBackend keeps values in process memory. With a positive TTL, a
// namespace untouched for longer than the TTL is dropped by SweepExpired and
// reads as empty until then.
type MemoryBackend struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	ttl     time.Duration
	clock   Clock
}

func NewMemoryBackend(ttl time.Duration, clock Clock) *MemoryBackend {
	if clock == nil {
		clock = realClock{}
	}
	return &MemoryBackend{
		buckets: make(map[string]*bucket),
		ttl:     ttl,
		clock:   clock,
	}
}

// live returns the namespace's bucket, expiring it first if needed. Callers
// hold m.mu.
func (m *MemoryBackend) live(namespace string, create bool) *bucket {
	now := m.clock.Now()
	b := m.buckets[namespace]
	if b != nil && m.expired(b, now) {
		delete(m.buckets, namespace)
		b = nil
	}
	if b == nil && create {
		b = &bucket{values: make(map[string]string)}
		m.buckets[namespace] = b
	}
	if b != nil {
		b.lastUsed = now
	}
	return b
}

func (m *MemoryBackend) expired(b *bucket, now time.Time) bool {
	return m.ttl > 0 && now.Sub(b.lastUsed) > m.ttl
}

func (m *MemoryBackend) Get(_ context.Context, namespace, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.live(namespace, false)
	if b == nil {
		return "", false, nil
	}
	value, ok := b.values[key]
	return value, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, namespace, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.live(namespace, true).values[key] = value
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b := m.live(namespace, false); b != nil {
		delete(b.values, key)
	}
	return nil
}

func (m *MemoryBackend) ClearPrefix(_ context.Context, namespace, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.live(namespace, false)
	if b == nil {
		return nil
	}
	for key := range b.values {
		if strings.HasPrefix(key, prefix) {
			delete(b.values, key)
		}
	}
	return nil
}

func (m *MemoryBackend) Keys(_ context.Context, namespace string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := m.live(namespace, false)
	if b == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(b.values))
	for key := range b.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// DropNamespace discards everything held for namespace.
func (m *MemoryBackend) DropNamespace(namespace string) {
	m.mu.Lock()
	delete(m.buckets, namespace)
	m.mu.Unlock()
}

// SweepExpired removes idle namespaces and reports how many were dropped.
func (m *MemoryBackend) SweepExpired(_ context.Context) int {
	if m.ttl <= 0 {
		return 0
	}
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for namespace, b := range m.buckets {
		if m.expired(b, now) {
			delete(m.buckets, namespace)
			removed++
		}
	}
	return removed
}

// Len reports the number of live namespaces.
func (m *MemoryBackend) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}
