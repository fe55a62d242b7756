package themes

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/wfxconsole/internal/storage"
)

// Client pairs a device's theme service with the marker its pages render.
type Client struct {
	*Service
	Marker *DocumentMarker
}

type poolEntry struct {
	client   *Client
	lastUsed time.Time
}

// Pool keeps one Service per device. Idle services are evicted so the next
// request rebuilds state from the persisted preference.
type Pool struct {
	registry *Registry
	store    *storage.Store
	idleTTL  time.Duration
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*poolEntry
}

func NewPool(registry *Registry, store *storage.Store, idleTTL time.Duration) *Pool {
	return &Pool{
		registry: registry,
		store:    store,
		idleTTL:  idleTTL,
		now:      time.Now,
		entries:  make(map[string]*poolEntry),
	}
}

// Get returns the device's Client, building it on first use. The service is
// built outside the lock; if two requests race, the first insert wins.
func (p *Pool) Get(ctx context.Context, deviceID, sessionID string) *Client {
	if client, ok := p.lookup(deviceID); ok {
		return client
	}

	marker := &DocumentMarker{}
	built := &Client{
		Service: NewService(ctx, p.registry, p.store.For(deviceID, sessionID), marker),
		Marker:  marker,
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.entries[deviceID]; ok {
		entry.lastUsed = p.now()
		return entry.client
	}
	p.entries[deviceID] = &poolEntry{client: built, lastUsed: p.now()}
	return built
}

func (p *Pool) lookup(deviceID string) (*Client, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	entry, ok := p.entries[deviceID]
	if !ok {
		return nil, false
	}
	entry.lastUsed = p.now()
	return entry.client, true
}

// Reload makes a pooled service re-read its persisted theme. Open
// subscriptions stay attached. Devices without a pooled service are
// skipped; their next Get reads storage anyway.
func (p *Pool) Reload(ctx context.Context, deviceID string) {
	client, ok := p.lookup(deviceID)
	if !ok {
		return
	}
	client.Reload(ctx)
}

// Evict removes services idle beyond the TTL. Services with open
// subscriptions are kept.
func (p *Pool) Evict(ctx context.Context) int {
	now := p.now()

	p.mu.Lock()
	defer p.mu.Unlock()

	removed := 0
	for deviceID, entry := range p.entries {
		if now.Sub(entry.lastUsed) <= p.idleTTL || entry.client.SubscriberCount() > 0 {
			continue
		}
		delete(p.entries, deviceID)
		removed++
	}
	if removed > 0 {
		log.Ctx(ctx).Debug().Int("removed", removed).Msg("Evicted idle theme services")
	}
	return removed
}

func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.entries)
}
