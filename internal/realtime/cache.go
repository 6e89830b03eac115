package realtime

import (
	"sync"
	"time"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
)

// ChangeCache keeps a short sliding window of recent change events per entity
// type so long-poll clients can catch up on what they missed between
// requests. Events older than the retention window are pruned on every
// append.
type ChangeCache struct {
	retention time.Duration

	mu     sync.RWMutex
	events map[domain.EntityType][]domain.ChangeEvent
}

// NewChangeCache creates a cache retaining events for the given window.
func NewChangeCache(retention time.Duration) *ChangeCache {
	return &ChangeCache{
		retention: retention,
		events:    make(map[domain.EntityType][]domain.ChangeEvent),
	}
}

// Attach subscribes the cache to every watched topic on the bus.
func (c *ChangeCache) Attach(bus *Bus) {
	for _, entity := range domain.WatchedEntityTypes() {
		bus.Subscribe(entity, c.Record)
	}
}

// Record appends one event and prunes expired ones for its entity type.
func (c *ChangeCache) Record(ev domain.ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := time.Now().Add(-c.retention)
	kept := c.events[ev.EntityType]
	for len(kept) > 0 && kept[0].Timestamp.Before(cutoff) {
		kept = kept[1:]
	}
	c.events[ev.EntityType] = append(kept, ev)
}

// Since returns the cached events for an entity type that are newer than the
// given time and match the scope filter. An empty or wildcard scope matches
// everything.
func (c *ChangeCache) Since(entity domain.EntityType, scopeID string, after time.Time) []domain.ChangeEvent {
	sub := domain.Subscription{EntityType: entity, ScopeID: scopeID}
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []domain.ChangeEvent
	for _, ev := range c.events[entity] {
		if !ev.Timestamp.After(after) {
			continue
		}
		if !sub.Matches(ev) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Len returns the number of cached events for an entity type.
func (c *ChangeCache) Len(entity domain.EntityType) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events[entity])
}
