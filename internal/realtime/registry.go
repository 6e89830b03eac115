package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

type indexKey struct {
	entity domain.EntityType
	scope  string
}

// ConnectionStats is the per-connection slice of the registry stats snapshot.
type ConnectionStats struct {
	ConnectionID string               `json:"connectionId"`
	Transport    string               `json:"transport"`
	State        string               `json:"state"`
	ConnectedAt  time.Time            `json:"connectedAt"`
	LastAck      time.Time            `json:"lastAck"`
	Subscription *domain.Subscription `json:"subscription,omitempty"`
}

// RegistryStats is a point-in-time snapshot of the registry, served on the
// monitoring endpoint.
type RegistryStats struct {
	TotalConnections int               `json:"totalConnections"`
	Connections      []ConnectionStats `json:"connections"`
}

// Registry tracks every live connection and, through a secondary index keyed
// by (entity type, scope), answers fan-out queries without scanning all
// connections. One mutex guards both structures so they can never disagree.
// Transport writes never happen under the registry lock.
type Registry struct {
	mu     sync.RWMutex
	conns  map[string]*Connection
	index  map[indexKey]map[string]struct{}
	logger *slog.Logger
}

// NewRegistry creates an empty connection registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[string]*Connection),
		index:  make(map[indexKey]map[string]struct{}),
		logger: logger.With("component", "connection_registry"),
	}
}

// Register adds a connection under its unique id. A connection enters the
// registry without a subscription and receives no entity updates until its
// first SetSubscription.
func (r *Registry) Register(conn *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.conns[conn.ID]; exists {
		return apperrors.ErrDuplicateConnection
	}
	r.conns[conn.ID] = conn
	r.logger.Info("connection registered",
		"connection_id", conn.ID,
		"transport", conn.TransportName(),
		"total", len(r.conns),
	)
	return nil
}

// SetSubscription replaces the connection's subscription wholesale, moving it
// between index buckets atomically. An empty scope id subscribes to every
// scope of the entity type.
func (r *Registry) SetSubscription(connID string, sub domain.Subscription) error {
	if sub.ScopeID == "" {
		sub.ScopeID = domain.ScopeWildcard
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.conns[connID]
	if !ok {
		return apperrors.ErrUnknownConnection
	}
	if prev := conn.Subscription(); prev != nil {
		r.dropIndex(indexKey{entity: prev.EntityType, scope: prev.ScopeID}, connID)
	}
	key := indexKey{entity: sub.EntityType, scope: sub.ScopeID}
	bucket, ok := r.index[key]
	if !ok {
		bucket = make(map[string]struct{})
		r.index[key] = bucket
	}
	bucket[connID] = struct{}{}
	conn.setSubscription(&sub)
	return nil
}

// Deregister removes a connection from the registry and index and closes it.
// Deregistering an unknown id is a no-op, so teardown paths that race (write
// failure, liveness eviction, client disconnect) stay safe.
func (r *Registry) Deregister(connID string) {
	r.mu.Lock()
	conn, ok := r.conns[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, connID)
	if sub := conn.Subscription(); sub != nil {
		r.dropIndex(indexKey{entity: sub.EntityType, scope: sub.ScopeID}, connID)
	}
	remaining := len(r.conns)
	r.mu.Unlock()

	// Closing the transport may block on the network; never do it under the
	// registry lock.
	conn.Close()
	r.logger.Info("connection deregistered", "connection_id", connID, "total", remaining)
}

// dropIndex removes one membership entry, deleting the bucket when empty.
// Caller holds r.mu.
func (r *Registry) dropIndex(key indexKey, connID string) {
	bucket, ok := r.index[key]
	if !ok {
		return
	}
	delete(bucket, connID)
	if len(bucket) == 0 {
		delete(r.index, key)
	}
}

// FanoutTargets returns the connections subscribed to an event with the given
// entity type and filter id: the exact-scope bucket plus the wildcard bucket.
// The returned slice is a snapshot; delivery happens outside the lock.
func (r *Registry) FanoutTargets(entity domain.EntityType, filterID string) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var targets []*Connection
	seen := make(map[string]struct{})
	for _, key := range []indexKey{
		{entity: entity, scope: domain.ScopeWildcard},
		{entity: entity, scope: filterID},
	} {
		for connID := range r.index[key] {
			if _, dup := seen[connID]; dup {
				continue
			}
			seen[connID] = struct{}{}
			if conn, ok := r.conns[connID]; ok {
				targets = append(targets, conn)
			}
		}
	}
	return targets
}

// Get returns the connection registered under the id.
func (r *Registry) Get(connID string) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.conns[connID]
	return conn, ok
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Snapshot returns every registered connection.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*Connection, 0, len(r.conns))
	for _, conn := range r.conns {
		conns = append(conns, conn)
	}
	return conns
}

// Stats assembles the monitoring snapshot.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := RegistryStats{
		TotalConnections: len(r.conns),
		Connections:      make([]ConnectionStats, 0, len(r.conns)),
	}
	for _, conn := range r.conns {
		stats.Connections = append(stats.Connections, ConnectionStats{
			ConnectionID: conn.ID,
			Transport:    conn.TransportName(),
			State:        conn.State().String(),
			ConnectedAt:  conn.ConnectedAt(),
			LastAck:      conn.LastAck(),
			Subscription: conn.Subscription(),
		})
	}
	return stats
}

// CloseAll deregisters and closes every connection. Used during shutdown.
func (r *Registry) CloseAll() {
	for _, conn := range r.Snapshot() {
		r.Deregister(conn.ID)
	}
}
