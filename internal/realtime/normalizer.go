package realtime

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// DefaultDenyFields are field names whose changes never warrant a broadcast.
// Entries match exactly or as a dotted prefix ("stats.views" also covers
// "stats.views.daily"). Overridable via configuration.
var DefaultDenyFields = []string{
	"lastAccessed",
	"viewCount",
	"__v",
	"lastViewed",
	"accessCount",
	"metadata.lastPing",
	"stats.views",
}

// scopeFields maps entity types to the document field carrying their scope
// id. Entities without an entry are filtered by their own id.
var scopeFields = map[domain.EntityType]string{
	domain.EntityLeaderboard: "tournamentId",
	domain.EntityTeam:        "leagueId",
	domain.EntityInvite:      "leagueId",
}

// Normalizer converts raw change-stream events into compact ChangeEvents and
// decides which of them are worth publishing.
//
// Delete events carry only the document key, so the normalizer remembers the
// scope id of every document it has seen; a delete of a never-seen document
// goes out without a scope and reaches only wildcard subscribers.
type Normalizer struct {
	deny   []string
	logger *slog.Logger

	mu     sync.Mutex
	scopes map[domain.EntityType]map[string]string
}

// NewNormalizer creates a normalizer with the given significance denylist.
// A nil denylist falls back to DefaultDenyFields.
func NewNormalizer(denyFields []string, logger *slog.Logger) *Normalizer {
	if denyFields == nil {
		denyFields = DefaultDenyFields
	}
	return &Normalizer{
		deny:   denyFields,
		logger: logger.With("component", "change_normalizer"),
		scopes: make(map[domain.EntityType]map[string]string),
	}
}

// Normalize extracts only what changed from a raw mutation event.
func (n *Normalizer) Normalize(entity domain.EntityType, raw ports.RawChange) domain.ChangeEvent {
	ev := domain.ChangeEvent{
		EntityType: entity,
		Operation:  domain.Operation(raw.Operation),
		EntityID:   raw.DocumentID,
		Timestamp:  time.Now().UTC(),
	}

	switch ev.Operation {
	case domain.OpInsert, domain.OpReplace:
		ev.FullDocument = raw.FullDocument
	case domain.OpUpdate:
		ev.ChangedFields = raw.UpdatedFields
		ev.RemovedFields = raw.RemovedFields
	case domain.OpDelete:
		ev.ScopeID = n.forgetScope(entity, raw.DocumentID)
		return ev
	default:
		n.logger.Warn("unhandled operation type", "operation", raw.Operation, "entity", entity)
		return ev
	}

	ev.ScopeID = n.extractScope(entity, raw)
	if ev.ScopeID != "" {
		n.rememberScope(entity, raw.DocumentID, ev.ScopeID)
	}
	return ev
}

// IsSignificant reports whether an event should be published. Inserts,
// replaces and deletes always are; updates only when at least one changed or
// removed field survives the denylist.
func (n *Normalizer) IsSignificant(ev domain.ChangeEvent) bool {
	if ev.Operation != domain.OpUpdate {
		return true
	}
	for field := range ev.ChangedFields {
		if !n.denied(field) {
			return true
		}
	}
	for _, field := range ev.RemovedFields {
		if !n.denied(field) {
			return true
		}
	}
	return false
}

func (n *Normalizer) denied(field string) bool {
	for _, deny := range n.deny {
		if field == deny || strings.HasPrefix(field, deny+".") {
			return true
		}
	}
	return false
}

func (n *Normalizer) extractScope(entity domain.EntityType, raw ports.RawChange) string {
	field, ok := scopeFields[entity]
	if !ok {
		return ""
	}
	if v, ok := raw.FullDocument[field]; ok {
		return stringifyID(v)
	}
	if v, ok := raw.UpdatedFields[field]; ok {
		return stringifyID(v)
	}
	// Scope field untouched by this update; fall back to what we saw before.
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.scopes[entity][raw.DocumentID]
}

func (n *Normalizer) rememberScope(entity domain.EntityType, entityID, scopeID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	byID, ok := n.scopes[entity]
	if !ok {
		byID = make(map[string]string)
		n.scopes[entity] = byID
	}
	byID[entityID] = scopeID
}

func (n *Normalizer) forgetScope(entity domain.EntityType, entityID string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	scope := n.scopes[entity][entityID]
	delete(n.scopes[entity], entityID)
	return scope
}

// stringifyID renders a document id or scope value as a string. Object ids
// from the document store arrive as types exposing a Hex method.
func stringifyID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case interface{ Hex() string }:
		return t.Hex()
	}
	return ""
}
