package domain

import "time"

// EntityType identifies which watched collection a change belongs to. Each
// entity type is an independent real-time topic.
type EntityType string

const (
	EntityTournament  EntityType = "tournament"
	EntityLeaderboard EntityType = "leaderboard"
	EntityLeague      EntityType = "league"
	EntityTeam        EntityType = "team"
	EntityPlayer      EntityType = "player"
	EntityInvite      EntityType = "invite"
)

// WatchedEntityTypes lists every entity type the change feed observes.
func WatchedEntityTypes() []EntityType {
	return []EntityType{
		EntityTournament,
		EntityLeaderboard,
		EntityLeague,
		EntityTeam,
		EntityPlayer,
		EntityInvite,
	}
}

// Valid checks if the entity type is one of the watched types.
func (e EntityType) Valid() bool {
	switch e {
	case EntityTournament, EntityLeaderboard, EntityLeague, EntityTeam, EntityPlayer, EntityInvite:
		return true
	}
	return false
}

// Operation is the kind of persistence-layer mutation a ChangeEvent carries.
type Operation string

const (
	OpInsert  Operation = "insert"
	OpUpdate  Operation = "update"
	OpReplace Operation = "replace"
	OpDelete  Operation = "delete"
)

// ChangeEvent is one normalized persistence mutation. Exactly one of the
// payload shapes is populated, depending on Operation:
//
//	update          -> ChangedFields / RemovedFields (the delta only)
//	insert, replace -> FullDocument
//	delete          -> EntityID only
//
// Events are immutable after creation and are never persisted.
type ChangeEvent struct {
	EntityType    EntityType     `json:"entityType"`
	Operation     Operation      `json:"operation"`
	EntityID      string         `json:"entityId"`
	ScopeID       string         `json:"scopeId,omitempty"`
	ChangedFields map[string]any `json:"changedFields,omitempty"`
	RemovedFields []string       `json:"removedFields,omitempty"`
	FullDocument  map[string]any `json:"fullDocument,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// FilterID is the identifier subscriptions are matched against: the scope id
// when the entity has a scoping concept (leaderboards scope to their
// tournament, teams and invites to their league), otherwise the entity id
// itself.
func (e ChangeEvent) FilterID() string {
	if e.ScopeID != "" {
		return e.ScopeID
	}
	return e.EntityID
}

// ScopeWildcard in a subscription matches every scope of the entity type.
const ScopeWildcard = "*"

// Subscription is one connection's declared interest. A connection holds at
// most one subscription at a time; a later subscribe replaces it wholesale.
type Subscription struct {
	EntityType EntityType `json:"entity"`
	ScopeID    string     `json:"scopeId,omitempty"`
}

// Matches reports whether an event should be delivered under this
// subscription.
func (s Subscription) Matches(e ChangeEvent) bool {
	if s.EntityType != e.EntityType {
		return false
	}
	if s.ScopeID == "" || s.ScopeID == ScopeWildcard {
		return true
	}
	return s.ScopeID == e.FilterID()
}
