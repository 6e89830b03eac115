package domain

import (
	"encoding/json"
	"time"
)

// Server-to-client message types. Entity updates use the dynamic
// "<entity>_update" form, e.g. "tournament_update".
const (
	MessageTypeConnectionEstablished = "connection_established"
	MessageTypeInitialData           = "initial_data"
	MessageTypeHeartbeat             = "heartbeat"
	MessageTypePing                  = "ping"
	MessageTypePong                  = "pong"
	MessageTypeError                 = "error"
)

// Client-to-server message types.
const (
	ClientMessageSubscribe = "subscribe"
	ClientMessagePing      = "ping"
	ClientMessagePong      = "pong"
)

// ServerMessage is the single wire envelope every delivery transport frames
// and sends. Fields are omitted when not relevant to the message type.
type ServerMessage struct {
	Type          string         `json:"type"`
	EntityType    EntityType     `json:"entityType,omitempty"`
	Operation     Operation      `json:"operation,omitempty"`
	EntityID      string         `json:"entityId,omitempty"`
	ScopeID       string         `json:"scopeId,omitempty"`
	ChangedFields map[string]any `json:"changedFields,omitempty"`
	RemovedFields []string       `json:"removedFields,omitempty"`
	Data          any            `json:"data,omitempty"`
	Message       string         `json:"message,omitempty"`
	ConnectionID  string         `json:"connectionId,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// NewUpdateMessage converts a normalized change event to its wire form.
func NewUpdateMessage(e ChangeEvent) ServerMessage {
	msg := ServerMessage{
		Type:       string(e.EntityType) + "_update",
		EntityType: e.EntityType,
		Operation:  e.Operation,
		EntityID:   e.EntityID,
		ScopeID:    e.ScopeID,
		Timestamp:  e.Timestamp,
	}
	switch e.Operation {
	case OpUpdate:
		msg.ChangedFields = e.ChangedFields
		msg.RemovedFields = e.RemovedFields
	case OpInsert, OpReplace:
		msg.Data = e.FullDocument
	}
	return msg
}

// NewInitialDataMessage carries the snapshot a client receives right after
// subscribing, before any incremental updates.
func NewInitialDataMessage(entity EntityType, data any) ServerMessage {
	return ServerMessage{
		Type:       MessageTypeInitialData,
		EntityType: entity,
		Data:       data,
		Timestamp:  time.Now().UTC(),
	}
}

// NewConnectionEstablishedMessage acknowledges a completed handshake.
func NewConnectionEstablishedMessage(connectionID string) ServerMessage {
	return ServerMessage{
		Type:         MessageTypeConnectionEstablished,
		ConnectionID: connectionID,
		Timestamp:    time.Now().UTC(),
	}
}

// NewHeartbeatMessage is the periodic liveness probe payload.
func NewHeartbeatMessage() ServerMessage {
	return ServerMessage{Type: MessageTypeHeartbeat, Timestamp: time.Now().UTC()}
}

// NewPongMessage answers a client-side ping.
func NewPongMessage() ServerMessage {
	return ServerMessage{Type: MessageTypePong, Timestamp: time.Now().UTC()}
}

// NewErrorMessage reports a per-connection failure without closing the
// connection.
func NewErrorMessage(message string) ServerMessage {
	return ServerMessage{Type: MessageTypeError, Message: message, Timestamp: time.Now().UTC()}
}

// SubscribeParams is the body of a client subscribe request. The scope id is
// accepted under several historical key names; ScopeID wins when present.
type SubscribeParams struct {
	Entity       string `json:"entity"`
	ScopeID      string `json:"scopeId,omitempty"`
	TournamentID string `json:"tournamentId,omitempty"`
	LeagueID     string `json:"leagueId,omitempty"`
}

// Subscription resolves the request to a Subscription, reporting false for
// an unknown entity type.
func (p SubscribeParams) Subscription() (Subscription, bool) {
	entity := EntityType(p.Entity)
	if !entity.Valid() {
		return Subscription{}, false
	}
	scope := p.ScopeID
	if scope == "" {
		scope = p.TournamentID
	}
	if scope == "" {
		scope = p.LeagueID
	}
	return Subscription{EntityType: entity, ScopeID: scope}, true
}

// ClientMessage is the envelope for messages received from a client.
type ClientMessage struct {
	Type          string           `json:"type"`
	Subscriptions *SubscribeParams `json:"subscriptions,omitempty"`
	Payload       json.RawMessage  `json:"payload,omitempty"`
}
