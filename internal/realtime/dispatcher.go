package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// Dispatcher is the seam between the event bus and the connection layer. It
// fans published events out to matching connections, runs the subscribe flow
// (snapshot first, then incremental updates), and interprets client control
// messages.
type Dispatcher struct {
	registry        *Registry
	bus             *Bus
	snapshots       ports.SnapshotProvider
	sendBuffer      int
	snapshotTimeout time.Duration
	logger          *slog.Logger
}

// NewDispatcher creates a dispatcher and registers one fan-out listener per
// watched entity type on the bus.
func NewDispatcher(
	registry *Registry,
	bus *Bus,
	snapshots ports.SnapshotProvider,
	sendBuffer int,
	snapshotTimeout time.Duration,
	logger *slog.Logger,
) *Dispatcher {
	d := &Dispatcher{
		registry:        registry,
		bus:             bus,
		snapshots:       snapshots,
		sendBuffer:      sendBuffer,
		snapshotTimeout: snapshotTimeout,
		logger:          logger.With("component", "dispatcher"),
	}
	for _, entity := range domain.WatchedEntityTypes() {
		bus.Subscribe(entity, d.fanout)
	}
	return d
}

// fanout delivers one published event to every matching connection. Enqueue
// failures deregister the connection; one dead client never blocks or skips
// delivery to the others.
func (d *Dispatcher) fanout(ev domain.ChangeEvent) {
	targets := d.registry.FanoutTargets(ev.EntityType, ev.FilterID())
	if len(targets) == 0 {
		return
	}
	msg := domain.NewUpdateMessage(ev)
	for _, conn := range targets {
		if err := conn.Enqueue(msg); err != nil {
			d.logger.Warn("dropping connection on enqueue failure",
				"connection_id", conn.ID,
				"entity", ev.EntityType,
				"error", err,
			)
			d.registry.Deregister(conn.ID)
		}
	}
}

// Connect registers a fresh connection for the transport, sends the
// connection_established acknowledgement, and starts its writer. The returned
// connection is live but unsubscribed.
func (d *Dispatcher) Connect(transport Transport) (*Connection, error) {
	conn := NewConnection(uuid.New().String(), transport, d.sendBuffer, d.logger)
	conn.OnTerminate(func(c *Connection) {
		d.registry.Deregister(c.ID)
	})
	if err := d.registry.Register(conn); err != nil {
		return nil, err
	}
	conn.Open()
	if err := conn.Enqueue(domain.NewConnectionEstablishedMessage(conn.ID)); err != nil {
		d.registry.Deregister(conn.ID)
		return nil, err
	}
	return conn, nil
}

// Disconnect tears a connection down. Safe to call on an already-gone id.
func (d *Dispatcher) Disconnect(connID string) {
	d.registry.Deregister(connID)
}

// Subscribe runs the subscribe flow for a connection: fetch the snapshot,
// queue it as initial_data, and only then activate the subscription. The
// ordering guarantees the client never sees an incremental update for state
// it has not received yet.
func (d *Dispatcher) Subscribe(ctx context.Context, connID string, sub domain.Subscription) error {
	conn, ok := d.registry.Get(connID)
	if !ok {
		return apperrors.ErrUnknownConnection
	}

	snapCtx, cancel := context.WithTimeout(ctx, d.snapshotTimeout)
	defer cancel()
	data, err := d.snapshots.FetchSnapshot(snapCtx, sub.EntityType, sub.ScopeID)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.ErrSnapshotTimeout
		}
		d.logger.Error("snapshot fetch failed",
			"connection_id", connID,
			"entity", sub.EntityType,
			"scope_id", sub.ScopeID,
			"error", err,
		)
		// The subscription still activates; the client works from updates
		// alone rather than being cut off.
		if enqErr := conn.Enqueue(domain.NewErrorMessage("failed to load initial data")); enqErr != nil {
			d.registry.Deregister(connID)
			return enqErr
		}
		return d.registry.SetSubscription(connID, sub)
	}

	if err := conn.Enqueue(domain.NewInitialDataMessage(sub.EntityType, data)); err != nil {
		d.registry.Deregister(connID)
		return err
	}
	return d.registry.SetSubscription(connID, sub)
}

// HandleClientMessage interprets one inbound frame. Any inbound traffic
// counts as proof of life. Malformed or unknown messages are answered with an
// error frame and otherwise ignored; they never tear the connection down.
func (d *Dispatcher) HandleClientMessage(ctx context.Context, connID string, payload []byte) {
	conn, ok := d.registry.Get(connID)
	if !ok {
		return
	}
	conn.MarkAlive()

	var msg domain.ClientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		d.logger.Debug("malformed client message", "connection_id", connID, "error", err)
		d.sendError(conn, "malformed message")
		return
	}

	switch msg.Type {
	case domain.ClientMessageSubscribe:
		if msg.Subscriptions == nil {
			d.sendError(conn, "subscribe requires a subscriptions object")
			return
		}
		sub, ok := msg.Subscriptions.Subscription()
		if !ok {
			d.sendError(conn, "unknown entity type: "+msg.Subscriptions.Entity)
			return
		}
		if err := d.Subscribe(ctx, connID, sub); err != nil {
			d.logger.Warn("subscribe failed", "connection_id", connID, "error", err)
		}
	case domain.ClientMessagePing:
		if err := conn.Enqueue(domain.NewPongMessage()); err != nil {
			d.registry.Deregister(connID)
		}
	case domain.ClientMessagePong:
		// MarkAlive above already cleared the outstanding probe.
	default:
		d.logger.Debug("unknown client message type", "connection_id", connID, "type", msg.Type)
		d.sendError(conn, "unknown message type: "+msg.Type)
	}
}

func (d *Dispatcher) sendError(conn *Connection, message string) {
	if err := conn.Enqueue(domain.NewErrorMessage(message)); err != nil {
		d.registry.Deregister(conn.ID)
	}
}

// Stats exposes the registry snapshot for the monitoring endpoint.
func (d *Dispatcher) Stats() RegistryStats {
	return d.registry.Stats()
}
