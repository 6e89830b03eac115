package realtime

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

// Monitor periodically probes bidirectional connections and evicts the ones
// that stop answering. One-way transports cannot ack, so they are only reaped
// when a write to them fails.
//
// A connection is considered dead when a probe has been outstanding for
// longer than the deadline (probe interval times the deadline multiplier).
type Monitor struct {
	registry *Registry
	interval time.Duration
	deadline time.Duration
	logger   *slog.Logger
}

// NewMonitor creates a liveness monitor. The deadline is expressed as a
// multiple of the probe interval.
func NewMonitor(registry *Registry, interval time.Duration, deadlineMultiplier float64, logger *slog.Logger) *Monitor {
	return &Monitor{
		registry: registry,
		interval: interval,
		deadline: time.Duration(float64(interval) * deadlineMultiplier),
		logger:   logger.With("component", "liveness_monitor"),
	}
}

// Run probes on every tick until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("liveness monitor started", "interval", m.interval, "deadline", m.deadline)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("liveness monitor stopped")
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep sends one probe round and evicts connections past their deadline.
func (m *Monitor) sweep() {
	now := time.Now()
	for _, conn := range m.registry.Snapshot() {
		if conn.State() != StateOpen {
			continue
		}
		if !conn.Bidirectional() {
			// Streaming transports get a heartbeat frame so intermediaries
			// keep the channel open; a failed write reaps them.
			if err := conn.Enqueue(domain.NewHeartbeatMessage()); err != nil {
				m.evict(conn, "heartbeat write failed", err)
			}
			continue
		}
		if conn.AwaitingAck() && now.Sub(conn.LastAck()) > m.deadline {
			m.evict(conn, "liveness deadline exceeded", nil)
			continue
		}
		if err := conn.Enqueue(domain.NewHeartbeatMessage()); err != nil {
			if errors.Is(err, apperrors.ErrSendBufferFull) {
				m.evict(conn, "send buffer full", err)
			} else {
				m.evict(conn, "heartbeat write failed", err)
			}
			continue
		}
		conn.MarkProbed()
	}
}

func (m *Monitor) evict(conn *Connection, reason string, err error) {
	m.logger.Warn("evicting dead connection",
		"connection_id", conn.ID,
		"transport", conn.TransportName(),
		"reason", reason,
		"last_ack", conn.LastAck(),
		"error", err,
	)
	m.registry.Deregister(conn.ID)
}
