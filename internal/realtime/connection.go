package realtime

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

// ConnState is the lifecycle state of a client connection.
type ConnState int32

const (
	StateConnecting ConnState = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// Transport frames and writes messages to one client over a specific
// mechanism (websocket, streaming response, long-poll mailbox). A transport
// handle is owned by exactly one Connection.
type Transport interface {
	// Name identifies the variant for logging and stats.
	Name() string
	// Send frames and writes one message. It must return an error once the
	// underlying channel is broken; the connection is then torn down.
	Send(msg domain.ServerMessage) error
	// Close releases the underlying channel. Must be safe to call twice.
	Close() error
	// Bidirectional reports whether the client can answer liveness probes.
	Bidirectional() bool
}

// Connection is one live client channel. All writes to its transport go
// through a single writer goroutine draining a buffered queue, so frames are
// never interleaved and publishers never block on a slow client.
type Connection struct {
	ID string

	transport Transport
	send      chan domain.ServerMessage
	done      chan struct{}
	closeOnce sync.Once

	state       atomic.Int32
	connectedAt time.Time
	lastAck     atomic.Int64 // unix nanos
	awaitingAck atomic.Bool

	// onTerminate is invoked once when the writer fails or the connection is
	// closed from the transport side; the dispatcher points it at deregister.
	onTerminate func(*Connection)

	mu           sync.RWMutex
	subscription *domain.Subscription

	logger *slog.Logger
}

// NewConnection creates a connection in state CONNECTING. The caller must
// call Open before enqueueing messages.
func NewConnection(id string, transport Transport, sendBuffer int, logger *slog.Logger) *Connection {
	c := &Connection{
		ID:          id,
		transport:   transport,
		send:        make(chan domain.ServerMessage, sendBuffer),
		done:        make(chan struct{}),
		connectedAt: time.Now().UTC(),
		logger:      logger.With("connection_id", id, "transport", transport.Name()),
	}
	c.state.Store(int32(StateConnecting))
	c.lastAck.Store(c.connectedAt.UnixNano())
	return c
}

// OnTerminate registers the teardown callback. Must be called before Open.
func (c *Connection) OnTerminate(fn func(*Connection)) {
	c.onTerminate = fn
}

// Open transitions to OPEN and starts the writer goroutine.
func (c *Connection) Open() {
	c.state.Store(int32(StateOpen))
	go c.writePump()
}

// writePump is the connection's single writer. It drains the send queue and
// stops on the first transport error.
func (c *Connection) writePump() {
	for {
		select {
		case msg := <-c.send:
			if err := c.transport.Send(msg); err != nil {
				c.logger.Debug("transport write failed", "error", err)
				c.terminate()
				return
			}
		case <-c.done:
			return
		}
	}
}

// Enqueue queues a message for the writer. It fails with ErrTransportClosed
// once the connection left OPEN, and with ErrSendBufferFull when the client
// cannot keep up; both are signals to deregister, not to retry.
func (c *Connection) Enqueue(msg domain.ServerMessage) error {
	if c.State() != StateOpen {
		return apperrors.ErrTransportClosed
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return apperrors.ErrTransportClosed
	default:
		return apperrors.ErrSendBufferFull
	}
}

// terminate tears the connection down from inside its own delivery path.
func (c *Connection) terminate() {
	if c.onTerminate != nil {
		c.onTerminate(c)
	} else {
		c.Close()
	}
}

// Close transitions CLOSING then CLOSED and closes the transport. Safe to
// call multiple times; no writes are accepted after CLOSING begins.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		c.state.Store(int32(StateClosing))
		close(c.done)
		if err := c.transport.Close(); err != nil {
			c.logger.Debug("transport close failed", "error", err)
		}
		c.state.Store(int32(StateClosed))
	})
}

// State returns the current lifecycle state.
func (c *Connection) State() ConnState {
	return ConnState(c.state.Load())
}

// ConnectedAt returns when the transport was accepted.
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// MarkAlive records inbound traffic from the client, clearing any pending
// liveness probe.
func (c *Connection) MarkAlive() {
	c.lastAck.Store(time.Now().UnixNano())
	c.awaitingAck.Store(false)
}

// MarkProbed records that a liveness probe was sent and is awaiting an ack.
func (c *Connection) MarkProbed() {
	c.awaitingAck.Store(true)
}

// AwaitingAck reports whether a probe is outstanding.
func (c *Connection) AwaitingAck() bool {
	return c.awaitingAck.Load()
}

// LastAck returns the time of the last inbound traffic.
func (c *Connection) LastAck() time.Time {
	return time.Unix(0, c.lastAck.Load())
}

// Bidirectional reports whether the transport can carry client acks.
func (c *Connection) Bidirectional() bool {
	return c.transport.Bidirectional()
}

// TransportName identifies the transport variant.
func (c *Connection) TransportName() string {
	return c.transport.Name()
}

// Subscription returns the connection's current subscription, or nil before
// the first subscribe.
func (c *Connection) Subscription() *domain.Subscription {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subscription
}

// setSubscription is called by the Registry while it updates its index.
func (c *Connection) setSubscription(sub *domain.Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscription = sub
}
