package stream

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next message from the peer before the
	// connection is considered broken.
	readWait = 90 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// WebSocketTransport adapts one upgraded websocket connection to the
// real-time Transport interface. All Send calls come from the connection's
// single writer goroutine, so no write locking is needed.
type WebSocketTransport struct {
	conn      *websocket.Conn
	closeOnce sync.Once
	closed    chan struct{}
}

var _ realtime.Transport = (*WebSocketTransport)(nil)

// NewWebSocketTransport wraps an upgraded connection.
func NewWebSocketTransport(conn *websocket.Conn) *WebSocketTransport {
	return &WebSocketTransport{
		conn:   conn,
		closed: make(chan struct{}),
	}
}

func (t *WebSocketTransport) Name() string        { return "websocket" }
func (t *WebSocketTransport) Bidirectional() bool { return true }

// Send frames one message as a JSON text frame.
func (t *WebSocketTransport) Send(msg domain.ServerMessage) error {
	select {
	case <-t.closed:
		return apperrors.ErrTransportClosed
	default:
	}
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return t.conn.WriteJSON(msg)
}

// Close sends a close frame on a best-effort basis and closes the socket.
func (t *WebSocketTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
		deadline := time.Now().Add(writeWait)
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = t.conn.Close()
	})
	return nil
}

// ReadPump drains inbound frames into the dispatcher until the socket
// breaks, then tears the connection down. Runs on the handler goroutine.
func ReadPump(ctx context.Context, wsConn *websocket.Conn, conn *realtime.Connection, dispatcher *realtime.Dispatcher, logger *slog.Logger) {
	defer dispatcher.Disconnect(conn.ID)

	wsConn.SetReadLimit(maxMessageSize)
	if err := wsConn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
		logger.Error("failed to set read deadline", "connection_id", conn.ID, "error", err)
		return
	}
	// Protocol-level pongs count as liveness alongside application-level
	// pong messages.
	wsConn.SetPongHandler(func(string) error {
		conn.MarkAlive()
		return wsConn.SetReadDeadline(time.Now().Add(readWait))
	})

	for {
		_, payload, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("websocket read failed", "connection_id", conn.ID, "error", err)
			}
			return
		}
		if err := wsConn.SetReadDeadline(time.Now().Add(readWait)); err != nil {
			return
		}
		dispatcher.HandleClientMessage(ctx, conn.ID, payload)
	}
}
