package stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

// SSETransport frames messages as server-sent events over a streaming HTTP
// response. It is one-way: clients cannot ack, so the liveness monitor only
// reaps it when a write fails.
type SSETransport struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher

	closeOnce sync.Once
	closed    chan struct{}
}

var _ realtime.Transport = (*SSETransport)(nil)

// NewSSETransport prepares a response for event streaming. It fails when the
// response writer cannot flush incrementally.
func NewSSETransport(w http.ResponseWriter) (*SSETransport, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming unsupported by response writer")
	}
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &SSETransport{
		w:       w,
		flusher: flusher,
		closed:  make(chan struct{}),
	}, nil
}

func (t *SSETransport) Name() string        { return "sse" }
func (t *SSETransport) Bidirectional() bool { return false }

// Send writes one event frame and flushes it to the client.
func (t *SSETransport) Send(msg domain.ServerMessage) error {
	select {
	case <-t.closed:
		return apperrors.ErrTransportClosed
	default:
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	t.flusher.Flush()
	return nil
}

// Close releases the stream; the handler blocked on Done returns, which ends
// the response.
func (t *SSETransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.closed)
	})
	return nil
}

// Done is closed when the transport is shut down.
func (t *SSETransport) Done() <-chan struct{} {
	return t.closed
}
