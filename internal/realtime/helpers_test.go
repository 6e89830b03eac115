package realtime_test

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTransport records everything sent through it and can be flipped into a
// failing state to simulate a broken channel.
type fakeTransport struct {
	mu     sync.Mutex
	sent   []domain.ServerMessage
	fail   bool
	closed bool
	twoWay bool
}

func newFakeTransport(twoWay bool) *fakeTransport {
	return &fakeTransport{twoWay: twoWay}
}

func (f *fakeTransport) Name() string        { return "fake" }
func (f *fakeTransport) Bidirectional() bool { return f.twoWay }

func (f *fakeTransport) Send(msg domain.ServerMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return apperrors.ErrTransportClosed
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeTransport) setFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

func (f *fakeTransport) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeTransport) messages() []domain.ServerMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ServerMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeTransport) messageTypes() []string {
	var types []string
	for _, m := range f.messages() {
		types = append(types, m.Type)
	}
	return types
}

// fakeSnapshots serves canned snapshot payloads per entity type.
type fakeSnapshots struct {
	mu   sync.Mutex
	data map[domain.EntityType]any
	err  error
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{data: make(map[domain.EntityType]any)}
}

func (f *fakeSnapshots) FetchSnapshot(ctx context.Context, entity domain.EntityType, scopeID string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.data[entity], nil
}

// fakeStream replays a fixed sequence of raw changes, then returns errAfter.
type fakeStream struct {
	mu       sync.Mutex
	changes  []ports.RawChange
	errAfter error
	closed   bool
}

func (s *fakeStream) Next(ctx context.Context) (ports.RawChange, error) {
	if err := ctx.Err(); err != nil {
		return ports.RawChange{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.changes) == 0 {
		if s.errAfter != nil {
			return ports.RawChange{}, s.errAfter
		}
		// Nothing left and no terminal error: block until cancelled.
		s.mu.Unlock()
		<-ctx.Done()
		s.mu.Lock()
		return ports.RawChange{}, ctx.Err()
	}
	change := s.changes[0]
	s.changes = s.changes[1:]
	return change, nil
}

func (s *fakeStream) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// fakeFeed hands out one fakeStream per Watch call, per entity type.
type fakeFeed struct {
	mu      sync.Mutex
	streams map[domain.EntityType][]*fakeStream
	watched map[domain.EntityType]int
}

func newFakeFeed() *fakeFeed {
	return &fakeFeed{
		streams: make(map[domain.EntityType][]*fakeStream),
		watched: make(map[domain.EntityType]int),
	}
}

func (f *fakeFeed) add(entity domain.EntityType, stream *fakeStream) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streams[entity] = append(f.streams[entity], stream)
}

func (f *fakeFeed) Watch(ctx context.Context, entity domain.EntityType) (ports.ChangeStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.watched[entity]++
	queue := f.streams[entity]
	if len(queue) == 0 {
		// No scripted stream: block the tail loop until shutdown.
		return &fakeStream{}, nil
	}
	stream := queue[0]
	f.streams[entity] = queue[1:]
	return stream, nil
}

func (f *fakeFeed) watchCount(entity domain.EntityType) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.watched[entity]
}
