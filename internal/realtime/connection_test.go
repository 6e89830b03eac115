package realtime_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

func TestConnection_WriterDrainsInOrder(t *testing.T) {
	transport := newFakeTransport(true)
	conn := realtime.NewConnection("c1", transport, 16, testLogger())
	conn.Open()
	defer conn.Close()

	for _, text := range []string{"one", "two", "three"} {
		require.NoError(t, conn.Enqueue(domain.NewErrorMessage(text)))
	}

	require.Eventually(t, func() bool {
		return len(transport.messages()) == 3
	}, time.Second, 5*time.Millisecond)

	msgs := transport.messages()
	assert.Equal(t, "one", msgs[0].Message)
	assert.Equal(t, "two", msgs[1].Message)
	assert.Equal(t, "three", msgs[2].Message)
}

func TestConnection_EnqueueBeforeOpenFails(t *testing.T) {
	conn := realtime.NewConnection("c1", newFakeTransport(true), 16, testLogger())
	err := conn.Enqueue(domain.NewHeartbeatMessage())
	assert.ErrorIs(t, err, apperrors.ErrTransportClosed)
	assert.Equal(t, realtime.StateConnecting, conn.State())
}

func TestConnection_EnqueueAfterCloseFails(t *testing.T) {
	transport := newFakeTransport(true)
	conn := realtime.NewConnection("c1", transport, 16, testLogger())
	conn.Open()
	conn.Close()

	err := conn.Enqueue(domain.NewHeartbeatMessage())
	assert.ErrorIs(t, err, apperrors.ErrTransportClosed)
	assert.Equal(t, realtime.StateClosed, conn.State())
	assert.True(t, transport.isClosed())

	require.NotPanics(t, conn.Close)
}

func TestConnection_BufferFull(t *testing.T) {
	transport := newBlockingTransport()
	conn := realtime.NewConnection("slow", transport, 2, testLogger())
	conn.Open()
	defer func() {
		transport.release()
		conn.Close()
	}()

	// Let the writer pull one message off the queue and park inside Send,
	// then refill the queue to capacity.
	require.NoError(t, conn.Enqueue(domain.NewHeartbeatMessage()))
	require.Eventually(t, transport.blocked, time.Second, time.Millisecond)
	require.NoError(t, conn.Enqueue(domain.NewHeartbeatMessage()))
	require.NoError(t, conn.Enqueue(domain.NewHeartbeatMessage()))

	err := conn.Enqueue(domain.NewHeartbeatMessage())
	assert.ErrorIs(t, err, apperrors.ErrSendBufferFull)
}

// blockingTransport parks every Send until released, simulating a client
// that stops reading.
type blockingTransport struct {
	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newBlockingTransport() *blockingTransport {
	return &blockingTransport{
		entered: make(chan struct{}, 16),
		gate:    make(chan struct{}),
	}
}

func (b *blockingTransport) Name() string        { return "blocking" }
func (b *blockingTransport) Bidirectional() bool { return true }
func (b *blockingTransport) Close() error        { return nil }

func (b *blockingTransport) Send(domain.ServerMessage) error {
	b.entered <- struct{}{}
	<-b.gate
	return nil
}

func (b *blockingTransport) blocked() bool {
	return len(b.entered) > 0
}

func (b *blockingTransport) release() {
	b.once.Do(func() { close(b.gate) })
}

func TestConnection_WriteFailureTriggersTerminate(t *testing.T) {
	transport := newFakeTransport(true)
	transport.setFail(true)
	conn := realtime.NewConnection("c1", transport, 16, testLogger())

	terminated := make(chan string, 1)
	conn.OnTerminate(func(c *realtime.Connection) {
		terminated <- c.ID
		c.Close()
	})
	conn.Open()

	require.NoError(t, conn.Enqueue(domain.NewHeartbeatMessage()))

	select {
	case id := <-terminated:
		assert.Equal(t, "c1", id)
	case <-time.After(time.Second):
		t.Fatal("terminate callback never fired")
	}
}

func TestConnection_LivenessBookkeeping(t *testing.T) {
	conn := realtime.NewConnection("c1", newFakeTransport(true), 16, testLogger())

	assert.False(t, conn.AwaitingAck())
	before := conn.LastAck()

	conn.MarkProbed()
	assert.True(t, conn.AwaitingAck())

	time.Sleep(5 * time.Millisecond)
	conn.MarkAlive()
	assert.False(t, conn.AwaitingAck())
	assert.True(t, conn.LastAck().After(before))
}
