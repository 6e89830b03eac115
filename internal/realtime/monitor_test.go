package realtime_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

func TestMonitor_EvictsUnresponsiveConnection(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	transport := newFakeTransport(true)
	conn := realtime.NewConnection("deaf", transport, 16, testLogger())
	conn.Open()
	require.NoError(t, reg.Register(conn))

	mon := realtime.NewMonitor(reg, 10*time.Millisecond, 2, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Run(ctx)

	// The connection receives probes but never acks; after the deadline it
	// must be deregistered and closed.
	require.Eventually(t, func() bool {
		return reg.Len() == 0
	}, 2*time.Second, 5*time.Millisecond)
	assert.True(t, transport.isClosed())
	assert.NotEmpty(t, transport.messages(), "at least one probe should have been sent")
}

func TestMonitor_AckedConnectionSurvives(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	conn := realtime.NewConnection("chatty", newFakeTransport(true), 16, testLogger())
	conn.Open()
	require.NoError(t, reg.Register(conn))

	mon := realtime.NewMonitor(reg, 10*time.Millisecond, 2, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Run(ctx)

	// Keep answering probes for well past several deadlines.
	deadline := time.Now().Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		conn.MarkAlive()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, 1, reg.Len(), "an acking connection must never be evicted")
}

func TestMonitor_OneWayTransportIsNotProbedForAcks(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	transport := newFakeTransport(false)
	conn := realtime.NewConnection("stream", transport, 16, testLogger())
	conn.Open()
	require.NoError(t, reg.Register(conn))

	mon := realtime.NewMonitor(reg, 10*time.Millisecond, 2, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Run(ctx)

	// A one-way transport cannot ack, so it must survive long past the
	// deadline as long as writes succeed.
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, reg.Len())
	assert.False(t, conn.AwaitingAck())
}

func TestMonitor_OneWayTransportReapedOnWriteError(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	transport := newFakeTransport(false)
	conn := realtime.NewConnection("stream", transport, 16, testLogger())
	conn.OnTerminate(func(c *realtime.Connection) { reg.Deregister(c.ID) })
	conn.Open()
	require.NoError(t, reg.Register(conn))

	mon := realtime.NewMonitor(reg, 10*time.Millisecond, 2, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mon.Run(ctx)

	transport.setFail(true)

	require.Eventually(t, func() bool {
		return reg.Len() == 0
	}, 2*time.Second, 5*time.Millisecond)
}
