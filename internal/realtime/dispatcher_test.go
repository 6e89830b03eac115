package realtime_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

type dispatcherFixture struct {
	registry  *realtime.Registry
	bus       *realtime.Bus
	snapshots *fakeSnapshots
	d         *realtime.Dispatcher
}

func newDispatcherFixture() *dispatcherFixture {
	logger := testLogger()
	registry := realtime.NewRegistry(logger)
	bus := realtime.NewBus(logger)
	snapshots := newFakeSnapshots()
	return &dispatcherFixture{
		registry:  registry,
		bus:       bus,
		snapshots: snapshots,
		d:         realtime.NewDispatcher(registry, bus, snapshots, 64, time.Second, logger),
	}
}

func waitForMessages(t *testing.T, transport *fakeTransport, n int) []domain.ServerMessage {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(transport.messages()) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return transport.messages()
}

func TestDispatcher_ConnectAcknowledges(t *testing.T) {
	f := newDispatcherFixture()
	transport := newFakeTransport(true)

	conn, err := f.d.Connect(transport)
	require.NoError(t, err)
	defer f.d.Disconnect(conn.ID)

	msgs := waitForMessages(t, transport, 1)
	assert.Equal(t, domain.MessageTypeConnectionEstablished, msgs[0].Type)
	assert.Equal(t, conn.ID, msgs[0].ConnectionID)
	assert.Equal(t, 1, f.registry.Len())
}

func TestDispatcher_SnapshotBeforeUpdates(t *testing.T) {
	f := newDispatcherFixture()
	f.snapshots.data[domain.EntityLeaderboard] = []string{"snapshot"}

	transport := newFakeTransport(true)
	conn, err := f.d.Connect(transport)
	require.NoError(t, err)
	defer f.d.Disconnect(conn.ID)

	require.NoError(t, f.d.Subscribe(context.Background(), conn.ID, domain.Subscription{
		EntityType: domain.EntityLeaderboard,
		ScopeID:    "pga-2026",
	}))

	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityLeaderboard,
		Operation:  domain.OpUpdate,
		EntityID:   "lb-1",
		ScopeID:    "pga-2026",
		Timestamp:  time.Now(),
	})

	msgs := waitForMessages(t, transport, 3)
	assert.Equal(t, domain.MessageTypeConnectionEstablished, msgs[0].Type)
	assert.Equal(t, domain.MessageTypeInitialData, msgs[1].Type,
		"snapshot must arrive before any incremental update")
	assert.Equal(t, "leaderboard_update", msgs[2].Type)
}

func TestDispatcher_NoUpdatesBeforeSubscribe(t *testing.T) {
	f := newDispatcherFixture()
	transport := newFakeTransport(true)
	conn, err := f.d.Connect(transport)
	require.NoError(t, err)
	defer f.d.Disconnect(conn.ID)

	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityTournament,
		Operation:  domain.OpUpdate,
		EntityID:   "pga-2026",
		Timestamp:  time.Now(),
	})

	msgs := waitForMessages(t, transport, 1)
	for _, m := range msgs {
		assert.NotEqual(t, "tournament_update", m.Type,
			"unsubscribed connection must receive no entity updates")
	}
}

func TestDispatcher_ScopeFiltering(t *testing.T) {
	f := newDispatcherFixture()

	subscribe := func(t *testing.T, scope string) (*realtime.Connection, *fakeTransport) {
		t.Helper()
		transport := newFakeTransport(true)
		conn, err := f.d.Connect(transport)
		require.NoError(t, err)
		require.NoError(t, f.d.Subscribe(context.Background(), conn.ID, domain.Subscription{
			EntityType: domain.EntityLeaderboard,
			ScopeID:    scope,
		}))
		return conn, transport
	}

	_, matching := subscribe(t, "pga-2026")
	_, other := subscribe(t, "open-2026")
	_, wildcard := subscribe(t, domain.ScopeWildcard)

	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityLeaderboard,
		Operation:  domain.OpUpdate,
		EntityID:   "lb-1",
		ScopeID:    "pga-2026",
		Timestamp:  time.Now(),
	})

	waitForMessages(t, matching, 3)
	waitForMessages(t, wildcard, 3)
	time.Sleep(50 * time.Millisecond)

	assert.Contains(t, matching.messageTypes(), "leaderboard_update")
	assert.Contains(t, wildcard.messageTypes(), "leaderboard_update")
	assert.NotContains(t, other.messageTypes(), "leaderboard_update",
		"a differently-scoped connection must not receive the event")
}

func TestDispatcher_SnapshotFailureKeepsSubscription(t *testing.T) {
	f := newDispatcherFixture()
	f.snapshots.err = errors.New("store unavailable")

	transport := newFakeTransport(true)
	conn, err := f.d.Connect(transport)
	require.NoError(t, err)
	defer f.d.Disconnect(conn.ID)

	require.NoError(t, f.d.Subscribe(context.Background(), conn.ID, domain.Subscription{
		EntityType: domain.EntityTournament,
		ScopeID:    domain.ScopeWildcard,
	}))

	msgs := waitForMessages(t, transport, 2)
	assert.Equal(t, domain.MessageTypeError, msgs[1].Type)

	// Updates still flow even though the snapshot failed.
	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityTournament,
		Operation:  domain.OpInsert,
		EntityID:   "pga-2026",
		Timestamp:  time.Now(),
	})
	msgs = waitForMessages(t, transport, 3)
	assert.Equal(t, "tournament_update", msgs[2].Type)
}

func TestDispatcher_HandleClientMessage(t *testing.T) {
	t.Run("ping answered with pong", func(t *testing.T) {
		f := newDispatcherFixture()
		transport := newFakeTransport(true)
		conn, err := f.d.Connect(transport)
		require.NoError(t, err)
		defer f.d.Disconnect(conn.ID)

		f.d.HandleClientMessage(context.Background(), conn.ID, []byte(`{"type":"ping"}`))

		msgs := waitForMessages(t, transport, 2)
		assert.Equal(t, domain.MessageTypePong, msgs[1].Type)
	})

	t.Run("subscribe message runs the subscribe flow", func(t *testing.T) {
		f := newDispatcherFixture()
		f.snapshots.data[domain.EntityLeaderboard] = "snapshot"
		transport := newFakeTransport(true)
		conn, err := f.d.Connect(transport)
		require.NoError(t, err)
		defer f.d.Disconnect(conn.ID)

		payload := []byte(`{"type":"subscribe","subscriptions":{"entity":"leaderboard","tournamentId":"pga-2026"}}`)
		f.d.HandleClientMessage(context.Background(), conn.ID, payload)

		msgs := waitForMessages(t, transport, 2)
		assert.Equal(t, domain.MessageTypeInitialData, msgs[1].Type)
		sub := conn.Subscription()
		require.NotNil(t, sub)
		assert.Equal(t, domain.EntityLeaderboard, sub.EntityType)
		assert.Equal(t, "pga-2026", sub.ScopeID)
	})

	t.Run("pong clears outstanding probe", func(t *testing.T) {
		f := newDispatcherFixture()
		conn, err := f.d.Connect(newFakeTransport(true))
		require.NoError(t, err)
		defer f.d.Disconnect(conn.ID)

		conn.MarkProbed()
		require.True(t, conn.AwaitingAck())

		f.d.HandleClientMessage(context.Background(), conn.ID, []byte(`{"type":"pong"}`))
		assert.False(t, conn.AwaitingAck())
	})

	t.Run("malformed message is answered, not fatal", func(t *testing.T) {
		f := newDispatcherFixture()
		transport := newFakeTransport(true)
		conn, err := f.d.Connect(transport)
		require.NoError(t, err)
		defer f.d.Disconnect(conn.ID)

		f.d.HandleClientMessage(context.Background(), conn.ID, []byte(`{not json`))

		msgs := waitForMessages(t, transport, 2)
		assert.Equal(t, domain.MessageTypeError, msgs[1].Type)
		assert.Equal(t, 1, f.registry.Len(), "malformed input must not close the connection")
	})

	t.Run("unknown entity type rejected", func(t *testing.T) {
		f := newDispatcherFixture()
		transport := newFakeTransport(true)
		conn, err := f.d.Connect(transport)
		require.NoError(t, err)
		defer f.d.Disconnect(conn.ID)

		payload := []byte(`{"type":"subscribe","subscriptions":{"entity":"blimp"}}`)
		f.d.HandleClientMessage(context.Background(), conn.ID, payload)

		msgs := waitForMessages(t, transport, 2)
		assert.Equal(t, domain.MessageTypeError, msgs[1].Type)
		assert.Nil(t, conn.Subscription())
	})

	t.Run("message for unknown connection is ignored", func(t *testing.T) {
		f := newDispatcherFixture()
		require.NotPanics(t, func() {
			f.d.HandleClientMessage(context.Background(), "ghost", []byte(`{"type":"ping"}`))
		})
	})
}

func TestDispatcher_DeadConnectionDoesNotBlockOthers(t *testing.T) {
	f := newDispatcherFixture()

	deadTransport := newFakeTransport(true)
	dead, err := f.d.Connect(deadTransport)
	require.NoError(t, err)
	healthyTransport := newFakeTransport(true)
	healthy, err := f.d.Connect(healthyTransport)
	require.NoError(t, err)
	defer f.d.Disconnect(healthy.ID)

	for _, id := range []string{dead.ID, healthy.ID} {
		require.NoError(t, f.d.Subscribe(context.Background(), id, domain.Subscription{
			EntityType: domain.EntityTournament,
			ScopeID:    domain.ScopeWildcard,
		}))
	}

	// Kill the first connection's transport, then let its writer fail.
	waitForMessages(t, deadTransport, 1)
	deadTransport.setFail(true)

	for i := 0; i < 5; i++ {
		f.bus.Publish(domain.ChangeEvent{
			EntityType: domain.EntityTournament,
			Operation:  domain.OpInsert,
			EntityID:   fmt.Sprintf("t-%d", i),
			Timestamp:  time.Now(),
		})
	}

	require.Eventually(t, func() bool {
		var updates int
		for _, m := range healthyTransport.messages() {
			if m.Type == "tournament_update" {
				updates++
			}
		}
		return updates == 5
	}, 2*time.Second, 5*time.Millisecond, "healthy connection must receive every event")

	require.Eventually(t, func() bool {
		return f.registry.Len() == 1
	}, 2*time.Second, 5*time.Millisecond, "dead connection must be deregistered")
}

func TestDispatcher_ManyConnectionsSingleEvent(t *testing.T) {
	f := newDispatcherFixture()

	const total = 60
	transports := make([]*fakeTransport, 0, total)
	for i := 0; i < total; i++ {
		transport := newFakeTransport(true)
		conn, err := f.d.Connect(transport)
		require.NoError(t, err)
		scope := "pga-2026"
		if i%3 == 0 {
			scope = domain.ScopeWildcard
		}
		require.NoError(t, f.d.Subscribe(context.Background(), conn.ID, domain.Subscription{
			EntityType: domain.EntityLeaderboard,
			ScopeID:    scope,
		}))
		transports = append(transports, transport)
	}

	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityLeaderboard,
		Operation:  domain.OpUpdate,
		EntityID:   "lb-1",
		ScopeID:    "pga-2026",
		ChangedFields: map[string]any{
			"leaderboard.0.totalScore": -12,
		},
		Timestamp: time.Now(),
	})

	for _, transport := range transports {
		msgs := waitForMessages(t, transport, 3)
		assert.Equal(t, "leaderboard_update", msgs[2].Type)
	}
}
