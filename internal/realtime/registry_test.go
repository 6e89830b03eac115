package realtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

func newTestConn(id string) (*realtime.Connection, *fakeTransport) {
	transport := newFakeTransport(true)
	conn := realtime.NewConnection(id, transport, 16, testLogger())
	return conn, transport
}

func TestRegistry_RegisterAndDuplicate(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	conn, _ := newTestConn("c1")

	require.NoError(t, reg.Register(conn))
	assert.Equal(t, 1, reg.Len())

	dup, _ := newTestConn("c1")
	err := reg.Register(dup)
	assert.ErrorIs(t, err, apperrors.ErrDuplicateConnection)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_SetSubscriptionUnknownConnection(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	err := reg.SetSubscription("ghost", domain.Subscription{EntityType: domain.EntityTournament})
	assert.ErrorIs(t, err, apperrors.ErrUnknownConnection)
}

func TestRegistry_FanoutTargets(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())

	wildcard, _ := newTestConn("wildcard")
	scoped, _ := newTestConn("scoped")
	other, _ := newTestConn("other")
	unsubscribed, _ := newTestConn("silent")

	for _, c := range []*realtime.Connection{wildcard, scoped, other, unsubscribed} {
		require.NoError(t, reg.Register(c))
	}
	require.NoError(t, reg.SetSubscription("wildcard", domain.Subscription{
		EntityType: domain.EntityLeaderboard, ScopeID: domain.ScopeWildcard,
	}))
	require.NoError(t, reg.SetSubscription("scoped", domain.Subscription{
		EntityType: domain.EntityLeaderboard, ScopeID: "pga-2026",
	}))
	require.NoError(t, reg.SetSubscription("other", domain.Subscription{
		EntityType: domain.EntityLeaderboard, ScopeID: "open-2026",
	}))

	targets := reg.FanoutTargets(domain.EntityLeaderboard, "pga-2026")
	ids := connIDs(targets)
	assert.ElementsMatch(t, []string{"wildcard", "scoped"}, ids)

	// Unrelated entity type reaches nobody.
	assert.Empty(t, reg.FanoutTargets(domain.EntityTeam, "pga-2026"))
}

func TestRegistry_EmptyScopeMeansWildcard(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	conn, _ := newTestConn("c1")
	require.NoError(t, reg.Register(conn))

	require.NoError(t, reg.SetSubscription("c1", domain.Subscription{
		EntityType: domain.EntityTournament,
	}))

	targets := reg.FanoutTargets(domain.EntityTournament, "anything")
	assert.Equal(t, []string{"c1"}, connIDs(targets))
}

func TestRegistry_ResubscribeReplacesWholesale(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	conn, _ := newTestConn("c1")
	require.NoError(t, reg.Register(conn))

	require.NoError(t, reg.SetSubscription("c1", domain.Subscription{
		EntityType: domain.EntityLeaderboard, ScopeID: "pga-2026",
	}))
	require.NoError(t, reg.SetSubscription("c1", domain.Subscription{
		EntityType: domain.EntityTeam, ScopeID: "league-1",
	}))

	assert.Empty(t, reg.FanoutTargets(domain.EntityLeaderboard, "pga-2026"),
		"old subscription must be gone after resubscribe")
	assert.Equal(t, []string{"c1"}, connIDs(reg.FanoutTargets(domain.EntityTeam, "league-1")))
}

func TestRegistry_DeregisterIsIdempotentAndCloses(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	conn, transport := newTestConn("c1")
	require.NoError(t, reg.Register(conn))
	require.NoError(t, reg.SetSubscription("c1", domain.Subscription{
		EntityType: domain.EntityLeague, ScopeID: "league-1",
	}))

	reg.Deregister("c1")
	assert.Zero(t, reg.Len())
	assert.True(t, transport.isClosed())
	assert.Empty(t, reg.FanoutTargets(domain.EntityLeague, "league-1"))

	// Racing teardown paths may hit an already-removed id.
	require.NotPanics(t, func() {
		reg.Deregister("c1")
		reg.Deregister("never-existed")
	})
}

func TestRegistry_Stats(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	conn, _ := newTestConn("c1")
	require.NoError(t, reg.Register(conn))
	require.NoError(t, reg.SetSubscription("c1", domain.Subscription{
		EntityType: domain.EntityTournament, ScopeID: "pga-2026",
	}))

	stats := reg.Stats()
	require.Equal(t, 1, stats.TotalConnections)
	require.Len(t, stats.Connections, 1)
	cs := stats.Connections[0]
	assert.Equal(t, "c1", cs.ConnectionID)
	assert.Equal(t, "fake", cs.Transport)
	require.NotNil(t, cs.Subscription)
	assert.Equal(t, domain.EntityTournament, cs.Subscription.EntityType)
	assert.Equal(t, "pga-2026", cs.Subscription.ScopeID)
	assert.False(t, cs.ConnectedAt.IsZero())
}

func TestRegistry_CloseAll(t *testing.T) {
	reg := realtime.NewRegistry(testLogger())
	var transports []*fakeTransport
	for _, id := range []string{"a", "b", "c"} {
		conn, transport := newTestConn(id)
		require.NoError(t, reg.Register(conn))
		transports = append(transports, transport)
	}

	reg.CloseAll()

	assert.Zero(t, reg.Len())
	for _, transport := range transports {
		assert.True(t, transport.isClosed())
	}
}

func connIDs(conns []*realtime.Connection) []string {
	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.ID)
	}
	return ids
}
