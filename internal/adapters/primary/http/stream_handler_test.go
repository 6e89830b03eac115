package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/auth"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/mocks"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

type streamFixture struct {
	bus       *realtime.Bus
	cache     *realtime.ChangeCache
	registry  *realtime.Registry
	snapshots *mocks.MockSnapshotProvider
	tm        *auth.TokenManager
	router    *chi.Mux
}

func newStreamFixture(t *testing.T) *streamFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry := realtime.NewRegistry(logger)
	bus := realtime.NewBus(logger)
	cache := realtime.NewChangeCache(time.Minute)
	cache.Attach(bus)
	snapshots := mocks.NewMockSnapshotProvider()
	dispatcher := realtime.NewDispatcher(registry, bus, snapshots, 64, time.Second, logger)

	tm := auth.NewTokenManager("stream-test-secret", time.Hour)
	handler := NewStreamHandler(dispatcher, cache, tm, NewErrorHandler(logger), logger)

	router := chi.NewRouter()
	router.Route("/stream", handler.RegisterRoutes)

	return &streamFixture{
		bus:       bus,
		cache:     cache,
		registry:  registry,
		snapshots: snapshots,
		tm:        tm,
		router:    router,
	}
}

func (f *streamFixture) token(t *testing.T) string {
	t.Helper()
	token, err := f.tm.GenerateToken("user-1", "user@example.com")
	require.NoError(t, err)
	return token
}

func TestStreamHandler_PollRequiresToken(t *testing.T) {
	f := newStreamFixture(t)

	req := httptest.NewRequest(stdhttp.MethodGet, "/stream/poll?entity=tournament", nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
}

func TestStreamHandler_PollRejectsUnknownEntity(t *testing.T) {
	f := newStreamFixture(t)

	target := "/stream/poll?entity=referee&token=" + f.token(t)
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusBadRequest, recorder.Code)
}

func TestStreamHandler_PollReplaysCachedEvents(t *testing.T) {
	f := newStreamFixture(t)
	since := time.Now().UTC()

	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityLeaderboard,
		Operation:  domain.OpUpdate,
		EntityID:   "lb-1",
		ScopeID:    "masters-2026",
		ChangedFields: map[string]any{
			"leaderboard.0.total": "-12",
		},
		Timestamp: since.Add(10 * time.Millisecond),
	})
	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityLeaderboard,
		Operation:  domain.OpUpdate,
		EntityID:   "lb-2",
		ScopeID:    "other-open",
		Timestamp:  since.Add(20 * time.Millisecond),
	})

	target := "/stream/poll?entity=leaderboard&scopeId=masters-2026&since=" +
		url.QueryEscape(since.Format(time.RFC3339Nano)) + "&token=" + f.token(t)
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response PollResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	require.Len(t, response.Events, 1)
	assert.Equal(t, "leaderboard_update", response.Events[0].Type)
	assert.Equal(t, "lb-1", response.Events[0].EntityID)
	assert.False(t, response.ServerTime.IsZero())
}

func TestStreamHandler_PollWithoutCursorReturnsOnlyServerTime(t *testing.T) {
	f := newStreamFixture(t)

	f.bus.Publish(domain.ChangeEvent{
		EntityType: domain.EntityTournament,
		Operation:  domain.OpUpdate,
		EntityID:   "t-1",
		ScopeID:    "t-1",
		Timestamp:  time.Now().UTC().Add(-time.Second),
	})

	target := "/stream/poll?entity=tournament&token=" + f.token(t)
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response PollResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Empty(t, response.Events)
	assert.False(t, response.ServerTime.IsZero())
}

func TestStreamHandler_Stats(t *testing.T) {
	f := newStreamFixture(t)

	target := "/stream/stats?token=" + f.token(t)
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var stats realtime.RegistryStats
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&stats))
	assert.Equal(t, 0, stats.TotalConnections)
}

// sseRecorder guards a ResponseRecorder against the connection's writer
// goroutine, which keeps streaming frames while the test goroutine waits.
type sseRecorder struct {
	mu  sync.Mutex
	rec *httptest.ResponseRecorder
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{rec: httptest.NewRecorder()}
}

func (r *sseRecorder) Header() stdhttp.Header { return r.rec.Header() }

func (r *sseRecorder) WriteHeader(code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.WriteHeader(code)
}

func (r *sseRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Write(b)
}

func (r *sseRecorder) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rec.Flush()
}

func (r *sseRecorder) snapshot() (int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rec.Code, r.rec.Body.String()
}

func TestStreamHandler_SSEStreamsSnapshot(t *testing.T) {
	f := newStreamFixture(t)
	f.snapshots.On("FetchSnapshot", mock.Anything, domain.EntityTournament, "*").
		Return([]string{"snapshot"}, nil)

	target := "/stream/events?entity=tournament&token=" + f.token(t)
	req := httptest.NewRequest(stdhttp.MethodGet, target, nil)

	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)

	recorder := newSSERecorder()
	f.router.ServeHTTP(recorder, req)

	code, body := recorder.snapshot()
	require.Equal(t, stdhttp.StatusOK, code)
	assert.Equal(t, "text/event-stream", recorder.Header().Get("Content-Type"))

	assert.Contains(t, body, domain.MessageTypeConnectionEstablished)
	assert.Contains(t, body, domain.MessageTypeInitialData)
	assert.Equal(t, 0, f.registry.Len())
}
