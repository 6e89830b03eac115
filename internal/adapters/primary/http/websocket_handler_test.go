package http

import (
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/auth"
	"github.com/fairwaylive/fantasy-golf-backend/internal/config"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/mocks"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

func newWebSocketServer(t *testing.T, snapshots *mocks.MockSnapshotProvider) (*httptest.Server, *auth.TokenManager, *realtime.Registry) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	registry := realtime.NewRegistry(logger)
	bus := realtime.NewBus(logger)
	dispatcher := realtime.NewDispatcher(registry, bus, snapshots, 64, time.Second, logger)
	tm := auth.NewTokenManager("ws-test-secret", time.Hour)

	cfg := &config.Config{}
	cfg.App.Environment = "development"
	cfg.WebSocket.ReadBufferSize = 1024
	cfg.WebSocket.WriteBufferSize = 1024

	handler := NewWebSocketHandler(dispatcher, tm, cfg, logger)
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return server, tm, registry
}

func dialWebSocket(t *testing.T, server *httptest.Server, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) domain.ServerMessage {
	t.Helper()
	var msg domain.ServerMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketHandler_RejectsMissingToken(t *testing.T) {
	server, _, _ := newWebSocketServer(t, mocks.NewMockSnapshotProvider())

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketHandler_RejectsBadToken(t *testing.T) {
	server, _, _ := newWebSocketServer(t, mocks.NewMockSnapshotProvider())

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?token=not-a-jwt"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	defer resp.Body.Close()
	assert.Equal(t, stdhttp.StatusUnauthorized, resp.StatusCode)
}

func TestWebSocketHandler_SubscribeFlow(t *testing.T) {
	snapshots := mocks.NewMockSnapshotProvider()
	snapshots.On("FetchSnapshot", mock.Anything, domain.EntityLeaderboard, "masters-2026").
		Return(map[string]any{"id": "lb-1"}, nil)

	server, tm, registry := newWebSocketServer(t, snapshots)
	token, err := tm.GenerateToken("user-1", "user@example.com")
	require.NoError(t, err)

	conn := dialWebSocket(t, server, token)

	established := readMessage(t, conn)
	require.Equal(t, domain.MessageTypeConnectionEstablished, established.Type)
	assert.NotEmpty(t, established.ConnectionID)

	subscribe, err := json.Marshal(domain.ClientMessage{
		Type: domain.ClientMessageSubscribe,
		Subscriptions: &domain.SubscribeParams{
			Entity:  string(domain.EntityLeaderboard),
			ScopeID: "masters-2026",
		},
	})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, subscribe))

	initial := readMessage(t, conn)
	assert.Equal(t, domain.MessageTypeInitialData, initial.Type)
	assert.Equal(t, domain.EntityLeaderboard, initial.EntityType)

	// Ping round-trips through the dispatcher.
	ping, err := json.Marshal(domain.ClientMessage{Type: domain.ClientMessagePing})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, ping))

	pong := readMessage(t, conn)
	assert.Equal(t, domain.MessageTypePong, pong.Type)

	// Closing the socket tears the connection out of the registry.
	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return registry.Len() == 0
	}, 2*time.Second, 20*time.Millisecond)
}
