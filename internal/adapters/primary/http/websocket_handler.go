package http

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/stream"
	"github.com/fairwaylive/fantasy-golf-backend/internal/auth"
	"github.com/fairwaylive/fantasy-golf-backend/internal/config"
	"github.com/fairwaylive/fantasy-golf-backend/internal/infrastructure/logging"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

// WebSocketHandler handles WebSocket connection upgrades and hands the
// resulting transport to the real-time dispatcher.
type WebSocketHandler struct {
	dispatcher *realtime.Dispatcher
	tm         *auth.TokenManager
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(
	dispatcher *realtime.Dispatcher,
	tm *auth.TokenManager,
	cfg *config.Config,
	logger *slog.Logger,
) *WebSocketHandler {
	handler := &WebSocketHandler{
		dispatcher: dispatcher,
		tm:         tm,
		logger:     logger,
	}

	handler.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		CheckOrigin:     handler.makeOriginChecker(cfg),
	}

	return handler
}

// makeOriginChecker creates an origin checking function based on configuration
func (h *WebSocketHandler) makeOriginChecker(cfg *config.Config) func(r *http.Request) bool {
	allowedOrigins := cfg.WebSocket.AllowedOrigins

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// In development mode, allow all origins (but log a warning)
		if cfg.IsDevelopment() {
			if origin != "" {
				h.logger.Warn("allowing websocket connection in development mode",
					"origin", origin,
					"remote_addr", r.RemoteAddr,
				)
			}
			return true
		}

		// No origin header (same-origin request or non-browser client)
		if origin == "" {
			return true
		}

		// Check against allowed origins
		parsedOrigin, err := url.Parse(origin)
		if err != nil {
			h.logger.Warn("failed to parse websocket origin",
				"origin", origin,
				"error", err,
			)
			return false
		}

		originHost := parsedOrigin.Host

		for _, allowed := range allowedOrigins {
			// Support wildcard subdomains like "*.example.com"
			if strings.HasPrefix(allowed, "*.") {
				suffix := allowed[1:] // Remove the "*", keep ".example.com"
				if strings.HasSuffix(originHost, suffix) || originHost == allowed[2:] {
					return true
				}
			} else if originHost == allowed {
				return true
			}
		}

		h.logger.Warn("websocket connection rejected due to origin",
			"origin", origin,
			"remote_addr", r.RemoteAddr,
			"allowed_origins", allowedOrigins,
		)
		return false
	}
}

// ServeHTTP handles WebSocket connection requests
func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	// 1. Authenticate the connection via query parameter. Browsers cannot
	// set headers on the WebSocket handshake.
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		h.logger.Warn("websocket connection rejected: missing token",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
		)
		http.Error(w, "Missing authentication token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tm.ValidateToken(tokenString)
	if err != nil {
		h.logger.Warn("websocket connection rejected: invalid token",
			"request_id", requestID,
			"remote_addr", r.RemoteAddr,
			"error", err,
		)
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return
	}

	// 2. Upgrade the connection
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade websocket connection",
			"request_id", requestID,
			"user_id", claims.ExternalID,
			"error", err,
		)
		return
	}

	// 3. Register the transport; the dispatcher acknowledges with a
	// connection_established frame.
	transport := stream.NewWebSocketTransport(wsConn)
	conn, err := h.dispatcher.Connect(transport)
	if err != nil {
		h.logger.Error("failed to register websocket connection",
			"request_id", requestID,
			"user_id", claims.ExternalID,
			"error", err,
		)
		_ = transport.Close()
		return
	}

	h.logger.Info("websocket connection established",
		"request_id", requestID,
		"connection_id", conn.ID,
		"user_id", claims.ExternalID,
		"remote_addr", r.RemoteAddr,
	)

	// 4. Drain inbound frames on a new goroutine; the handler returns so
	// the server worker is released. The request context dies with the
	// handler, so the pump gets a fresh one carrying the log fields.
	ctx := logging.WithConnectionID(logging.WithUserID(context.Background(), claims.ExternalID), conn.ID)
	go stream.ReadPump(ctx, wsConn, conn, h.dispatcher, h.logger)
}
