package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/stream"
	"github.com/fairwaylive/fantasy-golf-backend/internal/auth"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/infrastructure/logging"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

// StreamHandler exposes the non-WebSocket real-time surfaces: server-sent
// events for one-way streaming, a long-poll endpoint backed by the change
// cache, and a stats endpoint for operators.
type StreamHandler struct {
	dispatcher   *realtime.Dispatcher
	cache        *realtime.ChangeCache
	tm           *auth.TokenManager
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(
	dispatcher *realtime.Dispatcher,
	cache *realtime.ChangeCache,
	tm *auth.TokenManager,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *StreamHandler {
	return &StreamHandler{
		dispatcher:   dispatcher,
		cache:        cache,
		tm:           tm,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// RegisterRoutes sets up the routing for stream endpoints.
func (h *StreamHandler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.HandleSSE)
	r.Get("/poll", h.HandlePoll)
	r.Get("/stats", h.HandleStats)
}

// authenticate validates the token query parameter. EventSource cannot set
// headers, so SSE and poll clients pass the token the same way WebSocket
// clients do.
func (h *StreamHandler) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Missing authentication token",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}

	claims, err := h.tm.ValidateToken(tokenString)
	if err != nil {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Invalid or expired token",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}

// parseSubscription resolves the entity/scopeId query parameters.
func parseSubscription(r *http.Request) (domain.Subscription, bool) {
	params := domain.SubscribeParams{
		Entity:       r.URL.Query().Get("entity"),
		ScopeID:      r.URL.Query().Get("scopeId"),
		TournamentID: r.URL.Query().Get("tournamentId"),
		LeagueID:     r.URL.Query().Get("leagueId"),
	}
	return params.Subscription()
}

// HandleSSE handles GET /stream/events. The response stays open until the
// client disconnects or the connection is evicted.
func (h *StreamHandler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	sub, ok := parseSubscription(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrInvalidSubscription)
		return
	}

	// The server's WriteTimeout would sever the stream mid-flight; lift it
	// for this response only. Stuck clients are handled by the liveness
	// monitor instead.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	transport, err := stream.NewSSETransport(w)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	conn, err := h.dispatcher.Connect(transport)
	if err != nil {
		h.logger.Error("failed to register sse connection",
			"request_id", GetRequestID(r.Context()),
			"user_id", claims.ExternalID,
			"error", err,
		)
		_ = transport.Close()
		return
	}
	defer h.dispatcher.Disconnect(conn.ID)

	h.logger.Info("sse connection established",
		"connection_id", conn.ID,
		"user_id", claims.ExternalID,
		"entity", sub.EntityType,
		"scope_id", sub.ScopeID,
	)

	ctx := logging.WithConnectionID(r.Context(), conn.ID)
	if err := h.dispatcher.Subscribe(ctx, conn.ID, sub); err != nil {
		h.logger.Warn("sse subscribe failed",
			"connection_id", conn.ID,
			"error", err,
		)
		return
	}

	// Block until the client goes away or the monitor reaps the
	// connection after a failed write.
	select {
	case <-r.Context().Done():
	case <-transport.Done():
	}
}

// PollResponse is the long-poll reply: every cached change newer than the
// cursor, plus the server time to use as the next cursor.
type PollResponse struct {
	Events     []domain.ServerMessage `json:"events"`
	ServerTime time.Time              `json:"serverTime"`
}

// HandlePoll handles GET /stream/poll. Clients pass the serverTime of their
// previous poll as ?since= and replay anything they missed; a client that
// lags past the cache window silently loses events and should refetch via
// the REST endpoints.
func (h *StreamHandler) HandlePoll(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authenticate(w, r); !ok {
		return
	}

	sub, ok := parseSubscription(r)
	if !ok {
		h.errorHandler.Handle(w, r, apperrors.ErrInvalidSubscription)
		return
	}

	now := time.Now().UTC()
	since := now
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid since timestamp"))
			return
		}
		since = parsed
	}

	changes := h.cache.Since(sub.EntityType, sub.ScopeID, since)
	events := make([]domain.ServerMessage, 0, len(changes))
	for _, change := range changes {
		events = append(events, domain.NewUpdateMessage(change))
	}

	WriteJSON(w, http.StatusOK, PollResponse{
		Events:     events,
		ServerTime: now,
	})
}

// HandleStats handles GET /stream/stats
func (h *StreamHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.dispatcher.Stats())
}
