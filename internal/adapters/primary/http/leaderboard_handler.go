package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/validation"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

const maxLeaderboardsPerPage = 50

// LeaderboardHandler handles HTTP requests for live leaderboards.
type LeaderboardHandler struct {
	leaderboardService ports.LeaderboardService
	errorHandler       *ErrorHandler
	logger             *slog.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(
	leaderboardService ports.LeaderboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		errorHandler:       errorHandler,
		logger:             logger.With("handler", "leaderboard"),
	}
}

// RegisterRoutes sets up the routing for leaderboard endpoints.
func (h *LeaderboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListLeaderboards)
}

// HandleListLeaderboards handles GET /leaderboards
func (h *LeaderboardHandler) HandleListLeaderboards(w http.ResponseWriter, r *http.Request) {
	limit := validation.ParseIntQueryParam(r, "limit", maxLeaderboardsPerPage)
	if limit < 1 || limit > maxLeaderboardsPerPage {
		limit = maxLeaderboardsPerPage
	}

	params := ports.ListLeaderboardsParams{
		Limit: int64(limit),
	}
	if tournamentID := validation.ParseStringQueryParam(r, "tournamentId"); tournamentID != nil {
		params.TournamentID = *tournamentID
	}
	if status := validation.ParseStringQueryParam(r, "status"); status != nil {
		params.Status = *status
	}

	leaderboards, err := h.leaderboardService.ListLeaderboards(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, leaderboards)
}
