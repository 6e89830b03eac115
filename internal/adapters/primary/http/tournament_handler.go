package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// TournamentHandler handles HTTP requests for tournaments. Tournaments are
// ingested by an upstream sync job, so this surface is read-only.
type TournamentHandler struct {
	tournamentService  ports.TournamentService
	leaderboardService ports.LeaderboardService
	errorHandler       *ErrorHandler
	logger             *slog.Logger
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(
	tournamentService ports.TournamentService,
	leaderboardService ports.LeaderboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TournamentHandler {
	return &TournamentHandler{
		tournamentService:  tournamentService,
		leaderboardService: leaderboardService,
		errorHandler:       errorHandler,
		logger:             logger.With("handler", "tournament"),
	}
}

// RegisterRoutes sets up the routing for all tournament endpoints.
func (h *TournamentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTournaments)

	r.Route("/{tournamentID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTournament)
		r.Get("/leaderboard", h.HandleGetLeaderboard)
	})
}

// HandleListTournaments handles GET /tournaments
func (h *TournamentHandler) HandleListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListTournaments(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, tournaments)
}

// HandleGetTournament handles GET /tournaments/{tournamentID}
func (h *TournamentHandler) HandleGetTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	tournament, err := h.tournamentService.GetTournament(r.Context(), tournamentID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, tournament)
}

// HandleGetLeaderboard handles GET /tournaments/{tournamentID}/leaderboard
func (h *TournamentHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tournamentID := chi.URLParam(r, "tournamentID")

	leaderboard, err := h.leaderboardService.GetByTournament(r.Context(), tournamentID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, leaderboard)
}
