package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/validation"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

const maxPlayersPerPage = 100

// PlayerHandler handles HTTP requests for the golfer pool.
type PlayerHandler struct {
	playerService ports.PlayerService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService ports.PlayerService, errorHandler *ErrorHandler, logger *slog.Logger) *PlayerHandler {
	return &PlayerHandler{
		playerService: playerService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "player"),
	}
}

// RegisterRoutes sets up the routing for player endpoints.
func (h *PlayerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListPlayers)
}

// HandleListPlayers handles GET /players
func (h *PlayerHandler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	pagination := validation.ParsePagination(r, maxPlayersPerPage)

	search := ""
	if s := validation.ParseStringQueryParam(r, "search"); s != nil {
		search = *s
	}

	players, err := h.playerService.ListPlayers(r.Context(),
		search, int64(pagination.Limit), int64(pagination.Offset))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, players)
}
