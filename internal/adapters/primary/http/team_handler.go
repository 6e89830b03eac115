package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/validation"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

const maxTeamNameLength = 40

// TeamHandler handles HTTP requests for a user's team within a league.
// Routes are mounted under /leagues/{leagueID}/team.
type TeamHandler struct {
	teamService  ports.TeamService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService ports.TeamService, errorHandler *ErrorHandler, logger *slog.Logger) *TeamHandler {
	return &TeamHandler{
		teamService:  teamService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "team"),
	}
}

// RegisterRoutes sets up the routing for team endpoints.
func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetMyTeam)
	r.Post("/", h.HandleCreateTeam)
	r.Patch("/", h.HandleRenameTeam)
	r.Post("/players", h.HandleAddPlayer)
	r.Delete("/players/{playerID}", h.HandleRemovePlayer)
}

// --- Request DTOs ---

// TeamNameRequest defines the expected JSON body for creating or renaming a
// team
type TeamNameRequest struct {
	Name string `json:"name"`
}

// Validate validates the team name request
func (r *TeamNameRequest) Validate() error {
	v := validation.NewValidator()

	v.MaxLength("name", r.Name, maxTeamNameLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AddPlayerRequest defines the expected JSON body for a roster addition
type AddPlayerRequest struct {
	PlayerID string `json:"playerId"`
}

// --- Handlers ---

// HandleGetMyTeam handles GET /leagues/{leagueID}/team
func (h *TeamHandler) HandleGetMyTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.GetMyTeam(r.Context(), claims.ExternalID, leagueID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, team)
}

// HandleCreateTeam handles POST /leagues/{leagueID}/team
func (h *TeamHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[TeamNameRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), claims.ExternalID, leagueID, req.Name)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("team created",
		"team_id", team.ID.Hex(),
		"league_id", leagueID.Hex(),
		"user_id", claims.ExternalID,
	)

	WriteCreated(w, team)
}

// HandleRenameTeam handles PATCH /leagues/{leagueID}/team
func (h *TeamHandler) HandleRenameTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[TeamNameRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.RenameTeam(r.Context(), claims.ExternalID, leagueID, req.Name)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, team)
}

// HandleAddPlayer handles POST /leagues/{leagueID}/team/players
func (h *TeamHandler) HandleAddPlayer(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AddPlayerRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	playerID, err := primitive.ObjectIDFromHex(req.PlayerID)
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid player ID"))
		return
	}

	team, err := h.teamService.AddPlayer(r.Context(), ports.RosterChangeParams{
		UserID:   claims.ExternalID,
		LeagueID: leagueID,
		PlayerID: playerID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("player added to roster",
		"team_id", team.ID.Hex(),
		"player_id", playerID.Hex(),
		"user_id", claims.ExternalID,
	)

	WriteJSON(w, http.StatusOK, team)
}

// HandleRemovePlayer handles DELETE /leagues/{leagueID}/team/players/{playerID}
func (h *TeamHandler) HandleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	playerID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "playerID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid player ID"))
		return
	}

	team, err := h.teamService.RemovePlayer(r.Context(), ports.RosterChangeParams{
		UserID:   claims.ExternalID,
		LeagueID: leagueID,
		PlayerID: playerID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, team)
}
