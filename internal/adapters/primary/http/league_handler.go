package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/validation"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

const maxLeagueNameLength = 60

// LeagueHandler handles HTTP requests for leagues.
type LeagueHandler struct {
	leagueService ports.LeagueService
	teamHandler   *TeamHandler
	inviteHandler *InviteHandler
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewLeagueHandler creates a new league handler
func NewLeagueHandler(
	leagueService ports.LeagueService,
	teamHandler *TeamHandler,
	inviteHandler *InviteHandler,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *LeagueHandler {
	return &LeagueHandler{
		leagueService: leagueService,
		teamHandler:   teamHandler,
		inviteHandler: inviteHandler,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "league"),
	}
}

// RegisterRoutes sets up the routing for all league endpoints.
func (h *LeagueHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListMyLeagues)
	r.Post("/", h.HandleCreateLeague)

	r.Route("/{leagueID}", func(r chi.Router) {
		r.Get("/", h.HandleGetLeague)
		r.Patch("/scoring", h.HandleUpdateScoring)

		if h.inviteHandler != nil {
			r.Post("/invites", h.inviteHandler.HandleCreateInvite)
		}
		if h.teamHandler != nil {
			r.Route("/team", h.teamHandler.RegisterRoutes)
		}
	})
}

// --- Request DTOs ---

// CreateLeagueRequest defines the expected JSON body for creating a league
type CreateLeagueRequest struct {
	Name    string                  `json:"name"`
	Scoring *domain.ScoringSettings `json:"scoringSettings,omitempty"`
}

// Validate validates the create league request
func (r *CreateLeagueRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, maxLeagueNameLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateScoringRequest defines the expected JSON body for scoring changes
type UpdateScoringRequest struct {
	Scoring domain.ScoringSettings `json:"scoringSettings"`
}

// --- Handlers ---

// HandleListMyLeagues handles GET /leagues
func (h *LeagueHandler) HandleListMyLeagues(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagues, err := h.leagueService.ListMyLeagues(r.Context(), claims.ExternalID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, leagues)
}

// HandleCreateLeague handles POST /leagues
func (h *LeagueHandler) HandleCreateLeague(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateLeagueRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateLeagueParams{
		Name:      req.Name,
		CreatedBy: claims.ExternalID,
	}
	if req.Scoring != nil {
		params.Scoring = *req.Scoring
	}

	league, err := h.leagueService.CreateLeague(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("league created",
		"league_id", league.ID.Hex(),
		"user_id", claims.ExternalID,
	)

	WriteCreated(w, league)
}

// HandleGetLeague handles GET /leagues/{leagueID}
func (h *LeagueHandler) HandleGetLeague(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	league, err := h.leagueService.GetLeague(r.Context(), leagueID, claims.ExternalID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, league)
}

// HandleUpdateScoring handles PATCH /leagues/{leagueID}/scoring
func (h *LeagueHandler) HandleUpdateScoring(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateScoringRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	league, err := h.leagueService.UpdateScoring(r.Context(), ports.UpdateScoringParams{
		LeagueID: leagueID,
		ActorID:  claims.ExternalID,
		Scoring:  req.Scoring,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("league scoring updated",
		"league_id", league.ID.Hex(),
		"user_id", claims.ExternalID,
	)

	WriteJSON(w, http.StatusOK, league)
}

// parseLeagueID extracts and validates the league ID from the URL
func parseLeagueID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "leagueID"))
	if err != nil {
		return primitive.NilObjectID, apperrors.NewBadRequestError(err, "Invalid league ID")
	}
	return id, nil
}
