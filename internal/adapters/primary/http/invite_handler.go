package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/validation"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// InviteHandler handles HTTP requests for league invitations. Invite
// creation is mounted under the league routes; listing and answering live
// under /invites because they operate on the invitee's own inbox.
type InviteHandler struct {
	inviteService ports.InviteService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(inviteService ports.InviteService, errorHandler *ErrorHandler, logger *slog.Logger) *InviteHandler {
	return &InviteHandler{
		inviteService: inviteService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "invite"),
	}
}

// RegisterRoutes sets up the routing for the invitee-facing endpoints.
func (h *InviteHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListMyInvites)
	r.Post("/{inviteID}/accept", h.HandleAcceptInvite)
	r.Post("/{inviteID}/decline", h.HandleDeclineInvite)
}

// CreateInviteRequest defines the expected JSON body for inviting a user
type CreateInviteRequest struct {
	Email string `json:"email"`
}

// Validate validates the create invite request
func (r *CreateInviteRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", r.Email)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// HandleCreateInvite handles POST /leagues/{leagueID}/invites
func (h *InviteHandler) HandleCreateInvite(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	leagueID, err := parseLeagueID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[CreateInviteRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	invite, err := h.inviteService.CreateInvite(r.Context(), ports.CreateInviteParams{
		LeagueID: leagueID,
		Email:    req.Email,
		ActorID:  claims.ExternalID,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("invite created",
		"invite_id", invite.ID.Hex(),
		"league_id", leagueID.Hex(),
		"user_id", claims.ExternalID,
	)

	WriteCreated(w, invite)
}

// HandleListMyInvites handles GET /invites
func (h *InviteHandler) HandleListMyInvites(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	invites, err := h.inviteService.ListMyInvites(r.Context(), claims.Email)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, invites)
}

// HandleAcceptInvite handles POST /invites/{inviteID}/accept
func (h *InviteHandler) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	h.handleAnswer(w, r, h.inviteService.AcceptInvite, "invite accepted")
}

// HandleDeclineInvite handles POST /invites/{inviteID}/decline
func (h *InviteHandler) HandleDeclineInvite(w http.ResponseWriter, r *http.Request) {
	h.handleAnswer(w, r, h.inviteService.DeclineInvite, "invite declined")
}

func (h *InviteHandler) handleAnswer(
	w http.ResponseWriter,
	r *http.Request,
	answer func(ctx context.Context, params ports.AnswerInviteParams) (*domain.Invite, error),
	event string,
) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	inviteID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "inviteID"))
	if err != nil {
		h.errorHandler.Handle(w, r, apperrors.NewBadRequestError(err, "Invalid invite ID"))
		return
	}

	invite, err := answer(r.Context(), ports.AnswerInviteParams{
		InviteID: inviteID,
		UserID:   claims.ExternalID,
		Email:    claims.Email,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info(event,
		"invite_id", inviteID.Hex(),
		"user_id", claims.ExternalID,
	)

	WriteJSON(w, http.StatusOK, invite)
}
