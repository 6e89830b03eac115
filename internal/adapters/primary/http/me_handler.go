package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/http/middleware"
	"github.com/fairwaylive/fantasy-golf-backend/internal/auth"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// MeHandler serves the authenticated user's own profile.
type MeHandler struct {
	userService  ports.UserService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewMeHandler creates a new me handler
func NewMeHandler(userService ports.UserService, errorHandler *ErrorHandler, logger *slog.Logger) *MeHandler {
	return &MeHandler{
		userService:  userService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "me"),
	}
}

// RegisterRoutes sets up the routing for the profile endpoint.
func (h *MeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleGetMe)
}

// UserDTO defines the JSON response for user profiles.
type UserDTO struct {
	ID         string `json:"id"`
	ExternalID string `json:"externalId"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Picture    string `json:"picture,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

func toUserDTO(user *domain.User) UserDTO {
	return UserDTO{
		ID:         user.ID.Hex(),
		ExternalID: user.ExternalID,
		Name:       user.DisplayName(),
		Email:      user.Email,
		Picture:    user.Picture,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

// HandleGetMe handles GET /me
func (h *MeHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByExternalID(r.Context(), claims.ExternalID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toUserDTO(user))
}

// getClaims pulls validated claims off the request context, answering 401
// when the auth middleware did not run or rejected the token.
func getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
