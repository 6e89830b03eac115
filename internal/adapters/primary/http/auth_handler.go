package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fairwaylive/fantasy-golf-backend/internal/adapters/primary/validation"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// AuthHandler establishes sessions for externally-authenticated identities.
// The frontend verifies the provider token; this endpoint trusts the
// verified profile it receives and exchanges it for an API token.
type AuthHandler struct {
	userService  ports.UserService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userService ports.UserService, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userService:  userService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes sets up the routing for auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// LoginRequest defines the expected JSON body for establishing a session
type LoginRequest struct {
	ExternalID string `json:"externalId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Picture    string `json:"picture"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("externalId", r.ExternalID)
	v.Required("email", r.Email).
		Email("email", r.Email)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// LoginResponse carries the issued token alongside the stored profile
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	user, token, err := h.userService.Login(r.Context(), ports.LoginParams{
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Email:      req.Email,
		Picture:    req.Picture,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("user logged in",
		"user_id", user.ExternalID,
	)

	WriteJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  toUserDTO(user),
	})
}
