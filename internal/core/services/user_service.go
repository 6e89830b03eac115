package services

import (
	"context"

	"github.com/fairwaylive/fantasy-golf-backend/internal/auth"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// UserService implements account upsert-on-login and session issuance.
// Identity verification itself is delegated to the external provider; by the
// time Login runs, the caller's identity has already been established.
type UserService struct {
	userRepo ports.UserRepository
	tokens   *auth.TokenManager
}

var _ ports.UserService = (*UserService)(nil)

// NewUserService creates a new user service
func NewUserService(userRepo ports.UserRepository, tokens *auth.TokenManager) ports.UserService {
	return &UserService{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

// Login upserts the account from the provider profile and returns it with a
// signed session token.
func (s *UserService) Login(ctx context.Context, params ports.LoginParams) (*domain.User, string, error) {
	if params.ExternalID == "" {
		return nil, "", apperrors.NewBadRequestError(apperrors.ErrUserIDRequired, "external id is required")
	}
	user, err := s.userRepo.UpsertByExternalID(ctx, &domain.User{
		ExternalID: params.ExternalID,
		Name:       params.Name,
		Email:      params.Email,
		Picture:    params.Picture,
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.GenerateToken(user.ExternalID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// GetByExternalID retrieves an account by its provider subject id.
func (s *UserService) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	return s.userRepo.GetByExternalID(ctx, externalID)
}
