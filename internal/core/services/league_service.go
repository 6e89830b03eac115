package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// LeagueService implements business logic for league management.
type LeagueService struct {
	leagueRepo ports.LeagueRepository
}

var _ ports.LeagueService = (*LeagueService)(nil)

// NewLeagueService creates a new league service
func NewLeagueService(leagueRepo ports.LeagueRepository) ports.LeagueService {
	return &LeagueService{leagueRepo: leagueRepo}
}

// CreateLeague creates a league with the creator as first admin and member.
func (s *LeagueService) CreateLeague(ctx context.Context, params ports.CreateLeagueParams) (*domain.League, error) {
	league := &domain.League{
		Name:          params.Name,
		CreatedBy:     params.CreatedBy,
		CreatedAt:     time.Now().UTC(),
		AdminUserIDs:  []string{params.CreatedBy},
		MemberUserIDs: []string{params.CreatedBy},
		Scoring:       params.Scoring,
	}
	if err := league.Validate(); err != nil {
		return nil, err
	}
	return s.leagueRepo.Create(ctx, league)
}

// GetLeague retrieves a league; only members may view it.
func (s *LeagueService) GetLeague(ctx context.Context, id primitive.ObjectID, viewerID string) (*domain.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !league.IsMember(viewerID) {
		return nil, apperrors.NewForbiddenError("you are not a member of this league")
	}
	return league, nil
}

// ListMyLeagues returns the leagues the user belongs to.
func (s *LeagueService) ListMyLeagues(ctx context.Context, userID string) ([]*domain.League, error) {
	return s.leagueRepo.ListForUser(ctx, userID)
}

// UpdateScoring replaces a league's scoring settings. Admins only.
func (s *LeagueService) UpdateScoring(ctx context.Context, params ports.UpdateScoringParams) (*domain.League, error) {
	league, err := s.leagueRepo.GetByID(ctx, params.LeagueID)
	if err != nil {
		return nil, err
	}
	if !league.IsAdmin(params.ActorID) {
		return nil, apperrors.NewForbiddenError("only league admins can change scoring settings")
	}
	league.Scoring = params.Scoring
	if err := s.leagueRepo.Update(ctx, league); err != nil {
		return nil, err
	}
	return league, nil
}
