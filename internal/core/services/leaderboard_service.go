package services

import (
	"context"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// defaultLeaderboardLimit caps unbounded listings; leaderboard documents are
// large.
const defaultLeaderboardLimit = 25

// LeaderboardService implements read operations over live leaderboards.
type LeaderboardService struct {
	leaderboardRepo ports.LeaderboardRepository
}

var _ ports.LeaderboardService = (*LeaderboardService)(nil)

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(leaderboardRepo ports.LeaderboardRepository) ports.LeaderboardService {
	return &LeaderboardService{leaderboardRepo: leaderboardRepo}
}

// ListLeaderboards returns leaderboards matching the filters.
func (s *LeaderboardService) ListLeaderboards(ctx context.Context, params ports.ListLeaderboardsParams) ([]*domain.Leaderboard, error) {
	filters := ports.LeaderboardFilters{
		TournamentID: params.TournamentID,
		Limit:        params.Limit,
	}
	if params.Status != "" {
		status := domain.TournamentStatus(params.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError(
				apperrors.ErrInvalidTournamentStatus,
				"unknown tournament status: "+params.Status,
				nil,
			)
		}
		filters.Status = status
	}
	if filters.Limit <= 0 || filters.Limit > defaultLeaderboardLimit {
		filters.Limit = defaultLeaderboardLimit
	}
	return s.leaderboardRepo.List(ctx, filters)
}

// GetByTournament retrieves the live leaderboard for one tournament.
func (s *LeaderboardService) GetByTournament(ctx context.Context, tournamentID string) (*domain.Leaderboard, error) {
	if tournamentID == "" {
		return nil, apperrors.NewBadRequestError(apperrors.ErrTournamentIDRequired, "tournament id is required")
	}
	return s.leaderboardRepo.GetByTournamentID(ctx, tournamentID)
}
