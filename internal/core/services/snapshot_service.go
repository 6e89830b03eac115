package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// SnapshotService assembles the initial_data payload a client receives right
// after subscribing. What a snapshot contains depends on the entity type and
// subscription scope: a scoped subscription gets the one document it watches,
// a wildcard subscription gets the current listing.
type SnapshotService struct {
	tournamentRepo  ports.TournamentRepository
	leaderboardRepo ports.LeaderboardRepository
	leagueRepo      ports.LeagueRepository
	teamRepo        ports.TeamRepository
	playerRepo      ports.PlayerRepository
	inviteRepo      ports.InviteRepository
}

var _ ports.SnapshotProvider = (*SnapshotService)(nil)

// NewSnapshotService creates a snapshot provider over the entity repositories.
func NewSnapshotService(
	tournamentRepo ports.TournamentRepository,
	leaderboardRepo ports.LeaderboardRepository,
	leagueRepo ports.LeagueRepository,
	teamRepo ports.TeamRepository,
	playerRepo ports.PlayerRepository,
	inviteRepo ports.InviteRepository,
) ports.SnapshotProvider {
	return &SnapshotService{
		tournamentRepo:  tournamentRepo,
		leaderboardRepo: leaderboardRepo,
		leagueRepo:      leagueRepo,
		teamRepo:        teamRepo,
		playerRepo:      playerRepo,
		inviteRepo:      inviteRepo,
	}
}

// FetchSnapshot returns the current state for one subscription.
func (s *SnapshotService) FetchSnapshot(ctx context.Context, entity domain.EntityType, scopeID string) (any, error) {
	wildcard := scopeID == "" || scopeID == domain.ScopeWildcard

	switch entity {
	case domain.EntityTournament:
		if wildcard {
			return s.tournamentRepo.List(ctx)
		}
		return s.tournamentRepo.GetByID(ctx, scopeID)

	case domain.EntityLeaderboard:
		if wildcard {
			return s.leaderboardRepo.List(ctx, ports.LeaderboardFilters{Limit: defaultLeaderboardLimit})
		}
		return s.leaderboardRepo.GetByTournamentID(ctx, scopeID)

	case domain.EntityLeague:
		if wildcard {
			// No global league listing; a wildcard league subscription
			// starts from updates alone.
			return []*domain.League{}, nil
		}
		id, err := primitive.ObjectIDFromHex(scopeID)
		if err != nil {
			return nil, apperrors.NewBadRequestError(err, "invalid league id")
		}
		return s.leagueRepo.GetByID(ctx, id)

	case domain.EntityTeam:
		if wildcard {
			return []*domain.Team{}, nil
		}
		id, err := primitive.ObjectIDFromHex(scopeID)
		if err != nil {
			return nil, apperrors.NewBadRequestError(err, "invalid league id")
		}
		return s.teamRepo.ListByLeague(ctx, id)

	case domain.EntityPlayer:
		return s.playerRepo.List(ctx, "", maxPlayerPageSize, 0)

	case domain.EntityInvite:
		// Invite listings are per-email on the REST surface; the live view
		// only needs a starting point, so updates alone are sufficient.
		return []*domain.Invite{}, nil

	default:
		return nil, apperrors.ErrInvalidSubscription
	}
}
