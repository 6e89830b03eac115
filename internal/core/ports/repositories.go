package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
)

// TournamentRepository provides access to the tournaments collection.
type TournamentRepository interface {
	List(ctx context.Context) ([]*domain.Tournament, error)
	GetByID(ctx context.Context, id string) (*domain.Tournament, error)
	Upsert(ctx context.Context, tournament *domain.Tournament) error
}

// LeaderboardFilters narrows a leaderboard listing.
type LeaderboardFilters struct {
	TournamentID string
	Status       domain.TournamentStatus
	Limit        int64
}

// LeaderboardRepository provides access to the tournament_leaderboards
// collection.
type LeaderboardRepository interface {
	List(ctx context.Context, filters LeaderboardFilters) ([]*domain.Leaderboard, error)
	GetByTournamentID(ctx context.Context, tournamentID string) (*domain.Leaderboard, error)
	Upsert(ctx context.Context, leaderboard *domain.Leaderboard) error
}

// LeagueRepository provides access to the leagues collection.
type LeagueRepository interface {
	Create(ctx context.Context, league *domain.League) (*domain.League, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.League, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.League, error)
	Update(ctx context.Context, league *domain.League) error
	AddMember(ctx context.Context, id primitive.ObjectID, userID string) error
}

// TeamRepository provides access to the teams collection.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	GetByUserAndLeague(ctx context.Context, userID string, leagueID primitive.ObjectID) (*domain.Team, error)
	ListByLeague(ctx context.Context, leagueID primitive.ObjectID) ([]*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
}

// PlayerRepository provides access to the players collection.
type PlayerRepository interface {
	List(ctx context.Context, search string, limit, offset int64) ([]*domain.Player, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Player, error)
}

// InviteRepository provides access to the invites collection.
type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Invite, error)
	ListForEmail(ctx context.Context, email string) ([]*domain.Invite, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.InviteStatus) error
}

// UserRepository provides access to the users collection.
type UserRepository interface {
	UpsertByExternalID(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}
