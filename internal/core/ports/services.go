package ports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
)

// TournamentService exposes read operations over tournaments.
type TournamentService interface {
	ListTournaments(ctx context.Context) ([]*domain.Tournament, error)
	GetTournament(ctx context.Context, id string) (*domain.Tournament, error)
}

// ListLeaderboardsParams filters a leaderboard listing.
type ListLeaderboardsParams struct {
	TournamentID string
	Status       string
	Limit        int64
}

// LeaderboardService exposes read operations over leaderboards.
type LeaderboardService interface {
	ListLeaderboards(ctx context.Context, params ListLeaderboardsParams) ([]*domain.Leaderboard, error)
	GetByTournament(ctx context.Context, tournamentID string) (*domain.Leaderboard, error)
}

// CreateLeagueParams defines the required input for creating a league.
type CreateLeagueParams struct {
	Name      string
	CreatedBy string
	Scoring   domain.ScoringSettings
}

// UpdateScoringParams defines the input for changing a league's scoring.
type UpdateScoringParams struct {
	LeagueID primitive.ObjectID
	ActorID  string
	Scoring  domain.ScoringSettings
}

// LeagueService defines the core business operations for leagues.
type LeagueService interface {
	CreateLeague(ctx context.Context, params CreateLeagueParams) (*domain.League, error)
	GetLeague(ctx context.Context, id primitive.ObjectID, viewerID string) (*domain.League, error)
	ListMyLeagues(ctx context.Context, userID string) ([]*domain.League, error)
	UpdateScoring(ctx context.Context, params UpdateScoringParams) (*domain.League, error)
}

// RosterChangeParams defines the input for a roster add/remove.
type RosterChangeParams struct {
	UserID   string
	LeagueID primitive.ObjectID
	PlayerID primitive.ObjectID
}

// TeamService defines the core business operations for teams.
type TeamService interface {
	GetMyTeam(ctx context.Context, userID string, leagueID primitive.ObjectID) (*domain.Team, error)
	CreateTeam(ctx context.Context, userID string, leagueID primitive.ObjectID, name string) (*domain.Team, error)
	RenameTeam(ctx context.Context, userID string, leagueID primitive.ObjectID, name string) (*domain.Team, error)
	AddPlayer(ctx context.Context, params RosterChangeParams) (*domain.Team, error)
	RemovePlayer(ctx context.Context, params RosterChangeParams) (*domain.Team, error)
}

// PlayerService exposes read operations over the player pool.
type PlayerService interface {
	ListPlayers(ctx context.Context, search string, limit, offset int64) ([]*domain.Player, error)
}

// CreateInviteParams defines the input for inviting a user to a league.
type CreateInviteParams struct {
	LeagueID primitive.ObjectID
	Email    string
	ActorID  string
}

// AnswerInviteParams defines the input for accepting or declining an invite.
type AnswerInviteParams struct {
	InviteID primitive.ObjectID
	UserID   string
	Email    string
}

// InviteService defines the core business operations for league invites.
type InviteService interface {
	CreateInvite(ctx context.Context, params CreateInviteParams) (*domain.Invite, error)
	ListMyInvites(ctx context.Context, email string) ([]*domain.Invite, error)
	AcceptInvite(ctx context.Context, params AnswerInviteParams) (*domain.Invite, error)
	DeclineInvite(ctx context.Context, params AnswerInviteParams) (*domain.Invite, error)
}

// LoginParams carries the externally-verified identity used to establish a
// session.
type LoginParams struct {
	ExternalID string
	Name       string
	Email      string
	Picture    string
}

// UserService upserts accounts on login and issues session tokens.
type UserService interface {
	Login(ctx context.Context, params LoginParams) (*domain.User, string, error)
	GetByExternalID(ctx context.Context, externalID string) (*domain.User, error)
}

// Notifier defines the port for sending asynchronous notifications.
type Notifier interface {
	NotifyInvite(ctx context.Context, invite *domain.Invite, league *domain.League)
}
