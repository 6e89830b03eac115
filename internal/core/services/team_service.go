package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// TeamService implements business logic for roster management.
type TeamService struct {
	teamRepo   ports.TeamRepository
	leagueRepo ports.LeagueRepository
	playerRepo ports.PlayerRepository
}

var _ ports.TeamService = (*TeamService)(nil)

// NewTeamService creates a new team service
func NewTeamService(teamRepo ports.TeamRepository, leagueRepo ports.LeagueRepository, playerRepo ports.PlayerRepository) ports.TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		leagueRepo: leagueRepo,
		playerRepo: playerRepo,
	}
}

// GetMyTeam retrieves the caller's team within a league.
func (s *TeamService) GetMyTeam(ctx context.Context, userID string, leagueID primitive.ObjectID) (*domain.Team, error) {
	return s.teamRepo.GetByUserAndLeague(ctx, userID, leagueID)
}

// CreateTeam creates the caller's team in a league. Membership is required
// and a user gets exactly one team per league.
func (s *TeamService) CreateTeam(ctx context.Context, userID string, leagueID primitive.ObjectID, name string) (*domain.Team, error) {
	if err := s.requireMembership(ctx, userID, leagueID); err != nil {
		return nil, err
	}
	if _, err := s.teamRepo.GetByUserAndLeague(ctx, userID, leagueID); err == nil {
		return nil, apperrors.NewConflictError(apperrors.ErrTeamExists, "you already have a team in this league")
	} else if !errors.Is(err, apperrors.ErrTeamNotFound) {
		return nil, err
	}

	team := &domain.Team{
		UserID:    userID,
		LeagueID:  leagueID,
		Name:      name,
		PlayerIDs: []primitive.ObjectID{},
	}
	if err := team.Validate(); err != nil {
		return nil, err
	}
	return s.teamRepo.Create(ctx, team)
}

// RenameTeam changes the caller's team name.
func (s *TeamService) RenameTeam(ctx context.Context, userID string, leagueID primitive.ObjectID, name string) (*domain.Team, error) {
	if name == "" {
		return nil, apperrors.NewBadRequestError(apperrors.ErrNameRequired, "team name is required")
	}
	team, err := s.teamRepo.GetByUserAndLeague(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}
	team.Name = name
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// AddPlayer puts a player on the caller's roster.
func (s *TeamService) AddPlayer(ctx context.Context, params ports.RosterChangeParams) (*domain.Team, error) {
	team, err := s.teamRepo.GetByUserAndLeague(ctx, params.UserID, params.LeagueID)
	if err != nil {
		return nil, err
	}
	if team.HasPlayer(params.PlayerID) {
		return nil, apperrors.NewConflictError(apperrors.ErrPlayerOnRoster, "player is already on your roster")
	}
	// The player must exist in the pool.
	if _, err := s.playerRepo.GetByID(ctx, params.PlayerID); err != nil {
		return nil, err
	}
	team.AddPlayer(params.PlayerID)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// RemovePlayer drops a player from the caller's roster.
func (s *TeamService) RemovePlayer(ctx context.Context, params ports.RosterChangeParams) (*domain.Team, error) {
	team, err := s.teamRepo.GetByUserAndLeague(ctx, params.UserID, params.LeagueID)
	if err != nil {
		return nil, err
	}
	if !team.HasPlayer(params.PlayerID) {
		return nil, apperrors.NewBadRequestError(apperrors.ErrPlayerNotRoster, "player is not on your roster")
	}
	team.RemovePlayer(params.PlayerID)
	if err := s.teamRepo.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

func (s *TeamService) requireMembership(ctx context.Context, userID string, leagueID primitive.ObjectID) error {
	league, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return err
	}
	if !league.IsMember(userID) {
		return apperrors.NewForbiddenError("you are not a member of this league")
	}
	return nil
}
