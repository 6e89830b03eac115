package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// MockTournamentRepository is a mock implementation of ports.TournamentRepository
type MockTournamentRepository struct {
	mock.Mock
}

func NewMockTournamentRepository() *MockTournamentRepository {
	return &MockTournamentRepository{}
}

func (m *MockTournamentRepository) List(ctx context.Context) ([]*domain.Tournament, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tournament), args.Error(1)
}

func (m *MockTournamentRepository) Upsert(ctx context.Context, tournament *domain.Tournament) error {
	args := m.Called(ctx, tournament)
	return args.Error(0)
}

// MockLeaderboardRepository is a mock implementation of ports.LeaderboardRepository
type MockLeaderboardRepository struct {
	mock.Mock
}

func NewMockLeaderboardRepository() *MockLeaderboardRepository {
	return &MockLeaderboardRepository{}
}

func (m *MockLeaderboardRepository) List(ctx context.Context, filters ports.LeaderboardFilters) ([]*domain.Leaderboard, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardRepository) GetByTournamentID(ctx context.Context, tournamentID string) (*domain.Leaderboard, error) {
	args := m.Called(ctx, tournamentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Leaderboard), args.Error(1)
}

func (m *MockLeaderboardRepository) Upsert(ctx context.Context, leaderboard *domain.Leaderboard) error {
	args := m.Called(ctx, leaderboard)
	return args.Error(0)
}

// MockLeagueRepository is a mock implementation of ports.LeagueRepository
type MockLeagueRepository struct {
	mock.Mock
}

func NewMockLeagueRepository() *MockLeagueRepository {
	return &MockLeagueRepository{}
}

func (m *MockLeagueRepository) Create(ctx context.Context, league *domain.League) (*domain.League, error) {
	args := m.Called(ctx, league)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.League), args.Error(1)
}

func (m *MockLeagueRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.League, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.League), args.Error(1)
}

func (m *MockLeagueRepository) ListForUser(ctx context.Context, userID string) ([]*domain.League, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.League), args.Error(1)
}

func (m *MockLeagueRepository) Update(ctx context.Context, league *domain.League) error {
	args := m.Called(ctx, league)
	return args.Error(0)
}

func (m *MockLeagueRepository) AddMember(ctx context.Context, id primitive.ObjectID, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockTeamRepository is a mock implementation of ports.TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func NewMockTeamRepository() *MockTeamRepository {
	return &MockTeamRepository{}
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByUserAndLeague(ctx context.Context, userID string, leagueID primitive.ObjectID) (*domain.Team, error) {
	args := m.Called(ctx, userID, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) ListByLeague(ctx context.Context, leagueID primitive.ObjectID) ([]*domain.Team, error) {
	args := m.Called(ctx, leagueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *domain.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

// MockPlayerRepository is a mock implementation of ports.PlayerRepository
type MockPlayerRepository struct {
	mock.Mock
}

func NewMockPlayerRepository() *MockPlayerRepository {
	return &MockPlayerRepository{}
}

func (m *MockPlayerRepository) List(ctx context.Context, search string, limit, offset int64) ([]*domain.Player, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Player), args.Error(1)
}

func (m *MockPlayerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Player, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

// MockInviteRepository is a mock implementation of ports.InviteRepository
type MockInviteRepository struct {
	mock.Mock
}

func NewMockInviteRepository() *MockInviteRepository {
	return &MockInviteRepository{}
}

func (m *MockInviteRepository) Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	args := m.Called(ctx, invite)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *MockInviteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Invite, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invite), args.Error(1)
}

func (m *MockInviteRepository) ListForEmail(ctx context.Context, email string) ([]*domain.Invite, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Invite), args.Error(1)
}

func (m *MockInviteRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.InviteStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) UpsertByExternalID(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockNotifier is a mock implementation of ports.Notifier
type MockNotifier struct {
	mock.Mock
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) NotifyInvite(ctx context.Context, invite *domain.Invite, league *domain.League) {
	m.Called(ctx, invite, league)
}

// MockSnapshotProvider is a mock implementation of ports.SnapshotProvider
type MockSnapshotProvider struct {
	mock.Mock
}

func NewMockSnapshotProvider() *MockSnapshotProvider {
	return &MockSnapshotProvider{}
}

func (m *MockSnapshotProvider) FetchSnapshot(ctx context.Context, entity domain.EntityType, scopeID string) (any, error) {
	args := m.Called(ctx, entity, scopeID)
	return args.Get(0), args.Error(1)
}
