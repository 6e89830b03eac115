package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/mocks"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/services"
)

func TestLeagueService_CreateLeague(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo := mocks.NewMockLeagueRepository()
		svc := services.NewLeagueService(mockRepo)

		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.League")).
			Return(&domain.League{
				ID:            primitive.NewObjectID(),
				Name:          "Sunday Scramble",
				CreatedBy:     "auth0|creator",
				AdminUserIDs:  []string{"auth0|creator"},
				MemberUserIDs: []string{"auth0|creator"},
			}, nil)

		league, err := svc.CreateLeague(ctx, ports.CreateLeagueParams{
			Name:      "Sunday Scramble",
			CreatedBy: "auth0|creator",
		})

		require.NoError(t, err)
		assert.Equal(t, "Sunday Scramble", league.Name)
		assert.True(t, league.IsAdmin("auth0|creator"))
		assert.True(t, league.IsMember("auth0|creator"))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		mockRepo := mocks.NewMockLeagueRepository()
		svc := services.NewLeagueService(mockRepo)

		_, err := svc.CreateLeague(ctx, ports.CreateLeagueParams{CreatedBy: "auth0|creator"})

		assert.ErrorIs(t, err, apperrors.ErrNameRequired)
		mockRepo.AssertNotCalled(t, "Create")
	})
}

func TestLeagueService_GetLeague(t *testing.T) {
	ctx := context.Background()
	leagueID := primitive.NewObjectID()

	t.Run("member can view", func(t *testing.T) {
		mockRepo := mocks.NewMockLeagueRepository()
		svc := services.NewLeagueService(mockRepo)

		mockRepo.On("GetByID", ctx, leagueID).Return(&domain.League{
			ID:            leagueID,
			Name:          "Sunday Scramble",
			MemberUserIDs: []string{"auth0|member"},
		}, nil)

		league, err := svc.GetLeague(ctx, leagueID, "auth0|member")
		require.NoError(t, err)
		assert.Equal(t, leagueID, league.ID)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		mockRepo := mocks.NewMockLeagueRepository()
		svc := services.NewLeagueService(mockRepo)

		mockRepo.On("GetByID", ctx, leagueID).Return(&domain.League{
			ID:            leagueID,
			MemberUserIDs: []string{"auth0|member"},
		}, nil)

		_, err := svc.GetLeague(ctx, leagueID, "auth0|stranger")
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestLeagueService_UpdateScoring(t *testing.T) {
	ctx := context.Background()
	leagueID := primitive.NewObjectID()

	base := func() *domain.League {
		return &domain.League{
			ID:            leagueID,
			Name:          "Sunday Scramble",
			AdminUserIDs:  []string{"auth0|admin"},
			MemberUserIDs: []string{"auth0|admin", "auth0|member"},
		}
	}
	scoring := domain.ScoringSettings{
		StrokePoints: domain.StrokePoints{Birdie: 3, Eagle: 8},
	}

	t.Run("admin updates scoring", func(t *testing.T) {
		mockRepo := mocks.NewMockLeagueRepository()
		svc := services.NewLeagueService(mockRepo)

		mockRepo.On("GetByID", ctx, leagueID).Return(base(), nil)
		mockRepo.On("Update", ctx, mock.AnythingOfType("*domain.League")).Return(nil)

		league, err := svc.UpdateScoring(ctx, ports.UpdateScoringParams{
			LeagueID: leagueID,
			ActorID:  "auth0|admin",
			Scoring:  scoring,
		})

		require.NoError(t, err)
		assert.Equal(t, 3, league.Scoring.StrokePoints.Birdie)
		mockRepo.AssertExpectations(t)
	})

	t.Run("plain member is forbidden", func(t *testing.T) {
		mockRepo := mocks.NewMockLeagueRepository()
		svc := services.NewLeagueService(mockRepo)

		mockRepo.On("GetByID", ctx, leagueID).Return(base(), nil)

		_, err := svc.UpdateScoring(ctx, ports.UpdateScoringParams{
			LeagueID: leagueID,
			ActorID:  "auth0|member",
			Scoring:  scoring,
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		mockRepo.AssertNotCalled(t, "Update")
	})
}
