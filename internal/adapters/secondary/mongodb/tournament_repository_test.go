package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

func TestTournamentRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewTournamentRepository(testDB)

	tournament := &domain.Tournament{
		ID:            "pga-championship-2026",
		Name:          "PGA Championship",
		Course:        "Aronimink Golf Club",
		Status:        domain.StatusScheduled,
		StartDatetime: time.Date(2026, 5, 14, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Upsert(ctx, tournament))

	got, err := repo.GetByID(ctx, "pga-championship-2026")
	require.NoError(t, err)
	assert.Equal(t, "PGA Championship", got.Name)
	assert.Equal(t, domain.StatusScheduled, got.Status)
	assert.False(t, got.LastUpdated.IsZero())

	// Upserting again under the same id replaces, not duplicates.
	tournament.Status = domain.StatusInProgress
	require.NoError(t, repo.Upsert(ctx, tournament))

	got, err = repo.GetByID(ctx, "pga-championship-2026")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

func TestTournamentRepository_GetMissing(t *testing.T) {
	repo := NewTournamentRepository(testDB)
	_, err := repo.GetByID(context.Background(), "no-such-tournament")
	assert.ErrorIs(t, err, apperrors.ErrTournamentNotFound)
}

func TestChangeFeed_DeliversMutations(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	feed := NewChangeFeed(testDB)
	stream, err := feed.Watch(ctx, domain.EntityTournament)
	require.NoError(t, err)
	defer stream.Close(context.Background())

	repo := NewTournamentRepository(testDB)
	go func() {
		// Give the stream a moment to be fully open before mutating.
		time.Sleep(200 * time.Millisecond)
		_ = repo.Upsert(ctx, &domain.Tournament{
			ID:     "feed-test-2026",
			Name:   "Feed Test Open",
			Status: domain.StatusScheduled,
		})
	}()

	raw, err := stream.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "feed-test-2026", raw.DocumentID)
	assert.Contains(t, []string{"insert", "replace", "update"}, raw.Operation)
	if raw.Operation != "update" {
		assert.Equal(t, "Feed Test Open", raw.FullDocument["name"])
	}
}
