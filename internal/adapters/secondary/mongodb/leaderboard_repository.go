package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// LeaderboardRepository is the secondary adapter for leaderboard persistence.
type LeaderboardRepository struct {
	coll *mongo.Collection
}

var _ ports.LeaderboardRepository = (*LeaderboardRepository)(nil)

// NewLeaderboardRepository creates a repository over the
// tournament_leaderboards collection.
func NewLeaderboardRepository(db *mongo.Database) ports.LeaderboardRepository {
	return &LeaderboardRepository{coll: db.Collection(collections[domain.EntityLeaderboard])}
}

// List returns leaderboards matching the filters, most recent first.
func (r *LeaderboardRepository) List(ctx context.Context, filters ports.LeaderboardFilters) ([]*domain.Leaderboard, error) {
	query := bson.M{}
	if filters.TournamentID != "" {
		query["tournamentId"] = filters.TournamentID
	}
	if filters.Status != "" {
		query["status"] = filters.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDatetime", Value: -1}})
	if filters.Limit > 0 {
		opts.SetLimit(filters.Limit)
	}
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var leaderboards []*domain.Leaderboard
	if err := cursor.All(ctx, &leaderboards); err != nil {
		return nil, err
	}
	return leaderboards, nil
}

// GetByTournamentID retrieves the leaderboard for one tournament.
func (r *LeaderboardRepository) GetByTournamentID(ctx context.Context, tournamentID string) (*domain.Leaderboard, error) {
	var leaderboard domain.Leaderboard
	err := r.coll.FindOne(ctx, bson.M{"tournamentId": tournamentID}).Decode(&leaderboard)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrLeaderboardNotFound
		}
		return nil, err
	}
	return &leaderboard, nil
}

// Upsert writes a leaderboard document keyed by its provider id.
func (r *LeaderboardRepository) Upsert(ctx context.Context, leaderboard *domain.Leaderboard) error {
	leaderboard.LastUpdated = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"id": leaderboard.ID}, leaderboard, opts)
	return err
}
