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

// TournamentRepository is the secondary adapter for tournament persistence.
type TournamentRepository struct {
	coll *mongo.Collection
}

var _ ports.TournamentRepository = (*TournamentRepository)(nil)

// NewTournamentRepository creates a repository over the tournaments collection.
func NewTournamentRepository(db *mongo.Database) ports.TournamentRepository {
	return &TournamentRepository{coll: db.Collection(collections[domain.EntityTournament])}
}

// List returns all tournaments ordered by start date, newest first.
func (r *TournamentRepository) List(ctx context.Context) ([]*domain.Tournament, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDatetime", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var tournaments []*domain.Tournament
	if err := cursor.All(ctx, &tournaments); err != nil {
		return nil, err
	}
	return tournaments, nil
}

// GetByID retrieves a single tournament by its provider id.
func (r *TournamentRepository) GetByID(ctx context.Context, id string) (*domain.Tournament, error) {
	var tournament domain.Tournament
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&tournament)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTournamentNotFound
		}
		return nil, err
	}
	return &tournament, nil
}

// Upsert writes a tournament document, replacing any existing one under the
// same id. Used by the data import path.
func (r *TournamentRepository) Upsert(ctx context.Context, tournament *domain.Tournament) error {
	tournament.LastUpdated = time.Now().UTC()
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": tournament.ID}, tournament, opts)
	return err
}
