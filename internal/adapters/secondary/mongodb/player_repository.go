package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// PlayerRepository is the secondary adapter for the player pool.
type PlayerRepository struct {
	coll *mongo.Collection
}

var _ ports.PlayerRepository = (*PlayerRepository)(nil)

// NewPlayerRepository creates a repository over the players collection.
func NewPlayerRepository(db *mongo.Database) ports.PlayerRepository {
	return &PlayerRepository{coll: db.Collection(collections[domain.EntityPlayer])}
}

// List returns players matching an optional case-insensitive name search,
// paginated and ordered by name.
func (r *PlayerRepository) List(ctx context.Context, search string, limit, offset int64) ([]*domain.Player, error) {
	query := bson.M{}
	if search != "" {
		query["name"] = bson.M{"$regex": search, "$options": "i"}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(offset)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var players []*domain.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// GetByID retrieves a single player.
func (r *PlayerRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Player, error) {
	var player domain.Player
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&player)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrPlayerNotFound
		}
		return nil, err
	}
	return &player, nil
}
