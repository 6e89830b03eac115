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

// LeagueRepository is the secondary adapter for league persistence.
type LeagueRepository struct {
	coll *mongo.Collection
}

var _ ports.LeagueRepository = (*LeagueRepository)(nil)

// NewLeagueRepository creates a repository over the leagues collection.
func NewLeagueRepository(db *mongo.Database) ports.LeagueRepository {
	return &LeagueRepository{coll: db.Collection(collections[domain.EntityLeague])}
}

// Create persists a new league and returns it with its generated id.
func (r *LeagueRepository) Create(ctx context.Context, league *domain.League) (*domain.League, error) {
	res, err := r.coll.InsertOne(ctx, league)
	if err != nil {
		return nil, err
	}
	league.ID = res.InsertedID.(primitive.ObjectID)
	return league, nil
}

// GetByID retrieves a single league.
func (r *LeagueRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.League, error) {
	var league domain.League
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&league)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrLeagueNotFound
		}
		return nil, err
	}
	return &league, nil
}

// ListForUser returns every league the user is a member of, newest first.
func (r *LeagueRepository) ListForUser(ctx context.Context, userID string) ([]*domain.League, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"memberUserIds": userID}, opts)
	if err != nil {
		return nil, err
	}
	var leagues []*domain.League
	if err := cursor.All(ctx, &leagues); err != nil {
		return nil, err
	}
	return leagues, nil
}

// Update replaces a league document.
func (r *LeagueRepository) Update(ctx context.Context, league *domain.League) error {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": league.ID}, league)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrLeagueNotFound
	}
	return nil
}

// AddMember appends a user to the member list without duplicating.
func (r *LeagueRepository) AddMember(ctx context.Context, id primitive.ObjectID, userID string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$addToSet": bson.M{"memberUserIds": userID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrLeagueNotFound
	}
	return nil
}
