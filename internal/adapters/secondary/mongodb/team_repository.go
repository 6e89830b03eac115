package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// TeamRepository is the secondary adapter for team persistence.
type TeamRepository struct {
	coll *mongo.Collection
}

var _ ports.TeamRepository = (*TeamRepository)(nil)

// NewTeamRepository creates a repository over the teams collection. A unique
// index on (userId, leagueId) enforces one team per user per league.
func NewTeamRepository(db *mongo.Database) ports.TeamRepository {
	return &TeamRepository{coll: db.Collection(collections[domain.EntityTeam])}
}

// Create persists a new team.
func (r *TeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	now := time.Now().UTC()
	team.CreatedAt = now
	team.UpdatedAt = now
	res, err := r.coll.InsertOne(ctx, team)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrTeamExists
		}
		return nil, err
	}
	team.ID = res.InsertedID.(primitive.ObjectID)
	return team, nil
}

// GetByUserAndLeague retrieves the user's team within one league.
func (r *TeamRepository) GetByUserAndLeague(ctx context.Context, userID string, leagueID primitive.ObjectID) (*domain.Team, error) {
	var team domain.Team
	err := r.coll.FindOne(ctx, bson.M{"userId": userID, "leagueId": leagueID}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}

// ListByLeague returns every team in a league.
func (r *TeamRepository) ListByLeague(ctx context.Context, leagueID primitive.ObjectID) ([]*domain.Team, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"leagueId": leagueID})
	if err != nil {
		return nil, err
	}
	var teams []*domain.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Update replaces a team document.
func (r *TeamRepository) Update(ctx context.Context, team *domain.Team) error {
	team.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": team.ID}, team)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrTeamNotFound
	}
	return nil
}
