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

// UserRepository is the secondary adapter for account persistence.
type UserRepository struct {
	coll *mongo.Collection
}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository creates a repository over the users collection. A unique
// index on externalId keeps one account per identity-provider subject.
func NewUserRepository(db *mongo.Database) ports.UserRepository {
	return &UserRepository{coll: db.Collection("users")}
}

// UpsertByExternalID writes the provider profile on every login, creating the
// account on first sight. User-set overrides (customName, customPicture) are
// never touched here.
func (r *UserRepository) UpsertByExternalID(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"name":      user.Name,
			"email":     user.Email,
			"picture":   user.Picture,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"externalId": user.ExternalID,
			"createdAt":  now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved domain.User
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"externalId": user.ExternalID}, update, opts).Decode(&saved)
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// GetByExternalID retrieves an account by its identity-provider subject id.
func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	var user domain.User
	err := r.coll.FindOne(ctx, bson.M{"externalId": externalID}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
