package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// InviteRepository is the secondary adapter for league invites.
type InviteRepository struct {
	coll *mongo.Collection
}

var _ ports.InviteRepository = (*InviteRepository)(nil)

// NewInviteRepository creates a repository over the invites collection.
func NewInviteRepository(db *mongo.Database) ports.InviteRepository {
	return &InviteRepository{coll: db.Collection(collections[domain.EntityInvite])}
}

// Create persists a new invite.
func (r *InviteRepository) Create(ctx context.Context, invite *domain.Invite) (*domain.Invite, error) {
	invite.CreatedAt = time.Now().UTC()
	res, err := r.coll.InsertOne(ctx, invite)
	if err != nil {
		return nil, err
	}
	invite.ID = res.InsertedID.(primitive.ObjectID)
	return invite, nil
}

// GetByID retrieves a single invite.
func (r *InviteRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Invite, error) {
	var invite domain.Invite
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&invite)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrInviteNotFound
		}
		return nil, err
	}
	return &invite, nil
}

// ListForEmail returns the pending invites addressed to an email, newest
// first.
func (r *InviteRepository) ListForEmail(ctx context.Context, email string) ([]*domain.Invite, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"email": email, "status": domain.InvitePending}, opts)
	if err != nil {
		return nil, err
	}
	var invites []*domain.Invite
	if err := cursor.All(ctx, &invites); err != nil {
		return nil, err
	}
	return invites, nil
}

// UpdateStatus transitions an invite to accepted or declined.
func (r *InviteRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.InviteStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrInviteNotFound
	}
	return nil
}
