package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
)

// collections maps entity types to their collection names. The leaderboard
// collection keeps its historical name from the data import pipeline.
var collections = map[domain.EntityType]string{
	domain.EntityTournament:  "tournaments",
	domain.EntityLeaderboard: "tournament_leaderboards",
	domain.EntityLeague:      "leagues",
	domain.EntityTeam:        "teams",
	domain.EntityPlayer:      "players",
	domain.EntityInvite:      "invites",
}

// ChangeFeed opens change streams over the watched collections.
type ChangeFeed struct {
	db *mongo.Database
}

var _ ports.ChangeFeed = (*ChangeFeed)(nil)

// NewChangeFeed creates a change feed over the given database.
func NewChangeFeed(db *mongo.Database) *ChangeFeed {
	return &ChangeFeed{db: db}
}

// Watch opens a change stream for one entity type. Update events are asked to
// carry the post-image so scope fields are available even when untouched.
func (f *ChangeFeed) Watch(ctx context.Context, entity domain.EntityType) (ports.ChangeStream, error) {
	coll, ok := collections[entity]
	if !ok {
		return nil, apperrors.ErrInvalidSubscription
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)
	cs, err := f.db.Collection(coll).Watch(ctx, mongo.Pipeline{}, opts)
	if err != nil {
		return nil, err
	}
	return &changeStream{cs: cs}, nil
}

// streamEvent is the subset of the native change event we consume.
type streamEvent struct {
	OperationType string `bson:"operationType"`
	DocumentKey   struct {
		ID any `bson:"_id"`
	} `bson:"documentKey"`
	FullDocument      bson.M `bson:"fullDocument"`
	UpdateDescription struct {
		UpdatedFields bson.M   `bson:"updatedFields"`
		RemovedFields []string `bson:"removedFields"`
	} `bson:"updateDescription"`
}

type changeStream struct {
	cs *mongo.ChangeStream
}

func (s *changeStream) Next(ctx context.Context) (ports.RawChange, error) {
	if !s.cs.Next(ctx) {
		if err := s.cs.Err(); err != nil {
			return ports.RawChange{}, err
		}
		return ports.RawChange{}, apperrors.ErrFeedInterrupted
	}
	var ev streamEvent
	if err := s.cs.Decode(&ev); err != nil {
		return ports.RawChange{}, err
	}
	return ports.RawChange{
		Operation:     ev.OperationType,
		DocumentID:    documentID(ev.DocumentKey.ID),
		FullDocument:  map[string]any(ev.FullDocument),
		UpdatedFields: map[string]any(ev.UpdateDescription.UpdatedFields),
		RemovedFields: ev.UpdateDescription.RemovedFields,
	}, nil
}

func (s *changeStream) Close(ctx context.Context) error {
	return s.cs.Close(ctx)
}

// documentID renders a document key as a string. Provider-sourced documents
// use string ids, app-created ones use ObjectIDs.
func documentID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return ""
	}
}
