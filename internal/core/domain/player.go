package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Player is a professional golfer available for fantasy rosters.
type Player struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Position  string             `bson:"position,omitempty" json:"position,omitempty"`
	Country   string             `bson:"country,omitempty" json:"country,omitempty"`
	AvatarURL string             `bson:"avatarUrl,omitempty" json:"avatarUrl,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
