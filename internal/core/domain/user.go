package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an application account. Identity is delegated to an external
// provider; ExternalID is the provider's stable subject id.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID    string             `bson:"externalId" json:"externalId"`
	Name          string             `bson:"name,omitempty" json:"name,omitempty"`
	Email         string             `bson:"email,omitempty" json:"email,omitempty"`
	Picture       string             `bson:"picture,omitempty" json:"picture,omitempty"`
	CustomName    string             `bson:"customName,omitempty" json:"customName,omitempty"`
	CustomPicture string             `bson:"customPicture,omitempty" json:"customPicture,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DisplayName prefers the user-set name over the provider profile name.
func (u *User) DisplayName() string {
	if u.CustomName != "" {
		return u.CustomName
	}
	return u.Name
}
