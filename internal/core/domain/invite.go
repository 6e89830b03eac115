package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

// InviteStatus tracks the lifecycle of a league invitation.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
)

// Invite is an email invitation to join a league. Invites expire after 30
// days via a TTL index on createdAt.
type Invite struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LeagueID  string             `bson:"leagueId" json:"leagueId"`
	Email     string             `bson:"email" json:"email"`
	InvitedBy string             `bson:"invitedBy" json:"invitedBy"`
	Status    InviteStatus       `bson:"status" json:"status"`
	Token     string             `bson:"token,omitempty" json:"token,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Validate checks invite invariants before persistence.
func (i *Invite) Validate() error {
	if i.LeagueID == "" {
		return apperrors.ErrLeagueIDRequired
	}
	if i.Email == "" {
		return apperrors.ErrEmailRequired
	}
	if i.InvitedBy == "" {
		return apperrors.ErrInviterRequired
	}
	if i.Status == "" {
		i.Status = InvitePending
	}
	return nil
}

// Answered reports whether the invite has already been accepted or declined.
func (i *Invite) Answered() bool {
	return i.Status != InvitePending
}
