package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

// DefaultTeamName is assigned when a user creates a team without a name.
const DefaultTeamName = "My Team"

// Team is one user's roster within a league. A user has at most one team per
// league.
type Team struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID      string               `bson:"userId" json:"userId"`
	LeagueID    primitive.ObjectID   `bson:"leagueId" json:"leagueId"`
	Name        string               `bson:"name" json:"name"`
	PlayerIDs   []primitive.ObjectID `bson:"playerIds" json:"playerIds"`
	PlayerUsage map[string]int       `bson:"playerUsage,omitempty" json:"playerUsage,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks team invariants before persistence.
func (t *Team) Validate() error {
	if t.UserID == "" {
		return apperrors.ErrUserIDRequired
	}
	if t.LeagueID.IsZero() {
		return apperrors.ErrLeagueIDRequired
	}
	if t.Name == "" {
		t.Name = DefaultTeamName
	}
	return nil
}

// HasPlayer reports whether the player is already on the roster.
func (t *Team) HasPlayer(playerID primitive.ObjectID) bool {
	for _, id := range t.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// AddPlayer appends a player to the roster, ignoring duplicates.
func (t *Team) AddPlayer(playerID primitive.ObjectID) {
	if t.HasPlayer(playerID) {
		return
	}
	t.PlayerIDs = append(t.PlayerIDs, playerID)
}

// RemovePlayer drops a player from the roster if present.
func (t *Team) RemovePlayer(playerID primitive.ObjectID) {
	for i, id := range t.PlayerIDs {
		if id == playerID {
			t.PlayerIDs = append(t.PlayerIDs[:i], t.PlayerIDs[i+1:]...)
			return
		}
	}
}
