package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

// PlacementRule awards points for finishing in a given placement bracket.
type PlacementRule struct {
	Type      string `bson:"type,omitempty" json:"type,omitempty"`
	Placement int    `bson:"placement,omitempty" json:"placement,omitempty"`
	TopX      int    `bson:"topX,omitempty" json:"topX,omitempty"`
	Points    int    `bson:"points,omitempty" json:"points,omitempty"`
}

// StrokePoints awards points per scoring event within a round.
type StrokePoints struct {
	Eagle             int `bson:"eagle,omitempty" json:"eagle,omitempty"`
	Birdie            int `bson:"birdie,omitempty" json:"birdie,omitempty"`
	Par               int `bson:"par,omitempty" json:"par,omitempty"`
	Bogey             int `bson:"bogey,omitempty" json:"bogey,omitempty"`
	DoubleBogey       int `bson:"doubleBogey,omitempty" json:"doubleBogey,omitempty"`
	HoleInOne         int `bson:"holeInOne,omitempty" json:"holeInOne,omitempty"`
	BogeyFreeRound    int `bson:"bogeyFreeRound,omitempty" json:"bogeyFreeRound,omitempty"`
	BirdieStreakBonus int `bson:"birdieStreakBonus,omitempty" json:"birdieStreakBonus,omitempty"`
}

// BonusPoints awards points for tournament-level achievements.
type BonusPoints struct {
	NotCut           int `bson:"notCut,omitempty" json:"notCut,omitempty"`
	Top20Finish      int `bson:"top20Finish,omitempty" json:"top20Finish,omitempty"`
	BeatTop10Player  int `bson:"beatTop10Player,omitempty" json:"beatTop10Player,omitempty"`
	UnderParAllRound int `bson:"underParAllRounds,omitempty" json:"underParAllRounds,omitempty"`
}

// ScoringSettings defines how a league converts on-course results to points.
type ScoringSettings struct {
	PlacementPoints []PlacementRule `bson:"placementPoints,omitempty" json:"placementPoints,omitempty"`
	StrokePoints    StrokePoints    `bson:"strokePoints,omitempty" json:"strokePoints,omitempty"`
	BonusPoints     BonusPoints     `bson:"bonusPoints,omitempty" json:"bonusPoints,omitempty"`
	ScoringFunction string          `bson:"scoringFunction,omitempty" json:"scoringFunction,omitempty"`
}

// League is a private group of users competing against each other.
type League struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	CreatedBy     string             `bson:"createdBy" json:"createdBy"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	AdminUserIDs  []string           `bson:"adminUserIds" json:"adminUserIds"`
	MemberUserIDs []string           `bson:"memberUserIds" json:"memberUserIds"`
	Scoring       ScoringSettings    `bson:"scoringSettings,omitempty" json:"scoringSettings,omitempty"`
}

// Validate checks league invariants before persistence.
func (l *League) Validate() error {
	if l.Name == "" {
		return apperrors.ErrNameRequired
	}
	if l.CreatedBy == "" {
		return apperrors.ErrCreatorRequired
	}
	return nil
}

// IsAdmin reports whether the given user administers this league.
func (l *League) IsAdmin(userID string) bool {
	for _, id := range l.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsMember reports whether the given user belongs to this league.
func (l *League) IsMember(userID string) bool {
	for _, id := range l.MemberUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// AddMember adds a user to the member list if not already present.
func (l *League) AddMember(userID string) {
	if l.IsMember(userID) {
		return
	}
	l.MemberUserIDs = append(l.MemberUserIDs, userID)
}
