package domain

import (
	"time"

	apperrors "github.com/fairwaylive/fantasy-golf-backend/internal/core/errors"
)

// TournamentStatus represents the lifecycle state of a tournament.
type TournamentStatus string

const (
	StatusScheduled  TournamentStatus = "Scheduled"
	StatusInProgress TournamentStatus = "In Progress"
	StatusPaused     TournamentStatus = "Paused"
	StatusCompleted  TournamentStatus = "Completed"
)

// Valid checks if the status is one of the allowed values.
func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusPaused, StatusCompleted:
		return true
	}
	return false
}

// Tournament represents a professional golf tournament tracked by the app.
// The document id is the upstream data provider's tournament id, not a
// generated ObjectID.
type Tournament struct {
	ID            string           `bson:"_id" json:"id"`
	Name          string           `bson:"name" json:"name"`
	Slug          string           `bson:"slug,omitempty" json:"slug,omitempty"`
	Course        string           `bson:"course,omitempty" json:"course,omitempty"`
	Location      string           `bson:"location,omitempty" json:"location,omitempty"`
	LogoURL       string           `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	StartDatetime time.Time        `bson:"startDatetime,omitempty" json:"startDatetime,omitempty"`
	EndDatetime   time.Time        `bson:"endDatetime,omitempty" json:"endDatetime,omitempty"`
	Status        TournamentStatus `bson:"status" json:"status"`
	LastUpdated   time.Time        `bson:"lastUpdated" json:"lastUpdated"`
}

// Validate checks tournament invariants before persistence.
func (t *Tournament) Validate() error {
	if t.ID == "" {
		return apperrors.ErrTournamentIDRequired
	}
	if t.Name == "" {
		return apperrors.ErrNameRequired
	}
	if t.Status == "" {
		t.Status = StatusScheduled
	}
	if !t.Status.Valid() {
		return apperrors.ErrInvalidTournamentStatus
	}
	return nil
}
