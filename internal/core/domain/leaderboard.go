package domain

import "time"

// Round holds one player's data for a single tournament round.
type Round struct {
	ID          string    `bson:"id" json:"id"`
	Scorecard   string    `bson:"scorecard,omitempty" json:"scorecard,omitempty"`
	Round       int       `bson:"round" json:"round"`
	StartingTee int       `bson:"startingTee,omitempty" json:"startingTee,omitempty"`
	TeeTime     time.Time `bson:"teeTime,omitempty" json:"teeTime,omitempty"`
	Position    string    `bson:"position,omitempty" json:"position,omitempty"`
	Total       string    `bson:"total,omitempty" json:"total,omitempty"`
	Thru        string    `bson:"thru,omitempty" json:"thru,omitempty"`
	Scores      string    `bson:"scores,omitempty" json:"scores,omitempty"`
	Score       int       `bson:"score,omitempty" json:"score,omitempty"`
}

// LeaderboardEntry is one player's row on a tournament leaderboard.
type LeaderboardEntry struct {
	ID            string  `bson:"id" json:"id"`
	Tournament    string  `bson:"tournament" json:"tournament"`
	Player        string  `bson:"player" json:"player"`
	Position      string  `bson:"position,omitempty" json:"position,omitempty"`
	PositionValue int     `bson:"positionValue,omitempty" json:"positionValue,omitempty"`
	Total         string  `bson:"total,omitempty" json:"total,omitempty"`
	Strokes       string  `bson:"strokes,omitempty" json:"strokes,omitempty"`
	Rounds        []Round `bson:"rounds,omitempty" json:"rounds,omitempty"`
}

// Leaderboard is the live scoring document for one tournament. Stored in the
// tournament_leaderboards collection keyed by the provider's leaderboard id.
type Leaderboard struct {
	ID            string             `bson:"id" json:"id"`
	TournamentID  string             `bson:"tournamentId" json:"tournamentId"`
	Sport         string             `bson:"sport,omitempty" json:"sport,omitempty"`
	Tour          string             `bson:"tour,omitempty" json:"tour,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug,omitempty" json:"slug,omitempty"`
	LogoURL       string             `bson:"logoUrl,omitempty" json:"logoUrl,omitempty"`
	Link          string             `bson:"link,omitempty" json:"link,omitempty"`
	Course        string             `bson:"course,omitempty" json:"course,omitempty"`
	Location      string             `bson:"location,omitempty" json:"location,omitempty"`
	StartDatetime time.Time          `bson:"startDatetime,omitempty" json:"startDatetime,omitempty"`
	EndDatetime   time.Time          `bson:"endDatetime,omitempty" json:"endDatetime,omitempty"`
	Status        TournamentStatus   `bson:"status" json:"status"`
	LastUpdated   time.Time          `bson:"lastUpdated" json:"lastUpdated"`
	Entries       []LeaderboardEntry `bson:"leaderboard,omitempty" json:"leaderboard,omitempty"`
}

// TopEntries returns the first n leaderboard rows, for compact payloads.
func (l *Leaderboard) TopEntries(n int) []LeaderboardEntry {
	if n <= 0 || len(l.Entries) <= n {
		return l.Entries
	}
	return l.Entries[:n]
}
