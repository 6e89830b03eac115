package realtime_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylive/fantasy-golf-backend/internal/core/domain"
	"github.com/fairwaylive/fantasy-golf-backend/internal/core/ports"
	"github.com/fairwaylive/fantasy-golf-backend/internal/realtime"
)

func TestNormalizer_UpdateCarriesDeltaOnly(t *testing.T) {
	n := realtime.NewNormalizer(nil, testLogger())

	ev := n.Normalize(domain.EntityTournament, ports.RawChange{
		Operation:     "update",
		DocumentID:    "pga-2026",
		UpdatedFields: map[string]any{"status": "In Progress"},
		RemovedFields: []string{"pausedReason"},
	})

	assert.Equal(t, domain.OpUpdate, ev.Operation)
	assert.Equal(t, "pga-2026", ev.EntityID)
	assert.Equal(t, map[string]any{"status": "In Progress"}, ev.ChangedFields)
	assert.Equal(t, []string{"pausedReason"}, ev.RemovedFields)
	assert.Nil(t, ev.FullDocument)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestNormalizer_InsertCarriesFullDocument(t *testing.T) {
	n := realtime.NewNormalizer(nil, testLogger())
	doc := map[string]any{"_id": "pga-2026", "name": "PGA Championship"}

	ev := n.Normalize(domain.EntityTournament, ports.RawChange{
		Operation:    "insert",
		DocumentID:   "pga-2026",
		FullDocument: doc,
	})

	assert.Equal(t, domain.OpInsert, ev.Operation)
	assert.Equal(t, doc, ev.FullDocument)
	assert.Nil(t, ev.ChangedFields)
}

func TestNormalizer_Significance(t *testing.T) {
	n := realtime.NewNormalizer(nil, testLogger())

	tests := []struct {
		name        string
		ev          domain.ChangeEvent
		significant bool
	}{
		{
			name:        "delete is always significant",
			ev:          domain.ChangeEvent{Operation: domain.OpDelete},
			significant: true,
		},
		{
			name:        "insert is always significant",
			ev:          domain.ChangeEvent{Operation: domain.OpInsert},
			significant: true,
		},
		{
			name: "update touching only denied fields is noise",
			ev: domain.ChangeEvent{
				Operation:     domain.OpUpdate,
				ChangedFields: map[string]any{"viewCount": 10, "lastAccessed": "now"},
			},
			significant: false,
		},
		{
			name: "denied prefix covers nested fields",
			ev: domain.ChangeEvent{
				Operation:     domain.OpUpdate,
				ChangedFields: map[string]any{"stats.views.daily": 4},
			},
			significant: false,
		},
		{
			name: "denied name is not a bare prefix match",
			ev: domain.ChangeEvent{
				Operation:     domain.OpUpdate,
				ChangedFields: map[string]any{"viewCountry": "SCO"},
			},
			significant: true,
		},
		{
			name: "one real field among noise is enough",
			ev: domain.ChangeEvent{
				Operation:     domain.OpUpdate,
				ChangedFields: map[string]any{"viewCount": 10, "status": "Completed"},
			},
			significant: true,
		},
		{
			name: "removed real field is significant",
			ev: domain.ChangeEvent{
				Operation:     domain.OpUpdate,
				ChangedFields: map[string]any{"__v": 3},
				RemovedFields: []string{"logoUrl"},
			},
			significant: true,
		},
		{
			name:        "empty update is noise",
			ev:          domain.ChangeEvent{Operation: domain.OpUpdate},
			significant: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.significant, n.IsSignificant(tt.ev))
		})
	}
}

func TestNormalizer_CustomDenylist(t *testing.T) {
	n := realtime.NewNormalizer([]string{"syncedAt"}, testLogger())

	noise := domain.ChangeEvent{
		Operation:     domain.OpUpdate,
		ChangedFields: map[string]any{"syncedAt": "now"},
	}
	assert.False(t, n.IsSignificant(noise))

	// The default denylist is not in effect when a custom one is given.
	counters := domain.ChangeEvent{
		Operation:     domain.OpUpdate,
		ChangedFields: map[string]any{"viewCount": 2},
	}
	assert.True(t, n.IsSignificant(counters))
}

func TestNormalizer_ScopeExtraction(t *testing.T) {
	n := realtime.NewNormalizer(nil, testLogger())

	t.Run("from full document", func(t *testing.T) {
		ev := n.Normalize(domain.EntityLeaderboard, ports.RawChange{
			Operation:    "insert",
			DocumentID:   "lb-1",
			FullDocument: map[string]any{"tournamentId": "pga-2026"},
		})
		assert.Equal(t, "pga-2026", ev.ScopeID)
	})

	t.Run("from updated fields", func(t *testing.T) {
		ev := n.Normalize(domain.EntityTeam, ports.RawChange{
			Operation:     "update",
			DocumentID:    "team-1",
			UpdatedFields: map[string]any{"leagueId": "league-9", "name": "Birdie Bandits"},
		})
		assert.Equal(t, "league-9", ev.ScopeID)
	})

	t.Run("remembered when update leaves scope untouched", func(t *testing.T) {
		n.Normalize(domain.EntityLeaderboard, ports.RawChange{
			Operation:    "insert",
			DocumentID:   "lb-2",
			FullDocument: map[string]any{"tournamentId": "open-2026"},
		})
		ev := n.Normalize(domain.EntityLeaderboard, ports.RawChange{
			Operation:     "update",
			DocumentID:    "lb-2",
			UpdatedFields: map[string]any{"status": "official"},
		})
		assert.Equal(t, "open-2026", ev.ScopeID)
	})

	t.Run("unscoped entity types carry no scope", func(t *testing.T) {
		ev := n.Normalize(domain.EntityTournament, ports.RawChange{
			Operation:    "insert",
			DocumentID:   "pga-2026",
			FullDocument: map[string]any{"tournamentId": "should-be-ignored"},
		})
		assert.Empty(t, ev.ScopeID)
		assert.Equal(t, "pga-2026", ev.FilterID())
	})
}

func TestNormalizer_DeleteRecoversRememberedScope(t *testing.T) {
	n := realtime.NewNormalizer(nil, testLogger())

	n.Normalize(domain.EntityTeam, ports.RawChange{
		Operation:    "insert",
		DocumentID:   "team-7",
		FullDocument: map[string]any{"leagueId": "league-3"},
	})

	ev := n.Normalize(domain.EntityTeam, ports.RawChange{
		Operation:  "delete",
		DocumentID: "team-7",
	})
	require.Equal(t, domain.OpDelete, ev.Operation)
	assert.Equal(t, "league-3", ev.ScopeID)

	// The entry is released on delete; a second delete of the same id has
	// nothing to recover.
	again := n.Normalize(domain.EntityTeam, ports.RawChange{
		Operation:  "delete",
		DocumentID: "team-7",
	})
	assert.Empty(t, again.ScopeID)
}

func TestNormalizer_DeleteOfUnseenDocumentHasNoScope(t *testing.T) {
	n := realtime.NewNormalizer(nil, testLogger())

	ev := n.Normalize(domain.EntityInvite, ports.RawChange{
		Operation:  "delete",
		DocumentID: "inv-unknown",
	})
	assert.Empty(t, ev.ScopeID)
	assert.Equal(t, "inv-unknown", ev.FilterID())
}

type hexID string

func (h hexID) Hex() string { return string(h) }

func TestNormalizer_ObjectIDScopeValues(t *testing.T) {
	n := realtime.NewNormalizer(nil, testLogger())

	ev := n.Normalize(domain.EntityTeam, ports.RawChange{
		Operation:    "insert",
		DocumentID:   "team-1",
		FullDocument: map[string]any{"leagueId": hexID("64f0aa")},
	})
	assert.Equal(t, "64f0aa", ev.ScopeID)
}
