package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/minutes/internal/meeting"
)

func at(t time.Time) *time.Time { return &t }

var base = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func fixtures() []meeting.Meeting {
	return []meeting.Meeting{
		{
			ID:           "m1",
			Title:        "Roadmap planning",
			StartTime:    at(base),
			Participants: []string{"alice@x.com", "bob@x.com"},
			Summary:      "quarterly priorities",
		},
		{
			ID:           "m2",
			Title:        "Standup",
			StartTime:    at(base.Add(24 * time.Hour)),
			Participants: []string{"carol@y.com"},
			Summary:      "daily status",
		},
		{
			ID:    "m3",
			Title: "Undated retro",
			// no start time
			Participants: []string{"alice@x.com"},
		},
		{
			ID:        "m4",
			Title:     "1:1",
			StartTime: at(base.Add(48 * time.Hour)),
			Transcript: meeting.BuildTranscript([]meeting.Segment{
				{Text: "we discussed the roadmap in detail", Speaker: "alice@x.com"},
			}),
		},
	}
}

// TestByDate tests inclusive bounds and exclusion of undated records.
func TestByDate(t *testing.T) {
	got := ByDate(fixtures(), base, base.Add(24*time.Hour))

	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m2"}, ids)

	// Exact boundary instants are included.
	got = ByDate(fixtures(), base, base)
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	// Undated records never pass any date filter.
	for _, m := range ByDate(fixtures(), base.Add(-time.Hour), base.Add(72*time.Hour)) {
		assert.NotEqual(t, "m3", m.ID)
	}
}

// TestByParticipant tests case-insensitive substring matching.
func TestByParticipant(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"alice", []string{"m1", "m3"}},
		{"ALICE@X.COM", []string{"m1", "m3"}},
		{"@y.com", []string{"m2"}},
		{"nobody", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := ByParticipant(fixtures(), tt.term)
			ids := make([]string, 0, len(got))
			for _, m := range got {
				ids = append(ids, m.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

// TestByQuery tests the title → summary → transcript priority order.
func TestByQuery(t *testing.T) {
	// "roadmap" matches m1 on title and m4 only via transcript text.
	got := ByQuery(fixtures(), "roadmap")
	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m1", "m4"}, ids)

	// Summary match.
	got = ByQuery(fixtures(), "daily status")
	require.Len(t, got, 1)
	assert.Equal(t, "m2", got[0].ID)

	// Case-insensitive.
	got = ByQuery(fixtures(), "ROADMAP")
	assert.Len(t, got, 2)
}

// TestApplyOrderAndLimit tests the combined pipeline.
func TestApplyOrderAndLimit(t *testing.T) {
	from, to := base.Add(-time.Hour), base.Add(72*time.Hour)

	got := Apply(fixtures(), Params{From: &from, To: &to})
	assert.Len(t, got, 3) // m3 dropped by the date stage

	got = Apply(fixtures(), Params{From: &from, To: &to, Participant: "alice"})
	require.Len(t, got, 1)
	assert.Equal(t, "m1", got[0].ID)

	got = Apply(fixtures(), Params{From: &from, To: &to, Limit: 2})
	assert.Len(t, got, 2)

	// No predicates: everything passes.
	assert.Len(t, Apply(fixtures(), Params{}), 4)
}
