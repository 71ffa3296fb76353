// Package meeting defines the in-memory model for recorded meetings and
// builds it from raw cache documents.
package meeting

import (
	"time"
)

// Meeting is one recorded meeting: metadata plus an optional transcript.
// Values are immutable after construction; the store replaces whole
// snapshots rather than mutating records.
type Meeting struct {
	ID           string
	Title        string
	StartTime    *time.Time
	EndTime      *time.Time
	Participants []string
	Summary      string
	Tags         []string
	Transcript   *Transcript
}

// Duration returns end minus start when both bounds are present.
// A negative difference is clamped to zero; the upstream record is
// trusted and not validated here.
func (m *Meeting) Duration() (time.Duration, bool) {
	if m.StartTime == nil || m.EndTime == nil {
		return 0, false
	}
	d := m.EndTime.Sub(*m.StartTime)
	if d < 0 {
		d = 0
	}
	return d, true
}

// DurationMinutes returns the duration in whole minutes.
func (m *Meeting) DurationMinutes() (int, bool) {
	d, ok := m.Duration()
	if !ok {
		return 0, false
	}
	return int(d.Minutes()), true
}

// HasTranscript reports whether a transcript with any content exists.
func (m *Meeting) HasTranscript() bool {
	return m.Transcript != nil && len(m.Transcript.Segments) > 0
}

// ListEntry is the stable summary projection used by list-shaped results.
type ListEntry struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	StartTime        *string `json:"start_time"`
	DurationMinutes  *int    `json:"duration_minutes"`
	ParticipantCount int     `json:"participant_count"`
	HasTranscript    bool    `json:"has_transcript"`
	Summary          string  `json:"summary"`
}

const summaryLimit = 200

// Entry builds the summary projection for list results. Summaries
// longer than 200 characters are truncated with an ellipsis marker.
func (m *Meeting) Entry() ListEntry {
	entry := ListEntry{
		ID:               m.ID,
		Title:            m.Title,
		ParticipantCount: len(m.Participants),
		HasTranscript:    m.HasTranscript(),
		Summary:          truncate(m.Summary, summaryLimit),
	}
	if m.StartTime != nil {
		iso := m.StartTime.Format(time.RFC3339)
		entry.StartTime = &iso
	}
	if minutes, ok := m.DurationMinutes(); ok {
		entry.DurationMinutes = &minutes
	}
	return entry
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
