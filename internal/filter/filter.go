// Package filter narrows meeting snapshots with composable predicates.
// When combined, predicates always run in a fixed order: date range,
// then participant, then text query, then limit.
package filter

import (
	"strings"
	"time"

	"github.com/thebtf/minutes/internal/meeting"
)

// Params describes one filtering request. Nil/empty fields are skipped.
type Params struct {
	From        *time.Time
	To          *time.Time
	Participant string
	Query       string
	Limit       int
}

// Apply runs the configured predicates over the snapshot in the fixed
// pipeline order and returns the surviving records.
func Apply(meetings []meeting.Meeting, p Params) []meeting.Meeting {
	if p.From != nil && p.To != nil {
		meetings = ByDate(meetings, *p.From, *p.To)
	}
	if p.Participant != "" {
		meetings = ByParticipant(meetings, p.Participant)
	}
	if p.Query != "" {
		meetings = ByQuery(meetings, p.Query)
	}
	if p.Limit > 0 && len(meetings) > p.Limit {
		meetings = meetings[:p.Limit]
	}
	return meetings
}

// ByDate keeps records whose start time is present and within
// [from, to] inclusive. Records without a start time never pass a
// date filter.
func ByDate(meetings []meeting.Meeting, from, to time.Time) []meeting.Meeting {
	filtered := make([]meeting.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.StartTime == nil {
			continue
		}
		st := *m.StartTime
		if st.Before(from) || st.After(to) {
			continue
		}
		filtered = append(filtered, m)
	}
	return filtered
}

// ByParticipant keeps records where any participant identifier
// contains the term, case-insensitively.
func ByParticipant(meetings []meeting.Meeting, term string) []meeting.Meeting {
	needle := strings.ToLower(term)
	filtered := make([]meeting.Meeting, 0, len(meetings))
	for _, m := range meetings {
		for _, p := range m.Participants {
			if strings.Contains(strings.ToLower(p), needle) {
				filtered = append(filtered, m)
				break
			}
		}
	}
	return filtered
}

// ByQuery keeps records matching a case-insensitive substring search
// tried against the title, then the summary, then the full transcript
// text. The first match wins; later fields are not consulted.
func ByQuery(meetings []meeting.Meeting, query string) []meeting.Meeting {
	needle := strings.ToLower(query)
	filtered := make([]meeting.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.Title != "" && strings.Contains(strings.ToLower(m.Title), needle) {
			filtered = append(filtered, m)
			continue
		}
		if m.Summary != "" && strings.Contains(strings.ToLower(m.Summary), needle) {
			filtered = append(filtered, m)
			continue
		}
		if m.HasTranscript() && strings.Contains(strings.ToLower(m.Transcript.FullText), needle) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}
