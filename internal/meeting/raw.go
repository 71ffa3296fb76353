package meeting

import (
	"strings"
	"time"
)

// RawDocument is one meeting document as stored in the cache file.
type RawDocument struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	CreatedAt string   `json:"created_at"`
	EndedAt   string   `json:"ended_at"`
	People    []Person `json:"people"`
	Notes     string   `json:"notes_markdown"`
	Tags      []string `json:"tags"`
}

// Person is a meeting attendee as stored in the cache file.
type Person struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RawSegment is one transcript segment as stored in the cache file.
type RawSegment struct {
	Text      string   `json:"text"`
	Speaker   string   `json:"speaker"`
	Timestamp string   `json:"timestamp"`
	StartTime *float64 `json:"start_time"`
	EndTime   *float64 `json:"end_time"`
}

// FromRaw builds a Meeting from a raw cache document and its transcript
// segments. Timestamps are normalized to the canonical time zone.
// Unparseable timestamps are dropped, not errors; the record simply
// lacks that bound.
func FromRaw(doc RawDocument, segments []RawSegment, loc *time.Location) Meeting {
	m := Meeting{
		ID:      doc.ID,
		Title:   doc.Title,
		Summary: doc.Notes,
		Tags:    doc.Tags,
	}

	if t, ok := parseTimestamp(doc.CreatedAt, loc); ok {
		m.StartTime = &t
	}
	if t, ok := parseTimestamp(doc.EndedAt, loc); ok {
		m.EndTime = &t
	}

	for _, p := range doc.People {
		if id := p.identifier(); id != "" {
			m.Participants = append(m.Participants, id)
		}
	}

	m.Transcript = BuildTranscript(convertSegments(segments, loc))

	return m
}

// identifier prefers the email address, falling back to the name.
func (p Person) identifier() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Name
}

func convertSegments(raw []RawSegment, loc *time.Location) []Segment {
	if len(raw) == 0 {
		return nil
	}
	segments := make([]Segment, 0, len(raw))
	for _, rs := range raw {
		seg := Segment{
			Text:      rs.Text,
			Speaker:   rs.Speaker,
			StartTime: rs.StartTime,
			EndTime:   rs.EndTime,
		}
		if t, ok := parseTimestamp(rs.Timestamp, loc); ok {
			seg.Timestamp = &t
		}
		segments = append(segments, seg)
	}
	return segments
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}
