package meeting

import (
	"strings"
	"time"
)

// Transcript holds the full transcript of one meeting.
type Transcript struct {
	FullText  string
	WordCount int
	Speakers  []string // unique, first-seen order
	Segments  []Segment
	Duration  *float64 // seconds, absent when segment offsets are unknown
}

// Segment is one transcript utterance.
type Segment struct {
	Text      string
	Speaker   string     // optional
	Timestamp *time.Time // optional absolute instant
	StartTime *float64   // optional offset seconds within the meeting
	EndTime   *float64
}

// BuildTranscript assembles a Transcript from ordered segments.
// Returns nil when there are no segments.
func BuildTranscript(segments []Segment) *Transcript {
	if len(segments) == 0 {
		return nil
	}

	texts := make([]string, 0, len(segments))
	seen := make(map[string]struct{})
	var speakers []string
	var minStart, maxEnd *float64

	for _, seg := range segments {
		if seg.Text != "" {
			texts = append(texts, seg.Text)
		}
		if seg.Speaker != "" {
			if _, ok := seen[seg.Speaker]; !ok {
				seen[seg.Speaker] = struct{}{}
				speakers = append(speakers, seg.Speaker)
			}
		}
		if seg.StartTime != nil && (minStart == nil || *seg.StartTime < *minStart) {
			v := *seg.StartTime
			minStart = &v
		}
		if seg.EndTime != nil && (maxEnd == nil || *seg.EndTime > *maxEnd) {
			v := *seg.EndTime
			maxEnd = &v
		}
	}

	fullText := strings.Join(texts, " ")

	t := &Transcript{
		FullText:  fullText,
		WordCount: len(strings.Fields(fullText)),
		Speakers:  speakers,
		Segments:  segments,
	}
	if minStart != nil && maxEnd != nil && *maxEnd >= *minStart {
		d := *maxEnd - *minStart
		t.Duration = &d
	}
	return t
}

// SpeakerWordCounts returns per-speaker word counts over all segments.
func (t *Transcript) SpeakerWordCounts() map[string]int {
	counts := make(map[string]int)
	for _, seg := range t.Segments {
		if seg.Speaker == "" || seg.Text == "" {
			continue
		}
		counts[seg.Speaker] += len(strings.Fields(seg.Text))
	}
	return counts
}
