package tools

import (
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/thebtf/minutes/internal/export"
	"github.com/thebtf/minutes/internal/filter"
	"github.com/thebtf/minutes/internal/meeting"
	"github.com/thebtf/minutes/internal/stats"
)

const (
	defaultRecentCount = 10
	maxRecentCount     = 100
	defaultMinMeetings = 1
)

// SearchFilters echoes the filters a search or list call ran with,
// including any applied lookback default.
type SearchFilters struct {
	Query       string `json:"query,omitempty"`
	FromDate    string `json:"from_date,omitempty"`
	ToDate      string `json:"to_date,omitempty"`
	Participant string `json:"participant,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

// SearchResult is the list-shaped result of search_meetings and
// list_meetings.
type SearchResult struct {
	TotalFound     int                 `json:"total_found"`
	Meetings       []meeting.ListEntry `json:"meetings"`
	FiltersApplied SearchFilters       `json:"filters_applied"`
}

type searchArgs struct {
	Query       string `json:"query"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	Participant string `json:"participant"`
	Limit       int    `json:"limit"`
}

func (r *Registry) searchMeetings(raw json.RawMessage) (any, error) {
	var a searchArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}
	return r.search(a)
}

func (r *Registry) listMeetings(raw json.RawMessage) (any, error) {
	var a searchArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}
	// Listing is a search without text or participant filters.
	a.Query = ""
	a.Participant = ""
	return r.search(a)
}

func (r *Registry) search(a searchArgs) (any, error) {
	// No dates at all means the recent lookback window.
	if a.FromDate == "" && a.ToDate == "" {
		a.FromDate = r.lookback
	}

	from, to, err := r.window(a.FromDate, a.ToDate)
	if err != nil {
		return nil, err
	}

	meetings, err := r.store.Meetings()
	if err != nil {
		return nil, err
	}

	matched := filter.Apply(meetings, filter.Params{
		From:        from,
		To:          to,
		Participant: a.Participant,
		Query:       a.Query,
		Limit:       a.Limit,
	})

	return &SearchResult{
		TotalFound: len(matched),
		Meetings:   entries(matched),
		FiltersApplied: SearchFilters{
			Query:       a.Query,
			FromDate:    a.FromDate,
			ToDate:      a.ToDate,
			Participant: a.Participant,
			Limit:       a.Limit,
		},
	}, nil
}

// RecentFilters echoes what a get_recent_meetings call ran with.
type RecentFilters struct {
	Type                 string `json:"type"`
	CountRequested       int    `json:"count_requested"`
	TotalMeetingsInCache int    `json:"total_meetings_in_cache"`
}

// RecentResult is the result of get_recent_meetings.
type RecentResult struct {
	TotalFound     int                 `json:"total_found"`
	Meetings       []meeting.ListEntry `json:"meetings"`
	FiltersApplied RecentFilters       `json:"filters_applied"`
}

type recentArgs struct {
	Count int `json:"count"`
}

func (r *Registry) getRecentMeetings(raw json.RawMessage) (any, error) {
	var a recentArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}
	if a.Count <= 0 {
		a.Count = defaultRecentCount
	}
	if a.Count > maxRecentCount {
		a.Count = maxRecentCount
	}

	meetings, err := r.store.Meetings()
	if err != nil {
		return nil, err
	}

	dated := make([]meeting.Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.StartTime != nil {
			dated = append(dated, m)
		}
	}
	sort.SliceStable(dated, func(i, j int) bool {
		return dated[i].StartTime.After(*dated[j].StartTime)
	})
	if len(dated) > a.Count {
		dated = dated[:a.Count]
	}

	return &RecentResult{
		TotalFound: len(dated),
		Meetings:   entries(dated),
		FiltersApplied: RecentFilters{
			Type:                 "recent_meetings",
			CountRequested:       a.Count,
			TotalMeetingsInCache: len(meetings),
		},
	}, nil
}

// TranscriptInfo summarizes a transcript without its text.
type TranscriptInfo struct {
	WordCount       int      `json:"word_count"`
	SpeakerCount    int      `json:"speaker_count"`
	Speakers        []string `json:"speakers"`
	SegmentCount    int      `json:"segment_count"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty"`
}

// MeetingDetail is the full-detail result of get_meeting.
type MeetingDetail struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	StartTime       *string         `json:"start_time"`
	EndTime         *string         `json:"end_time"`
	DurationMinutes *int            `json:"duration_minutes"`
	Participants    []string        `json:"participants"`
	Summary         string          `json:"summary"`
	Tags            []string        `json:"tags"`
	HasTranscript   bool            `json:"has_transcript"`
	TranscriptInfo  *TranscriptInfo `json:"transcript_info,omitempty"`
}

type meetingArgs struct {
	MeetingID string `json:"meeting_id"`
}

func (r *Registry) getMeeting(raw json.RawMessage) (any, error) {
	m, err := r.lookup(raw)
	if err != nil {
		return nil, err
	}

	detail := &MeetingDetail{
		ID:            m.ID,
		Title:         m.Title,
		StartTime:     isoTime(m.StartTime),
		EndTime:       isoTime(m.EndTime),
		Participants:  m.Participants,
		Summary:       m.Summary,
		Tags:          m.Tags,
		HasTranscript: m.HasTranscript(),
	}
	if minutes, ok := m.DurationMinutes(); ok {
		detail.DurationMinutes = &minutes
	}
	if m.HasTranscript() {
		detail.TranscriptInfo = &TranscriptInfo{
			WordCount:       m.Transcript.WordCount,
			SpeakerCount:    len(m.Transcript.Speakers),
			Speakers:        m.Transcript.Speakers,
			SegmentCount:    len(m.Transcript.Segments),
			DurationSeconds: m.Transcript.Duration,
		}
	}
	return detail, nil
}

// SegmentView is one transcript segment as returned by get_transcript.
type SegmentView struct {
	Text      string   `json:"text"`
	Speaker   string   `json:"speaker,omitempty"`
	Timestamp *string  `json:"timestamp,omitempty"`
	StartTime *float64 `json:"start_time,omitempty"`
	EndTime   *float64 `json:"end_time,omitempty"`
}

// TranscriptResult is the result of get_transcript.
type TranscriptResult struct {
	MeetingID    string        `json:"meeting_id"`
	MeetingTitle string        `json:"meeting_title"`
	FullText     string        `json:"full_text"`
	WordCount    int           `json:"word_count"`
	Speakers     []string      `json:"speakers"`
	SegmentCount int           `json:"segment_count"`
	Segments     []SegmentView `json:"segments"`
}

type transcriptArgs struct {
	MeetingID         string `json:"meeting_id"`
	IncludeSpeakers   *bool  `json:"include_speakers"`
	IncludeTimestamps bool   `json:"include_timestamps"`
}

func (r *Registry) getTranscript(raw json.RawMessage) (any, error) {
	var a transcriptArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}

	m, err := r.lookupID(a.MeetingID)
	if err != nil {
		return nil, err
	}
	if !m.HasTranscript() {
		return nil, fmt.Errorf("%w: %s", ErrNoTranscript, m.ID)
	}

	includeSpeakers := a.IncludeSpeakers == nil || *a.IncludeSpeakers

	t := m.Transcript
	segments := make([]SegmentView, 0, len(t.Segments))
	for _, seg := range t.Segments {
		view := SegmentView{Text: seg.Text}
		if includeSpeakers {
			view.Speaker = seg.Speaker
		}
		if a.IncludeTimestamps {
			if seg.Timestamp != nil {
				iso := seg.Timestamp.Format(time.RFC3339)
				view.Timestamp = &iso
			}
			view.StartTime = seg.StartTime
			view.EndTime = seg.EndTime
		}
		segments = append(segments, view)
	}

	return &TranscriptResult{
		MeetingID:    m.ID,
		MeetingTitle: m.Title,
		FullText:     t.FullText,
		WordCount:    t.WordCount,
		Speakers:     t.Speakers,
		SegmentCount: len(t.Segments),
		Segments:     segments,
	}, nil
}

// SpeakerShare is one speaker's share of the transcript word count.
type SpeakerShare struct {
	Speaker    string  `json:"speaker"`
	Words      int     `json:"words"`
	Percentage float64 `json:"percentage"`
}

// TranscriptSummary condenses transcript facts for the notes view.
type TranscriptSummary struct {
	TotalWords           int            `json:"total_words"`
	Speakers             []string       `json:"speakers"`
	SpeakerCount         int            `json:"speaker_count"`
	SpeakerParticipation []SpeakerShare `json:"speaker_participation,omitempty"`
}

// NotesResult is the result of get_meeting_notes.
type NotesResult struct {
	MeetingID         string             `json:"meeting_id"`
	Title             string             `json:"title"`
	Date              *string            `json:"date"`
	DurationMinutes   *int               `json:"duration_minutes"`
	Participants      []string           `json:"participants"`
	Summary           string             `json:"summary"`
	Tags              []string           `json:"tags"`
	TranscriptSummary *TranscriptSummary `json:"transcript_summary,omitempty"`
}

func (r *Registry) getMeetingNotes(raw json.RawMessage) (any, error) {
	m, err := r.lookup(raw)
	if err != nil {
		return nil, err
	}

	notes := &NotesResult{
		MeetingID:    m.ID,
		Title:        m.Title,
		Date:         isoTime(m.StartTime),
		Participants: m.Participants,
		Summary:      m.Summary,
		Tags:         m.Tags,
	}
	if minutes, ok := m.DurationMinutes(); ok {
		notes.DurationMinutes = &minutes
	}
	if m.HasTranscript() {
		t := m.Transcript
		notes.TranscriptSummary = &TranscriptSummary{
			TotalWords:           t.WordCount,
			Speakers:             t.Speakers,
			SpeakerCount:         len(t.Speakers),
			SpeakerParticipation: speakerShares(t),
		}
	}
	return notes, nil
}

// speakerShares returns per-speaker word shares in first-seen speaker
// order.
func speakerShares(t *meeting.Transcript) []SpeakerShare {
	counts := t.SpeakerWordCounts()
	total := 0
	for _, words := range counts {
		total += words
	}
	if total == 0 {
		return nil
	}

	shares := make([]SpeakerShare, 0, len(t.Speakers))
	for _, speaker := range t.Speakers {
		words := counts[speaker]
		shares = append(shares, SpeakerShare{
			Speaker:    speaker,
			Words:      words,
			Percentage: float64(words) / float64(total) * 100,
		})
	}
	return shares
}

// ParticipantMeetingRef points at one meeting a participant attended.
type ParticipantMeetingRef struct {
	ID    string  `json:"id"`
	Title string  `json:"title"`
	Date  *string `json:"date"`
}

// ParticipantInfo is one participant with their meetings.
type ParticipantInfo struct {
	Name         string                  `json:"name"`
	MeetingCount int                     `json:"meeting_count"`
	Meetings     []ParticipantMeetingRef `json:"meetings"`
}

// ParticipantsFilters echoes what a list_participants call ran with.
type ParticipantsFilters struct {
	FromDate    string `json:"from_date,omitempty"`
	ToDate      string `json:"to_date,omitempty"`
	MinMeetings int    `json:"min_meetings"`
}

// ParticipantsResult is the result of list_participants.
type ParticipantsResult struct {
	TotalParticipants     int                 `json:"total_participants"`
	TotalMeetingsAnalyzed int                 `json:"total_meetings_analyzed"`
	Participants          []ParticipantInfo   `json:"participants"`
	FiltersApplied        ParticipantsFilters `json:"filters_applied"`
}

type participantsArgs struct {
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
	MinMeetings int    `json:"min_meetings"`
}

func (r *Registry) listParticipants(raw json.RawMessage) (any, error) {
	var a participantsArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}
	if a.MinMeetings <= 0 {
		a.MinMeetings = defaultMinMeetings
	}

	meetings, err := r.filtered(a.FromDate, a.ToDate)
	if err != nil {
		return nil, err
	}

	// First-seen order keeps the pre-sort ordering deterministic.
	byName := make(map[string][]ParticipantMeetingRef)
	var order []string
	for _, m := range meetings {
		ref := ParticipantMeetingRef{ID: m.ID, Title: m.Title, Date: isoTime(m.StartTime)}
		for _, p := range m.Participants {
			if _, ok := byName[p]; !ok {
				order = append(order, p)
			}
			byName[p] = append(byName[p], ref)
		}
	}

	participants := make([]ParticipantInfo, 0, len(order))
	for _, name := range order {
		refs := byName[name]
		if len(refs) < a.MinMeetings {
			continue
		}
		participants = append(participants, ParticipantInfo{
			Name:         name,
			MeetingCount: len(refs),
			Meetings:     refs,
		})
	}
	sort.SliceStable(participants, func(i, j int) bool {
		return participants[i].MeetingCount > participants[j].MeetingCount
	})

	return &ParticipantsResult{
		TotalParticipants:     len(participants),
		TotalMeetingsAnalyzed: len(meetings),
		Participants:          participants,
		FiltersApplied: ParticipantsFilters{
			FromDate:    a.FromDate,
			ToDate:      a.ToDate,
			MinMeetings: a.MinMeetings,
		},
	}, nil
}

type statisticsArgs struct {
	StatType string `json:"stat_type"`
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
}

func (r *Registry) getStatistics(raw json.RawMessage) (any, error) {
	var a statisticsArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}

	meetings, err := r.filtered(a.FromDate, a.ToDate)
	if err != nil {
		return nil, err
	}

	switch a.StatType {
	case "summary":
		return stats.Summary(meetings), nil
	case "frequency":
		return stats.Frequency(meetings), nil
	case "duration":
		return stats.Duration(meetings), nil
	case "participants":
		return stats.Participants(meetings), nil
	case "patterns":
		return stats.Patterns(meetings), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatType, a.StatType)
	}
}

// ExportResult is the result of export_meeting.
type ExportResult struct {
	MeetingID          string `json:"meeting_id"`
	Title              string `json:"title"`
	Format             string `json:"format"`
	Content            string `json:"content"`
	IncludesTranscript bool   `json:"includes_transcript"`
	IncludesMetadata   bool   `json:"includes_metadata"`
}

type exportArgs struct {
	MeetingID         string `json:"meeting_id"`
	Format            string `json:"format"`
	IncludeTranscript *bool  `json:"include_transcript"`
	IncludeMetadata   *bool  `json:"include_metadata"`
}

func (r *Registry) exportMeeting(raw json.RawMessage) (any, error) {
	var a exportArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = "markdown"
	}
	if a.Format != "markdown" {
		return nil, fmt.Errorf("unsupported export format: %q", a.Format)
	}

	m, err := r.lookupID(a.MeetingID)
	if err != nil {
		return nil, err
	}

	includeTranscript := a.IncludeTranscript == nil || *a.IncludeTranscript
	includeMetadata := a.IncludeMetadata == nil || *a.IncludeMetadata

	return &ExportResult{
		MeetingID:          m.ID,
		Title:              m.Title,
		Format:             a.Format,
		Content:            export.Markdown(m, includeTranscript, includeMetadata),
		IncludesTranscript: includeTranscript && m.HasTranscript(),
		IncludesMetadata:   includeMetadata,
	}, nil
}

type patternsArgs struct {
	PatternType string `json:"pattern_type"`
	FromDate    string `json:"from_date"`
	ToDate      string `json:"to_date"`
}

func (r *Registry) analyzePatterns(raw json.RawMessage) (any, error) {
	var a patternsArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return nil, err
	}
	if a.PatternType == "" {
		a.PatternType = "time"
	}

	meetings, err := r.filtered(a.FromDate, a.ToDate)
	if err != nil {
		return nil, err
	}

	switch a.PatternType {
	case "time":
		return stats.Patterns(meetings), nil
	case "frequency":
		return stats.Frequency(meetings), nil
	case "participants":
		return stats.Collaborations(meetings), nil
	case "duration":
		return stats.DurationTrend(meetings), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPatternType, a.PatternType)
	}
}

// RefreshResult is the result of refresh_cache.
type RefreshResult struct {
	Status             string  `json:"status"`
	PreviousCount      int     `json:"previous_count"`
	NewCount           int     `json:"new_count"`
	MeetingsAdded      int     `json:"meetings_added"`
	LatestMeetingDate  *string `json:"latest_meeting_date"`
	LatestMeetingTitle string  `json:"latest_meeting_title,omitempty"`
}

func (r *Registry) refreshCache(json.RawMessage) (any, error) {
	previous, current, err := r.store.Refresh()
	if err != nil {
		return nil, err
	}

	result := &RefreshResult{
		Status:        "refreshed",
		PreviousCount: previous,
		NewCount:      current,
		MeetingsAdded: current - previous,
	}

	meetings, err := r.store.Meetings()
	if err != nil {
		return nil, err
	}
	var latest *meeting.Meeting
	for i := range meetings {
		m := &meetings[i]
		if m.StartTime == nil {
			continue
		}
		if latest == nil || m.StartTime.After(*latest.StartTime) {
			latest = m
		}
	}
	if latest != nil {
		result.LatestMeetingDate = isoTime(latest.StartTime)
		result.LatestMeetingTitle = latest.Title
	}
	return result, nil
}

// lookup decodes a meeting_id argument and resolves the record.
func (r *Registry) lookup(raw json.RawMessage) (meeting.Meeting, error) {
	var a meetingArgs
	if err := unmarshalArgs(raw, &a); err != nil {
		return meeting.Meeting{}, err
	}
	return r.lookupID(a.MeetingID)
}

func (r *Registry) lookupID(id string) (meeting.Meeting, error) {
	if id == "" {
		return meeting.Meeting{}, fmt.Errorf("meeting_id is required")
	}
	m, found, err := r.store.Get(id)
	if err != nil {
		return meeting.Meeting{}, err
	}
	if !found {
		return meeting.Meeting{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m, nil
}

func entries(meetings []meeting.Meeting) []meeting.ListEntry {
	out := make([]meeting.ListEntry, 0, len(meetings))
	for i := range meetings {
		out = append(out, meetings[i].Entry())
	}
	return out
}

func isoTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	iso := t.Format(time.RFC3339)
	return &iso
}
