package tools

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/minutes/internal/cache"
	"github.com/thebtf/minutes/internal/dates"
	"github.com/thebtf/minutes/internal/stats"
	"github.com/thebtf/minutes/internal/store"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// Four meetings: one 10 days old, one 2 days old, one 1 day old with a
// transcript, one undated.
const testCache = `{"state":{"documents":{
"m-old":{"id":"m-old","title":"Architecture review","created_at":"2025-06-05T10:00:00Z","ended_at":"2025-06-05T11:00:00Z","people":[{"name":"Alice","email":"alice@example.com"},{"name":"Carol","email":"carol@example.com"}],"notes_markdown":"Discussed service boundaries.","tags":["architecture"]},
"m-mid":{"id":"m-mid","title":"Sprint planning","created_at":"2025-06-13T09:00:00Z","ended_at":"2025-06-13T09:30:00Z","people":[{"name":"Alice","email":"alice@example.com"},{"name":"Bob","email":"bob@example.com"}],"notes_markdown":"Planned the sprint backlog.","tags":["planning"]},
"m-recent":{"id":"m-recent","title":"Incident retro","created_at":"2025-06-14T10:00:00Z","ended_at":"2025-06-14T10:45:00Z","people":[{"name":"Alice","email":"alice@example.com"},{"name":"Bob","email":"bob@example.com"}],"notes_markdown":"Root cause was a config rollout.","tags":[]},
"m-undated":{"id":"m-undated","title":"Ad hoc sync","people":[{"name":"Dave","email":"dave@example.com"}],"notes_markdown":""}
},"transcripts":{
"m-recent":[
{"text":"Let us walk through the timeline.","speaker":"Alice","timestamp":"2025-06-14T10:00:10Z","start_time":0,"end_time":30},
{"text":"The rollout started at nine.","speaker":"Bob","timestamp":"2025-06-14T10:01:00Z","start_time":30,"end_time":60},
{"text":"Agreed.","speaker":"Alice","start_time":60,"end_time":65}
]}}}`

const testCacheUpdated = `{"state":{"documents":{
"m-old":{"id":"m-old","title":"Architecture review","created_at":"2025-06-05T10:00:00Z","ended_at":"2025-06-05T11:00:00Z","people":[{"name":"Alice","email":"alice@example.com"}],"notes_markdown":"Discussed service boundaries.","tags":["architecture"]},
"m-mid":{"id":"m-mid","title":"Sprint planning","created_at":"2025-06-13T09:00:00Z","ended_at":"2025-06-13T09:30:00Z","people":[{"name":"Alice","email":"alice@example.com"}],"notes_markdown":"Planned the sprint backlog.","tags":["planning"]},
"m-recent":{"id":"m-recent","title":"Incident retro","created_at":"2025-06-14T10:00:00Z","ended_at":"2025-06-14T10:45:00Z","people":[{"name":"Alice","email":"alice@example.com"}],"notes_markdown":"Root cause was a config rollout.","tags":[]},
"m-undated":{"id":"m-undated","title":"Ad hoc sync","people":[{"name":"Dave","email":"dave@example.com"}],"notes_markdown":""},
"m-new":{"id":"m-new","title":"Morning standup","created_at":"2025-06-15T08:00:00Z","ended_at":"2025-06-15T08:15:00Z","people":[{"name":"Bob","email":"bob@example.com"}],"notes_markdown":"Standup notes.","tags":[]}
},"transcripts":{}}}`

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte(testCache), 0o600))

	st := store.New(cache.NewParser(path), time.UTC)
	resolver := dates.NewResolverAt(time.UTC, func() time.Time { return testNow })
	return New(st, resolver, "3d"), path
}

func execute(t *testing.T, r *Registry, tool, args string) any {
	t.Helper()
	result, err := r.Execute(tool, json.RawMessage(args))
	require.NoError(t, err)
	return result
}

// TestSearchImplicitWindow tests that a search naming no dates covers
// only the recent lookback window.
func TestSearchImplicitWindow(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "search_meetings", `{}`).(*SearchResult)

	require.Equal(t, 2, result.TotalFound)
	assert.Equal(t, "m-mid", result.Meetings[0].ID)
	assert.Equal(t, "m-recent", result.Meetings[1].ID)
	assert.Equal(t, "3d", result.FiltersApplied.FromDate)
}

// TestSearchByQuery tests text matching across titles, summaries and
// transcripts.
func TestSearchByQuery(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "search_meetings", `{"query":"rollout","from_date":"30d"}`).(*SearchResult)
	require.Equal(t, 1, result.TotalFound)
	assert.Equal(t, "m-recent", result.Meetings[0].ID)

	result = execute(t, r, "search_meetings", `{"query":"service boundaries","from_date":"30d"}`).(*SearchResult)
	require.Equal(t, 1, result.TotalFound)
	assert.Equal(t, "m-old", result.Meetings[0].ID)
}

// TestSearchParticipantAndLimit tests the participant filter and the
// result cap.
func TestSearchParticipantAndLimit(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "search_meetings", `{"from_date":"30d","participant":"carol"}`).(*SearchResult)
	require.Equal(t, 1, result.TotalFound)
	assert.Equal(t, "m-old", result.Meetings[0].ID)

	result = execute(t, r, "search_meetings", `{"from_date":"30d","limit":2}`).(*SearchResult)
	assert.Equal(t, 2, result.TotalFound)
}

// TestListMeetings tests that listing ignores text and participant
// filters; only the date window and limit apply.
func TestListMeetings(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "list_meetings", `{"query":"rollout","from_date":"30d"}`).(*SearchResult)
	assert.Equal(t, 3, result.TotalFound)
	assert.Empty(t, result.FiltersApplied.Query)

	result = execute(t, r, "list_meetings", `{"from_date":"30d","participant":"carol"}`).(*SearchResult)
	assert.Equal(t, 3, result.TotalFound)
	assert.Empty(t, result.FiltersApplied.Participant)

	result = execute(t, r, "list_meetings", `{"from_date":"30d","limit":1}`).(*SearchResult)
	assert.Equal(t, 1, result.TotalFound)
}

// TestRecentMeetings tests ordering, the default count and the cache
// total echo.
func TestRecentMeetings(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "get_recent_meetings", `{}`).(*RecentResult)
	require.Equal(t, 3, result.TotalFound)
	assert.Equal(t, "m-recent", result.Meetings[0].ID)
	assert.Equal(t, "m-mid", result.Meetings[1].ID)
	assert.Equal(t, "m-old", result.Meetings[2].ID)
	assert.Equal(t, 10, result.FiltersApplied.CountRequested)
	assert.Equal(t, 4, result.FiltersApplied.TotalMeetingsInCache)

	result = execute(t, r, "get_recent_meetings", `{"count":1}`).(*RecentResult)
	require.Equal(t, 1, result.TotalFound)
	assert.Equal(t, "m-recent", result.Meetings[0].ID)
}

// TestGetMeeting tests the detail projection including transcript info.
func TestGetMeeting(t *testing.T) {
	r, _ := newTestRegistry(t)

	detail := execute(t, r, "get_meeting", `{"meeting_id":"m-recent"}`).(*MeetingDetail)
	assert.Equal(t, "Incident retro", detail.Title)
	require.NotNil(t, detail.DurationMinutes)
	assert.Equal(t, 45, *detail.DurationMinutes)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, detail.Participants)
	assert.True(t, detail.HasTranscript)
	require.NotNil(t, detail.TranscriptInfo)
	assert.Equal(t, 12, detail.TranscriptInfo.WordCount)
	assert.Equal(t, []string{"Alice", "Bob"}, detail.TranscriptInfo.Speakers)
	assert.Equal(t, 3, detail.TranscriptInfo.SegmentCount)
	require.NotNil(t, detail.TranscriptInfo.DurationSeconds)
	assert.Equal(t, 65.0, *detail.TranscriptInfo.DurationSeconds)

	detail = execute(t, r, "get_meeting", `{"meeting_id":"m-undated"}`).(*MeetingDetail)
	assert.Nil(t, detail.StartTime)
	assert.Nil(t, detail.DurationMinutes)
	assert.Nil(t, detail.TranscriptInfo)
}

// TestGetMeetingNotFound tests the uniform error for a missing record.
func TestGetMeetingNotFound(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Execute("get_meeting", json.RawMessage(`{"meeting_id":"nope"}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var toolErr *Error
	require.ErrorAs(t, err, &toolErr)
	assert.Contains(t, toolErr.Message, "nope")
}

// TestGetTranscript tests segment rendering and the speaker and
// timestamp switches.
func TestGetTranscript(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "get_transcript", `{"meeting_id":"m-recent"}`).(*TranscriptResult)
	assert.Equal(t, "Incident retro", result.MeetingTitle)
	assert.Equal(t, 12, result.WordCount)
	assert.Equal(t, []string{"Alice", "Bob"}, result.Speakers)
	require.Len(t, result.Segments, 3)
	assert.Equal(t, "Alice", result.Segments[0].Speaker)
	assert.Nil(t, result.Segments[0].Timestamp)
	assert.Contains(t, result.FullText, "The rollout started at nine.")

	result = execute(t, r, "get_transcript", `{"meeting_id":"m-recent","include_speakers":false,"include_timestamps":true}`).(*TranscriptResult)
	assert.Empty(t, result.Segments[0].Speaker)
	require.NotNil(t, result.Segments[0].Timestamp)
	assert.Equal(t, "2025-06-14T10:00:10Z", *result.Segments[0].Timestamp)
	require.NotNil(t, result.Segments[1].StartTime)
	assert.Equal(t, 30.0, *result.Segments[1].StartTime)
	assert.Nil(t, result.Segments[2].Timestamp)
}

// TestGetTranscriptMissing tests the no-transcript failure.
func TestGetTranscriptMissing(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Execute("get_transcript", json.RawMessage(`{"meeting_id":"m-mid"}`))
	assert.ErrorIs(t, err, ErrNoTranscript)
}

// TestGetMeetingNotes tests the notes view with speaker participation.
func TestGetMeetingNotes(t *testing.T) {
	r, _ := newTestRegistry(t)

	notes := execute(t, r, "get_meeting_notes", `{"meeting_id":"m-recent"}`).(*NotesResult)
	assert.Equal(t, "Root cause was a config rollout.", notes.Summary)
	require.NotNil(t, notes.TranscriptSummary)
	assert.Equal(t, 12, notes.TranscriptSummary.TotalWords)
	assert.Equal(t, 2, notes.TranscriptSummary.SpeakerCount)

	shares := notes.TranscriptSummary.SpeakerParticipation
	require.Len(t, shares, 2)
	assert.Equal(t, "Alice", shares[0].Speaker)
	assert.Equal(t, 7, shares[0].Words)
	assert.InDelta(t, 58.33, shares[0].Percentage, 0.01)
	assert.Equal(t, "Bob", shares[1].Speaker)
	assert.Equal(t, 5, shares[1].Words)

	notes = execute(t, r, "get_meeting_notes", `{"meeting_id":"m-mid"}`).(*NotesResult)
	assert.Nil(t, notes.TranscriptSummary)
}

// TestListParticipants tests counting, ordering and the min_meetings
// threshold.
func TestListParticipants(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "list_participants", `{}`).(*ParticipantsResult)
	assert.Equal(t, 4, result.TotalMeetingsAnalyzed)
	require.Equal(t, 4, result.TotalParticipants)
	assert.Equal(t, "alice@example.com", result.Participants[0].Name)
	assert.Equal(t, 3, result.Participants[0].MeetingCount)
	assert.Equal(t, "bob@example.com", result.Participants[1].Name)

	result = execute(t, r, "list_participants", `{"from_date":"30d","min_meetings":2}`).(*ParticipantsResult)
	assert.Equal(t, 3, result.TotalMeetingsAnalyzed)
	require.Equal(t, 2, result.TotalParticipants)
	assert.Equal(t, "alice@example.com", result.Participants[0].Name)
	require.Len(t, result.Participants[0].Meetings, 3)
	assert.Equal(t, 2, result.FiltersApplied.MinMeetings)
}

// TestGetStatistics tests dispatch to each statistic kind.
func TestGetStatistics(t *testing.T) {
	r, _ := newTestRegistry(t)

	summary := execute(t, r, "get_statistics", `{"stat_type":"summary"}`).(*stats.SummaryReport)
	assert.Equal(t, 4, summary.TotalMeetings)
	assert.Equal(t, "3/4", summary.DateCoverage)

	duration := execute(t, r, "get_statistics", `{"stat_type":"duration","from_date":"2025-01-01","to_date":"2025-01-31"}`).(*stats.DurationReport)
	assert.Equal(t, stats.NoDurationData, duration.Error)

	freq := execute(t, r, "get_statistics", `{"stat_type":"frequency","from_date":"30d"}`).(*stats.FrequencyReport)
	assert.Equal(t, 1, freq.DailyFrequency["2025-06-14"])

	_, err := r.Execute("get_statistics", json.RawMessage(`{"stat_type":"velocity"}`))
	assert.ErrorIs(t, err, ErrUnknownStatType)
}

// TestExportMeeting tests markdown export and its toggles.
func TestExportMeeting(t *testing.T) {
	r, _ := newTestRegistry(t)

	result := execute(t, r, "export_meeting", `{"meeting_id":"m-recent"}`).(*ExportResult)
	assert.Equal(t, "markdown", result.Format)
	assert.True(t, result.IncludesTranscript)
	assert.Contains(t, result.Content, "# Incident retro")
	assert.Contains(t, result.Content, "## Transcript")

	result = execute(t, r, "export_meeting", `{"meeting_id":"m-recent","include_transcript":false}`).(*ExportResult)
	assert.False(t, result.IncludesTranscript)
	assert.NotContains(t, result.Content, "## Transcript")

	// A transcript-less meeting never reports one, whatever the flag.
	result = execute(t, r, "export_meeting", `{"meeting_id":"m-mid"}`).(*ExportResult)
	assert.False(t, result.IncludesTranscript)
	assert.NotContains(t, result.Content, "## Transcript")

	_, err := r.Execute("export_meeting", json.RawMessage(`{"meeting_id":"m-recent","format":"pdf"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported export format")
}

// TestAnalyzePatterns tests dispatch to each pattern kind and the
// default.
func TestAnalyzePatterns(t *testing.T) {
	r, _ := newTestRegistry(t)

	patterns := execute(t, r, "analyze_patterns", `{}`).(*stats.PatternsReport)
	require.NotNil(t, patterns.PeakHour)

	collab := execute(t, r, "analyze_patterns", `{"pattern_type":"participants"}`).(*stats.CollaborationReport)
	assert.NotEmpty(t, collab.FrequentCollaborations)

	_, err := r.Execute("analyze_patterns", json.RawMessage(`{"pattern_type":"mood"}`))
	assert.ErrorIs(t, err, ErrUnknownPatternType)
}

// TestRefreshCache tests the reload delta and latest-meeting report.
func TestRefreshCache(t *testing.T) {
	r, path := newTestRegistry(t)

	execute(t, r, "get_recent_meetings", `{}`)

	require.NoError(t, os.WriteFile(path, []byte(testCacheUpdated), 0o600))

	result := execute(t, r, "refresh_cache", ``).(*RefreshResult)
	assert.Equal(t, "refreshed", result.Status)
	assert.Equal(t, 4, result.PreviousCount)
	assert.Equal(t, 5, result.NewCount)
	assert.Equal(t, 1, result.MeetingsAdded)
	assert.Equal(t, "Morning standup", result.LatestMeetingTitle)
	require.NotNil(t, result.LatestMeetingDate)
	assert.Equal(t, "2025-06-15T08:00:00Z", *result.LatestMeetingDate)
}

// TestUnknownTool tests dispatch of a name outside the registry.
func TestUnknownTool(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Execute("divine_meetings", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownTool)

	var toolErr *Error
	assert.ErrorAs(t, err, &toolErr)
}

// TestInvalidDateExpression tests that date resolution failures keep
// their sentinel through the tool boundary.
func TestInvalidDateExpression(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.Execute("search_meetings", json.RawMessage(`{"from_date":"3x"}`))
	assert.ErrorIs(t, err, dates.ErrInvalidFormat)
}

// TestDefinitions tests the published tool surface.
func TestDefinitions(t *testing.T) {
	r, _ := newTestRegistry(t)

	defs := r.Definitions()
	require.Len(t, defs, 11)

	names := make(map[string]bool, len(defs))
	for _, def := range defs {
		names[def.Name] = true
		assert.NotEmpty(t, def.Description)
		assert.Equal(t, "object", def.InputSchema["type"])
	}
	for _, name := range []string{
		"search_meetings", "get_recent_meetings", "list_meetings",
		"get_meeting", "get_transcript", "get_meeting_notes",
		"list_participants", "get_statistics", "export_meeting",
		"analyze_patterns", "refresh_cache",
	} {
		assert.True(t, names[name], name)
	}
}
