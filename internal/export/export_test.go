package export

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/thebtf/minutes/internal/meeting"
)

func sampleMeeting() meeting.Meeting {
	start := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	return meeting.Meeting{
		ID:           "m1",
		Title:        "Roadmap planning",
		StartTime:    &start,
		EndTime:      &end,
		Participants: []string{"alice@x.com", "bob@x.com"},
		Summary:      "Quarterly priorities were agreed.",
		Tags:         []string{"planning"},
		Transcript: meeting.BuildTranscript([]meeting.Segment{
			{Text: "Shall we start?", Speaker: "alice@x.com"},
			{Text: "Yes.", Speaker: "bob@x.com"},
			{Text: "(door closes)"},
		}),
	}
}

// TestMarkdownFull tests the complete document layout.
func TestMarkdownFull(t *testing.T) {
	doc := Markdown(sampleMeeting(), true, true)

	assert.True(t, strings.HasPrefix(doc, "# Roadmap planning\n"))
	assert.Contains(t, doc, "## Metadata")
	assert.Contains(t, doc, "- **ID**: m1")
	assert.Contains(t, doc, "- **Duration**: 30 minutes")
	assert.Contains(t, doc, "- **Participants**: alice@x.com, bob@x.com")
	assert.Contains(t, doc, "- **Tags**: planning")
	assert.Contains(t, doc, "## Summary")
	assert.Contains(t, doc, "Quarterly priorities were agreed.")
	assert.Contains(t, doc, "## Transcript")
	assert.Contains(t, doc, "**alice@x.com**: Shall we start?")
	assert.Contains(t, doc, "(door closes)")
}

// TestMarkdownToggles tests the transcript and metadata switches.
func TestMarkdownToggles(t *testing.T) {
	doc := Markdown(sampleMeeting(), false, true)
	assert.NotContains(t, doc, "## Transcript")
	assert.Contains(t, doc, "## Metadata")

	doc = Markdown(sampleMeeting(), true, false)
	assert.NotContains(t, doc, "## Metadata")
	assert.Contains(t, doc, "## Transcript")
}

// TestMarkdownMinimal tests a bare record without optional fields.
func TestMarkdownMinimal(t *testing.T) {
	doc := Markdown(meeting.Meeting{ID: "m2"}, true, true)
	assert.True(t, strings.HasPrefix(doc, "# Untitled Meeting\n"))
	assert.Contains(t, doc, "- **ID**: m2")
	assert.NotContains(t, doc, "## Summary")
	assert.NotContains(t, doc, "## Transcript")
	assert.NotContains(t, doc, "**Date**")
}
