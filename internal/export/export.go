// Package export renders meetings as markdown documents.
package export

import (
	"fmt"
	"strings"

	"github.com/thebtf/minutes/internal/dates"
	"github.com/thebtf/minutes/internal/meeting"
)

// Markdown renders one meeting as a markdown document. Metadata and
// transcript sections are optional; the summary is always included
// when present.
func Markdown(m meeting.Meeting, includeTranscript, includeMetadata bool) string {
	var b strings.Builder

	title := m.Title
	if title == "" {
		title = "Untitled Meeting"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if includeMetadata {
		writeMetadata(&b, m)
	}

	if m.Summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(m.Summary)
		b.WriteString("\n\n")
	}

	if includeTranscript && m.HasTranscript() {
		writeTranscript(&b, m.Transcript)
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeMetadata(b *strings.Builder, m meeting.Meeting) {
	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(b, "- **ID**: %s\n", m.ID)
	if m.StartTime != nil {
		fmt.Fprintf(b, "- **Date**: %s\n", dates.FormatDisplay(*m.StartTime, true))
	}
	if minutes, ok := m.DurationMinutes(); ok {
		fmt.Fprintf(b, "- **Duration**: %d minutes\n", minutes)
	}
	if len(m.Participants) > 0 {
		fmt.Fprintf(b, "- **Participants**: %s\n", strings.Join(m.Participants, ", "))
	}
	if len(m.Tags) > 0 {
		fmt.Fprintf(b, "- **Tags**: %s\n", strings.Join(m.Tags, ", "))
	}
	b.WriteString("\n")
}

func writeTranscript(b *strings.Builder, t *meeting.Transcript) {
	b.WriteString("## Transcript\n\n")
	for _, seg := range t.Segments {
		if seg.Text == "" {
			continue
		}
		if seg.Speaker != "" {
			fmt.Fprintf(b, "**%s**: %s\n\n", seg.Speaker, seg.Text)
		} else {
			fmt.Fprintf(b, "%s\n\n", seg.Text)
		}
	}
}
