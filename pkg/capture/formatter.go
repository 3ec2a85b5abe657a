package capture

import (
	"fmt"
	"strings"
	"time"
)

const filenameLayout = "2006-01-02-150405"

// GenerateFilename returns the timestamped note filename for a capture,
// e.g. "2026-08-01-120000 Capture.md".
func GenerateFilename(at time.Time) string {
	return at.Format(filenameLayout) + " Capture.md"
}

// Note is a capture ready to be formatted as markdown.
type Note struct {
	// Content is the captured text.
	Content string

	// CapturedAt is when the capture was received.
	CapturedAt time.Time

	// ForwardedFrom names the original sender for forwarded messages.
	// Empty for direct captures.
	ForwardedFrom string
}

// FormatNote renders a capture as a markdown note with a tag header and
// capture metadata above a separator, content below.
func FormatNote(note Note) string {
	var b strings.Builder

	b.WriteString("#inbox #capture\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "**Captured**: %s\n", note.CapturedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("**Source**: Chat\n")
	if note.ForwardedFrom != "" {
		fmt.Fprintf(&b, "**Forwarded from**: %s\n", note.ForwardedFrom)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(note.Content)
	b.WriteString("\n")

	return b.String()
}

// Preview returns the first n characters of content with an ellipsis when
// truncated, for capture-log listings.
func Preview(content string, n int) string {
	content = strings.TrimSpace(content)
	runes := []rune(content)
	if len(runes) <= n {
		return content
	}
	return string(runes[:n]) + "..."
}
