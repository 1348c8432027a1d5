package insight

import (
	"fmt"
	"strings"
)

// Markdown lays out a Result as the insight snapshot card: summary, themes, signal,
// reflection prompts and, when present, the risk note.
func Markdown(r Result) string {
	var b strings.Builder

	b.WriteString("# Insight Snapshot\n\n")
	b.WriteString("## Summary\n\n")
	b.WriteString(strings.TrimSpace(r.Summary))
	b.WriteString("\n\n")

	b.WriteString("## Key Themes\n\n")
	for _, t := range r.Themes {
		fmt.Fprintf(&b, "- %s\n", strings.TrimSpace(t))
	}
	b.WriteString("\n")

	b.WriteString("## Signal\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", strings.TrimSpace(r.Signal))

	b.WriteString("## Reflection Prompts\n\n")
	for i, p := range r.Prompts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, strings.TrimSpace(p))
	}

	if r.HasRisk() {
		b.WriteString("\n## Potential Risk Note\n\n")
		fmt.Fprintf(&b, "> %s\n", strings.TrimSpace(r.Risk))
	}
	return b.String()
}
