package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/zdefects/pkg/pattern"
)

// detailLines caps how many lines of a defect's output are shown.
const detailLines = 3

// Text renders patterns as terse plain text for logs and pipes.
// Zero ANSI codes, SCOPE line first, order taken from the patterns.
type Text struct{}

// NewText creates a plain-text renderer.
func NewText() *Text {
	return &Text{}
}

// Render formats all patterns as plain text.
func (x *Text) Render(patterns []pattern.Pattern) (string, error) {
	c := collect(patterns)
	var sb strings.Builder

	if c.summary != nil {
		sb.WriteString("SCOPE: " + scope(c.summary) + "\n")
	}

	for _, lb := range c.leaderboards {
		if len(lb.Items) == 0 {
			continue
		}
		sb.WriteString("\n## " + lb.Label)
		if lb.TotalCount > len(lb.Items) {
			sb.WriteString(fmt.Sprintf(" (top %d of %d)", len(lb.Items), lb.TotalCount))
		}
		sb.WriteString("\n")
		for _, item := range lb.Items {
			sb.WriteString(fmt.Sprintf("  %d %s\n", item.Count, item.Name))
		}
	}

	if c.table != nil && len(c.table.Rows) > 0 {
		sb.WriteString("\n## " + c.table.Label + "\n")
		for _, r := range c.table.Rows {
			loc := r.RunID + "/" + r.Suite
			if r.PlanID != "" {
				loc += " " + r.PlanID
			}
			if r.StepID != "" {
				loc += ":" + r.StepID
			}
			sb.WriteString(fmt.Sprintf("  FAIL %s [%s]\n", loc, r.Category))
			writeDetails(&sb, r.FullOutput)
		}
	}
	return sb.String(), nil
}

func scope(s *pattern.Summary) string {
	parts := make([]string, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		parts = append(parts, fmt.Sprintf("%d %s", m.Value, strings.ToLower(m.Label)))
	}
	return strings.Join(parts, ", ")
}

func writeDetails(sb *strings.Builder, details string) {
	if strings.TrimSpace(details) == "" {
		return
	}
	lines := strings.Split(details, "\n")
	for _, line := range lines[:min(len(lines), detailLines)] {
		sb.WriteString("    " + line + "\n")
	}
	if len(lines) > detailLines {
		sb.WriteString(fmt.Sprintf("    ... (%d more lines)\n", len(lines)-detailLines))
	}
}
