package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/zdefects/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) (string, error) {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n"), nil
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.DefectTable:
		return t.renderDefectTable(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}
	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + strconv.Itoa(m.Value)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		maxName = max(maxName, runewidth.StringWidth(item.Name))
		maxMetric = max(maxMetric, len(strconv.Itoa(item.Count)))
	}
	// rank column, two gaps and the count
	limit := t.width - 2 - maxMetric - 2
	if l.ShowRank {
		limit -= 4
	}
	maxName = min(maxName, max(limit, 10), 50)

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		name := runewidth.Truncate(item.Name, maxName, "...")
		sb.WriteString(t.categoryStyle(item.Slug).Render(runewidth.FillRight(name, maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Warning.Render(padLeft(strconv.Itoa(item.Count), maxMetric)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderDefectTable(dt *pattern.DefectTable) string {
	if len(dt.Rows) == 0 {
		return ""
	}
	var sb strings.Builder
	if dt.Label != "" {
		sb.WriteString(t.theme.Bold.Render(fmt.Sprintf("%s (%d)", dt.Label, len(dt.Rows))))
		sb.WriteString("\n")
	}
	for _, r := range dt.Rows {
		sb.WriteString("  ")
		sb.WriteString(t.theme.Error.Render(t.theme.Icons.Fail + " "))
		where := r.RunID + " " + r.Suite
		if r.PlanID != "" {
			where += " " + r.PlanID
		}
		if r.StepID != "" {
			where += "#" + r.StepID
		}
		sb.WriteString(where)
		sb.WriteString("  ")
		sb.WriteString(t.categoryStyle(r.Slug).Render(r.Category))
		if r.Output != "" {
			out := runewidth.Truncate(strings.ReplaceAll(r.Output, "\n", " "), max(t.width-4, 10), "...")
			sb.WriteString("\n    ")
			sb.WriteString(t.theme.Muted.Render(out))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

// categoryStyle colours a category by its slug; other names use Primary.
func (t *Terminal) categoryStyle(slug string) lipgloss.Style {
	switch slug {
	case "api", "parse":
		return t.theme.Error
	case "ui", "validation":
		return t.theme.Warning
	case "action", "other", "unknown":
		return t.theme.Muted
	default:
		return t.theme.Primary
	}
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}
