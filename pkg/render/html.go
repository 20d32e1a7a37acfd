package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/dkoosis/zdefects/pkg/pattern"
)

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html.tmpl"))

// HTML renders patterns as a self-contained dashboard page. All text passes
// through html/template escaping.
type HTML struct {
	Subtitle string
}

// NewHTML creates an HTML renderer.
func NewHTML() *HTML {
	return &HTML{Subtitle: "Aggregated failures from all zResults.csv runs"}
}

type boardView struct {
	*pattern.Leaderboard
	Heading string
}

type dashboardData struct {
	Title      string
	Subtitle   string
	Metrics    []pattern.SummaryItem
	Categories boardView
	Suites     boardView
	Runs       boardView
	Plans      boardView
	Table      *pattern.DefectTable
}

// Render formats all patterns as one HTML document. Output is a pure function
// of the patterns.
func (h *HTML) Render(patterns []pattern.Pattern) (string, error) {
	c := collect(patterns)
	data := dashboardData{
		Title:      "Defects Dashboard",
		Subtitle:   h.Subtitle,
		Categories: boardView{c.leaderboard(pattern.DimensionCategory), "Type"},
		Suites:     boardView{c.leaderboard(pattern.DimensionSuite), "Suite"},
		Runs:       boardView{c.leaderboard(pattern.DimensionRun), "Run"},
		Plans:      boardView{c.leaderboard(pattern.DimensionPlan), "Plan"},
		Table:      c.table,
	}
	if c.summary != nil {
		if c.summary.Label != "" {
			data.Title = c.summary.Label
		}
		data.Metrics = c.summary.Metrics
	}
	if data.Table == nil {
		data.Table = &pattern.DefectTable{Label: "All Defects"}
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return buf.String(), nil
}
