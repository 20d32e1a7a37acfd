// Package mapper converts aggregated defects into visualization patterns.
package mapper

import (
	"sort"

	"github.com/dkoosis/zdefects/pkg/aggregate"
	"github.com/dkoosis/zdefects/pkg/defect"
	"github.com/dkoosis/zdefects/pkg/pattern"
)

// Ellipsis marks output shortened for display.
const Ellipsis = "…"

// Options controls how much of the aggregate reaches the report.
type Options struct {
	Title        string
	TopPlans     int // plan leaderboard length; <=0 means 30
	DisplayWidth int // output characters shown in the defect table; <=0 means 80
}

// DefaultOptions returns the standard report options.
func DefaultOptions() Options {
	return Options{Title: "Defects Dashboard", TopPlans: 30, DisplayWidth: 80}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.TopPlans <= 0 {
		o.TopPlans = d.TopPlans
	}
	if o.DisplayWidth <= 0 {
		o.DisplayWidth = d.DisplayWidth
	}
	return o
}

// FromAggregate builds the report: Summary, then category, suite, run and
// plan leaderboards, then the full defect table.
func FromAggregate(agg *aggregate.Aggregate, opts Options) []pattern.Pattern {
	opts = opts.withDefaults()
	return []pattern.Pattern{
		Summary(agg, opts.Title),
		Categories(agg.ByCategory),
		byCount("Defects by Suite", pattern.DimensionSuite, agg.BySuite, 0),
		byCount("Defects by Run", pattern.DimensionRun, agg.ByRun, 0),
		byCount("Top Plans", pattern.DimensionPlan, agg.ByPlan, opts.TopPlans),
		Table(agg.Records, opts.DisplayWidth),
	}
}

// Summary returns the headline counts.
func Summary(agg *aggregate.Aggregate, title string) *pattern.Summary {
	t := agg.Totals()
	defectsKind := "success"
	if t.Defects > 0 {
		defectsKind = "error"
	}
	metrics := []pattern.SummaryItem{
		{Label: "Total Defects", Value: t.Defects, Kind: defectsKind},
		{Label: "Runs with Failures", Value: t.Runs, Kind: "info"},
		{Label: "Plans Affected", Value: t.Plans, Kind: "info"},
	}
	if t.ParseErrors > 0 {
		metrics = append(metrics, pattern.SummaryItem{Label: "Unreadable Files", Value: t.ParseErrors, Kind: "warning"})
	}
	return &pattern.Summary{Label: title, Kind: pattern.SummaryKindDefects, Metrics: metrics}
}

// Categories orders categories by defect.PriorityOrder, then alphabetically
// for anything not in it. Zero counts are omitted.
func Categories(ix *aggregate.Index) *pattern.Leaderboard {
	rank := make(map[string]int, len(defect.PriorityOrder))
	for i, c := range defect.PriorityOrder {
		rank[string(c)] = i
	}
	keys := ix.Keys()
	sort.SliceStable(keys, func(i, j int) bool {
		ri, iok := rank[keys[i]]
		rj, jok := rank[keys[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return keys[i] < keys[j]
		}
	})

	lb := &pattern.Leaderboard{Label: "Defects by Category", Dimension: pattern.DimensionCategory}
	for _, k := range keys {
		n := ix.Count(k)
		if n == 0 {
			continue
		}
		lb.Items = append(lb.Items, pattern.LeaderboardItem{
			Name:  k,
			Count: n,
			Rank:  len(lb.Items) + 1,
			Slug:  defect.Category(k).Slug(),
		})
	}
	lb.TotalCount = len(lb.Items)
	return lb
}

// byCount ranks keys by descending count, ties kept in first-seen order, and
// keeps at most top entries when top > 0.
func byCount(label string, dim pattern.Dimension, ix *aggregate.Index, top int) *pattern.Leaderboard {
	entries := ix.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	lb := &pattern.Leaderboard{
		Label:      label,
		Dimension:  dim,
		TotalCount: len(entries),
		ShowRank:   true,
	}
	if top > 0 && len(entries) > top {
		entries = entries[:top]
	}
	for i, e := range entries {
		lb.Items = append(lb.Items, pattern.LeaderboardItem{Name: e.Key, Count: e.Count, Rank: i + 1})
	}
	return lb
}

// Table returns every record in order, with output shortened to width
// characters for display.
func Table(records []defect.Record, width int) *pattern.DefectTable {
	t := &pattern.DefectTable{Label: "All Defects", Rows: make([]pattern.DefectRow, 0, len(records))}
	for _, r := range records {
		display, cut := Shorten(r.Output, width)
		t.Rows = append(t.Rows, pattern.DefectRow{
			ID:         r.Fingerprint(),
			RunID:      r.RunID,
			Suite:      r.Suite,
			PlanID:     r.PlanID,
			StepID:     r.StepID,
			StepInfo:   r.StepInfo,
			ActionName: r.ActionName,
			Category:   string(r.Category),
			Slug:       r.Category.Slug(),
			Output:     display,
			FullOutput: r.Output,
			Truncated:  cut,
			Expected:   r.Expected,
		})
	}
	return t
}

// Shorten cuts s to width characters and appends Ellipsis when anything was
// removed.
func Shorten(s string, width int) (string, bool) {
	short := defect.Truncate(s, width)
	if len(short) == len(s) {
		return s, false
	}
	return short + Ellipsis, true
}
