package mapper

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/zdefects/pkg/aggregate"
	"github.com/dkoosis/zdefects/pkg/defect"
	"github.com/dkoosis/zdefects/pkg/pattern"
)

func names(lb *pattern.Leaderboard) []string {
	out := make([]string, len(lb.Items))
	for i, it := range lb.Items {
		out[i] = it.Name
	}
	return out
}

func TestCategories_PriorityThenAlphabetical(t *testing.T) {
	ix := aggregate.NewIndex()
	ix.Inc("Zeta Custom", 1)
	ix.Inc(string(defect.CategoryOther), 4)
	ix.Inc(string(defect.CategoryUnknown), 2)
	ix.Inc(string(defect.CategoryAPI404), 1)
	ix.Inc(string(defect.CategoryParseError), 1)
	ix.Inc("Alpha Custom", 1)
	ix.Inc(string(defect.CategoryUIWait), 0)

	lb := Categories(ix)
	assert.Equal(t, []string{
		string(defect.CategoryAPI404),
		string(defect.CategoryOther),
		string(defect.CategoryParseError),
		"Alpha Custom",
		string(defect.CategoryUnknown),
		"Zeta Custom",
	}, names(lb))
	assert.Equal(t, "api", lb.Items[0].Slug)
	assert.Equal(t, 1, lb.Items[0].Rank)
	assert.Equal(t, 6, lb.TotalCount)
}

func TestByCount_DescendingWithStableTies(t *testing.T) {
	ix := aggregate.NewIndex()
	ix.Inc("b", 1)
	ix.Inc("a", 3)
	ix.Inc("c", 1)
	ix.Inc("d", 2)

	lb := byCount("x", pattern.DimensionSuite, ix, 0)
	assert.Equal(t, []string{"a", "d", "b", "c"}, names(lb))
	assert.Equal(t, []int{1, 2, 3, 4}, []int{lb.Items[0].Rank, lb.Items[1].Rank, lb.Items[2].Rank, lb.Items[3].Rank})
}

func TestFromAggregate_PlansLimitedToTop30(t *testing.T) {
	agg := aggregate.New()
	for i := range 40 {
		for range i + 1 {
			agg.Add(defect.Record{RunID: "r", Suite: "s", PlanID: fmt.Sprintf("P%02d", i), Category: defect.CategoryOther})
		}
	}

	patterns := FromAggregate(agg, Options{})
	require.Len(t, patterns, 6)
	plans, ok := patterns[4].(*pattern.Leaderboard)
	require.True(t, ok)
	assert.Equal(t, pattern.DimensionPlan, plans.Dimension)
	require.Len(t, plans.Items, 30)
	assert.Equal(t, 40, plans.TotalCount)
	assert.Equal(t, "P39", plans.Items[0].Name)
	assert.Equal(t, 40, plans.Items[0].Count)
	assert.Equal(t, "P10", plans.Items[29].Name)
}

func TestFromAggregate_Summary(t *testing.T) {
	agg := aggregate.New()
	agg.Add(defect.Record{RunID: "RunA/z", Suite: "S1", PlanID: "P1", Output: "404 not found", Category: defect.CategoryAPI404})

	s, ok := FromAggregate(agg, Options{Title: "T"})[0].(*pattern.Summary)
	require.True(t, ok)
	assert.Equal(t, "T", s.Label)
	assert.Equal(t, []pattern.SummaryItem{
		{Label: "Total Defects", Value: 1, Kind: "error"},
		{Label: "Runs with Failures", Value: 1, Kind: "info"},
		{Label: "Plans Affected", Value: 1, Kind: "info"},
	}, s.Metrics)
}

func TestSummary_ReportsUnreadableFiles(t *testing.T) {
	agg := aggregate.New()
	agg.Add(defect.Record{RunID: "r", Suite: "s", Category: defect.CategoryParseError})
	s := Summary(agg, "x")
	require.Len(t, s.Metrics, 4)
	assert.Equal(t, "Unreadable Files", s.Metrics[3].Label)
	assert.Equal(t, "warning", s.Metrics[3].Kind)
}

func TestTable_ShortensOutputForDisplay(t *testing.T) {
	long := strings.Repeat("o", 500)
	records := []defect.Record{
		{RunID: "r", Suite: "s", Output: long, Category: defect.CategoryOther},
		{RunID: "r", Suite: "s", Output: strings.Repeat("k", 80), Category: defect.CategoryOther},
	}

	tbl := Table(records, 80)
	require.Len(t, tbl.Rows, 2)

	row := tbl.Rows[0]
	assert.Equal(t, strings.Repeat("o", 80)+Ellipsis, row.Output)
	assert.Equal(t, long, row.FullOutput)
	assert.True(t, row.Truncated)
	assert.Equal(t, records[0].Fingerprint(), row.ID)

	assert.Equal(t, strings.Repeat("k", 80), tbl.Rows[1].Output)
	assert.False(t, tbl.Rows[1].Truncated)
}

func TestShorten_RuneSafe(t *testing.T) {
	got, cut := Shorten(strings.Repeat("é", 100), 80)
	assert.True(t, cut)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 81, utf8.RuneCountInString(got))
}
