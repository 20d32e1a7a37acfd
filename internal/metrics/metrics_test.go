package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/zdefects/pkg/aggregate"
	"github.com/dkoosis/zdefects/pkg/defect"
)

func TestWriteTextfile(t *testing.T) {
	agg := aggregate.New()
	agg.AddAll([]defect.Record{
		{RunID: "RunA/z", Suite: "S1", PlanID: "P1", Category: defect.CategoryAPI404},
		{RunID: "RunA/z", Suite: "S1", PlanID: "P1", Category: defect.CategoryAPI404},
		{RunID: "RunB/z", Suite: "S2", Category: defect.CategoryParseError},
	})

	path := filepath.Join(t.TempDir(), "textfile", "zdefects.prom")
	require.NoError(t, WriteTextfile(path, agg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, "# TYPE zdefects_defects_total gauge\nzdefects_defects_total 3\n")
	assert.Contains(t, out, "zdefects_runs_with_failures 2\n")
	assert.Contains(t, out, "zdefects_plans_affected 1\n")
	assert.Contains(t, out, "zdefects_parse_errors 1\n")
	assert.Contains(t, out, `zdefects_defects_by_category{category="API 404 Not Found"} 2`)
	assert.Contains(t, out, `zdefects_defects_by_category{category="ParseError"} 1`)
}

func TestRegistry_EmptyAggregate(t *testing.T) {
	families, err := Registry(aggregate.New()).Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	// A GaugeVec with no children is not exported.
	assert.ElementsMatch(t, []string{
		"zdefects_defects_total",
		"zdefects_parse_errors",
		"zdefects_plans_affected",
		"zdefects_runs_with_failures",
	}, names)
}
