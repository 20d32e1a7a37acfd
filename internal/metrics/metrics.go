// Package metrics exports defect totals as Prometheus gauges in the
// node_exporter textfile format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dkoosis/zdefects/pkg/aggregate"
)

const namespace = "zdefects"

// Registry returns a fresh registry holding gauges for agg.
func Registry(agg *aggregate.Aggregate) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	t := agg.Totals()

	gauge := func(name, help string, v int) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
		g.Set(float64(v))
		reg.MustRegister(g)
	}
	gauge("defects_total", "Failing steps found in the last scan.", t.Defects)
	gauge("runs_with_failures", "Runs with at least one failing step.", t.Runs)
	gauge("plans_affected", "Distinct plan ids with at least one failing step.", t.Plans)
	gauge("parse_errors", "Result files that could not be read.", t.ParseErrors)

	byCategory := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "defects_by_category",
		Help:      "Failing steps per defect category.",
	}, []string{"category"})
	for _, e := range agg.ByCategory.Entries() {
		byCategory.WithLabelValues(e.Key).Set(float64(e.Count))
	}
	reg.MustRegister(byCategory)
	return reg
}

// WriteTextfile writes the gauges for agg to path, creating its directory.
// The write is atomic.
func WriteTextfile(path string, agg *aggregate.Aggregate) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, Registry(agg)); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
