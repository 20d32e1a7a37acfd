// Package aggregate folds defect records into per-run, per-suite, per-plan
// and per-category counts in a single pass.
package aggregate

import "github.com/dkoosis/zdefects/pkg/defect"

// Index counts occurrences per key and remembers the order keys were first
// seen, so iteration is deterministic without sorting.
type Index struct {
	counts map[string]int
	order  []string
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{counts: make(map[string]int)}
}

// Inc adds n to key's count.
func (ix *Index) Inc(key string, n int) {
	if _, ok := ix.counts[key]; !ok {
		ix.order = append(ix.order, key)
	}
	ix.counts[key] += n
}

// Count returns key's count, or 0 if the key was never seen.
func (ix *Index) Count(key string) int { return ix.counts[key] }

// Len returns the number of distinct keys.
func (ix *Index) Len() int { return len(ix.order) }

// Keys returns the keys in first-seen order.
func (ix *Index) Keys() []string {
	return append([]string(nil), ix.order...)
}

// Sum returns the total of all counts.
func (ix *Index) Sum() int {
	total := 0
	for _, n := range ix.counts {
		total += n
	}
	return total
}

// Map returns a copy of the counts.
func (ix *Index) Map() map[string]int {
	m := make(map[string]int, len(ix.counts))
	for k, v := range ix.counts {
		m[k] = v
	}
	return m
}

// Entry is one key and its count.
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// Entries returns the index contents in first-seen order.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, 0, len(ix.order))
	for _, k := range ix.order {
		out = append(out, Entry{Key: k, Count: ix.counts[k]})
	}
	return out
}

// Aggregate holds every record in input order plus four grouping indices.
type Aggregate struct {
	Records    []defect.Record
	ByRun      *Index
	BySuite    *Index
	ByPlan     *Index
	ByCategory *Index
}

// New returns an empty aggregate.
func New() *Aggregate {
	return &Aggregate{
		ByRun:      NewIndex(),
		BySuite:    NewIndex(),
		ByPlan:     NewIndex(),
		ByCategory: NewIndex(),
	}
}

// Add appends r and updates all four indices. Records without a plan id are
// not counted in ByPlan.
func (a *Aggregate) Add(r defect.Record) {
	a.Records = append(a.Records, r)
	a.ByRun.Inc(r.RunID, 1)
	a.BySuite.Inc(r.Suite, 1)
	if r.PlanID != "" {
		a.ByPlan.Inc(r.PlanID, 1)
	}
	a.ByCategory.Inc(string(r.Category), 1)
}

// AddAll adds each record in order.
func (a *Aggregate) AddAll(records []defect.Record) {
	for _, r := range records {
		a.Add(r)
	}
}

// Merge appends other's records after a's, as if they had been added one by
// one.
func (a *Aggregate) Merge(other *Aggregate) {
	if other == nil {
		return
	}
	a.Records = append(a.Records, other.Records...)
	mergeIndex(a.ByRun, other.ByRun)
	mergeIndex(a.BySuite, other.BySuite)
	mergeIndex(a.ByPlan, other.ByPlan)
	mergeIndex(a.ByCategory, other.ByCategory)
}

func mergeIndex(dst, src *Index) {
	for _, k := range src.order {
		dst.Inc(k, src.counts[k])
	}
}

// Totals are the headline numbers of a report.
type Totals struct {
	Defects     int `json:"defects" yaml:"defects"`
	Runs        int `json:"runs_with_failures" yaml:"runs_with_failures"`
	Plans       int `json:"plans_affected" yaml:"plans_affected"`
	Suites      int `json:"suites" yaml:"suites"`
	ParseErrors int `json:"parse_errors" yaml:"parse_errors"`
}

// Totals returns the headline counts.
func (a *Aggregate) Totals() Totals {
	return Totals{
		Defects:     len(a.Records),
		Runs:        a.ByRun.Len(),
		Plans:       a.ByPlan.Len(),
		Suites:      a.BySuite.Len(),
		ParseErrors: a.ByCategory.Count(string(defect.CategoryParseError)),
	}
}
