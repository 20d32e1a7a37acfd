package pattern

// SummaryKind identifies what a summary describes.
type SummaryKind string

const (
	SummaryKindDefects SummaryKind = "defects"
)

// Summary represents high-level metrics and counts.
type Summary struct {
	Label   string        `json:"label" yaml:"label"`
	Kind    SummaryKind   `json:"kind" yaml:"kind"`
	Metrics []SummaryItem `json:"metrics" yaml:"metrics"`
}

// SummaryItem is a single metric in a summary.
type SummaryItem struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
	Kind  string `json:"kind" yaml:"kind"` // "error", "warning", "info" or "success"; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
