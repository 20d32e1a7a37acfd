package pattern

// Dimension names the grouping a leaderboard ranks.
type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionSuite    Dimension = "suite"
	DimensionRun      Dimension = "run"
	DimensionPlan     Dimension = "plan"
)

// Leaderboard represents a ranked list of keys by defect count.
type Leaderboard struct {
	Label      string            `json:"label" yaml:"label"`
	Dimension  Dimension         `json:"dimension" yaml:"dimension"`
	Items      []LeaderboardItem `json:"items" yaml:"items"`
	TotalCount int               `json:"total_count" yaml:"total_count"` // distinct keys before the top-N cut
	ShowRank   bool              `json:"-" yaml:"-"`
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
	Rank  int    `json:"rank" yaml:"rank"`
	Slug  string `json:"slug,omitempty" yaml:"slug,omitempty"` // styling hint, categories only
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
