// Package defect defines failure records read from zResults files and the
// rule chain that assigns each one a defect category.
package defect

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Category is a fixed label describing the inferred nature of a failure.
type Category string

const (
	CategoryUnknown          Category = "Unknown"
	CategoryAPI404           Category = "API 404 Not Found"
	CategoryAPI415           Category = "API 415 Unsupported Media"
	CategoryAPI500           Category = "API 500 Server Error"
	CategoryUIWait           Category = "UI Wait / Locator"
	CategoryUIElement        Category = "UI Element / Locator"
	CategoryJSONCompare      Category = "Validation (JSON compare)"
	CategoryJSONValidate     Category = "Validation (JSON)"
	CategoryExpectedVsActual Category = "Validation (expected vs actual)"
	CategoryActionError      Category = "Action Error"
	CategoryOther            Category = "Other"
	CategoryParseError       Category = "ParseError"
)

// PriorityOrder is the display order for the category table. Categories not
// listed here (Unknown, or anything added later) sort alphabetically after it.
var PriorityOrder = []Category{
	CategoryAPI404,
	CategoryAPI415,
	CategoryAPI500,
	CategoryUIWait,
	CategoryUIElement,
	CategoryJSONCompare,
	CategoryJSONValidate,
	CategoryExpectedVsActual,
	CategoryActionError,
	CategoryOther,
	CategoryParseError,
}

// Slug returns a short lowercase token for styling, e.g. "api" or "validation".
func (c Category) Slug() string {
	if c == CategoryParseError {
		return "parse"
	}
	first, _, _ := strings.Cut(string(c), " ")
	return strings.ToLower(first)
}

// Record is one failing test step.
type Record struct {
	RunID      string   `json:"run_id" yaml:"run_id"`
	Suite      string   `json:"suite" yaml:"suite"`
	Row        int      `json:"row,omitempty" yaml:"row,omitempty"` // 1-based data row; 0 for ParseError
	DesignID   string   `json:"design_id,omitempty" yaml:"design_id,omitempty"`
	PlanID     string   `json:"plan_id,omitempty" yaml:"plan_id,omitempty"`
	StepID     string   `json:"step_id,omitempty" yaml:"step_id,omitempty"`
	StepInfo   string   `json:"step_info,omitempty" yaml:"step_info,omitempty"`
	ActionType string   `json:"action_type,omitempty" yaml:"action_type,omitempty"`
	ActionName string   `json:"action_name,omitempty" yaml:"action_name,omitempty"`
	Input      string   `json:"input,omitempty" yaml:"input,omitempty"`
	Output     string   `json:"output,omitempty" yaml:"output,omitempty"`
	Expected   string   `json:"expected,omitempty" yaml:"expected,omitempty"`
	Critical   string   `json:"critical,omitempty" yaml:"critical,omitempty"`
	Time       string   `json:"time,omitempty" yaml:"time,omitempty"`
	TimeTaken  string   `json:"time_taken,omitempty" yaml:"time_taken,omitempty"`
	Category   Category `json:"category" yaml:"category"`
}

// fingerprintSpace namespaces record fingerprints so they never collide with
// other v5 UUIDs derived from the same strings.
var fingerprintSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("zdefects/record"))

// Fingerprint returns a stable identifier for the record. The file's run,
// suite and data row identify it; design, plan and step are folded in so the
// id changes when the row is rewritten for a different step.
func (r Record) Fingerprint() string {
	key := strings.Join([]string{r.RunID, r.Suite, strconv.Itoa(r.Row), r.DesignID, r.PlanID, r.StepID}, "\x1f")
	return uuid.NewSHA1(fingerprintSpace, []byte(key)).String()
}

// NewParseError builds the synthetic record that stands in for a file that
// could not be read.
func NewParseError(runID, suite string, err error) Record {
	msg := err.Error()
	return Record{
		RunID:    runID,
		Suite:    suite,
		StepInfo: "Error reading file: " + msg,
		Output:   msg,
		Category: CategoryParseError,
	}
}

// Truncate returns s cut to at most n characters. It never splits a rune.
func Truncate(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
