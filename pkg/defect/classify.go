package defect

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

// Step markers emitted by the test engine when a named action fails.
const (
	markerWaitFor      = "xWaitFor"
	markerClick        = "xClick"
	markerCompareJSON  = "xCompareJson"
	markerValidateJSON = "xValidateJson"
)

var (
	status404 = regexp.MustCompile(`\b404\b`)
	status415 = regexp.MustCompile(`\b415\b`)
	status500 = regexp.MustCompile(`\b500\b`)
)

// input is the normalised text a rule inspects.
type input struct {
	output   string // trimmed
	folded   string // case-folded output
	expected string
}

type rule struct {
	name     string
	match    func(in input) bool
	category Category
}

// rules is evaluated top to bottom and the first match wins. Status codes come
// before UI markers so "404 ... xWaitFor" is an API failure.
var rules = []rule{
	{"blank-output", func(in input) bool { return in.output == "" }, CategoryUnknown},
	{"status-404", func(in input) bool {
		return status404.MatchString(in.output) || status404.MatchString(in.expected)
	}, CategoryAPI404},
	{"status-415", func(in input) bool { return status415.MatchString(in.output) }, CategoryAPI415},
	{"status-500", func(in input) bool { return status500.MatchString(in.output) }, CategoryAPI500},
	{"ui-wait", func(in input) bool {
		return strings.Contains(in.output, markerWaitFor) || strings.Contains(in.folded, "wait for")
	}, CategoryUIWait},
	{"ui-element", func(in input) bool {
		return strings.Contains(in.output, markerClick) || strings.Contains(in.folded, "locator")
	}, CategoryUIElement},
	{"json-compare", func(in input) bool {
		return strings.Contains(in.output, markerCompareJSON) || strings.Contains(in.output, "Key path")
	}, CategoryJSONCompare},
	{"json-validate", func(in input) bool { return strings.Contains(in.output, markerValidateJSON) }, CategoryJSONValidate},
	{"expected-vs-actual", func(in input) bool { return strings.Contains(in.folded, "expected") }, CategoryExpectedVsActual},
	{"action-error", func(in input) bool { return strings.Contains(in.output, "Error in") }, CategoryActionError},
}

// Classify maps a failing step's output, action type and expected text to
// exactly one category. It is a pure function and never fails.
//
// actionType is accepted for parity with the row shape; no rule reads it yet.
func Classify(output, actionType, expected string) Category {
	_ = actionType
	out := strings.TrimSpace(output)
	in := input{
		output:   out,
		folded:   cases.Fold().String(out),
		expected: expected,
	}
	for _, r := range rules {
		if r.match(in) {
			return r.category
		}
	}
	return CategoryOther
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		names = append(names, r.name)
	}
	return append(names, "fallback")
}
