package defect

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		expected string
		want     Category
	}{
		{name: "empty output", output: "", want: CategoryUnknown},
		{name: "whitespace output", output: "  \t\n", want: CategoryUnknown},
		{name: "blank output wins over expected 404", output: " ", expected: "404", want: CategoryUnknown},
		{name: "404 in output", output: "GET /pets returned 404", want: CategoryAPI404},
		{name: "404 only in expected", output: "status mismatch", expected: "status 404", want: CategoryAPI404},
		{name: "404 before wait marker", output: "404 error, xWaitFor timeout", want: CategoryAPI404},
		{name: "404 inside longer number", output: "order 14045 missing", want: CategoryOther},
		{name: "404 in expected inside longer number", output: "mismatch", expected: "14045", want: CategoryOther},
		{name: "415", output: "HTTP 415: unsupported", want: CategoryAPI415},
		{name: "500", output: "server said 500.", want: CategoryAPI500},
		{name: "5000 is not 500", output: "took 5000ms", want: CategoryOther},
		{name: "415 before 500", output: "415 then 500", want: CategoryAPI415},
		{name: "wait marker", output: "xWaitFor: #login not visible", want: CategoryUIWait},
		{name: "wait phrase any case", output: "Timed out: WAIT FOR element", want: CategoryUIWait},
		{name: "click marker", output: "xClick failed on button", want: CategoryUIElement},
		{name: "locator any case", output: "Locator resolved to 0 elements", want: CategoryUIElement},
		{name: "wait before locator", output: "wait for locator #x", want: CategoryUIWait},
		{name: "compare json marker", output: "xCompareJson mismatch", want: CategoryJSONCompare},
		{name: "key path", output: "Key path $.id differs", want: CategoryJSONCompare},
		{name: "key path is case sensitive", output: "key path differs", want: CategoryOther},
		{name: "validate json marker", output: "xValidateJson: bad body", want: CategoryJSONValidate},
		{name: "expected capitalised", output: "Expected 3 got 4", want: CategoryExpectedVsActual},
		{name: "expected lowercase", output: "value was not as expected", want: CategoryExpectedVsActual},
		{name: "error in", output: "Error in xSendKeys", want: CategoryActionError},
		{name: "error in is case sensitive", output: "error in step", want: CategoryOther},
		{name: "fallback", output: "something odd happened", want: CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.output, "xAny", tt.expected)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassify_IgnoresActionType(t *testing.T) {
	a := Classify("Expected 1", "xClick", "")
	b := Classify("Expected 1", "", "")
	assert.Equal(t, a, b)
}

func TestRules_Order(t *testing.T) {
	got := Rules()
	require.Len(t, got, 11)
	assert.Equal(t, "blank-output", got[0])
	assert.Equal(t, "status-404", got[1])
	assert.Equal(t, "fallback", got[len(got)-1])
}

func TestCategorySlug(t *testing.T) {
	assert.Equal(t, "api", CategoryAPI404.Slug())
	assert.Equal(t, "ui", CategoryUIWait.Slug())
	assert.Equal(t, "validation", CategoryJSONCompare.Slug())
	assert.Equal(t, "action", CategoryActionError.Slug())
	assert.Equal(t, "other", CategoryOther.Slug())
	assert.Equal(t, "parse", CategoryParseError.Slug())
	assert.Equal(t, "unknown", CategoryUnknown.Slug())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "abc", Truncate("abc", 3))
	assert.Equal(t, "ab", Truncate("ab", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "日本", Truncate("日本語", 2))
	assert.Equal(t, strings.Repeat("x", 200), Truncate(strings.Repeat("x", 250), 200))
}

func TestNewParseError(t *testing.T) {
	r := NewParseError("Feb/z", "API_Petstore", errors.New("boom"))
	assert.Equal(t, CategoryParseError, r.Category)
	assert.Equal(t, "Error reading file: boom", r.StepInfo)
	assert.Equal(t, "boom", r.Output)
	assert.Equal(t, "Feb/z", r.RunID)
	assert.Equal(t, "API_Petstore", r.Suite)
	assert.Empty(t, r.PlanID)
	assert.Empty(t, r.StepID)
}

func TestFingerprint(t *testing.T) {
	a := Record{RunID: "r", Suite: "s", Row: 1, PlanID: "P1", StepID: "1", Output: "x"}
	b := Record{RunID: "r", Suite: "s", Row: 1, PlanID: "P1", StepID: "1", Output: "y"}
	c := Record{RunID: "r", Suite: "s", Row: 1, PlanID: "P1", StepID: "2"}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Len(t, a.Fingerprint(), 36)
}

func TestFingerprint_RowsWithoutIDsStayDistinct(t *testing.T) {
	first := Record{RunID: "r", Suite: "s", Row: 1, Output: "boom"}
	second := Record{RunID: "r", Suite: "s", Row: 2, Output: "boom"}

	assert.NotEqual(t, first.Fingerprint(), second.Fingerprint())
}
