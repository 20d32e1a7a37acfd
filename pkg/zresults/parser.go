package zresults

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dkoosis/zdefects/pkg/defect"
)

// Column names recognised in the header row.
const (
	ColResult     = "Result"
	ColDesignID   = "DesignId"
	ColPlanID     = "PlanId"
	ColStepID     = "StepId"
	ColStepInfo   = "StepInfo"
	ColActionType = "ActionType"
	ColActionName = "ActionName"
	ColInput      = "Input"
	ColOutput     = "Output"
	ColExpected   = "Expected"
	ColCritical   = "Critical"
	ColTime       = "Time"
	ColTimeTaken  = "TimeTaken"
)

const resultFail = "fail"

// ErrNoHeader is returned when a file has no header row.
var ErrNoHeader = errors.New("missing header row")

// ParseOptions bounds the copied free-text fields, in characters.
type ParseOptions struct {
	InputLimit    int
	OutputLimit   int
	ExpectedLimit int
}

// DefaultParseOptions returns the standard truncation limits.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		InputLimit:    200,
		OutputLimit:   500,
		ExpectedLimit: 100,
	}
}

// withDefaults fills unset (zero or negative) limits with the defaults.
func (o ParseOptions) withDefaults() ParseOptions {
	d := DefaultParseOptions()
	if o.InputLimit <= 0 {
		o.InputLimit = d.InputLimit
	}
	if o.OutputLimit <= 0 {
		o.OutputLimit = d.OutputLimit
	}
	if o.ExpectedLimit <= 0 {
		o.ExpectedLimit = d.ExpectedLimit
	}
	return o
}

// FileResult is the outcome of parsing one file. When Err is set, Records
// still holds a ParseError record so the file shows up in the aggregate.
type FileResult struct {
	File    File
	Records []defect.Record
	Err     error
}

// ParseFile parses one result file. It never returns an error: read and
// header failures become a single ParseError record, and a malformed row
// stops the file with the records read so far plus a ParseError record.
func ParseFile(f File, opts ParseOptions) FileResult {
	res := FileResult{File: f}

	fh, err := os.Open(f.Path)
	if err != nil {
		res.Err = err
		res.Records = []defect.Record{defect.NewParseError(f.RunID, f.Suite, err)}
		return res
	}
	defer fh.Close()

	records, err := Parse(fh, f.RunID, f.Suite, opts)
	res.Records = records
	if err != nil {
		res.Err = err
		res.Records = append(res.Records, defect.NewParseError(f.RunID, f.Suite, err))
	}
	return res
}

// Parse reads CSV rows from r and returns one record per failing row. On error
// the records gathered before the failure are returned alongside it.
func Parse(r io.Reader, runID, suite string, opts ParseOptions) ([]defect.Record, error) {
	opts = opts.withDefaults()

	// Invalid UTF-8 becomes U+FFFD and a leading BOM is dropped.
	decoded := transform.NewReader(r, unicode.UTF8BOM.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexHeader(header)
	if len(cols) == 0 {
		return nil, ErrNoHeader
	}

	fold := cases.Fold()
	var records []defect.Record
	for n := 1; ; n++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return records, fmt.Errorf("read row %d: %w", n, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		if fold.String(strings.TrimSpace(get(ColResult))) != resultFail {
			continue
		}

		output := get(ColOutput)
		actionType := get(ColActionType)
		expected := get(ColExpected)
		records = append(records, defect.Record{
			RunID:      runID,
			Suite:      suite,
			Row:        n,
			DesignID:   get(ColDesignID),
			PlanID:     get(ColPlanID),
			StepID:     get(ColStepID),
			StepInfo:   get(ColStepInfo),
			ActionType: actionType,
			ActionName: get(ColActionName),
			Input:      defect.Truncate(get(ColInput), opts.InputLimit),
			Output:     defect.Truncate(output, opts.OutputLimit),
			Expected:   defect.Truncate(expected, opts.ExpectedLimit),
			Critical:   get(ColCritical),
			Time:       get(ColTime),
			TimeTaken:  get(ColTimeTaken),
			Category:   defect.Classify(output, actionType, expected),
		})
	}
	return records, nil
}

// indexHeader maps column name to position. Blank names are ignored and the
// last occurrence of a duplicate wins.
func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		cols[name] = i
	}
	return cols
}
