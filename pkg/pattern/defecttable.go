package pattern

// DefectTable lists every defect in report order.
type DefectTable struct {
	Label string      `json:"label" yaml:"label"`
	Rows  []DefectRow `json:"rows" yaml:"rows"`
}

// DefectRow is one defect prepared for display.
type DefectRow struct {
	ID         string `json:"id" yaml:"id"`
	RunID      string `json:"run_id" yaml:"run_id"`
	Suite      string `json:"suite" yaml:"suite"`
	PlanID     string `json:"plan_id" yaml:"plan_id"`
	StepID     string `json:"step_id" yaml:"step_id"`
	StepInfo   string `json:"step_info" yaml:"step_info"`
	ActionName string `json:"action_name" yaml:"action_name"`
	Category   string `json:"category" yaml:"category"`
	Slug       string `json:"slug" yaml:"slug"`
	Output     string `json:"output" yaml:"output"`           // display form, possibly shortened
	FullOutput string `json:"full_output" yaml:"full_output"` // as stored on the record
	Truncated  bool   `json:"truncated" yaml:"truncated"`
	Expected   string `json:"expected" yaml:"expected"`
}

func (t *DefectTable) Type() PatternType { return PatternTypeDefectTable }
