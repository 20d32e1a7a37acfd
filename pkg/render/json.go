package render

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/zdefects/pkg/pattern"
)

// ExportVersion is bumped when the export document shape changes.
const ExportVersion = "1.0"

// exportDoc is the top-level structure of the JSON and YAML exports.
type exportDoc struct {
	Version  string          `json:"version" yaml:"version"`
	Patterns []exportPattern `json:"patterns" yaml:"patterns"`
}

type exportPattern struct {
	Type string `json:"type" yaml:"type"`
	Data any    `json:"data" yaml:"data"`
}

func newExportDoc(patterns []pattern.Pattern) exportDoc {
	doc := exportDoc{
		Version:  ExportVersion,
		Patterns: make([]exportPattern, 0, len(patterns)),
	}
	for _, p := range patterns {
		doc.Patterns = append(doc.Patterns, exportPattern{Type: string(p.Type()), Data: p})
	}
	return doc
}

// JSON renders patterns as structured JSON for automation.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

// Render formats all patterns as indented JSON.
func (j *JSON) Render(patterns []pattern.Pattern) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(newExportDoc(patterns)); err != nil {
		return "", fmt.Errorf("encode json: %w", err)
	}
	return buf.String(), nil
}

// YAML renders patterns as a YAML document.
type YAML struct{}

// NewYAML creates a YAML renderer.
func NewYAML() *YAML {
	return &YAML{}
}

// Render formats all patterns as YAML.
func (y *YAML) Render(patterns []pattern.Pattern) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newExportDoc(patterns)); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode yaml: %w", err)
	}
	return buf.String(), nil
}
