package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/zdefects/internal/workspace"
	"github.com/dkoosis/zdefects/pkg/zresults"
)

// FileName is the config file looked up in the workspace root.
const FileName = ".zdefects.yaml"

// ErrInvalid marks a configuration the user must fix: a malformed file or an
// out-of-range value from any source.
var ErrInvalid = errors.New("invalid configuration")

// Constants for default values.
const (
	DefaultTitle        = "Defects Dashboard"
	DefaultTopPlans     = 30
	DefaultDisplayWidth = 80
	DefaultTheme        = "default"
	DefaultLogLevel     = "warn"
)

// Limits bounds the free-text fields copied from each row, in characters.
type Limits struct {
	Input    int `yaml:"input,omitempty"`
	Output   int `yaml:"output,omitempty"`
	Expected int `yaml:"expected,omitempty"`
}

// Exports names optional extra artifacts. Empty means not written.
type Exports struct {
	JSON    string `yaml:"json,omitempty"`
	YAML    string `yaml:"yaml,omitempty"`
	Metrics string `yaml:"metrics,omitempty"`
}

// Config is the fully resolved configuration for one invocation.
type Config struct {
	Root         string
	ConfigFile   string // empty when no file was read
	Suffix       string
	Output       string // absolute
	Title        string
	Workers      int
	TopPlans     int
	DisplayWidth int
	Limits       Limits
	SkipDirs     []string
	Theme        string
	NoColor      bool
	LogLevel     string
	Exports      Exports // absolute paths

	// Sources records where each overridable value came from:
	// "cli", "env", "file" or "default".
	Sources map[string]string
}

// Default returns the built-in configuration for root.
func Default(root string) *Config {
	p := zresults.DefaultParseOptions()
	return &Config{
		Root:         root,
		Suffix:       zresults.DefaultSuffix,
		Output:       workspace.DefaultOutput,
		Title:        DefaultTitle,
		TopPlans:     DefaultTopPlans,
		DisplayWidth: DefaultDisplayWidth,
		Limits:       Limits{Input: p.InputLimit, Output: p.OutputLimit, Expected: p.ExpectedLimit},
		SkipDirs:     append([]string(nil), zresults.DefaultSkipDirs...),
		Theme:        DefaultTheme,
		LogLevel:     DefaultLogLevel,
		Sources:      map[string]string{},
	}
}

// FileConfig is the on-disk shape of .zdefects.yaml. Pointer fields
// distinguish "absent" from a zero value.
type FileConfig struct {
	Suffix       string   `yaml:"suffix,omitempty"`
	Output       string   `yaml:"output,omitempty"`
	Title        string   `yaml:"title,omitempty"`
	Workers      *int     `yaml:"workers,omitempty"`
	TopPlans     int      `yaml:"top_plans,omitempty"`
	DisplayWidth int      `yaml:"display_width,omitempty"`
	Limits       Limits   `yaml:"limits,omitempty"`
	SkipDirs     []string `yaml:"skip_dirs,omitempty"`
	Theme        string   `yaml:"theme,omitempty"`
	NoColor      *bool    `yaml:"no_color,omitempty"`
	LogLevel     string   `yaml:"log_level,omitempty"`
	Exports      Exports  `yaml:"exports,omitempty"`
}

// LoadFile reads and validates a config file. A missing file returns
// (nil, nil) when optional is true.
func LoadFile(path string, optional bool) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := ValidateYAML(data); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("config %s: %w: %v", path, ErrInvalid, err)
	}
	return &fc, nil
}

// apply overlays the file's set values onto c.
func (fc *FileConfig) apply(c *Config) {
	set := func(key string) { c.Sources[key] = "file" }
	if fc.Suffix != "" {
		c.Suffix = fc.Suffix
		set("suffix")
	}
	if fc.Output != "" {
		c.Output = fc.Output
		set("output")
	}
	if fc.Title != "" {
		c.Title = fc.Title
		set("title")
	}
	if fc.Workers != nil {
		c.Workers = *fc.Workers
		set("workers")
	}
	if fc.TopPlans > 0 {
		c.TopPlans = fc.TopPlans
		set("top_plans")
	}
	if fc.DisplayWidth > 0 {
		c.DisplayWidth = fc.DisplayWidth
		set("display_width")
	}
	if fc.Limits.Input > 0 {
		c.Limits.Input = fc.Limits.Input
	}
	if fc.Limits.Output > 0 {
		c.Limits.Output = fc.Limits.Output
	}
	if fc.Limits.Expected > 0 {
		c.Limits.Expected = fc.Limits.Expected
	}
	if fc.SkipDirs != nil {
		c.SkipDirs = fc.SkipDirs
		set("skip_dirs")
	}
	if fc.Theme != "" {
		c.Theme = fc.Theme
		set("theme")
	}
	if fc.NoColor != nil {
		c.NoColor = *fc.NoColor
		set("no_color")
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
		set("log_level")
	}
	if fc.Exports.JSON != "" {
		c.Exports.JSON = fc.Exports.JSON
	}
	if fc.Exports.YAML != "" {
		c.Exports.YAML = fc.Exports.YAML
	}
	if fc.Exports.Metrics != "" {
		c.Exports.Metrics = fc.Exports.Metrics
	}
}

// ParseOptions returns the parser limits.
func (c *Config) ParseOptions() zresults.ParseOptions {
	return zresults.ParseOptions{
		InputLimit:    c.Limits.Input,
		OutputLimit:   c.Limits.Output,
		ExpectedLimit: c.Limits.Expected,
	}
}

// LocateOptions returns the locator settings. The dashboard and exports are
// excluded so a custom suffix can never pick them up.
func (c *Config) LocateOptions() zresults.LocateOptions {
	exclude := []string{c.Output}
	for _, p := range []string{c.Exports.JSON, c.Exports.YAML, c.Exports.Metrics} {
		if p != "" {
			exclude = append(exclude, p)
		}
	}
	return zresults.LocateOptions{
		Suffix:   c.Suffix,
		SkipDirs: c.SkipDirs,
		Exclude:  exclude,
	}
}
