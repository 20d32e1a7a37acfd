package config

import (
	"fmt"
	"slices"
	"strconv"

	"github.com/dkoosis/zdefects/internal/workspace"
	"github.com/dkoosis/zdefects/pkg/render"
)

// LogLevels are the accepted log level names.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Flags holds command-line values. The *Set fields record whether the user
// passed the flag explicitly.
type Flags struct {
	Root        string
	ConfigFile  string
	Output      string
	Title       string
	Workers     int
	Theme       string
	NoColor     bool
	LogLevel    string
	JSONPath    string
	YAMLPath    string
	MetricsPath string

	WorkersSet bool
	NoColorSet bool
}

// Env looks up an environment variable; os.Getenv satisfies it.
type Env func(key string) string

// Resolve builds the configuration for one invocation. cwd is used to find
// the workspace root when neither --root nor ZDEFECTS_ROOT is given.
func Resolve(flags Flags, getenv Env, cwd string) (*Config, error) {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}

	root, rootSource, err := resolveRoot(flags, getenv, cwd)
	if err != nil {
		return nil, err
	}
	cfg := Default(root)
	cfg.Sources["root"] = rootSource

	// File
	path, optional := flags.ConfigFile, false
	if path == "" {
		path, optional = workspace.Path(root, FileName), true
	} else {
		path = workspace.Path(cwd, path)
	}
	fc, err := LoadFile(path, optional)
	if err != nil {
		return nil, err
	}
	if fc != nil {
		cfg.ConfigFile = path
		fc.apply(cfg)
	}

	// Env
	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}

	// CLI
	applyFlags(cfg, flags)

	cfg.Output = workspace.Path(root, cfg.Output)
	cfg.Exports.JSON = absOrEmpty(root, cfg.Exports.JSON)
	cfg.Exports.YAML = absOrEmpty(root, cfg.Exports.YAML)
	cfg.Exports.Metrics = absOrEmpty(root, cfg.Exports.Metrics)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRoot picks the workspace root. An explicit root is taken as given;
// only the working-directory default ascends to find the z/ layout.
func resolveRoot(flags Flags, getenv Env, cwd string) (string, string, error) {
	if flags.Root != "" {
		return workspace.Path(cwd, flags.Root), "cli", nil
	}
	if env := getenv("ZDEFECTS_ROOT"); env != "" {
		return workspace.Path(cwd, env), "env", nil
	}
	root, err := workspace.ResolveRoot(cwd)
	return root, "default", err
}

func applyEnv(cfg *Config, getenv Env) error {
	set := func(key string) { cfg.Sources[key] = "env" }
	if v := getenv("ZDEFECTS_OUTPUT"); v != "" {
		cfg.Output = v
		set("output")
	}
	if v := getenv("ZDEFECTS_TITLE"); v != "" {
		cfg.Title = v
		set("title")
	}
	if v := getenv("ZDEFECTS_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: ZDEFECTS_WORKERS=%q is not an integer", ErrInvalid, v)
		}
		cfg.Workers = n
		set("workers")
	}
	if v := getenv("ZDEFECTS_THEME"); v != "" {
		cfg.Theme = v
		set("theme")
	}
	if v := getenv("ZDEFECTS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if b := getEnvBool(getenv, "ZDEFECTS_NO_COLOR", "NO_COLOR"); b != nil {
		cfg.NoColor = *b
		set("no_color")
	}
	return nil
}

func applyFlags(cfg *Config, flags Flags) {
	set := func(key string) { cfg.Sources[key] = "cli" }
	if flags.Output != "" {
		cfg.Output = flags.Output
		set("output")
	}
	if flags.Title != "" {
		cfg.Title = flags.Title
		set("title")
	}
	if flags.WorkersSet {
		cfg.Workers = flags.Workers
		set("workers")
	}
	if flags.Theme != "" {
		cfg.Theme = flags.Theme
		set("theme")
	}
	if flags.NoColorSet {
		cfg.NoColor = flags.NoColor
		set("no_color")
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
		set("log_level")
	}
	if flags.JSONPath != "" {
		cfg.Exports.JSON = flags.JSONPath
	}
	if flags.YAMLPath != "" {
		cfg.Exports.YAML = flags.YAMLPath
	}
	if flags.MetricsPath != "" {
		cfg.Exports.Metrics = flags.MetricsPath
	}
}

// getEnvBool reads a boolean from the first set key. NO_COLOR follows the
// no-color.org convention: any non-empty value that is not a boolean counts
// as true.
func getEnvBool(getenv Env, keys ...string) *bool {
	for _, key := range keys {
		val := getenv(key)
		if val == "" {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			b = key == "NO_COLOR"
		}
		return &b
	}
	return nil
}

func absOrEmpty(root, p string) string {
	if p == "" {
		return ""
	}
	return workspace.Path(root, p)
}

// validate rejects values no source is allowed to set.
func validate(cfg *Config) error {
	if cfg.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalid, cfg.Workers)
	}
	if !slices.Contains(render.ThemeNames(), cfg.Theme) {
		return fmt.Errorf("%w: unknown theme %q (expected one of %v)", ErrInvalid, cfg.Theme, render.ThemeNames())
	}
	if !slices.Contains(LogLevels, cfg.LogLevel) {
		return fmt.Errorf("%w: unknown log level %q (expected one of %v)", ErrInvalid, cfg.LogLevel, LogLevels)
	}
	return nil
}
