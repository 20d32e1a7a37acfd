// Package config handles configuration loading and merging for zdefects.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--root, --output, --workers, --theme, --no-color, ...)
//  2. Environment variables (ZDEFECTS_*, NO_COLOR)
//  3. YAML config file (.zdefects.yaml in the workspace root, or --config)
//  4. Hardcoded defaults
//
// The workspace root is resolved first (flag, then ZDEFECTS_ROOT, then the
// working directory) because the default config file lives inside it.
//
// # Environment Variables
//
//   - ZDEFECTS_ROOT: workspace root
//   - ZDEFECTS_OUTPUT: dashboard path, relative to the root unless absolute
//   - ZDEFECTS_TITLE: dashboard title
//   - ZDEFECTS_WORKERS: parser goroutines, 0 for one per CPU
//   - ZDEFECTS_THEME: terminal theme (default, orca, mono)
//   - ZDEFECTS_LOG_LEVEL: debug, info, warn or error
//   - ZDEFECTS_NO_COLOR or NO_COLOR: "true"/"1" disables colors
//
// # File Format
//
// The YAML file is validated against an embedded JSON schema before it is
// decoded; unknown keys are rejected.
//
//	title: Nightly Defects
//	workers: 4
//	top_plans: 50
//	limits:
//	  output: 1000
//	exports:
//	  json: z/zDefects.json
package config
