// Package zresults finds zResults.csv files in a workspace and turns their
// failing rows into defect records.
package zresults

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultSuffix marks a file as a result file for the suite named by the rest
// of its base name, e.g. "API_Petstore_zResults.csv".
const DefaultSuffix = "_zResults.csv"

// DefaultSkipDirs are never descended into. Any other directory may hold a
// run, whatever its name.
var DefaultSkipDirs = []string{".git"}

// File is one result file found under the workspace root.
type File struct {
	Path  string // absolute
	RunID string // parent dir relative to root, "/"-separated
	Suite string // base name without suffix
}

// LocateOptions controls which files Locate returns.
type LocateOptions struct {
	Suffix   string   // defaults to DefaultSuffix
	SkipDirs []string // directory base names to prune
	Exclude  []string // paths of artifacts this tool writes
}

// Locate walks root and returns every result file sorted by run id, then file
// name. Unreadable entries below root are skipped; only an unusable root is an
// error.
func Locate(root string, opts LocateOptions) ([]File, error) {
	suffix := opts.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", absRoot)
	}

	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		skip[d] = true
	}
	exclude := make(map[string]bool, len(opts.Exclude))
	for _, p := range opts.Exclude {
		if abs, err := filepath.Abs(p); err == nil {
			exclude[filepath.Clean(abs)] = true
		}
	}

	var found []File
	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			// permission denied, vanished entry, broken link: keep going
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != absRoot && skip[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !isRegular(path, d) {
			return nil
		}
		name := d.Name()
		if len(name) <= len(suffix) || !strings.HasSuffix(name, suffix) {
			return nil
		}
		if exclude[filepath.Clean(path)] {
			return nil
		}
		rel, err := filepath.Rel(absRoot, filepath.Dir(path))
		if err != nil {
			return nil
		}
		found = append(found, File{
			Path:  path,
			RunID: filepath.ToSlash(rel),
			Suite: strings.TrimSuffix(name, suffix),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", absRoot, walkErr)
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].RunID != found[j].RunID {
			return found[i].RunID < found[j].RunID
		}
		return filepath.Base(found[i].Path) < filepath.Base(found[j].Path)
	})
	return found, nil
}

// isRegular reports whether d is a regular file, following a symlink to one.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
