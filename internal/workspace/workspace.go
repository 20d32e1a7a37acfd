// Package workspace locates the workspace root and writes report artifacts
// into it.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// MarkerDir is the directory that identifies a workspace root.
const MarkerDir = "z"

// DefaultOutput is where the dashboard is written, relative to the root.
const DefaultOutput = "z/zDefectsDashboard.html"

// ResolveRoot returns dir when it contains MarkerDir, otherwise its parent
// when that does, otherwise dir. The result is absolute.
func ResolveRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	if hasMarker(abs) {
		return abs, nil
	}
	if parent := filepath.Dir(abs); parent != abs && hasMarker(parent) {
		return parent, nil
	}
	return abs, nil
}

func hasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerDir))
	return err == nil && info.IsDir()
}

// Path joins rel onto root unless rel is already absolute.
func Path(root, rel string) string {
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(root, rel)
}

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place, so readers never see a partial file. Parent directories are created.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
