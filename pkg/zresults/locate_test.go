package zresults

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, data string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLocate_SortedByRunThenName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "RunB/z/S2_zResults.csv", "Result\n")
	writeFile(t, root, "RunA/z/S9_zResults.csv", "Result\n")
	writeFile(t, root, "RunA/z/S1_zResults.csv", "Result\n")
	writeFile(t, root, "Top_zResults.csv", "Result\n")

	files, err := Locate(root, LocateOptions{})
	require.NoError(t, err)
	require.Len(t, files, 4)

	got := make([][2]string, len(files))
	for i, f := range files {
		got[i] = [2]string{f.RunID, f.Suite}
		assert.True(t, filepath.IsAbs(f.Path))
	}
	assert.Equal(t, [][2]string{
		{".", "Top"},
		{"RunA/z", "S1"},
		{"RunA/z", "S9"},
		{"RunB/z", "S2"},
	}, got)
}

func TestLocate_IgnoresNonMatchingFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "z/zDefectsDashboard.html", "<html>")
	writeFile(t, root, "z/_zResults.csv", "Result\n")
	writeFile(t, root, "z/S1_zResults.csv.bak", "Result\n")
	writeFile(t, root, "z/S1_zresults.csv", "Result\n")
	writeFile(t, root, "z/S1_zResults.csv", "Result\n")

	files, err := Locate(root, LocateOptions{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "S1", files[0].Suite)
	assert.Equal(t, "z", files[0].RunID)
}

func TestLocate_SkipDirsAndExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".git/z/X_zResults.csv", "Result\n")
	writeFile(t, root, "archive/z/Old_zResults.csv", "Result\n")
	writeFile(t, root, "Run/z/Keep_zResults.csv", "Result\n")
	own := writeFile(t, root, "z/Export_zResults.csv", "Result\n")

	files, err := Locate(root, LocateOptions{
		SkipDirs: append([]string{"archive"}, DefaultSkipDirs...),
		Exclude:  []string{own},
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Keep", files[0].Suite)
}

func TestLocate_DefaultsKeepVendorLikeRunDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "vendor/z/A_zResults.csv", "Result\n")
	writeFile(t, root, "node_modules/z/B_zResults.csv", "Result\n")
	writeFile(t, root, ".git/z/C_zResults.csv", "Result\n")

	files, err := Locate(root, LocateOptions{SkipDirs: DefaultSkipDirs})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "node_modules/z", files[0].RunID)
	assert.Equal(t, "vendor/z", files[1].RunID)
}

func TestLocate_CustomSuffix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "r/Suite_results.csv", "Result\n")
	writeFile(t, root, "r/Suite_zResults.csv", "Result\n")

	files, err := Locate(root, LocateOptions{Suffix: "_results.csv"})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Suite", files[0].Suite)
}

func TestLocate_BrokenSymlinkSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "r/Good_zResults.csv", "Result\n")
	link := filepath.Join(root, "r", "Dangling_zResults.csv")
	if err := os.Symlink(filepath.Join(root, "nowhere.csv"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := Locate(root, LocateOptions{})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "Good", files[0].Suite)
}

func TestLocate_MissingRoot(t *testing.T) {
	_, err := Locate(filepath.Join(t.TempDir(), "nope"), LocateOptions{})
	assert.Error(t, err)
}

func TestLocate_RootIsFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plain.txt", "x")
	_, err := Locate(path, LocateOptions{})
	assert.Error(t, err)
}
