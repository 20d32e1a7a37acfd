package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func startWatcher(t *testing.T, root string, opts Options) (*atomic.Int32, chan struct{}) {
	t.Helper()
	var calls atomic.Int32
	fired := make(chan struct{}, 16)
	opts.Debounce = 50 * time.Millisecond
	w, err := New(root, opts, func(context.Context) error {
		calls.Add(1)
		fired <- struct{}{}
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, w.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &calls, fired
}

func waitFired(t *testing.T, fired <-chan struct{}) {
	t.Helper()
	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("callback did not run")
	}
}

func TestWatcher_RegeneratesOnResultFile(t *testing.T) {
	root := t.TempDir()
	run := filepath.Join(root, "RunA", "z")
	require.NoError(t, os.MkdirAll(run, 0o755))

	calls, fired := startWatcher(t, root, Options{Suffix: "_zResults.csv"})

	path := filepath.Join(run, "S1_zResults.csv")
	require.NoError(t, os.WriteFile(path, []byte("Result\nFail\n"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("Result\nFail\nFail\n"), 0o600))
	waitFired(t, fired)

	// One burst, one regeneration.
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresOtherFilesAndExcluded(t *testing.T) {
	root := t.TempDir()
	own := filepath.Join(root, "z", "Own_zResults.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(own), 0o755))

	calls, _ := startWatcher(t, root, Options{Suffix: "_zResults.csv", Exclude: []string{own}})

	require.NoError(t, os.WriteFile(filepath.Join(root, "z", "zDefectsDashboard.html"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(own, []byte("x"), 0o600))
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	root := t.TempDir()
	_, fired := startWatcher(t, root, Options{Suffix: "_zResults.csv"})

	dir := filepath.Join(root, "RunB")
	require.NoError(t, os.Mkdir(dir, 0o755))
	waitFired(t, fired)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "S2_zResults.csv"), []byte("Result\n"), 0o600))
	waitFired(t, fired)
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), Options{}, func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestWatcher_VanishedDirIsLogged(t *testing.T) {
	root := t.TempDir()
	core, logs := observer.New(zap.DebugLevel)
	w, err := New(root, Options{Suffix: "_zResults.csv", Logger: zap.New(core)}, func(context.Context) error {
		return nil
	})
	require.NoError(t, err)
	defer w.fsw.Close()

	w.watchNewDir(filepath.Join(root, "gone"))

	entries := logs.FilterMessage("watch new dir failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Join(root, "gone"), entries[0].ContextMap()["dir"])
}
