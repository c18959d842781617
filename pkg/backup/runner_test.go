package backup

import (
	"archive/zip"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRunner(t *testing.T, now time.Time, opts ...Option) *Runner {
	t.Helper()
	opts = append([]Option{
		WithLogger(zap.NewNop()),
		WithClock(func() time.Time { return now }),
		WithTempDir(t.TempDir()),
	}, opts...)
	r, err := New(opts...)
	require.NoError(t, err)
	return r
}

func writeSourceTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0755))
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "a.txt"), []byte("A"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("B"), 0644))
	return src
}

func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		buf, err := ioutil.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(buf)
	}
	return files
}

func TestRunRoundTrip(t *testing.T) {
	now := time.Date(2021, 6, 1, 10, 30, 0, 0, time.Local)
	r := newTestRunner(t, now)
	src := writeSourceTree(t)
	dest := t.TempDir()

	res := r.Run(Request{Source: src, Destination: dest, Keep: 30, Name: "DirKeep"})
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Equal(t, filepath.Join(dest, "DirKeep_20210601_103000.zip"), res.ArchivePath)

	files := readArchive(t, res.ArchivePath)
	assert.Equal(t, map[string]string{"a.txt": "A", "sub/b.txt": "B"}, files)
}

func TestRunSourceMissing(t *testing.T) {
	r := newTestRunner(t, time.Now())
	dest := filepath.Join(t.TempDir(), "dest")

	res := r.Run(Request{Source: filepath.Join(t.TempDir(), "nope"), Destination: dest, Keep: 30, Name: "DirKeep"})
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Err, ErrSourceNotFound))

	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}

func TestRunSourceIsFile(t *testing.T) {
	r := newTestRunner(t, time.Now())
	src := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, ioutil.WriteFile(src, []byte("x"), 0644))

	res := r.Run(Request{Source: src, Destination: t.TempDir(), Keep: 0, Name: "DirKeep"})
	assert.True(t, errors.Is(res.Err, ErrSourceNotFound))
}

func TestRunCreatesDestination(t *testing.T) {
	r := newTestRunner(t, time.Now())
	src := writeSourceTree(t)
	dest := filepath.Join(t.TempDir(), "nested", "dest")

	res := r.Run(Request{Source: src, Destination: dest, Keep: 0, Name: "DirKeep"})
	require.NoError(t, res.Err)

	archives, err := ListArchives(dest, "DirKeep")
	require.NoError(t, err)
	assert.Len(t, archives, 1)
}

func TestRunRetentionScenario(t *testing.T) {
	src := writeSourceTree(t)
	dest := t.TempDir()

	base := time.Date(2021, 6, 1, 0, 0, 0, 0, time.Local)
	var paths []string
	for i := 0; i < 3; i++ {
		now := base.Add(time.Duration(i) * time.Minute)
		r := newTestRunner(t, now)
		res := r.Run(Request{Source: src, Destination: dest, Keep: 2, Name: "DirKeep"})
		require.NoError(t, res.Err)
		require.NoError(t, os.Chtimes(res.ArchivePath, now, now))
		paths = append(paths, res.ArchivePath)

		archives, err := ListArchives(dest, "DirKeep")
		require.NoError(t, err)
		if i == 0 {
			assert.Len(t, archives, 1)
		} else {
			assert.Len(t, archives, 2)
		}
	}

	// the oldest of the three must be gone, the newest two remain.
	_, err := os.Stat(paths[0])
	assert.True(t, os.IsNotExist(err))
	for _, p := range paths[1:] {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestRunKeepZeroDisablesPruning(t *testing.T) {
	src := writeSourceTree(t)
	dest := t.TempDir()

	base := time.Date(2021, 6, 1, 0, 0, 0, 0, time.Local)
	for i := 0; i < 4; i++ {
		now := base.Add(time.Duration(i) * time.Minute)
		r := newTestRunner(t, now)
		res := r.Run(Request{Source: src, Destination: dest, Keep: 0, Name: "DirKeep"})
		require.NoError(t, res.Err)
		assert.Empty(t, res.Removed)
	}

	archives, err := ListArchives(dest, "DirKeep")
	require.NoError(t, err)
	assert.Len(t, archives, 4)
}

func TestRunSameSecondOverwrites(t *testing.T) {
	now := time.Date(2021, 6, 1, 10, 30, 0, 0, time.Local)
	src := writeSourceTree(t)
	dest := t.TempDir()

	for i := 0; i < 2; i++ {
		r := newTestRunner(t, now)
		res := r.Run(Request{Source: src, Destination: dest, Keep: 30, Name: "DirKeep"})
		require.NoError(t, res.Err)
	}

	archives, err := ListArchives(dest, "DirKeep")
	require.NoError(t, err)
	require.Len(t, archives, 1)
	// the surviving archive is still a readable zip.
	files := readArchive(t, archives[0].Path)
	assert.Len(t, files, 2)
}

func TestRunDryRunLeavesFilesystemUntouched(t *testing.T) {
	now := time.Date(2021, 6, 1, 10, 30, 0, 0, time.Local)
	src := writeSourceTree(t)
	dest := t.TempDir()

	old := filepath.Join(dest, "DirKeep_20200101_000000.zip")
	older := filepath.Join(dest, "DirKeep_20190101_000000.zip")
	require.NoError(t, ioutil.WriteFile(old, []byte("old"), 0644))
	require.NoError(t, ioutil.WriteFile(older, []byte("older"), 0644))
	require.NoError(t, os.Chtimes(old, now.AddDate(-1, 0, 0), now.AddDate(-1, 0, 0)))
	require.NoError(t, os.Chtimes(older, now.AddDate(-2, 0, 0), now.AddDate(-2, 0, 0)))

	tempDir := t.TempDir()
	r := newTestRunner(t, now, WithTempDir(tempDir))
	res := r.Run(Request{Source: src, Destination: dest, Keep: 1, Name: "DirKeep", DryRun: true})
	require.NoError(t, res.Err)
	assert.True(t, res.Success)
	assert.Empty(t, res.ArchivePath)
	assert.Equal(t, []string{older}, res.Removed)

	// both existing archives still there, no new one written, scratch empty.
	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	scratch, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.Empty(t, scratch)
}

func TestRunDryRunMissingDestination(t *testing.T) {
	src := writeSourceTree(t)
	dest := filepath.Join(t.TempDir(), "dest")

	r := newTestRunner(t, time.Now())
	res := r.Run(Request{Source: src, Destination: dest, Keep: 2, Name: "DirKeep", DryRun: true})
	require.NoError(t, res.Err)

	_, err := os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
}

func TestRunCompressionFailure(t *testing.T) {
	exec := &recordingExecutor{writeErr: errors.New("disk full")}
	r := newTestRunner(t, time.Now(), WithExecutor(exec))
	src := writeSourceTree(t)

	res := r.Run(Request{Source: src, Destination: t.TempDir(), Keep: 2, Name: "DirKeep"})
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Err, ErrCompression))
	assert.Empty(t, exec.moves)
}

func TestRunMoveFailure(t *testing.T) {
	exec := &recordingExecutor{moveErr: errors.New("cross-device link")}
	r := newTestRunner(t, time.Now(), WithExecutor(exec))
	src := writeSourceTree(t)

	res := r.Run(Request{Source: src, Destination: t.TempDir(), Keep: 2, Name: "DirKeep"})
	assert.False(t, res.Success)
	assert.True(t, errors.Is(res.Err, ErrMove))
	assert.Empty(t, res.Removed)
}
