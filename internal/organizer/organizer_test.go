package organizer

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(dir string) Options {
	return Options{
		Dir:            dir,
		OutDir:         filepath.Join(dir, "out"),
		OutDirName:     "out",
		Rename:         true,
		FallbackBucket: "noext",
		Reserved:       []string{".shelf.yaml", IgnoreFileName},
	}
}

func seedScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "a.JPG", "jpg-bytes")
	writeFile(t, dir, "b.txt", "text")
	writeFile(t, dir, "NOTES", "no extension")
	writeFile(t, dir, ".hidden.txt", "hidden")
	return dir
}

func TestRunDefaultScenario(t *testing.T) {
	dir := seedScenario(t)

	result, err := New(testOptions(dir), nil).Run()
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Empty(t, result.Failures)
	assert.NotEmpty(t, result.RunID)

	// Enumeration order: NOTES sorts before a.JPG and b.txt.
	assert.Equal(t, []string{"notes", "a.jpg", "b.txt"}, result.FinalNames())

	for _, path := range []string{
		filepath.Join(dir, "out", "jpg", "a.jpg"),
		filepath.Join(dir, "out", "txt", "b.txt"),
		filepath.Join(dir, "out", "noext", "notes"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "missing %s", path)
	}

	// The hidden file was neither copied nor listed.
	_, err = os.Stat(filepath.Join(dir, "out", "txt", ".hidden.txt"))
	assert.True(t, os.IsNotExist(err))
	assert.NotContains(t, result.FinalNames(), ".hidden.txt")

	// Copying is non-destructive toward the source.
	_, err = os.Stat(filepath.Join(dir, "b.txt"))
	assert.NoError(t, err)
}

func TestRunIncludeHidden(t *testing.T) {
	dir := seedScenario(t)

	opts := testOptions(dir)
	opts.IncludeHidden = true
	result, err := New(opts, nil).Run()
	require.NoError(t, err)

	require.Len(t, result.Files, 4)
	// .hidden.txt slugifies to hidden.txt and lands in the txt bucket.
	_, err = os.Stat(filepath.Join(dir, "out", "txt", "hidden.txt"))
	assert.NoError(t, err)
}

func TestRunNoRenameKeepsSourceNames(t *testing.T) {
	dir := seedScenario(t)

	opts := testOptions(dir)
	opts.Rename = false
	result, err := New(opts, nil).Run()
	require.NoError(t, err)

	assert.Equal(t, []string{"NOTES", "a.JPG", "b.txt"}, result.FinalNames())
	for _, name := range []string{"NOTES", "a.JPG", "b.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "source %s was renamed", name)
	}
	// Classification still lower-cases the extension.
	_, err = os.Stat(filepath.Join(dir, "out", "jpg", "a.JPG"))
	assert.NoError(t, err)
}

func TestRunDryRunMutatesNothing(t *testing.T) {
	dir := seedScenario(t)

	before := snapshot(t, dir)

	opts := testOptions(dir)
	opts.DryRun = true
	result, err := New(opts, nil).Run()
	require.NoError(t, err)

	require.Len(t, result.Files, 3)
	assert.Empty(t, result.Failures)
	// Intended actions are still computed and reportable.
	assert.Equal(t, []string{"notes", "a.jpg", "b.txt"}, result.FinalNames())
	for _, f := range result.Files {
		assert.NotEmpty(t, f.DestPath)
		assert.False(t, f.Copied)
	}

	assert.Equal(t, before, snapshot(t, dir))
	_, err = os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(err), "dry-run created the output root")
}

func TestRunCaseCollision(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "report.TXT", "upper")
	writeFile(t, dir, "report.txt", "lower")

	result, err := New(testOptions(dir), nil).Run()
	require.NoError(t, err)
	require.Len(t, result.Files, 2)

	// Both map to the txt bucket with distinct destination names.
	dests := map[string]bool{}
	for _, f := range result.Files {
		assert.Equal(t, "txt", f.Bucket)
		assert.False(t, dests[f.DestPath], "duplicate destination %s", f.DestPath)
		dests[f.DestPath] = true
		_, err := os.Stat(f.DestPath)
		assert.NoError(t, err)
	}
}

func TestRunSuffixesAgainstPreexistingOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "new content")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out", "txt"), 0o755))
	writeFile(t, filepath.Join(dir, "out", "txt"), "b.txt", "old content")

	result, err := New(testOptions(dir), nil).Run()
	require.NoError(t, err)
	require.Len(t, result.Files, 1)

	assert.Equal(t, filepath.Join(dir, "out", "txt", "b-1.txt"), result.Files[0].DestPath)
	old, err := os.ReadFile(filepath.Join(dir, "out", "txt", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old content", string(old), "pre-existing output was overwritten")
}

func TestRunCopyFailureIsRecoverable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "fine")
	writeFile(t, dir, "b.txt", "blocked")
	// A regular file where the txt bucket directory should go makes the
	// copy stage fail for b.txt only.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0o755))
	writeFile(t, filepath.Join(dir, "out"), "txt", "in the way")

	result, err := New(testOptions(dir), nil).Run()
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "copy", result.Failures[0].Stage)
	assert.Equal(t, "b.txt", result.Failures[0].Name)

	// The other file still made it through.
	_, err = os.Stat(filepath.Join(dir, "out", "md", "a.md"))
	assert.NoError(t, err)
}

func TestRunEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	result, err := New(testOptions(dir), nil).Run()
	require.NoError(t, err)
	assert.Empty(t, result.Files)

	_, err = os.Stat(filepath.Join(dir, "out"))
	assert.True(t, os.IsNotExist(err), "output root created with nothing to process")
}

func TestRunBucketAliases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "photo.JPEG", "bytes")

	opts := testOptions(dir)
	opts.Buckets = map[string]string{"jpeg": "jpg"}
	result, err := New(opts, nil).Run()
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "jpeg", result.Files[0].Extension)
	assert.Equal(t, "jpg", result.Files[0].Bucket)
	_, err = os.Stat(filepath.Join(dir, "out", "jpg", "photo.jpeg"))
	assert.NoError(t, err)
}

// snapshot captures name, size and mode of every file under dir.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	state := make(map[string]string)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		if info.IsDir() {
			state[rel] = "dir"
		} else {
			state[rel] = info.Mode().String() + "|" + strconv.FormatInt(info.Size(), 10)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	return state
}
