package report

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderIndexListsNamesInOrder(t *testing.T) {
	doc, err := RenderIndex([]string{"notes", "a.jpg", "b.txt"}, "")
	require.NoError(t, err)

	assert.Contains(t, doc, "<p>notes</p>")
	assert.Contains(t, doc, "<p>a.jpg</p>")
	assert.Contains(t, doc, "<p>b.txt</p>")
	assert.Less(t, strings.Index(doc, "<p>notes</p>"), strings.Index(doc, "<p>a.jpg</p>"))
	assert.Less(t, strings.Index(doc, "<p>a.jpg</p>"), strings.Index(doc, "<p>b.txt</p>"))
}

func TestRenderIndexEscapesFilenames(t *testing.T) {
	doc, err := RenderIndex([]string{`<script>alert("x")</script>.txt`, "a&b.txt"}, "")
	require.NoError(t, err)

	assert.NotContains(t, doc, "<script>")
	assert.Contains(t, doc, "&lt;script&gt;")
	assert.Contains(t, doc, "a&amp;b.txt")
}

func TestRenderIndexWithNotesPreamble(t *testing.T) {
	doc, err := RenderIndex([]string{"a.txt"}, template.HTML("<h2>Release notes</h2>"))
	require.NoError(t, err)

	assert.Contains(t, doc, "<h2>Release notes</h2>")
	assert.Less(t, strings.Index(doc, "Release notes"), strings.Index(doc, "<p>a.txt</p>"))
}

func TestWriteIndex(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")

	path, err := WriteIndex(outDir, []string{"a.txt"}, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, IndexFileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<p>a.txt</p>")
	assert.Contains(t, string(data), "<!doctype html>")
}

func TestRenderNotes(t *testing.T) {
	dir := t.TempDir()
	notesPath := filepath.Join(dir, "NOTES.md")
	require.NoError(t, os.WriteFile(notesPath, []byte("# Title\n\nsome *notes*\n"), 0o644))

	notes, err := RenderNotes(notesPath)
	require.NoError(t, err)
	assert.Contains(t, string(notes), "<h1>Title</h1>")
	assert.Contains(t, string(notes), "<em>notes</em>")
}

func TestRenderNotesMissingFile(t *testing.T) {
	_, err := RenderNotes(filepath.Join(t.TempDir(), "missing.md"))
	assert.Error(t, err)
}
