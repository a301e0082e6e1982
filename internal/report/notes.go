package report

import (
	"bytes"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
)

// RenderNotes converts a markdown notes file to HTML for embedding as
// the index preamble.
func RenderNotes(path string) (template.HTML, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read notes file: %w", err)
	}

	var buf bytes.Buffer
	if err := goldmark.New().Convert(data, &buf); err != nil {
		return "", fmt.Errorf("failed to render notes markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
