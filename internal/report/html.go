// Package report generates the artifacts written alongside organized
// files: the HTML index listing processed filenames, and the optional
// PDF image gallery.
package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// IndexFileName is the report path under the output root.
const IndexFileName = "index.html"

// indexTemplate escapes every filename, so the document stays valid
// regardless of filename content.
var indexTemplate = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>File index</title>
  <style>body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Cantarell,Noto Sans,sans-serif;margin:2rem} p{margin:.25rem 0}</style>
</head>
<body>
  <h1>File index</h1>
{{- if .Notes}}
  <section>
{{.Notes}}  </section>
{{- end}}
{{- range .Names}}
  <p>{{.}}</p>
{{- end}}
</body>
</html>
`))

type indexData struct {
	Names []string
	Notes template.HTML
}

// RenderIndex produces the index document for the given final
// filenames, in processing order, with an optional pre-rendered notes
// preamble. Pure formatting; all filtering happened upstream.
func RenderIndex(names []string, notes template.HTML) (string, error) {
	var sb strings.Builder
	if err := indexTemplate.Execute(&sb, indexData{Names: names, Notes: notes}); err != nil {
		return "", fmt.Errorf("failed to render index: %w", err)
	}
	return sb.String(), nil
}

// WriteIndex renders the index document and writes it under outDir,
// returning the written path.
func WriteIndex(outDir string, names []string, notes template.HTML) (string, error) {
	doc, err := RenderIndex(names, notes)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output root: %w", err)
	}
	path := filepath.Join(outDir, IndexFileName)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("failed to write index: %w", err)
	}
	return path, nil
}
