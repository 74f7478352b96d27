package output

import (
	"bytes"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/docsmith/internal/pipeline"
)

// PreviewPath returns the HTML preview path: the combined markdown path
// with an .html extension.
func (w *Writer) PreviewPath() string {
	combined := w.CombinedPath()
	return strings.TrimSuffix(combined, filepath.Ext(combined)) + ".html"
}

// WritePreview renders the combined markdown to a standalone HTML page.
// Returns the written path, or "" on failure.
func (w *Writer) WritePreview(snap *pipeline.Snapshot) string {
	markdown := w.combinedMarkdown(snap)

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &body); err != nil {
		w.logger.Error("failed to render preview", "error", err)
		return ""
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
<style>body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }</style>
</head>
<body>
%s</body>
</html>
`, html.EscapeString(filepath.Base(w.InputPath)), body.String())

	path := w.PreviewPath()
	if err := os.WriteFile(path, []byte(page), 0o644); err != nil {
		w.logger.Error("failed to write preview", "path", path, "error", err)
		return ""
	}
	w.logger.Info("wrote preview", "path", path)
	return path
}
