package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/docsmith/internal/pipeline"
)

// CombinedPath returns the combined markdown path:
// <output_root>/<prefix><input_basename>.md.
func (w *Writer) CombinedPath() string {
	base := filepath.Base(w.InputPath)
	if info, err := os.Stat(w.InputPath); err == nil && !info.IsDir() {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(w.OutputPath, w.cfg.CombinedFilenamePrefix+base+".md")
}

// WriteCombined concatenates every document into one markdown file, each
// under a heading with its relative path and separated by horizontal
// rules. Returns the written path, or "" when disabled or failed.
func (w *Writer) WriteCombined(snap *pipeline.Snapshot) string {
	if !w.cfg.CreateCombinedFile {
		return ""
	}

	path := w.CombinedPath()
	if err := os.WriteFile(path, []byte(w.combinedMarkdown(snap)), 0o644); err != nil {
		w.logger.Error("failed to write combined file", "path", path, "error", err)
		return ""
	}
	w.logger.Info("wrote combined file", "path", path)
	return path
}

func (w *Writer) combinedMarkdown(snap *pipeline.Snapshot) string {
	var sb strings.Builder
	for i, doc := range snap.Documents {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		sb.WriteString("# ")
		sb.WriteString(doc.RelativePath)
		sb.WriteString("\n\n")
		sb.WriteString(doc.Content)
		sb.WriteString("\n")
	}
	return sb.String()
}
