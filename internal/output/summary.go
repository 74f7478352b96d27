package output

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hpungsan/docsmith/internal/pipeline"
)

// grouped formats integers with thousands separators for the summary
// tables.
var grouped = message.NewPrinter(language.English)

const summaryRule = 80

// SummaryPath returns the summary file path, which lives next to the
// output root rather than inside it:
// <output_parent>/<output_basename>-summary.txt.
func (w *Writer) SummaryPath() string {
	return filepath.Join(filepath.Dir(w.OutputPath), filepath.Base(w.OutputPath)+"-summary.txt")
}

// WriteSummary writes the human-readable run summary with the per-file
// token breakdown sorted by token count descending. Returns the written
// path, or "" on failure.
func (w *Writer) WriteSummary(snap *pipeline.Snapshot) string {
	path := w.SummaryPath()
	if err := os.WriteFile(path, []byte(w.summaryText(snap)), 0o644); err != nil {
		w.logger.Error("failed to write summary file", "path", path, "error", err)
		return ""
	}
	w.logger.Info("wrote summary", "path", path)
	return path
}

func (w *Writer) summaryText(snap *pipeline.Snapshot) string {
	var sb strings.Builder
	rule := strings.Repeat("=", summaryRule)

	sb.WriteString("Extraction Summary\n")
	sb.WriteString(rule + "\n\n")

	sb.WriteString("Text Statistics:\n")
	grouped.Fprintf(&sb, "  Total characters: %d\n", snap.TotalChars)
	grouped.Fprintf(&sb, "  Total words: %d\n", snap.TotalWords)
	grouped.Fprintf(&sb, "  Estimated LLM tokens: %d (1 token ~ 4 characters)\n\n", snap.TotalTokens)

	sb.WriteString("Files:\n")
	grouped.Fprintf(&sb, "  Total files found: %d\n", snap.TotalFiles)
	grouped.Fprintf(&sb, "  Successfully processed: %d\n", snap.ProcessedFiles)
	grouped.Fprintf(&sb, "  Failed to process: %d\n", snap.FailedFiles)
	grouped.Fprintf(&sb, "  Skipped files: %d\n\n", snap.SkippedFiles)

	sb.WriteString("Extraction Methods Used:\n")
	methods := make([]string, 0, len(snap.Methods))
	for m := range snap.Methods {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		grouped.Fprintf(&sb, "  %s: %d\n", m, snap.Methods[m])
	}
	sb.WriteString("\n")

	sb.WriteString(rule + "\n")
	sb.WriteString("Per-File Token Breakdown\n")
	sb.WriteString(rule + "\n\n")

	files := append([]pipeline.FileRecord(nil), snap.Files...)
	sort.SliceStable(files, func(i, j int) bool { return files[i].Tokens > files[j].Tokens })

	grouped.Fprintf(&sb, "%-50s %10s %10s %12s\n", "File", "Tokens", "Words", "Chars")
	sb.WriteString(strings.Repeat("-", summaryRule) + "\n")
	for _, f := range files {
		grouped.Fprintf(&sb, "%-50s %10d %10d %12d\n", elidePath(f.RelPath, 48), f.Tokens, f.Words, f.Chars)
	}

	sb.WriteString("\n" + rule + "\n")
	grouped.Fprintf(&sb, "Output directory: %s\n", w.OutputPath)
	sb.WriteString(rule + "\n")

	return sb.String()
}

// elidePath shortens a path to at most width characters by keeping the
// tail and prefixing "...".
func elidePath(path string, width int) string {
	if len(path) <= width {
		return path
	}
	return "..." + path[len(path)-(width-3):]
}

// ConsoleSummary renders the end-of-run block printed to stdout.
func ConsoleSummary(snap *pipeline.Snapshot, outputPath, jsonPath, combinedPath string) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	sb.WriteString("\n" + rule + "\n")
	sb.WriteString("Processing Summary\n")
	sb.WriteString(rule + "\n")
	grouped.Fprintf(&sb, "Total files found:      %d\n", snap.TotalFiles)
	grouped.Fprintf(&sb, "Successfully processed: %d\n", snap.ProcessedFiles)
	grouped.Fprintf(&sb, "Failed to process:      %d\n", snap.FailedFiles)
	grouped.Fprintf(&sb, "Skipped files:          %d\n", snap.SkippedFiles)
	grouped.Fprintf(&sb, "Native extractions:     %d\n", snap.Methods["native"])
	sb.WriteString(rule + "\n")
	grouped.Fprintf(&sb, "Output directory: %s\n", outputPath)
	if jsonPath != "" {
		grouped.Fprintf(&sb, "JSON metadata:    %s\n", jsonPath)
	}
	if combinedPath != "" {
		grouped.Fprintf(&sb, "Combined file:    %s\n", combinedPath)
	}
	sb.WriteString(rule + "\n")
	return sb.String()
}
