// Package output renders the end-of-run artifacts: the JSON metadata
// envelope, the combined markdown file, the human-readable summary, and
// the optional HTML preview. Writers log their own failures and never
// abort the run; a writer that fails returns an empty path.
package output

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/docsmith/internal/config"
	"github.com/hpungsan/docsmith/internal/pipeline"
)

// Writer renders run artifacts into the output directory.
type Writer struct {
	InputPath  string
	OutputPath string
	RunID      string

	cfg    config.JSONOutputConfig
	logger *slog.Logger
}

// NewWriter creates a Writer and stamps it with a fresh run id.
func NewWriter(inputPath, outputPath string, cfg config.JSONOutputConfig, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		InputPath:  inputPath,
		OutputPath: outputPath,
		RunID:      ulid.Make().String(),
		cfg:        cfg,
		logger:     logger,
	}
}

// ExtractionInfo is the run-level block of the JSON envelope.
type ExtractionInfo struct {
	RunID                 string         `json:"run_id"`
	TotalDocuments        int            `json:"total_documents"`
	SuccessfulExtractions int            `json:"successful_extractions"`
	FailedExtractions     int            `json:"failed_extractions"`
	SkippedExtractions    int            `json:"skipped_extractions"`
	ExtractionDate        string         `json:"extraction_date"`
	SourceDirectory       string         `json:"source_directory"`
	ExtractionMethods     map[string]int `json:"extraction_methods"`
	TotalChars            int            `json:"total_chars"`
	TotalWords            int            `json:"total_words"`
	EstimatedTokens       int            `json:"estimated_tokens"`
}

// Envelope is the full JSON metadata document.
type Envelope struct {
	ExtractionInfo ExtractionInfo            `json:"extraction_info"`
	Documents      []pipeline.DocumentRecord `json:"documents"`
}

// JSONPath returns the metadata file path:
// <output_root>/<output_basename><suffix>.
func (w *Writer) JSONPath() string {
	return filepath.Join(w.OutputPath, filepath.Base(w.OutputPath)+w.cfg.JSONFilenameSuffix)
}

// WriteJSON writes the metadata envelope and returns its path, or ""
// when the writer is disabled or the write failed.
func (w *Writer) WriteJSON(snap *pipeline.Snapshot) string {
	if !w.cfg.Enabled {
		return ""
	}

	docs := snap.Documents
	if !w.cfg.IncludeContent {
		stripped := make([]pipeline.DocumentRecord, len(docs))
		for i, doc := range docs {
			doc.Content = ""
			stripped[i] = doc
		}
		docs = stripped
	}

	envelope := Envelope{
		ExtractionInfo: ExtractionInfo{
			RunID:                 w.RunID,
			TotalDocuments:        len(snap.Documents),
			SuccessfulExtractions: snap.ProcessedFiles,
			FailedExtractions:     snap.FailedFiles,
			SkippedExtractions:    snap.SkippedFiles,
			ExtractionDate:        time.Now().Format("2006-01-02 15:04:05"),
			SourceDirectory:       w.InputPath,
			ExtractionMethods:     snap.Methods,
			TotalChars:            snap.TotalChars,
			TotalWords:            snap.TotalWords,
			EstimatedTokens:       snap.TotalTokens,
		},
		Documents: docs,
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		w.logger.Error("failed to encode JSON metadata", "error", err)
		return ""
	}

	path := w.JSONPath()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		w.logger.Error("failed to write JSON metadata", "path", path, "error", err)
		return ""
	}
	w.logger.Info("wrote JSON metadata", "path", path)
	return path
}
