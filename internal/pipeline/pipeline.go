// Package pipeline runs the batch document conversion: discovery,
// classification, extraction dispatch, quality gating, sanitization, and
// aggregation of per-run statistics.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hpungsan/docsmith/internal/config"
	"github.com/hpungsan/docsmith/internal/errors"
	"github.com/hpungsan/docsmith/internal/extract"
	"github.com/hpungsan/docsmith/internal/sanitize"
)

// Processor orchestrates one run over an input file or directory.
type Processor struct {
	InputPath  string
	OutputPath string

	cfg        *config.Config
	backend    extract.Backend
	logger     *slog.Logger
	stats      *Stats
	singleFile bool
}

// New validates run preconditions and builds a Processor. It fails if
// the input path does not exist, if input and output are the same path,
// or if the output nests inside the input directory.
func New(inputPath, outputPath string, cfg *config.Config, backend extract.Backend, logger *slog.Logger) (*Processor, error) {
	if logger == nil {
		logger = slog.Default()
	}

	absIn, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid input path: %v", err))
	}
	absOut, err := filepath.Abs(outputPath)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid output path: %v", err))
	}

	info, err := os.Stat(absIn)
	if err != nil {
		return nil, errors.NewPrecondition(fmt.Sprintf("input path does not exist: %s", absIn))
	}

	if err := checkPreconditions(absIn, absOut); err != nil {
		return nil, err
	}

	return &Processor{
		InputPath:  absIn,
		OutputPath: absOut,
		cfg:        cfg,
		backend:    backend,
		logger:     logger,
		stats:      NewStats(),
		singleFile: !info.IsDir(),
	}, nil
}

// SingleFileMode reports whether the input is one file rather than a
// directory. In this mode the JSON, combined, and summary writers are
// skipped.
func (p *Processor) SingleFileMode() bool {
	return p.singleFile
}

// Run processes the input and returns the final aggregate state. Per-file
// failures never abort the run; only setup errors are returned.
func (p *Processor) Run(ctx context.Context) (*Snapshot, error) {
	if p.singleFile {
		outFile := p.singleFileOutput()
		if dir := filepath.Dir(outFile); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.NewIO(err)
			}
		}
		p.processFile(ctx, p.InputPath, outFile, filepath.Base(p.InputPath))
		return p.stats.Snapshot(), nil
	}

	if err := os.MkdirAll(p.OutputPath, 0o755); err != nil {
		return nil, errors.NewIO(err)
	}

	files := Discover(p.InputPath, p.logger)

	workers := p.cfg.Extraction.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			display, err := filepath.Rel(p.InputPath, file)
			if err != nil {
				display = filepath.Base(file)
			}
			p.processFile(ctx, file, "", display)
			return nil
		})
	}
	g.Wait()

	return p.stats.Snapshot(), nil
}

// singleFileOutput picks the output file for single-file mode: the output
// path itself when it names a .md file, a .md file under it when it is an
// existing directory, and a sibling of the input otherwise.
func (p *Processor) singleFileOutput() string {
	stem := strings.TrimSuffix(filepath.Base(p.InputPath), filepath.Ext(p.InputPath))

	if info, err := os.Stat(p.OutputPath); err == nil && info.IsDir() {
		return filepath.Join(p.OutputPath, stem+".md")
	}
	if strings.HasSuffix(p.OutputPath, ".md") {
		return p.OutputPath
	}
	return filepath.Join(filepath.Dir(p.InputPath), stem+".md")
}

// processFile takes one file through classification, dispatch, quality
// gating, sanitization, and the write, folding the outcome into the
// aggregator exactly once. An empty outPath means batch mode; the output
// path is then resolved from the mirrored tree.
func (p *Processor) processFile(ctx context.Context, srcPath, outPath, displayName string) {
	p.stats.AddTotal()

	name := filepath.Base(srcPath)
	if skipByName(name, &p.cfg.Extraction) {
		p.stats.AddSkipped()
		p.logger.Info("skipping", "file", displayName)
		return
	}

	ext := strings.ToLower(filepath.Ext(srcPath))
	if !p.cfg.AllowsExtension(ext) {
		p.stats.AddSkipped()
		p.logger.Info("skipping unsupported", "file", displayName)
		return
	}

	info, err := os.Stat(srcPath)
	if err != nil {
		p.stats.AddFailed()
		p.logger.Error("stat failed", "file", displayName, "error", err)
		return
	}
	sizeMB := float64(info.Size()) / (1024 * 1024)
	if sizeMB > p.cfg.Extraction.MaxFileSizeMB {
		p.stats.AddSkipped()
		p.logger.Info("skipping large file", "file", displayName, "size_mb", fmt.Sprintf("%.1f", sizeMB))
		return
	}

	if outPath == "" {
		outPath, err = Resolve(srcPath, p.InputPath, p.OutputPath, p.cfg.Output.PreserveStructure)
		if err != nil {
			p.stats.AddFailed()
			p.logger.Error("unsafe output path", "file", displayName, "error", err)
			return
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
			p.stats.AddFailed()
			p.logger.Error("cannot create output directory", "file", displayName, "error", err)
			return
		}
	}

	p.logger.Info("processing", "file", displayName)

	outcome := p.dispatch(ctx, srcPath, ext)
	if !outcome.Succeeded {
		p.stats.AddFailed()
		p.logger.Error("extraction failed", "file", displayName, "reason", outcome.ErrorReason)
		p.writeErrorStub(outPath, srcPath, outcome.ErrorReason)
		return
	}

	text := outcome.Text
	if outcome.Method != extract.MethodDirectCopy {
		if reason := extract.EvaluateQuality(text, info.Size()); reason != "" {
			p.stats.AddFailed()
			p.logger.Error("quality gate rejected", "file", displayName, "reason", reason)
			p.writeErrorStub(outPath, srcPath, reason)
			return
		}
		text = sanitize.Sanitize(text)
	}

	ts := CalculateTextStats(text)
	p.stats.AddText(ts)

	body := text
	if p.cfg.Output.IncludeMetadataHeader {
		rel := p.relPath(srcPath)
		body = fmt.Sprintf("<!-- source: %s | method: %s | words: %d | chars: %d | tokens: %d -->\n\n",
			rel, outcome.Method, ts.Words, ts.Chars, ts.Tokens) + text
	}
	if err := os.WriteFile(outPath, []byte(body), 0o644); err != nil {
		p.stats.AddFailed()
		p.logger.Error("write failed", "file", displayName, "error", err)
		return
	}

	p.stats.AddRecord(FileRecord{
		Filename: name,
		RelPath:  p.relPath(srcPath),
		Tokens:   ts.Tokens,
		Words:    ts.Words,
		Chars:    ts.Chars,
	})
	p.stats.AddDocument(p.documentRecord(srcPath, text, outcome.Method, ts))
	p.stats.AddProcessed()
}

// dispatch routes a file to direct copy or the extraction backend. A
// panicking backend is converted into a failure outcome so one broken
// file cannot take down the batch.
func (p *Processor) dispatch(ctx context.Context, path, ext string) (res extract.Result) {
	if ext == ".txt" || ext == ".md" {
		return extract.DirectCopy(path)
	}

	if !p.backend.CanExtract(path) {
		return extract.Failure(extract.MethodNone, "unsupported file type: "+ext)
	}

	defer func() {
		if r := recover(); r != nil {
			res = extract.Failure(extract.MethodNative, fmt.Sprintf("extractor panic: %v", r))
		}
	}()
	return p.backend.Extract(ctx, path)
}

// writeErrorStub writes the failure marker to the mirrored output path,
// so the output tree has one artifact per dispatched input file.
func (p *Processor) writeErrorStub(outPath, srcPath, reason string) {
	stub := fmt.Sprintf("Source: %s\nStatus: FAILED\nError: %s\n", srcPath, reason)
	if err := os.WriteFile(outPath, []byte(stub), 0o644); err != nil {
		p.logger.Error("failed to write error stub", "path", outPath, "error", err)
	}
}

// relPath returns srcPath relative to the input root, or the base name
// when that cannot be expressed (single-file mode included).
func (p *Processor) relPath(srcPath string) string {
	if p.singleFile {
		return filepath.Base(srcPath)
	}
	rel, err := filepath.Rel(p.InputPath, srcPath)
	if err != nil {
		return filepath.Base(srcPath)
	}
	return rel
}

// documentRecord builds the JSON document entry for one successful file.
// The id field is left empty; the aggregator assigns it at append time.
func (p *Processor) documentRecord(srcPath, text, method string, ts TextStats) DocumentRecord {
	filename := filepath.Base(srcPath)
	rel := p.relPath(srcPath)

	folder := filepath.Dir(rel)
	if folder == "" || folder == "." {
		folder = "root"
	}
	category := "root"
	if folder != "root" {
		category = strings.SplitN(folder, string(filepath.Separator), 2)[0]
		category = strings.ReplaceAll(strings.ToLower(category), " ", "_")
	}

	return DocumentRecord{
		Filename:     filename,
		DocumentType: DocumentType(strings.ToLower(filepath.Ext(srcPath))),
		Category:     category,
		Folder:       folder,
		RelativePath: rel,
		Content:      text,
		Metadata: DocumentMetadata{
			SourcePath:       rel,
			ExtractionMethod: method,
			ExtractionStatus: "success",
			WordCount:        ts.Words,
			CharCount:        ts.Chars,
			EstimatedTokens:  ts.Tokens,
		},
	}
}
