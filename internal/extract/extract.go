// Package extract converts document files to markdown text.
//
// The entry point is the Backend interface: a capability check plus a
// conversion call. The only implementation today is Native, a pure-Go
// backend (CGO_ENABLED=0 compatible) covering:
//
//   - .pdf:         content-stream text extraction via pdfcpu
//   - .docx, .odt:  archive/zip + streaming XML
//   - .pptx:        slide XML text runs
//   - .xlsx:        shared-strings text
//   - .html, .htm:  bluemonday strip + html-to-markdown conversion
//   - .xml:         tag-stripped character data
//   - .csv, .tsv:   UTF-8 passthrough
//
// Plain .txt and .md files are not a Backend concern; callers copy them
// directly via DirectCopy.
package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Extraction methods recorded on Result.
const (
	MethodDirectCopy = "direct_copy"
	MethodNative     = "native"
	MethodNone       = "none"
)

// Result is the outcome of one extraction attempt. It is created once
// per file and never mutated afterward.
type Result struct {
	Text        string
	Succeeded   bool
	ErrorReason string
	Method      string
}

// Failure builds a failed Result with the given reason.
func Failure(method, reason string) Result {
	return Result{Succeeded: false, ErrorReason: reason, Method: method}
}

// Backend is the extraction capability contract. CanExtract is a cheap
// extension-based check; Extract performs the conversion. Implementations
// report failures through the Result rather than panicking, but callers
// are expected to tolerate a panicking backend anyway.
type Backend interface {
	CanExtract(path string) bool
	Extract(ctx context.Context, path string) Result
}

// Native is the built-in pure-Go backend.
type Native struct {
	logger *slog.Logger
}

// NewNative creates the built-in backend.
func NewNative(logger *slog.Logger) *Native {
	if logger == nil {
		logger = slog.Default()
	}
	return &Native{logger: logger}
}

var nativeExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".odt":  true,
	".pptx": true,
	".xlsx": true,
	".html": true,
	".htm":  true,
	".xml":  true,
	".csv":  true,
	".tsv":  true,
}

// SupportedExtensions returns the extensions the Native backend handles,
// in no particular order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(nativeExtensions))
	for ext := range nativeExtensions {
		exts = append(exts, ext)
	}
	return exts
}

// CanExtract reports whether the backend handles the file's extension.
func (n *Native) CanExtract(path string) bool {
	return nativeExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract converts the file to markdown text. Failures are reported in
// the Result; Extract never panics on malformed input files.
func (n *Native) Extract(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return Failure(MethodNative, err.Error())
	}

	ext := strings.ToLower(filepath.Ext(path))
	n.logger.Debug("extracting", "path", path, "format", ext)

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDF(path)
	case ".docx":
		text, err = extractDocx(path)
	case ".odt":
		text, err = extractODT(path)
	case ".pptx":
		text, err = extractPptx(path)
	case ".xlsx":
		text, err = extractXlsx(path)
	case ".html", ".htm":
		text, err = n.extractHTML(path)
	case ".xml":
		text, err = extractXML(path)
	case ".csv", ".tsv":
		text, err = readTextFile(path)
	default:
		return Failure(MethodNone, "unsupported file type: "+ext)
	}

	if err != nil {
		return Failure(MethodNative, err.Error())
	}
	return Result{Text: strings.TrimSpace(text), Succeeded: true, Method: MethodNative}
}

// DirectCopy reads an already-textual file (.txt, .md) as UTF-8. A
// decode failure is a failure outcome, not an error to propagate.
func DirectCopy(path string) Result {
	text, err := readTextFile(path)
	if err != nil {
		return Failure(MethodDirectCopy, err.Error())
	}
	return Result{Text: text, Succeeded: true, Method: MethodDirectCopy}
}

func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", errInvalidUTF8
	}
	return string(data), nil
}
