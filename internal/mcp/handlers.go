package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/docsmith/internal/config"
	"github.com/hpungsan/docsmith/internal/errors"
	"github.com/hpungsan/docsmith/internal/extract"
	"github.com/hpungsan/docsmith/internal/pipeline"
	"github.com/hpungsan/docsmith/internal/sanitize"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg     *config.Config
	backend extract.Backend
	logger  *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		cfg:     cfg,
		backend: extract.NewNative(logger),
		logger:  logger,
	}
}

// ConvertRequest represents the arguments for doc_convert.
type ConvertRequest struct {
	Path string `json:"path"`
}

// ConvertResult is the doc_convert response payload.
type ConvertResult struct {
	Path            string `json:"path"`
	Method          string `json:"extraction_method"`
	Markdown        string `json:"markdown"`
	WordCount       int    `json:"word_count"`
	CharCount       int    `json:"char_count"`
	EstimatedTokens int    `json:"estimated_tokens"`
}

// HandleConvert handles the doc_convert tool call.
func (h *Handlers) HandleConvert(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ConvertRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Path == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}

	info, err := os.Stat(input.Path)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(fmt.Sprintf("cannot read file: %v", err))), nil
	}
	if info.IsDir() {
		return errorResult(errors.NewInvalidRequest("path must be a file, not a directory")), nil
	}

	ext := strings.ToLower(filepath.Ext(input.Path))
	if !h.cfg.AllowsExtension(ext) {
		return errorResult(errors.NewUnsupportedType(ext)), nil
	}

	var outcome extract.Result
	if ext == ".txt" || ext == ".md" {
		outcome = extract.DirectCopy(input.Path)
	} else {
		if !h.backend.CanExtract(input.Path) {
			return errorResult(errors.NewUnsupportedType(ext)), nil
		}
		outcome = h.backend.Extract(ctx, input.Path)
	}
	if !outcome.Succeeded {
		return errorResult(errors.NewExtractionFailed(input.Path, outcome.ErrorReason)), nil
	}

	text := outcome.Text
	if outcome.Method != extract.MethodDirectCopy {
		if reason := extract.EvaluateQuality(text, info.Size()); reason != "" {
			return errorResult(errors.NewExtractionFailed(input.Path, reason)), nil
		}
		text = sanitize.Sanitize(text)
	}

	ts := pipeline.CalculateTextStats(text)
	return successResult(ConvertResult{
		Path:            input.Path,
		Method:          outcome.Method,
		Markdown:        text,
		WordCount:       ts.Words,
		CharCount:       ts.Chars,
		EstimatedTokens: ts.Tokens,
	})
}

// FormatsResult is the doc_formats response payload.
type FormatsResult struct {
	Extensions []string `json:"extensions"`
}

// HandleFormats handles the doc_formats tool call.
func (h *Handlers) HandleFormats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exts := append([]string(nil), h.cfg.Extraction.SupportedExtensions...)
	sort.Strings(exts)
	return successResult(FormatsResult{Extensions: exts})
}

// decode unmarshals MCP request arguments into a typed struct.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	b, err := json.Marshal(req.GetArguments())
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

// errorResult creates an MCP error result from a structured error.
func errorResult(err error) *mcp.CallToolResult {
	dErr, ok := err.(*errors.DocsmithError)
	if !ok {
		// The nil argument keeps the unexpected error's message off the wire.
		dErr = errors.NewInternal(nil)
	}

	errorObj := map[string]any{
		"code":    dErr.Code,
		"message": dErr.Message,
	}
	// Internal errors keep their details out of the wire response.
	if dErr.Code != errors.ErrInternal && dErr.Details != nil {
		errorObj["details"] = dErr.Details
	}

	content, _ := json.Marshal(map[string]any{"error": errorObj})
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
