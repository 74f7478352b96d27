package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/docsmith/internal/config"
)

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestHandleConvertTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHandlers(config.Default(), nil)
	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("HandleConvert() error: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleConvert() returned error result: %s", resultText(t, result))
	}

	var got ConvertResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("invalid result JSON: %v", err)
	}
	if got.Markdown != "hello world" {
		t.Errorf("Markdown = %q, want %q", got.Markdown, "hello world")
	}
	if got.Method != "direct_copy" {
		t.Errorf("Method = %q, want direct_copy", got.Method)
	}
	if got.EstimatedTokens != got.CharCount/4 {
		t.Errorf("EstimatedTokens = %d, want %d", got.EstimatedTokens, got.CharCount/4)
	}
}

func TestHandleConvertMissingPath(t *testing.T) {
	h := NewHandlers(config.Default(), nil)
	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleConvert() error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error result for missing path")
	}
	if !strings.Contains(resultText(t, result), "INVALID_REQUEST") {
		t.Errorf("error payload = %s", resultText(t, result))
	}
}

func TestHandleConvertUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHandlers(config.Default(), nil)
	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error result for unsupported extension")
	}
	if !strings.Contains(resultText(t, result), "UNSUPPORTED_TYPE") {
		t.Errorf("error payload = %s", resultText(t, result))
	}
}

func TestHandleConvertExtractionFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.docx")
	if err := os.WriteFile(path, []byte("not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHandlers(config.Default(), nil)
	result, err := h.HandleConvert(context.Background(), makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Fatal("expected error result for broken archive")
	}
	if !strings.Contains(resultText(t, result), "EXTRACTION_FAILED") {
		t.Errorf("error payload = %s", resultText(t, result))
	}
}

func TestHandleFormats(t *testing.T) {
	h := NewHandlers(config.Default(), nil)
	result, err := h.HandleFormats(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatal(err)
	}

	var got FormatsResult
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("invalid result JSON: %v", err)
	}
	if len(got.Extensions) == 0 {
		t.Fatal("no extensions returned")
	}
	found := map[string]bool{}
	for _, ext := range got.Extensions {
		found[ext] = true
	}
	for _, want := range []string{".pdf", ".docx", ".txt", ".md"} {
		if !found[want] {
			t.Errorf("extensions missing %s: %v", want, got.Extensions)
		}
	}
}

func TestErrorResultUnexpectedError(t *testing.T) {
	result := errorResult(fmt.Errorf("sql: connection reset"))
	if !result.IsError {
		t.Fatal("expected error result")
	}
	payload := resultText(t, result)
	if !strings.Contains(payload, "INTERNAL") {
		t.Errorf("error payload = %s, want INTERNAL code", payload)
	}
	if strings.Contains(payload, "connection reset") {
		t.Errorf("error payload leaks the underlying message: %s", payload)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	found := map[string]bool{}
	for _, name := range names {
		found[name] = true
	}
	if !found["doc_convert"] || !found["doc_formats"] {
		t.Errorf("AllToolNames() = %v", names)
	}
}
