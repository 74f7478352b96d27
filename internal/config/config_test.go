package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/docsmith/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Extraction.MaxFileSizeMB != 100 {
		t.Errorf("MaxFileSizeMB = %v, want 100", cfg.Extraction.MaxFileSizeMB)
	}
	if !cfg.JSONOutput.Enabled {
		t.Error("JSONOutput.Enabled = false, want true")
	}
	if cfg.JSONOutput.CombinedFilenamePrefix != "combined-" {
		t.Errorf("CombinedFilenamePrefix = %q, want combined-", cfg.JSONOutput.CombinedFilenamePrefix)
	}
	if !cfg.AllowsExtension(".pdf") || cfg.AllowsExtension(".exe") {
		t.Error("extension allow-list defaults are wrong")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
extraction:
  max_file_size_mb: 5
  supported_extensions: [".txt", ".md"]
json_output:
  enabled: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Extraction.MaxFileSizeMB != 5 {
		t.Errorf("MaxFileSizeMB = %v, want 5", cfg.Extraction.MaxFileSizeMB)
	}
	if cfg.JSONOutput.Enabled {
		t.Error("JSONOutput.Enabled = true, want false")
	}
	if cfg.AllowsExtension(".pdf") {
		t.Error("allow-list should have been replaced by the file")
	}
	// Untouched sections keep defaults.
	if cfg.JSONOutput.JSONFilenameSuffix != ".json" {
		t.Errorf("JSONFilenameSuffix = %q, want .json", cfg.JSONOutput.JSONFilenameSuffix)
	}
}

func TestLoadRejectsNonPositiveSize(t *testing.T) {
	path := writeConfig(t, "extraction:\n  max_file_size_mb: -3\n")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("expected INVALID_REQUEST, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "extractionn:\n  max_file_size_mb: 10\n")
	_, err := Load(path)
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("expected INVALID_REQUEST for unknown key, got %v", err)
	}
}

func TestLoadRejectsMalformedShape(t *testing.T) {
	path := writeConfig(t, "- just\n- a\n- list\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for non-mapping config")
	}
}

func TestValidateExtensionShape(t *testing.T) {
	cfg := Default()
	cfg.Extraction.SupportedExtensions = []string{"txt"}
	if err := cfg.Validate(); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST for missing dot, got %v", err)
	}

	cfg.Extraction.SupportedExtensions = []string{".TXT"}
	if err := cfg.Validate(); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST for upper-case extension, got %v", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load of generated config failed: %v", err)
	}
	if cfg.Extraction.MaxFileSizeMB != 100 {
		t.Errorf("MaxFileSizeMB = %v, want 100", cfg.Extraction.MaxFileSizeMB)
	}
}
