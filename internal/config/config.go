package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hpungsan/docsmith/internal/errors"
)

// Config holds the full processor configuration.
type Config struct {
	Output     OutputConfig     `yaml:"output"`
	Extraction ExtractionConfig `yaml:"extraction"`
	JSONOutput JSONOutputConfig `yaml:"json_output"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Preview    PreviewConfig    `yaml:"preview"`
}

// OutputConfig controls per-file markdown output.
type OutputConfig struct {
	// Format is the output format tag. Only "md" is recognized today.
	Format string `yaml:"format"`

	// IncludeMetadataHeader prepends a comment header (source path, method,
	// counts) to each generated markdown file.
	IncludeMetadataHeader bool `yaml:"include_metadata_header"`

	// PreserveStructure mirrors the input tree under the output root.
	// When false, all outputs land flat in the output root.
	PreserveStructure bool `yaml:"preserve_structure"`
}

// ExtractionConfig controls file discovery and dispatch.
type ExtractionConfig struct {
	SkipHiddenFiles bool `yaml:"skip_hidden_files"`
	SkipTempFiles   bool `yaml:"skip_temp_files"`

	// MaxFileSizeMB caps the size of files handed to extraction.
	MaxFileSizeMB float64 `yaml:"max_file_size_mb"`

	// SupportedExtensions is the allow-list of extensions (lower-case,
	// leading dot). Files outside this list are counted as skipped.
	SupportedExtensions []string `yaml:"supported_extensions"`

	// Workers bounds concurrent file processing. 0 means one worker
	// per CPU.
	Workers int `yaml:"workers"`
}

// JSONOutputConfig controls the JSON metadata and combined-markdown writers.
type JSONOutputConfig struct {
	Enabled                bool   `yaml:"enabled"`
	CreateCombinedFile     bool   `yaml:"create_combined_file"`
	IncludeContent         bool   `yaml:"include_content"`
	JSONFilenameSuffix     string `yaml:"json_filename_suffix"`
	CombinedFilenamePrefix string `yaml:"combined_filename_prefix"`
}

// CatalogConfig controls the optional SQLite document catalog.
type CatalogConfig struct {
	Enabled bool `yaml:"enabled"`
}

// PreviewConfig controls the optional HTML rendering of the combined file.
type PreviewConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Format:                "md",
			IncludeMetadataHeader: false,
			PreserveStructure:     true,
		},
		Extraction: ExtractionConfig{
			SkipHiddenFiles: true,
			SkipTempFiles:   true,
			MaxFileSizeMB:   100,
			SupportedExtensions: []string{
				".pdf", ".docx", ".doc",
				".pptx", ".ppt",
				".xlsx", ".xls", ".xlsb",
				".txt", ".md",
				".html", ".htm", ".xml",
				".csv", ".tsv",
				".rtf", ".odt", ".epub", ".zip",
			},
		},
		JSONOutput: JSONOutputConfig{
			Enabled:                true,
			CreateCombinedFile:     true,
			IncludeContent:         false,
			JSONFilenameSuffix:     ".json",
			CombinedFilenamePrefix: "combined-",
		},
	}
}

// Load reads a YAML configuration file, validates it, and merges it over
// the defaults. Unknown keys are rejected so typos surface instead of
// silently falling back to defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	cfg := Default()
	if err := dec.Decode(cfg); err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid configuration: %v", err))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks numeric ranges and extension shape. The pipeline never
// sees a Config that has not passed this.
func (c *Config) Validate() error {
	if c.Extraction.MaxFileSizeMB <= 0 {
		return errors.NewInvalidRequest(
			fmt.Sprintf("max_file_size_mb must be a positive number, got %v", c.Extraction.MaxFileSizeMB))
	}
	if len(c.Extraction.SupportedExtensions) == 0 {
		return errors.NewInvalidRequest("supported_extensions must not be empty")
	}
	for _, ext := range c.Extraction.SupportedExtensions {
		if !strings.HasPrefix(ext, ".") || ext != strings.ToLower(ext) {
			return errors.NewInvalidRequest(
				fmt.Sprintf("supported_extensions entries must be lower-case with a leading dot, got %q", ext))
		}
	}
	if c.Extraction.Workers < 0 {
		return errors.NewInvalidRequest(
			fmt.Sprintf("workers must not be negative, got %d", c.Extraction.Workers))
	}
	if c.Output.Format != "md" {
		return errors.NewInvalidRequest(
			fmt.Sprintf("unsupported output format %q (only \"md\")", c.Output.Format))
	}
	return nil
}

// AllowsExtension reports whether ext (lower-case, with dot) is in the
// configured allow-list.
func (c *Config) AllowsExtension(ext string) bool {
	for _, e := range c.Extraction.SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// WriteDefault writes the default configuration as YAML to path.
func WriteDefault(path string) error {
	data, err := yaml.Marshal(Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
