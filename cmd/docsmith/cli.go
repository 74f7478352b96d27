package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/docsmith/internal/catalog"
	"github.com/hpungsan/docsmith/internal/config"
	"github.com/hpungsan/docsmith/internal/errors"
	"github.com/hpungsan/docsmith/internal/extract"
	"github.com/hpungsan/docsmith/internal/output"
	"github.com/hpungsan/docsmith/internal/pipeline"
)

// newCLIApp builds the urfave/cli application.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "docsmith",
		Usage:   "Convert documents to clean markdown, one file or a whole tree",
		Version: Version,
		Commands: []*cli.Command{
			processCommand(),
			formatsCommand(),
			generateConfigCommand(),
		},
	}
	// Suppress default error printing; main handles errors.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// newLogger builds the process-wide structured logger. Quiet mode keeps
// warnings and errors only.
func newLogger(quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Convert a file or directory of documents to markdown",
		ArgsUsage: "<input-path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "output directory (or .md path in single-file mode)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML configuration file",
			},
			&cli.BoolFlag{
				Name:  "metadata-header",
				Usage: "prepend a source/stats comment to each markdown file",
			},
			&cli.Float64Flag{
				Name:  "max-file-size",
				Usage: "maximum file size to process, in MB",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "number of concurrent extraction workers",
			},
			&cli.BoolFlag{
				Name:  "flat",
				Usage: "write all outputs into the output root without mirroring folders",
			},
			&cli.BoolFlag{
				Name:  "no-json",
				Usage: "skip the JSON metadata file",
			},
			&cli.BoolFlag{
				Name:  "no-combined-file",
				Usage: "skip the combined markdown file",
			},
			&cli.BoolFlag{
				Name:  "include-content-in-json",
				Usage: "embed full document text in the JSON metadata",
			},
			&cli.BoolFlag{
				Name:  "catalog",
				Usage: "record run results in a SQLite catalog",
			},
			&cli.BoolFlag{
				Name:  "preview",
				Usage: "render an HTML preview of the combined markdown",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "log warnings and errors only",
			},
		},
		Action: runProcess,
	}
}

func runProcess(c *cli.Context) error {
	if c.NArg() < 1 {
		return errors.NewInvalidRequest("input path is required")
	}
	inputPath := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	outputPath := c.String("output-dir")
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}

	logger := newLogger(c.Bool("quiet"))
	backend := extract.NewNative(logger)
	proc, err := pipeline.New(inputPath, outputPath, cfg, backend, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Starting processing...\nInput:  %s\nOutput: %s\n\n", proc.InputPath, proc.OutputPath)

	snap, err := proc.Run(c.Context)
	if err != nil {
		return err
	}

	var jsonPath, combinedPath string
	if !proc.SingleFileMode() {
		w := output.NewWriter(proc.InputPath, proc.OutputPath, cfg.JSONOutput, logger)
		jsonPath = w.WriteJSON(snap)
		if cfg.JSONOutput.Enabled {
			combinedPath = w.WriteCombined(snap)
		}
		w.WriteSummary(snap)
		if cfg.Preview.Enabled {
			w.WritePreview(snap)
		}
		if cfg.Catalog.Enabled {
			writeCatalog(proc.OutputPath, w.RunID, snap, logger)
		}
	}

	fmt.Fprint(c.App.Writer, output.ConsoleSummary(snap, proc.OutputPath, jsonPath, combinedPath))
	return nil
}

// loadConfig builds the run configuration: defaults, then the config
// file if given, then command-line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.Bool("metadata-header") {
		cfg.Output.IncludeMetadataHeader = true
	}
	if c.IsSet("max-file-size") {
		cfg.Extraction.MaxFileSizeMB = c.Float64("max-file-size")
	}
	if c.IsSet("workers") {
		cfg.Extraction.Workers = c.Int("workers")
	}
	if c.Bool("flat") {
		cfg.Output.PreserveStructure = false
	}
	if c.Bool("no-json") {
		cfg.JSONOutput.Enabled = false
	}
	if c.Bool("no-combined-file") {
		cfg.JSONOutput.CreateCombinedFile = false
	}
	if c.Bool("include-content-in-json") {
		cfg.JSONOutput.IncludeContent = true
	}
	if c.Bool("catalog") {
		cfg.Catalog.Enabled = true
	}
	if c.Bool("preview") {
		cfg.Preview.Enabled = true
	}
	return cfg, nil
}

// defaultOutputPath picks the output location when none was given: a
// sibling .md file for a single input file, a sibling processed-<name>
// directory for an input directory.
func defaultOutputPath(inputPath string) string {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		abs = inputPath
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		stem := strings.TrimSuffix(filepath.Base(abs), filepath.Ext(abs))
		return filepath.Join(filepath.Dir(abs), stem+".md")
	}
	return filepath.Join(filepath.Dir(abs), "processed-"+filepath.Base(abs))
}

// writeCatalog persists the run into the SQLite catalog. Catalog
// failures are logged, not fatal: the markdown outputs already exist.
func writeCatalog(outputPath, runID string, snap *pipeline.Snapshot, logger *slog.Logger) {
	db, err := catalog.Open(catalog.Path(outputPath))
	if err != nil {
		logger.Error("cannot open catalog", "error", err)
		return
	}
	defer db.Close()

	if err := catalog.Write(db, runID, snap); err != nil {
		logger.Error("cannot write catalog", "run_id", runID, "error", err)
		return
	}
	logger.Info("catalog updated", "run_id", runID, "documents", len(snap.Documents))
}

func formatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "List supported file extensions",
		Action: func(c *cli.Context) error {
			cfg := config.Default()
			native := map[string]bool{}
			for _, ext := range extract.SupportedExtensions() {
				native[ext] = true
			}
			for _, ext := range cfg.Extraction.SupportedExtensions {
				how := "no extractor, produces a failure stub"
				switch {
				case ext == ".txt" || ext == ".md":
					how = "direct copy"
				case native[ext]:
					how = "native extraction"
				}
				fmt.Fprintf(c.App.Writer, "%-8s %s\n", ext, how)
			}
			return nil
		},
	}
}

func generateConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate-config",
		Usage:     "Write a default configuration file",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			path := "docsmith.yaml"
			if c.NArg() > 0 {
				path = c.Args().First()
			}
			if err := config.WriteDefault(path); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Generated default configuration at: %s\n", path)
			return nil
		},
	}
}
