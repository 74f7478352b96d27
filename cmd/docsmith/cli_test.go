package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/docsmith/internal/config"
)

// runApp runs the CLI with the given arguments and captures stdout.
func runApp(args ...string) (string, error) {
	app := newCLIApp()
	var buf bytes.Buffer
	app.Writer = &buf
	err := app.Run(append([]string{"docsmith"}, args...))
	return buf.String(), err
}

// workflowInput builds an input tree with a plain text file at the root
// and a CSV inside a subfolder.
func workflowInput(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "docs")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "reports"), 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"),
		[]byte("hello world"), 0o644))

	csv := "full name,home city,current role\n" +
		"alice smith,new york,senior engineer\n" +
		"bob jones,san francisco,staff designer\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "reports", "b.csv"),
		[]byte(csv), 0o644))
	return root
}

func TestProcessDirectoryWorkflow(t *testing.T) {
	in := workflowInput(t)
	out := filepath.Join(filepath.Dir(in), "out")

	stdout, err := runApp("process", "--quiet", "-o", out, in)
	require.NoError(t, err)
	require.Contains(t, stdout, "Starting processing...")
	require.Contains(t, stdout, "Processing Summary")
	require.Contains(t, stdout, "Successfully processed: 2")

	// Mirrored markdown outputs.
	data, err := os.ReadFile(filepath.Join(out, "a.md"))
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))

	converted, err := os.ReadFile(filepath.Join(out, "reports", "b.md"))
	require.NoError(t, err)
	require.Contains(t, string(converted), "alice smith")

	// Run artifacts.
	require.FileExists(t, filepath.Join(out, "out.json"))
	require.FileExists(t, filepath.Join(out, "combined-docs.md"))
	require.FileExists(t, filepath.Join(filepath.Dir(out), "out-summary.txt"))
}

func TestProcessNoJSONSkipsArtifacts(t *testing.T) {
	in := workflowInput(t)
	out := filepath.Join(filepath.Dir(in), "out")

	_, err := runApp("process", "--quiet", "--no-json", "-o", out, in)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(out, "a.md"))
	require.NoFileExists(t, filepath.Join(out, "out.json"))
	require.NoFileExists(t, filepath.Join(out, "combined-docs.md"))
}

func TestProcessCatalogAndPreview(t *testing.T) {
	in := workflowInput(t)
	out := filepath.Join(filepath.Dir(in), "out")

	_, err := runApp("process", "--quiet", "--catalog", "--preview", "-o", out, in)
	require.NoError(t, err)

	require.FileExists(t, filepath.Join(out, "out.db"))
	require.FileExists(t, filepath.Join(out, "combined-docs.html"))
}

func TestProcessSingleFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(src, []byte("single file body"), 0o644))

	stdout, err := runApp("process", "--quiet", src)
	require.NoError(t, err)
	require.Contains(t, stdout, "Processing Summary")

	data, err := os.ReadFile(filepath.Join(dir, "note.md"))
	require.NoError(t, err)
	require.Equal(t, "single file body", string(data))

	// No batch artifacts in single-file mode.
	require.NoFileExists(t, filepath.Join(dir, "note.md.json"))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		require.NotContains(t, e.Name(), "combined-")
		require.NotContains(t, e.Name(), "summary")
	}
}

func TestProcessMetadataHeader(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(src, []byte("with header"), 0o644))

	_, err := runApp("process", "--quiet", "--metadata-header", src)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "note.md"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "<!-- source: note.txt"))
	require.Contains(t, string(data), "with header")
}

func TestProcessMissingInput(t *testing.T) {
	_, err := runApp("process", "--quiet", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not exist")
}

func TestProcessRejectsOutputInsideInput(t *testing.T) {
	in := workflowInput(t)
	_, err := runApp("process", "--quiet", "-o", filepath.Join(in, "out"), in)
	require.Error(t, err)
}

func TestProcessRequiresInputArgument(t *testing.T) {
	_, err := runApp("process")
	require.Error(t, err)
	require.Contains(t, err.Error(), "input path is required")
}

func TestGenerateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsmith.yaml")

	stdout, err := runApp("generate-config", path)
	require.NoError(t, err)
	require.Contains(t, stdout, path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, config.Default(), cfg)
}

func TestFormatsCommand(t *testing.T) {
	stdout, err := runApp("formats")
	require.NoError(t, err)
	require.Contains(t, stdout, ".pdf")
	require.Contains(t, stdout, "native extraction")
	require.Contains(t, stdout, "direct copy")
}

func TestDefaultOutputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "report.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	require.Equal(t, filepath.Join(dir, "report.md"), defaultOutputPath(file))
	require.Equal(t,
		filepath.Join(filepath.Dir(dir), "processed-"+filepath.Base(dir)),
		defaultOutputPath(dir))
}
