package pipeline

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hpungsan/docsmith/internal/config"
)

// Discover walks root recursively and returns every regular file in
// traversal order. Symbolic links are not followed, which keeps the walk
// inside the input tree and free of cycles. An unreadable subdirectory
// is logged and left out; it never aborts the batch.
func Discover(root string, logger *slog.Logger) []string {
	if logger == nil {
		logger = slog.Default()
	}
	var files []string
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	return files
}

// osArtifacts are files that desktop environments scatter into
// directories, matched case-insensitively.
var osArtifacts = map[string]bool{
	".ds_store":   true,
	"thumbs.db":   true,
	"desktop.ini": true,
}

// skipByName reports whether the file name alone disqualifies the file:
// hidden dot-files and OS artifacts (when skip_hidden_files is set) and
// Office lock files (when skip_temp_files is set).
func skipByName(name string, cfg *config.ExtractionConfig) bool {
	if cfg.SkipHiddenFiles {
		if strings.HasPrefix(name, ".") || osArtifacts[strings.ToLower(name)] {
			return true
		}
	}
	if cfg.SkipTempFiles && strings.HasPrefix(name, "~$") {
		return true
	}
	return false
}
