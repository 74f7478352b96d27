package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hpungsan/docsmith/internal/errors"
)

// Resolve maps a source file to its output path: the relative path of
// sourcePath under inputRoot is re-rooted under outputRoot with the
// extension replaced by .md. When preserveStructure is false only the
// base name is kept.
//
// Safety is checked twice. First textually: any ".." segment in the
// relative path is rejected, which also yields a usable error message.
// Then canonically: the candidate and the root are resolved through
// their deepest existing ancestor, and the candidate must remain inside
// the root by path segments. The textual check alone can be defeated by
// symlinks; the canonical check alone cannot say why a path was bad.
func Resolve(sourcePath, inputRoot, outputRoot string, preserveStructure bool) (string, error) {
	rel, err := filepath.Rel(inputRoot, sourcePath)
	if err != nil {
		rel = filepath.Base(sourcePath)
	}

	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if part == ".." {
			return "", errors.NewPathEscape(rel, outputRoot)
		}
	}

	if !preserveStructure {
		rel = filepath.Base(rel)
	}
	stem := strings.TrimSuffix(rel, filepath.Ext(rel))
	candidate := filepath.Join(outputRoot, stem+".md")

	canonCandidate, err := canonicalize(candidate)
	if err != nil {
		return "", errors.NewIO(err)
	}
	canonRoot, err := canonicalize(outputRoot)
	if err != nil {
		return "", errors.NewIO(err)
	}
	if !isWithin(canonRoot, canonCandidate) {
		return "", errors.NewPathEscape(candidate, outputRoot)
	}

	return candidate, nil
}

// checkPreconditions rejects run setups that would corrupt the input:
// identical input and output paths, or an output root nested inside the
// input directory (the run would recursively consume its own output).
func checkPreconditions(inputPath, outputPath string) error {
	if inputPath == outputPath {
		return errors.NewPrecondition("input and output paths cannot be the same")
	}

	info, err := os.Stat(inputPath)
	if err != nil || !info.IsDir() {
		return nil
	}

	canonIn, err := canonicalize(inputPath)
	if err != nil {
		return errors.NewIO(err)
	}
	canonOut, err := canonicalize(outputPath)
	if err != nil {
		return errors.NewIO(err)
	}
	if canonIn == canonOut {
		return errors.NewPrecondition("input and output paths cannot be the same")
	}
	if isWithin(canonIn, canonOut) {
		return errors.NewPrecondition("output path cannot be inside input directory")
	}
	return nil
}

// canonicalize makes path absolute and resolves symlinks through its
// deepest existing ancestor, rejoining any not-yet-created remainder.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	existing := abs
	var suffix []string
	for {
		if _, err := os.Lstat(existing); err == nil {
			break
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		suffix = append([]string{filepath.Base(existing)}, suffix...)
		existing = parent
	}

	resolved, err := filepath.EvalSymlinks(existing)
	if err != nil {
		resolved = existing
	}
	return filepath.Join(append([]string{resolved}, suffix...)...), nil
}

// isWithin reports whether child is parent or lies under it. Containment
// is decided by path segments, not string prefixes, so /out2 is never
// treated as inside /out.
func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return strings.Split(rel, string(filepath.Separator))[0] != ".."
}
