package extract

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errInvalidUTF8 = errors.New("file is not valid UTF-8 text")

// Quality-gate thresholds. These are heuristics, not a correctness
// proof: the garbled-character test in particular will over-flag
// extensive non-Latin text.
const (
	minCharCount          = 50
	minWordCount          = 10
	maxGarbledRatio       = 0.3
	sizeMismatchFileKB    = 100
	sizeMismatchTextChars = 200
)

// mojibake is the byte sequence UTF-8 decoding of mis-encoded Latin-1
// leaves behind for the replacement character.
const mojibake = "ï¿½"

// EvaluateQuality checks externally-extracted text against the quality
// gate and returns a failure reason, or "" if the text passes. Direct
// copies bypass this gate. Checks run in order and short-circuit on the
// first failure.
func EvaluateQuality(text string, sourceSizeBytes int64) string {
	if strings.TrimSpace(text) == "" {
		return "empty_text"
	}

	charCount := utf8.RuneCountInString(text)
	if charCount < minCharCount {
		return "very_short_text"
	}

	if ratio := garbledRatio(text); ratio > maxGarbledRatio {
		return fmt.Sprintf("high_garbled_ratio_%.2f", ratio)
	}

	if len(strings.Fields(text)) < minWordCount {
		return "very_few_words"
	}

	// A substantial source that yields almost nothing usually means the
	// extractor silently failed (e.g. an image-only scan with no text
	// layer).
	fileKB := float64(sourceSizeBytes) / 1024
	if fileKB > sizeMismatchFileKB && charCount < sizeMismatchTextChars {
		return fmt.Sprintf("size_mismatch_file=%.0fkb_text=%dchars", fileKB, charCount)
	}

	return ""
}

// garbledRatio returns the fraction of characters that look like
// extraction damage: control characters, the replacement character,
// mojibake sequences, and anything outside the Basic Multilingual Plane
// (a crude proxy for glyph soup).
func garbledRatio(text string) float64 {
	charCount := utf8.RuneCountInString(text)
	if charCount == 0 {
		return 0
	}

	garbled := 0
	for _, r := range text {
		switch {
		case r < 0x20 && r != '\t' && r != '\n' && r != '\r':
			garbled++
		case r == utf8.RuneError:
			garbled++
		case r > 0xFFFF:
			garbled++
		}
	}
	garbled += strings.Count(text, mojibake)

	return float64(garbled) / float64(charCount)
}
