package extract

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestEvaluateQualityPasses(t *testing.T) {
	text := "This is a perfectly reasonable paragraph of extracted text with more than enough words and characters to clear every gate."
	if reason := EvaluateQuality(text, 2048); reason != "" {
		t.Errorf("EvaluateQuality() = %q, want pass", reason)
	}
}

func TestEvaluateQualityEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		if reason := EvaluateQuality(text, 1024); reason != "empty_text" {
			t.Errorf("EvaluateQuality(%q) = %q, want empty_text", text, reason)
		}
	}
}

func TestEvaluateQualityShortText(t *testing.T) {
	if reason := EvaluateQuality("too short", 1024); reason != "very_short_text" {
		t.Errorf("EvaluateQuality() = %q, want very_short_text", reason)
	}
}

func TestEvaluateQualityGarbled(t *testing.T) {
	text := strings.Repeat("�", 40) + " some readable words here to pad the rune count past fifty"
	reason := EvaluateQuality(text, 1024)
	if !strings.HasPrefix(reason, "high_garbled_ratio_") {
		t.Errorf("EvaluateQuality() = %q, want high_garbled_ratio_ prefix", reason)
	}
}

func TestEvaluateQualityFewWords(t *testing.T) {
	// One long token: plenty of characters, almost no words.
	text := strings.Repeat("abcdefghij", 6)
	if reason := EvaluateQuality(text, 1024); reason != "very_few_words" {
		t.Errorf("EvaluateQuality() = %q, want very_few_words", reason)
	}
}

func TestEvaluateQualitySizeMismatch(t *testing.T) {
	// Enough text to clear the earlier gates, far too little for a
	// half-megabyte source.
	text := "eleven small words fill out this line and clear both minimum gates"
	want := fmt.Sprintf("size_mismatch_file=500kb_text=%dchars", utf8.RuneCountInString(text))
	if reason := EvaluateQuality(text, 512000); reason != want {
		t.Errorf("EvaluateQuality() = %q, want %q", reason, want)
	}
}

func TestEvaluateQualitySmallSourceNoMismatch(t *testing.T) {
	text := "eleven small words fill out this line and clear both minimum gates"
	if reason := EvaluateQuality(text, 4096); reason != "" {
		t.Errorf("EvaluateQuality() = %q, want pass for small source", reason)
	}
}

func TestGarbledRatioCleanText(t *testing.T) {
	if ratio := garbledRatio("completely ordinary text"); ratio != 0 {
		t.Errorf("garbledRatio() = %v, want 0", ratio)
	}
}
