// Package sanitize normalizes extracted document text for language-model
// consumption. The pipeline is a fixed, ordered composition of pure
// transforms; applying it to its own output yields no further change.
package sanitize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Sanitize applies the full normalization pipeline.
//
// Step order is load-bearing: spreadsheet and padding cleanups assume
// unicode normalization has already run, and table compression must run
// before the generic whitespace pass collapses the very column
// whitespace it inspects. Escaped newlines are collapsed first so the
// line-oriented matchers see real line boundaries, and unicode
// normalization runs before boilerplate stripping so the patterns match
// composed text; both orderings are required for the pipeline to be a
// fixpoint of itself.
func Sanitize(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	text = escapedNewlineRe.ReplaceAllString(text, "\n")
	text = normalizeSpecialCharacters(text)
	text = stripBoilerplate(text)
	text = cleanSpreadsheetArtifacts(text)
	text = collapseAlignedPadding(text)
	text = compressTableLines(text)
	text = normalizeWhitespace(text)
	text = collapseRepeatedPunctuation(text)
	text = normalizeNumbers(text)
	text = dropNonAlnumLines(text)

	text = strings.TrimSpace(text)
	return blankRunRe.ReplaceAllString(text, "\n\n")
}

// stripBoilerplate removes publisher watermark lines, font-escape tokens,
// and standalone page markers.
func stripBoilerplate(text string) string {
	text = fontEscapeRe.ReplaceAllString(text, "")
	for _, pat := range boilerplateLinePatterns {
		text = pat.ReplaceAllString(text, "")
	}
	return pageMarkerRe.ReplaceAllString(text, "")
}

// asciiReplacer substitutes typographic and symbol characters that NFKC
// leaves alone with ASCII-safe equivalents.
var asciiReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"—", "-", // em dash
	"–", "-", // en dash
	"…", "...", // ellipsis (also produced by NFKC)
	"€", "EUR",
	"§", "section",
	"®", "(R)",
	"©", "(C)",
	"™", "(TM)",
	"°", "deg",
	"±", "+/-",
	"×", "x",
	"÷", "/",
	"≤", "<=",
	"≥", ">=",
	"≠", "!=",
	"≈", "~=",
)

// normalizeSpecialCharacters applies NFKC, the ASCII substitution table,
// and strips remaining control characters (keeping \t \n \r).
func normalizeSpecialCharacters(text string) string {
	text = norm.NFKC.String(text)
	text = asciiReplacer.Replace(text)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return r
		case r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f):
			return -1
		}
		return r
	}, text)
}

var (
	escapedNewlineRe = regexp.MustCompile(`\\+n`)
	unnamedColRe     = regexp.MustCompile(`Unnamed: +\d+`)
	nanTokenRe       = regexp.MustCompile(`\bNaN\b`)
	datetimeRe       = regexp.MustCompile(`(\d{4}-\d{2}-\d{2}) +\d{2}:\d{2}:\d{2}`)
	dateSuffixRe     = regexp.MustCompile(`(\d{4}-\d{2}-\d{2})(?:\.\d+)+`)
)

// cleanSpreadsheetArtifacts removes debris left by spreadsheet-to-text
// exports: placeholder column names, NaN cells, time-of-day noise on
// date cells, and the ".1"-style dedup suffixes pandas appends to
// repeated datetime columns.
func cleanSpreadsheetArtifacts(text string) string {
	text = unnamedColRe.ReplaceAllString(text, "Col")
	text = nanTokenRe.ReplaceAllString(text, "-")
	text = datetimeRe.ReplaceAllString(text, "$1")
	return dateSuffixRe.ReplaceAllString(text, "$1")
}

var (
	centeredPaddingRe = regexp.MustCompile(`(?m)^ {20,}(\S(?:.{0,48}\S)?) {10,}$`)
	trailingPaddingRe = regexp.MustCompile(`(?m) {20,}$`)
)

// collapseAlignedPadding unwraps lines that column-aligned exports have
// centered or right-padded with huge space runs.
func collapseAlignedPadding(text string) string {
	text = centeredPaddingRe.ReplaceAllString(text, "$1")
	return trailingPaddingRe.ReplaceAllString(text, "")
}

var (
	spaceRunRe      = regexp.MustCompile(` {2,}`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
	trailingSpaceRe = regexp.MustCompile(` +\n`)
	leadingSpaceRe  = regexp.MustCompile(`\n +`)
)

// normalizeWhitespace collapses space runs, caps blank-line runs at one
// blank line, and trims spaces around line breaks.
func normalizeWhitespace(text string) string {
	text = spaceRunRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = trailingSpaceRe.ReplaceAllString(text, "\n")
	return leadingSpaceRe.ReplaceAllString(text, "\n")
}

var (
	ruleRunRe      = regexp.MustCompile(`[-=_]{10,}`)
	dotRunRe       = regexp.MustCompile(`\.{3,}`)
	dashRunRe      = regexp.MustCompile(`-{3,}`)
	equalsRunRe    = regexp.MustCompile(`={3,}`)
	separatorRunRe = regexp.MustCompile(`[,;]{2,}`)
)

// collapseRepeatedPunctuation shortens long runs of rule and separator
// characters to a canonical three-character token.
func collapseRepeatedPunctuation(text string) string {
	text = ruleRunRe.ReplaceAllString(text, "---")
	text = dotRunRe.ReplaceAllString(text, "...")
	text = dashRunRe.ReplaceAllString(text, "---")
	text = equalsRunRe.ReplaceAllString(text, "===")
	return separatorRunRe.ReplaceAllString(text, ",")
}

var (
	zeroDecimalRe = regexp.MustCompile(`(\d+)\.0+\b`)
	zeroPercentRe = regexp.MustCompile(`(\d+)\.0+%`)
)

// normalizeNumbers strips redundant trailing zero decimals from plain
// numbers and percentages. Date separators are left untouched.
func normalizeNumbers(text string) string {
	text = zeroDecimalRe.ReplaceAllString(text, "$1")
	return zeroPercentRe.ReplaceAllString(text, "$1%")
}

var tableGapRe = regexp.MustCompile(` {2,}|\t+`)

// compressTableLines converts lines with heavy column whitespace into a
// compact pipe-delimited form.
func compressTableLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Count(line, " ") > 10 || strings.Count(line, "\t") > 3 {
			lines[i] = tableGapRe.ReplaceAllString(strings.TrimSpace(line), " | ")
		}
	}
	return strings.Join(lines, "\n")
}

var alnumRe = regexp.MustCompile(`[a-zA-Z0-9]`)

// dropNonAlnumLines discards lines with no alphanumeric content unless
// they are very short. Blank lines and short markers (bullets, rules
// already collapsed to "---") survive; pure whitespace noise does not.
func dropNonAlnumLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if alnumRe.MatchString(trimmed) || len(trimmed) <= 3 {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
