package sanitize

import "regexp"

// boilerplateLinePatterns match publisher boilerplate and watermark text
// that PDF extraction leaks into body content. Each pattern consumes from
// its marker to the end of the line. The list covers the SFS / CEN
// standards-catalog boilerplate observed in practice; extend it here when
// a new publisher shows up.
//
// Copyright markers are matched both in their raw form (©) and in the
// ASCII form ((C)) that the symbol-substitution step produces, so a
// second sanitization pass finds nothing new to remove.
var boilerplateLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`Tämä julkaisu on ladattu SFS Online-palvelusta[^\n]*`),
	regexp.MustCompile(`Tämä julkaisu on ostettu SFS Kaupasta[^\n]*`),
	regexp.MustCompile(`Lataaja: IP-käyttäjä\.[^\n]*`),
	regexp.MustCompile(`Julkaisua saa tulostaa 1 kpl ja asentaa 1 työasemalle\.[^\n]*`),
	regexp.MustCompile(`Suomen Standardisoimisliitto SFS SFS-EN[^\n]*`),
	regexp.MustCompile(`Finnish Standards Association SFS \d+[^\n]*`),
	regexp.MustCompile(`Monta tapaa tilata[^\n]*`),
	regexp.MustCompile(`Pysy ajan tasalla[^\n]*`),
	regexp.MustCompile(`SFS-kauppa[^\n]*`),
	regexp.MustCompile(`SFS Online[^\n]*`),
	regexp.MustCompile(`Asiakaspalvelu auttaa[^\n]*`),
	regexp.MustCompile(`facebook\.com/Standardeista[^\n]*`),
	regexp.MustCompile(`@standardeista[^\n]*`),
	regexp.MustCompile(`Haluatko tietää[^\n]*`),
	regexp.MustCompile(`Tilaa sähköinen[^\n]*`),
	regexp.MustCompile(`Verkkokaupassa[^\n]*`),
	regexp.MustCompile(`Kiinnostuitko[^\n]*`),
	regexp.MustCompile(`Ota yh[^\n]*`),
	regexp.MustCompile(`Tätä julkaisua myy[^\n]*`),
	regexp.MustCompile(`Julkaistu: SFS[^\n]*`),
	regexp.MustCompile(`Copyright (?:©|\(C\)) SFS\.[^\n]*`),
	regexp.MustCompile(`(?:©|\(C\)) ISO \d+ - All rights reserved[^\n]*`),
	regexp.MustCompile(`(?:©|\(C\)) SFS \d+ for the translation[^\n]*`),
	regexp.MustCompile(`(?:©|\(C\)) \d+ CEN/CLC[^\n]*`),
	regexp.MustCompile(`CEN-CENELEC Management Centre:[^\n]*`),
	regexp.MustCompile(`Tietopalvelumme tarjoaa[^\n]*`),
	regexp.MustCompile(`Lue lisää www[^\n]*`),
	regexp.MustCompile(`Kysy lisää SFS:n asiakaspalve[^\n]*`),
}

// fontEscapeRe matches vendor font-escape tokens like /uni00E4 that some
// PDF producers emit instead of glyphs.
var fontEscapeRe = regexp.MustCompile(`/uni[0-9A-Fa-f]{4,5}`)

// pageMarkerRe matches standalone "page (of pages)" lines, e.g. "3 (12)".
// The page number may carry a decimal tail ("3.0 (12)"): the number
// normalization step strips such tails later, and the marker must be
// gone before that rewrite or a second pass would find a new match.
var pageMarkerRe = regexp.MustCompile(`(?m)^\s*\d+(?:\.\d+)?\s*\(\d+\)\s*$`)
