package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// openZipEntry finds a named file inside a ZIP archive and opens it.
func openZipEntry(r *zip.ReadCloser, name string) (io.ReadCloser, error) {
	for _, f := range r.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// extractDocx parses word/document.xml from a .docx archive. Headings
// (pStyle Heading1..6, Title, Subtitle) become markdown headings.
func extractDocx(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	rc, err := openZipEntry(r, "word/document.xml")
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var currentText strings.Builder
	var inParagraph bool
	var paragraphStyle string

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "p":
				inParagraph = true
				currentText.Reset()
				paragraphStyle = ""
			case t.Name.Local == "pStyle" && inParagraph:
				for _, attr := range t.Attr {
					if attr.Name.Local == "val" {
						paragraphStyle = attr.Value
					}
				}
			case t.Name.Local == "tab" && inParagraph:
				currentText.WriteByte('\t')
			case t.Name.Local == "br" && inParagraph:
				currentText.WriteByte('\n')
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if text == "" {
					continue
				}
				if sb.Len() > 0 {
					sb.WriteString("\n\n")
				}
				if level := wordHeadingLevel(paragraphStyle); level > 0 {
					sb.WriteString(strings.Repeat("#", level))
					sb.WriteByte(' ')
				}
				sb.WriteString(text)
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in document")
	}
	return sb.String(), nil
}

// wordHeadingLevel maps a paragraph style name to a heading level.
// "Heading1" → 1, "Title" → 1, "Subtitle" → 2, localized variants too.
func wordHeadingLevel(style string) int {
	lower := strings.ToLower(style)

	if lower == "title" {
		return 1
	}
	if lower == "subtitle" {
		return 2
	}

	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := lower[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '6' {
				return int(rest[0] - '0')
			}
		}
	}
	return 0
}

// extractODT parses content.xml from an OpenDocument Text archive.
// text:h elements carry an outline-level attribute used as the heading
// level.
func extractODT(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	rc, err := openZipEntry(r, "content.xml")
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var currentText strings.Builder
	var depth int
	var headingLevel int

	flush := func() {
		text := strings.TrimSpace(currentText.String())
		currentText.Reset()
		if text == "" {
			return
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		if headingLevel > 0 {
			if headingLevel > 6 {
				headingLevel = 6
			}
			sb.WriteString(strings.Repeat("#", headingLevel))
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				depth++
				headingLevel = 0
			case "h":
				depth++
				headingLevel = 1
				for _, attr := range t.Attr {
					if attr.Name.Local == "outline-level" && len(attr.Value) == 1 {
						if lvl := int(attr.Value[0] - '0'); lvl >= 1 && lvl <= 9 {
							headingLevel = lvl
						}
					}
				}
			case "tab":
				if depth > 0 {
					currentText.WriteByte('\t')
				}
			case "line-break":
				if depth > 0 {
					currentText.WriteByte('\n')
				}
			}

		case xml.CharData:
			if depth > 0 {
				currentText.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "h" {
				if depth > 0 {
					depth--
				}
				if depth == 0 {
					flush()
				}
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in document")
	}
	return sb.String(), nil
}

// extractPptx collects text runs from each slide of a .pptx archive, in
// slide order. Slides are separated by blank lines.
func extractPptx(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var slides []string
	for _, f := range r.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f.Name)
		}
	}
	if len(slides) == 0 {
		return "", fmt.Errorf("no slides in archive")
	}
	// slide10.xml must sort after slide2.xml.
	sort.Slice(slides, func(i, j int) bool {
		if len(slides[i]) != len(slides[j]) {
			return len(slides[i]) < len(slides[j])
		}
		return slides[i] < slides[j]
	})

	var sb strings.Builder
	for _, name := range slides {
		rc, err := openZipEntry(r, name)
		if err != nil {
			continue
		}
		text := slideText(rc)
		rc.Close()
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(text)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in slides")
	}
	return sb.String(), nil
}

// slideText extracts a:t text runs from one slide, one line per
// paragraph.
func slideText(rc io.Reader) string {
	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var inRun bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inRun = true
			}
		case xml.CharData:
			if inRun {
				sb.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inRun = false
			case "p":
				sb.WriteByte('\n')
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

// extractXlsx extracts cell text from the shared-strings table of a
// .xlsx archive, one string per line. Sheet layout is not reconstructed;
// the sanitizer's table compression handles column structure for CSV
// exports, and workbook text content is what matters downstream.
func extractXlsx(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	rc, err := openZipEntry(r, "xl/sharedStrings.xml")
	if err != nil {
		return "", err
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var sb strings.Builder
	var current strings.Builder
	var depth int

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "si" {
				depth++
				current.Reset()
			}
		case xml.CharData:
			if depth > 0 {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "si" && depth > 0 {
				depth--
				if text := strings.TrimSpace(current.String()); text != "" {
					sb.WriteString(text)
					sb.WriteByte('\n')
				}
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in workbook")
	}
	return sb.String(), nil
}
