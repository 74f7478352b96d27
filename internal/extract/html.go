package extract

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
)

// extractHTML sanitizes the page with bluemonday, then converts the
// remaining markup to markdown. Scripts, styles and event handlers are
// stripped before conversion.
func (n *Native) extractHTML(path string) (string, error) {
	raw, err := readTextFile(path)
	if err != nil {
		return "", err
	}

	policy := bluemonday.UGCPolicy()
	cleaned := policy.Sanitize(raw)

	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)

	markdown, err := conv.ConvertString(cleaned)
	if err != nil {
		n.logger.Debug("markdown conversion failed", "path", path, "error", err)
		return "", fmt.Errorf("html conversion: %w", err)
	}
	if strings.TrimSpace(markdown) == "" {
		return "", fmt.Errorf("no text content in page")
	}
	return markdown, nil
}

// extractXML strips tags and returns the character data, one line per
// text node.
func extractXML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	decoder := xml.NewDecoder(f)
	var sb strings.Builder
	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			if text := strings.TrimSpace(string(cd)); text != "" {
				sb.WriteString(text)
				sb.WriteByte('\n')
			}
		}
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in document")
	}
	return strings.TrimSpace(sb.String()), nil
}
