package extract

import "testing"

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{`a\040b`, "a b"},
		{`line\nbreak`, "line\nbreak"},
		{`tab\there`, "tab\there"},
		{`escaped \( paren \)`, "escaped ( paren )"},
		{`back\\slash`, `back\slash`},
		{`\101\102\103`, "ABC"},
	}
	for _, tt := range tests {
		if got := decodePDFString([]byte(tt.in)); got != tt.want {
			t.Errorf("decodePDFString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTextFromContentStream(t *testing.T) {
	stream := []byte("BT\n/F1 12 Tf\n(Hello) Tj\n0 -14 Td\n(World) Tj\nET\n")
	got := textFromContentStream(stream)
	if got != "Hello World" {
		t.Errorf("textFromContentStream() = %q, want %q", got, "Hello World")
	}
}

func TestTextFromContentStreamTJArray(t *testing.T) {
	stream := []byte("BT\n[(Hel) -20 (lo)] TJ\nT*\n(next line) Tj\nET\n")
	got := textFromContentStream(stream)
	if got != "Hello\nnext line" {
		t.Errorf("textFromContentStream() = %q, want %q", got, "Hello\nnext line")
	}
}

func TestTextFromContentStreamEmpty(t *testing.T) {
	if got := textFromContentStream([]byte("BT\n/F1 12 Tf\nET\n")); got != "" {
		t.Errorf("textFromContentStream() = %q, want empty", got)
	}
}

func TestExtractPDFMissingFile(t *testing.T) {
	if _, err := extractPDF("/nonexistent/file.pdf"); err == nil {
		t.Error("extractPDF() succeeded on missing file")
	}
}
