package pipeline

import (
	"fmt"
	"sync"
	"testing"
)

func TestCalculateTextStats(t *testing.T) {
	ts := CalculateTextStats("hello world")
	if ts.Chars != 11 {
		t.Errorf("Chars = %d, want 11", ts.Chars)
	}
	if ts.Words != 2 {
		t.Errorf("Words = %d, want 2", ts.Words)
	}
	if ts.Tokens != 2 {
		t.Errorf("Tokens = %d, want 2 (11/4)", ts.Tokens)
	}
}

func TestCalculateTextStatsEmpty(t *testing.T) {
	ts := CalculateTextStats("")
	if ts.Chars != 0 || ts.Words != 0 || ts.Tokens != 0 {
		t.Errorf("stats for empty text = %+v, want zeros", ts)
	}
}

func TestStatsConcurrentCounters(t *testing.T) {
	s := NewStats()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddTotal()
			s.AddProcessed()
			s.AddText(TextStats{Chars: 4, Words: 1, Tokens: 1})
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if snap.TotalFiles != 100 || snap.ProcessedFiles != 100 {
		t.Errorf("counters = total %d processed %d, want 100/100", snap.TotalFiles, snap.ProcessedFiles)
	}
	if snap.TotalChars != 400 || snap.TotalWords != 100 || snap.TotalTokens != 100 {
		t.Errorf("text sums = %d/%d/%d, want 400/100/100", snap.TotalChars, snap.TotalWords, snap.TotalTokens)
	}
}

func TestStatsDocumentIDsContiguous(t *testing.T) {
	s := NewStats()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddDocument(DocumentRecord{
				Filename: "f.txt",
				Metadata: DocumentMetadata{ExtractionMethod: "direct_copy"},
			})
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Documents) != n {
		t.Fatalf("got %d documents, want %d", len(snap.Documents), n)
	}

	seen := map[string]bool{}
	for _, doc := range snap.Documents {
		if seen[doc.ID] {
			t.Errorf("duplicate document id %s", doc.ID)
		}
		seen[doc.ID] = true
	}
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("doc_%03d", i)
		if !seen[id] {
			t.Errorf("missing document id %s", id)
		}
	}

	if snap.Methods["direct_copy"] != n {
		t.Errorf("method tally = %d, want %d", snap.Methods["direct_copy"], n)
	}
}

func TestStatsDocumentIDsReflectAppendOrder(t *testing.T) {
	s := NewStats()
	first := s.AddDocument(DocumentRecord{Filename: "a"})
	second := s.AddDocument(DocumentRecord{Filename: "b"})
	if first != "doc_001" || second != "doc_002" {
		t.Errorf("ids = %s, %s, want doc_001, doc_002", first, second)
	}
}

func TestDocumentType(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".pdf", "document"},
		{".pptx", "presentation"},
		{".xlsx", "spreadsheet"},
		{".html", "webpage"},
		{".csv", "data"},
		{".md", "markdown"},
		{".weird", "document"},
		{"", "document"},
	}
	for _, tt := range tests {
		if got := DocumentType(tt.ext); got != tt.want {
			t.Errorf("DocumentType(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
