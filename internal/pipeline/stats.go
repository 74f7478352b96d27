package pipeline

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// TextStats are the derived statistics for one piece of output text.
// Token count is the usual chars/4 estimate.
type TextStats struct {
	Chars  int
	Words  int
	Tokens int
}

// CalculateTextStats derives TextStats from text content.
func CalculateTextStats(text string) TextStats {
	chars := utf8.RuneCountInString(text)
	return TextStats{
		Chars:  chars,
		Words:  len(strings.Fields(text)),
		Tokens: chars / 4,
	}
}

// FileRecord is one successfully processed file, as reported in the
// summary table.
type FileRecord struct {
	Filename string
	RelPath  string
	Tokens   int
	Words    int
	Chars    int
}

// DocumentMetadata is the per-document metadata block of the JSON output.
type DocumentMetadata struct {
	SourcePath       string `json:"source_path"`
	ExtractionMethod string `json:"extraction_method"`
	ExtractionStatus string `json:"extraction_status"`
	WordCount        int    `json:"word_count"`
	CharCount        int    `json:"char_count"`
	EstimatedTokens  int    `json:"estimated_tokens"`
}

// DocumentRecord is one document entry of the JSON output. ID is assigned
// by the aggregator at append time.
type DocumentRecord struct {
	ID           string           `json:"id"`
	Filename     string           `json:"filename"`
	DocumentType string           `json:"document_type"`
	Category     string           `json:"category"`
	Folder       string           `json:"folder"`
	RelativePath string           `json:"relative_path"`
	Content      string           `json:"content,omitempty"`
	Metadata     DocumentMetadata `json:"metadata"`
}

var documentTypes = map[string]string{
	".pdf":  "document",
	".docx": "document",
	".doc":  "document",
	".pptx": "presentation",
	".ppt":  "presentation",
	".xlsx": "spreadsheet",
	".xls":  "spreadsheet",
	".xlsb": "spreadsheet",
	".html": "webpage",
	".htm":  "webpage",
	".xml":  "markup",
	".md":   "markdown",
	".txt":  "text",
	".csv":  "data",
	".tsv":  "data",
	".rtf":  "document",
	".odt":  "document",
	".epub": "document",
}

// DocumentType maps an extension (lower-case, with dot) to a coarse
// document type. Unknown extensions are plain documents.
func DocumentType(ext string) string {
	if t, ok := documentTypes[ext]; ok {
		return t
	}
	return "document"
}

// Stats is the run aggregator. It has two independent lock domains:
// scalar counters (file counts, method tally, running text sums) and the
// record/document lists. Workers mutate it concurrently; document ids
// are assigned under the list lock so the sequence has no gaps or
// duplicates regardless of completion order.
type Stats struct {
	countersMu sync.Mutex
	total      int
	processed  int
	failed     int
	skipped    int
	methods    map[string]int
	chars      int
	words      int
	tokens     int

	listsMu   sync.Mutex
	files     []FileRecord
	documents []DocumentRecord
}

// NewStats creates an empty aggregator.
func NewStats() *Stats {
	return &Stats{methods: make(map[string]int)}
}

// AddTotal counts one discovered file.
func (s *Stats) AddTotal() {
	s.countersMu.Lock()
	s.total++
	s.countersMu.Unlock()
}

// AddSkipped counts one skipped file.
func (s *Stats) AddSkipped() {
	s.countersMu.Lock()
	s.skipped++
	s.countersMu.Unlock()
}

// AddFailed counts one failed file.
func (s *Stats) AddFailed() {
	s.countersMu.Lock()
	s.failed++
	s.countersMu.Unlock()
}

// AddProcessed counts one successfully processed file.
func (s *Stats) AddProcessed() {
	s.countersMu.Lock()
	s.processed++
	s.countersMu.Unlock()
}

// AddText folds one file's text statistics into the running sums.
func (s *Stats) AddText(ts TextStats) {
	s.countersMu.Lock()
	s.chars += ts.Chars
	s.words += ts.Words
	s.tokens += ts.Tokens
	s.countersMu.Unlock()
}

// AddRecord appends one file record for the summary table.
func (s *Stats) AddRecord(rec FileRecord) {
	s.listsMu.Lock()
	s.files = append(s.files, rec)
	s.listsMu.Unlock()
}

// AddDocument assigns the next sequential document id, tallies the
// extraction method, appends the record, and returns the id. Ids reflect
// append order, not discovery order.
func (s *Stats) AddDocument(doc DocumentRecord) string {
	s.listsMu.Lock()
	doc.ID = fmt.Sprintf("doc_%03d", len(s.documents)+1)
	s.documents = append(s.documents, doc)
	s.listsMu.Unlock()

	s.countersMu.Lock()
	s.methods[doc.Metadata.ExtractionMethod]++
	s.countersMu.Unlock()

	return doc.ID
}

// Snapshot is the read-only final state of one run.
type Snapshot struct {
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	SkippedFiles   int
	Methods        map[string]int
	TotalChars     int
	TotalWords     int
	TotalTokens    int
	Files          []FileRecord
	Documents      []DocumentRecord
}

// Snapshot copies the aggregator state. Callers use it only after every
// worker has finished.
func (s *Stats) Snapshot() *Snapshot {
	s.countersMu.Lock()
	snap := &Snapshot{
		TotalFiles:     s.total,
		ProcessedFiles: s.processed,
		FailedFiles:    s.failed,
		SkippedFiles:   s.skipped,
		Methods:        make(map[string]int, len(s.methods)),
		TotalChars:     s.chars,
		TotalWords:     s.words,
		TotalTokens:    s.tokens,
	}
	for m, n := range s.methods {
		snap.Methods[m] = n
	}
	s.countersMu.Unlock()

	s.listsMu.Lock()
	snap.Files = append([]FileRecord(nil), s.files...)
	snap.Documents = append([]DocumentRecord(nil), s.documents...)
	s.listsMu.Unlock()

	return snap
}
