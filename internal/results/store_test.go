package results

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/joseph-ayodele/evidence-screener/constants"
	"github.com/joseph-ayodele/evidence-screener/internal/review"
)

func record(file, decision string) review.Record {
	return review.Record{
		ArticleTitle: "Title for " + file,
		Decision:     decision,
		Category:     "Client",
		Reasoning:    "reasoning",
		SourceFile:   file,
		ReviewedAt:   time.Now().UTC(),
	}
}

func TestSummarize(t *testing.T) {
	s := NewStore("o3", nil)
	s.Add(record("a.pdf", "include"))
	s.Add(record("b.pdf", "include"))
	s.Add(record("c.pdf", "include"))
	s.Add(record("d.pdf", "exclude"))
	s.Add(record("e.pdf", "exclude"))
	s.AddFailure(review.Failure{
		SourceFile: "f.pdf",
		Stage:      constants.StageExtraction,
		Message:    "no extractable text",
		OccurredAt: time.Now().UTC(),
	})

	sum := s.Summarize()
	if sum.Total != 5 {
		t.Errorf("Total = %d, want 5 (records only)", sum.Total)
	}
	if sum.Included != 3 {
		t.Errorf("Included = %d, want 3", sum.Included)
	}
	if sum.Excluded != 2 {
		t.Errorf("Excluded = %d, want 2", sum.Excluded)
	}
	if sum.Failed != 1 {
		t.Errorf("Failed = %d, want 1", sum.Failed)
	}
}

func TestSummarizeUnrecognizedBucket(t *testing.T) {
	s := NewStore("o3", nil)
	s.Add(record("a.pdf", "include"))
	s.Add(record("b.pdf", "maybe"))

	sum := s.Summarize()
	if sum.Total != 2 || sum.Included != 1 || sum.Unrecognized != 1 {
		t.Errorf("Summary = %+v, want total 2, included 1, unrecognized 1", sum)
	}
}

func TestExportCSVPreservesInsertionOrder(t *testing.T) {
	s := NewStore("o3", nil)
	s.Add(record("A.pdf", "include"))
	s.Add(record("C.pdf", "exclude"))
	s.Add(record("B.pdf", "include"))

	var buf bytes.Buffer
	if err := s.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse exported csv: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	if rows[0][0] != "article_title" || rows[0][4] != "source_file" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	wantOrder := []string{"A.pdf", "C.pdf", "B.pdf"}
	for i, want := range wantOrder {
		if got := rows[i+1][4]; got != want {
			t.Errorf("row %d source_file = %q, want %q", i+1, got, want)
		}
	}
}

func TestExportFailuresText(t *testing.T) {
	s := NewStore("o3", nil)
	s.AddFailure(review.Failure{
		SourceFile: "broken.pdf",
		Stage:      constants.StageModelCall,
		Message:    "status 529: overloaded",
		OccurredAt: time.Now().UTC(),
	})

	var buf bytes.Buffer
	if err := s.ExportFailuresText(&buf); err != nil {
		t.Fatalf("ExportFailuresText() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"broken.pdf", "model-call", "status 529"} {
		if !strings.Contains(out, want) {
			t.Errorf("failures text missing %q:\n%s", want, out)
		}
	}
}

func TestFilenames(t *testing.T) {
	s := NewStore("claude-opus-4-20250514", nil)
	name := s.ResultsFilename()
	if !strings.HasPrefix(name, "screening_results_claude-opus-4-20250514_") {
		t.Errorf("ResultsFilename = %q", name)
	}
	if !strings.HasSuffix(name, ".csv") {
		t.Errorf("ResultsFilename = %q, want .csv suffix", name)
	}
	if !strings.HasSuffix(s.XLSXFilename(), ".xlsx") {
		t.Errorf("XLSXFilename = %q", s.XLSXFilename())
	}
}

func TestSanitizeModelName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"o3", "o3"},
		{"anthropic/claude-opus-4", "anthropic-claude-opus-4"},
		{"model name with spaces", "model-name-with-spaces"},
		{"", "model"},
		{"///", "model"},
	}
	for _, tt := range tests {
		if got := SanitizeModelName(tt.in); got != tt.want {
			t.Errorf("SanitizeModelName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExportXLSX(t *testing.T) {
	s := NewStore("o3", nil)
	s.Add(record("a.pdf", "include"))

	data, err := s.ExportXLSX()
	if err != nil {
		t.Fatalf("ExportXLSX() error = %v", err)
	}
	if len(data) == 0 {
		t.Error("ExportXLSX() returned empty workbook")
	}
	// xlsx files are zip archives
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Error("ExportXLSX() output is not a zip container")
	}
}
