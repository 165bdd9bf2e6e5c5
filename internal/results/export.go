package results

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

var resultsHeader = []string{
	"article_title",
	"inclusion_exclusion_decision",
	"category",
	"detailed_reasoning_for_decision",
	"source_file",
	"timestamp",
}

var failuresHeader = []string{
	"source_file",
	"stage",
	"error_message",
	"timestamp",
}

// ExportCSV writes all records in insertion order.
func (s *Store) ExportCSV(w io.Writer) error {
	records := s.Records()

	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.ArticleTitle,
			rec.Decision,
			rec.Category,
			rec.Reasoning,
			rec.SourceFile,
			rec.ReviewedAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", rec.SourceFile, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFailuresCSV writes the failure log in occurrence order.
func (s *Store) ExportFailuresCSV(w io.Writer) error {
	failures := s.Failures()

	cw := csv.NewWriter(w)
	if err := cw.Write(failuresHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, f := range failures {
		row := []string{
			f.SourceFile,
			string(f.Stage),
			f.Message,
			f.OccurredAt.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row for %s: %w", f.SourceFile, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFailuresText writes a human-readable failure report, one banner block
// per failed document.
func (s *Store) ExportFailuresText(w io.Writer) error {
	failures := s.Failures()

	if _, err := fmt.Fprintf(w, "Screening failures (%d)\nGenerated: %s\n",
		len(failures), time.Now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}
	for _, f := range failures {
		_, err := fmt.Fprintf(w, "\n%s\nFile:  %s\nStage: %s\nTime:  %s\nError: %s\n",
			banner, f.SourceFile, f.Stage,
			f.OccurredAt.Format(time.RFC3339), f.Message)
		if err != nil {
			return err
		}
	}
	return nil
}

const banner = "----------------------------------------"
