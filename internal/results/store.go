package results

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/evidence-screener/constants"
	"github.com/joseph-ayodele/evidence-screener/internal/review"
)

// Store accumulates review records and failures for one batch run. Records
// keep insertion order; exports replay that order.
type Store struct {
	mu        sync.Mutex
	records   []review.Record
	failures  []review.Failure
	model     string
	startedAt time.Time
	logger    *slog.Logger
}

// Summary is the batch tally. Total counts records only; Failed is separate.
type Summary struct {
	Total        int `json:"total"`
	Included     int `json:"included"`
	Excluded     int `json:"excluded"`
	Unrecognized int `json:"unrecognized,omitempty"`
	Failed       int `json:"failed"`
}

func NewStore(model string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		model:     SanitizeModelName(model),
		startedAt: time.Now().UTC(),
		logger:    logger,
	}
}

func (s *Store) Add(rec review.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	s.logger.Debug("results.add",
		"file", rec.SourceFile, "decision", rec.Decision, "count", len(s.records))
}

func (s *Store) AddFailure(f review.Failure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, f)
	s.logger.Debug("results.add_failure",
		"file", f.SourceFile, "stage", f.Stage, "count", len(s.failures))
}

// Records returns a copy in insertion order.
func (s *Store) Records() []review.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]review.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) Failures() []review.Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]review.Failure, len(s.failures))
	copy(out, s.failures)
	return out
}

func (s *Store) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Total:  len(s.records),
		Failed: len(s.failures),
	}
	for _, rec := range s.records {
		// validated records carry canonical decisions; match case-insensitively
		// anyway so a record from another producer never lands in the wrong bucket
		switch {
		case strings.EqualFold(rec.Decision, string(constants.Include)):
			sum.Included++
		case strings.EqualFold(rec.Decision, string(constants.Exclude)):
			sum.Excluded++
		default:
			sum.Unrecognized++
		}
	}
	return sum
}

const timestampLayout = "20060102_150405"

// ResultsFilename names the CSV export after the model and batch start time,
// e.g. "screening_results_o3_20250614_091500.csv".
func (s *Store) ResultsFilename() string {
	return fmt.Sprintf("screening_results_%s_%s.csv", s.model, s.startedAt.Format(timestampLayout))
}

func (s *Store) FailuresFilename() string {
	return fmt.Sprintf("screening_failures_%s_%s.csv", s.model, s.startedAt.Format(timestampLayout))
}

func (s *Store) FailuresTextFilename() string {
	return fmt.Sprintf("screening_failures_%s_%s.txt", s.model, s.startedAt.Format(timestampLayout))
}

// XLSXFilename mirrors ResultsFilename with a workbook extension.
func (s *Store) XLSXFilename() string {
	return fmt.Sprintf("screening_results_%s_%s.xlsx", s.model, s.startedAt.Format(timestampLayout))
}

var reUnsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeModelName makes a model identifier safe for use in filenames.
// Slashes and other separators collapse to a single dash.
func SanitizeModelName(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		return "model"
	}
	model = reUnsafeFilename.ReplaceAllString(model, "-")
	model = strings.Trim(model, "-.")
	if model == "" {
		return "model"
	}
	return model
}
