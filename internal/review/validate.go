package review

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joseph-ayodele/evidence-screener/constants"
	"github.com/joseph-ayodele/evidence-screener/internal/common"
	"github.com/joseph-ayodele/evidence-screener/internal/llm"
)

var requiredFields = []string{
	"article_title",
	"inclusion_exclusion_decision",
	"category",
	"detailed_reasoning_for_decision",
}

// Validator coerces raw model output into a Record or rejects it.
type Validator struct {
	logger *slog.Logger
	schema map[string]any
}

func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		logger: logger,
		schema: llm.BuildReviewJSONSchema(constants.AsStringSlice()),
	}
}

// Validate extracts the JSON object from a possibly prose-wrapped response,
// checks required fields, normalizes the decision, and forces the category
// sentinel for exclusions. source_file comes from the caller, never from
// model output.
func (v *Validator) Validate(raw, sourceFile string) (Record, error) {
	obj, err := llm.ExtractJSONObject(raw)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(obj), &m); err != nil {
		return Record{}, fmt.Errorf("%w: malformed JSON near %q: %v", common.ErrValidation, llm.Snippet(obj, 120), err)
	}

	// advisory only; the field checks below are what gate acceptance
	if err := llm.ValidateJSONAgainstSchema(v.schema, []byte(obj)); err != nil {
		v.logger.Warn("review.validate.schema_mismatch", "file", sourceFile, "error", err)
	}

	var missing []string
	for _, f := range requiredFields {
		if isEmpty(m[f]) {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return Record{}, fmt.Errorf("%w: missing required field(s): %s", common.ErrValidation, strings.Join(missing, ", "))
	}

	rec := Record{
		ArticleTitle: fieldString(m["article_title"]),
		Decision:     fieldString(m["inclusion_exclusion_decision"]),
		Category:     fieldString(m["category"]),
		Reasoning:    fieldString(m["detailed_reasoning_for_decision"]),
		SourceFile:   sourceFile,
		ReviewedAt:   time.Now().UTC(),
	}

	if decision, ok := constants.CanonicalDecision(rec.Decision); ok {
		rec.Decision = string(decision)
		switch decision {
		case constants.Exclude:
			// unconditional override, not a default-fill
			rec.Category = constants.CategoryNA
		case constants.Include:
			if cat, ok := constants.Canonicalize(rec.Category); ok {
				rec.Category = string(cat)
			} else {
				v.logger.Warn("review.validate.unrecognized_category",
					"file", sourceFile, "category", rec.Category)
			}
		}
	} else {
		// tolerated: the store counts these separately as unrecognized
		v.logger.Warn("review.validate.unrecognized_decision",
			"file", sourceFile, "decision", rec.Decision)
	}

	return rec, nil
}

// isEmpty treats absent, null, and blank-string values as missing. Booleans
// and other scalars count as present.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

// fieldString renders a field value, mapping boolean decisions onto the
// enumeration so either response style validates.
func fieldString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case bool:
		if t {
			return string(constants.Include)
		}
		return string(constants.Exclude)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}
