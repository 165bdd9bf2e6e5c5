package review

import (
	"time"

	"github.com/joseph-ayodele/evidence-screener/constants"
)

// Record is one validated review outcome per document. Every field is
// populated before a record reaches the store; there are no partial records.
type Record struct {
	ArticleTitle string    `json:"article_title"`
	Decision     string    `json:"inclusion_exclusion_decision"`
	Category     string    `json:"category"`
	Reasoning    string    `json:"detailed_reasoning_for_decision"`
	SourceFile   string    `json:"source_file"`
	ReviewedAt   time.Time `json:"timestamp"`
}

// Failure records a per-document pipeline error and the stage it happened at.
type Failure struct {
	SourceFile string          `json:"source_file"`
	Stage      constants.Stage `json:"stage"`
	Message    string          `json:"error_message"`
	OccurredAt time.Time       `json:"timestamp"`
}
