package llm

import (
	"context"
	"log/slog"
)

// ReviewRequest carries one extracted paper into a provider call.
type ReviewRequest struct {
	PaperText  string
	SourceFile string
}

// Reviewer is the single capability interface the pipeline depends on; each
// provider (OpenAI-class, Anthropic-class) implements it, so the validator
// stays provider-agnostic.
type Reviewer interface {
	// Review sends the paper for a structured inclusion/exclusion review and
	// returns the provider's consolidated response text. Streamed responses
	// are concatenated before returning. No automatic retry.
	Review(ctx context.Context, req ReviewRequest) (string, error)
}

// CharsPerToken is the rough character-to-token ratio used for estimates.
// The thresholds built on it are advisory only.
const CharsPerToken = 4

// EstimateTokens estimates the token count of text from its length.
func EstimateTokens(text string) int {
	return len(text) / CharsPerToken
}

// LogSizeAdvisory logs tiered advisories for large documents. Never blocks
// the call, even above the context-limit tier.
func LogSizeAdvisory(logger *slog.Logger, sourceFile string, estTokens int) {
	if logger == nil {
		logger = slog.Default()
	}
	switch {
	case estTokens > 180_000:
		logger.Warn("llm.review.size_advisory",
			"file", sourceFile, "est_tokens", estTokens,
			"hint", "approaching 200k context limit; proceeding anyway")
	case estTokens > 150_000:
		logger.Warn("llm.review.size_advisory",
			"file", sourceFile, "est_tokens", estTokens,
			"hint", "large document; processing may take 5-10 minutes")
	case estTokens > 100_000:
		logger.Info("llm.review.size_advisory",
			"file", sourceFile, "est_tokens", estTokens,
			"hint", "processing may take 2-5 minutes")
	case estTokens > 50_000:
		logger.Info("llm.review.size_advisory",
			"file", sourceFile, "est_tokens", estTokens,
			"hint", "processing may take 1-2 minutes")
	}
}
