package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/evidence-screener/internal/common"
	"github.com/joseph-ayodele/evidence-screener/internal/llm"
)

// Review implements llm.Reviewer with a single blocking chat/completions
// call. The response JSON-object constraint plus the embedded schema keep the
// model on the contract; the validator does the authoritative checks.
func (c *Client) Review(ctx context.Context, req llm.ReviewRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	est := llm.EstimateTokens(req.PaperText)
	llm.LogSizeAdvisory(c.log, req.SourceFile, est)

	c.log.Info("llm.review.start",
		"req_id", rid,
		"provider", "openai",
		"model", c.cfg.Model,
		"file", req.SourceFile,
		"text_len", len(req.PaperText),
		"est_tokens", est,
	)

	schema := llm.BuildReviewJSONSchema(c.categories)
	body := map[string]any{
		"model":           c.cfg.Model,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt(c.categories)},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
			{"role": "system", "content": "JSON Schema:\n" + llm.MustJSON(schema)},
		},
	}
	if c.cfg.Temperature > 0 {
		body["temperature"] = c.cfg.Temperature
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}

	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.review.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: openai: %v", common.ErrModelCall, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.review.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("%w: decode openai response: %v", common.ErrModelCall, err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.review.no_choices", "req_id", rid, "raw_bytes", len(raw))
		return "", fmt.Errorf("%w: no choices in openai response", common.ErrModelCall)
	}

	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	c.log.Info("llm.review.ok",
		"req_id", rid,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
