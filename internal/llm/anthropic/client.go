package anthropic

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

// Review implements llm.Reviewer against the messages API. Documents whose
// token estimate exceeds StreamThreshold run in incremental-delivery mode;
// either way the caller receives one consolidated string.
func (c *Client) Review(ctx context.Context, req llm.ReviewRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	est := llm.EstimateTokens(req.PaperText)
	llm.LogSizeAdvisory(c.log, req.SourceFile, est)
	streamed := est > c.cfg.StreamThreshold

	c.log.Info("llm.review.start",
		"req_id", rid,
		"provider", "anthropic",
		"model", c.cfg.Model,
		"file", req.SourceFile,
		"text_len", len(req.PaperText),
		"est_tokens", est,
		"streamed", streamed,
	)

	body := map[string]any{
		"model":      c.cfg.Model,
		"max_tokens": c.cfg.MaxTokens,
		"system":     llm.BuildSystemPrompt(c.categories),
		"messages": []map[string]any{
			{"role": "user", "content": llm.BuildUserPrompt(req)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/messages"
	headers := map[string]string{
		"x-api-key":         c.cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	var content string
	var err error
	if streamed {
		body["stream"] = true
		content, err = c.streamMessage(ctx, rid, endpoint, body, headers)
	} else {
		content, err = c.blockingMessage(ctx, rid, endpoint, body, headers)
	}
	if err != nil {
		c.log.Error("llm.review.error",
			"req_id", rid, "streamed", streamed, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	content = strings.TrimSpace(content)
	c.log.Info("llm.review.ok",
		"req_id", rid,
		"streamed", streamed,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}

func (c *Client) blockingMessage(ctx context.Context, rid, endpoint string, body map[string]any, headers map[string]string) (string, error) {
	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: status %d: %v", common.ErrModelCall, status, err)
	}

	var mr struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &mr); err != nil {
		return "", fmt.Errorf("%w: decode anthropic response: %v", common.ErrModelCall, err)
	}
	if len(mr.Content) == 0 {
		return "", fmt.Errorf("%w: empty content in anthropic response", common.ErrModelCall)
	}

	var b strings.Builder
	for _, block := range mr.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		c.log.Warn("llm.review.no_text_blocks", "req_id", rid, "blocks", len(mr.Content))
		return "", fmt.Errorf("%w: no text blocks in anthropic response", common.ErrModelCall)
	}
	return b.String(), nil
}
