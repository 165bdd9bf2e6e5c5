package anthropic

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/joseph-ayodele/evidence-screener/internal/common"
)

// streamMessage issues the request in incremental-delivery mode and
// concatenates all text deltas into one string. Pass-through consumption of
// the provider's SSE stream; no protocol of our own, no cancellation beyond
// the context.
func (c *Client) streamMessage(ctx context.Context, rid, endpoint string, body map[string]any, headers map[string]string) (string, error) {
	bs, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", common.ErrModelCall, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bs))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", common.ErrModelCall, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic stream: %v", common.ErrModelCall, err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("llm.stream.body_close_error", "req_id", rid, "error", cerr)
		}
	}(resp.Body)

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return "", fmt.Errorf("%w: anthropic stream: status %d: %s", common.ErrModelCall, resp.StatusCode, raw)
	}

	var b strings.Builder
	deltas := 0

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var ev struct {
			Type  string `json:"type"`
			Delta struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"delta"`
			Error struct {
				Type    string `json:"type"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			c.log.Warn("llm.stream.bad_event", "req_id", rid, "error", err)
			continue
		}

		switch ev.Type {
		case "content_block_delta":
			if ev.Delta.Type == "text_delta" {
				b.WriteString(ev.Delta.Text)
				deltas++
			}
		case "error":
			return "", fmt.Errorf("%w: anthropic stream: %s: %s", common.ErrModelCall, ev.Error.Type, ev.Error.Message)
		case "message_stop":
			c.log.Debug("llm.stream.done", "req_id", rid, "deltas", deltas)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("%w: read anthropic stream: %v", common.ErrModelCall, err)
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: anthropic stream yielded no text", common.ErrModelCall)
	}
	return b.String(), nil
}
