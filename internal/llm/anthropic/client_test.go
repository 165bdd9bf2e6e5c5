package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joseph-ayodele/evidence-screener/internal/common"
	"github.com/joseph-ayodele/evidence-screener/internal/llm"
)

func TestReviewBlocking(t *testing.T) {
	const answer = `{"article_title":"T","inclusion_exclusion_decision":"exclude","category":"N/A","detailed_reasoning_for_decision":"out of scope"}`

	var gotPath, gotKey, gotVersion string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": answer},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	got, err := c.Review(context.Background(), llm.ReviewRequest{
		PaperText:  "Short paper text.",
		SourceFile: "paper.pdf",
	})
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if got != answer {
		t.Errorf("Review() = %q", got)
	}
	if gotPath != "/v1/messages" {
		t.Errorf("path = %q, want /v1/messages", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != apiVersion {
		t.Errorf("anthropic-version = %q, want %q", gotVersion, apiVersion)
	}
	if _, streamed := gotBody["stream"]; streamed {
		t.Error("stream flag sent below the threshold")
	}
}

func TestReviewStreamed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["stream"] != true {
			t.Error("expected stream:true above the threshold")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		events := []string{
			`{"type":"message_start"}`,
			`{"type":"content_block_delta","delta":{"type":"text_delta","text":"{\"article_title\":"}}`,
			`{"type":"content_block_delta","delta":{"type":"text_delta","text":"\"T\"}"}}`,
			`{"type":"message_stop"}`,
		}
		for _, ev := range events {
			_, _ = fmt.Fprintf(w, "data: %s\n\n", ev)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, StreamThreshold: 1}, nil)
	got, err := c.Review(context.Background(), llm.ReviewRequest{
		PaperText:  strings.Repeat("long paper text ", 10),
		SourceFile: "big.pdf",
	})
	if err != nil {
		t.Fatalf("Review() error = %v", err)
	}
	if got != `{"article_title":"T"}` {
		t.Errorf("Review() = %q, want concatenated deltas", got)
	}
}

func TestReviewStreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = fmt.Fprint(w, "data: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}\n\n")
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL, StreamThreshold: 1}, nil)
	_, err := c.Review(context.Background(), llm.ReviewRequest{
		PaperText:  strings.Repeat("x", 100),
		SourceFile: "big.pdf",
	})
	if err == nil {
		t.Fatal("Review() error = nil, want stream error")
	}
	if !errors.Is(err, common.ErrModelCall) {
		t.Errorf("error = %v, want wrapped ErrModelCall", err)
	}
	if !strings.Contains(err.Error(), "overloaded_error") {
		t.Errorf("error = %v, want provider error type included", err)
	}
}

func TestReviewBlockingHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"authentication_error"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "bad-key", BaseURL: srv.URL}, nil)
	_, err := c.Review(context.Background(), llm.ReviewRequest{PaperText: "x", SourceFile: "p.pdf"})
	if err == nil || !errors.Is(err, common.ErrModelCall) {
		t.Errorf("error = %v, want wrapped ErrModelCall", err)
	}
}

func TestReviewNoTextBlocks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{{"type": "tool_use"}},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)
	_, err := c.Review(context.Background(), llm.ReviewRequest{PaperText: "x", SourceFile: "p.pdf"})
	if err == nil || !errors.Is(err, common.ErrModelCall) {
		t.Errorf("error = %v, want wrapped ErrModelCall", err)
	}
}
