package llm

import (
	"strings"
	"testing"
)

func TestExtractJSONObjectBare(t *testing.T) {
	raw := `{"article_title":"T","inclusion_exclusion_decision":"include"}`
	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if got != raw {
		t.Errorf("got %q, want %q", got, raw)
	}
}

func TestExtractJSONObjectFenced(t *testing.T) {
	raw := "Here is my review:\n```json\n{\"article_title\": \"T\"}\n```\nThanks!"
	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if got != `{"article_title": "T"}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONObjectFencedNoLanguageTag(t *testing.T) {
	raw := "```\n{\"a\": 1}\n```"
	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if got != `{"a": 1}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONObjectProseWrapped(t *testing.T) {
	raw := `After careful review, my decision follows. {"decision": "exclude", "note": "irrelevant"} I hope this helps.`
	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if !strings.HasPrefix(got, `{"decision"`) || !strings.HasSuffix(got, `}`) {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONObjectNestedBraces(t *testing.T) {
	raw := `{"outer": {"inner": {"deep": true}}, "tail": 1}`
	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if got != raw {
		t.Errorf("got %q, want full nested object", got)
	}
}

func TestExtractJSONObjectBracesInStrings(t *testing.T) {
	raw := `{"reasoning": "the set {a, b} and the escape \" } here", "ok": true}`
	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if got != raw {
		t.Errorf("got %q, want braces inside strings ignored", got)
	}
}

func TestExtractJSONObjectStrayBraceBeforeObject(t *testing.T) {
	raw := `weird { prose then {"a": 1}`
	got, err := ExtractJSONObject(raw)
	if err != nil {
		t.Fatalf("ExtractJSONObject() error = %v", err)
	}
	if got != `{"a": 1}` {
		t.Errorf("got %q, want later balanced object", got)
	}
}

func TestExtractJSONObjectNone(t *testing.T) {
	_, err := ExtractJSONObject("no json here at all")
	if err == nil {
		t.Fatal("ExtractJSONObject() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "no JSON object") {
		t.Errorf("error = %v", err)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(strings.Repeat("a", 400)); got != 100 {
		t.Errorf("EstimateTokens = %d, want 100", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("EstimateTokens of empty = %d, want 0", got)
	}
}

func TestValidateJSONAgainstSchema(t *testing.T) {
	schema := BuildReviewJSONSchema([]string{"Client", "N/A"})

	valid := []byte(`{
		"article_title": "A Study",
		"inclusion_exclusion_decision": "include",
		"category": "Client",
		"detailed_reasoning_for_decision": "meets criteria"
	}`)
	if err := ValidateJSONAgainstSchema(schema, valid); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	missing := []byte(`{"article_title": "A Study"}`)
	if err := ValidateJSONAgainstSchema(schema, missing); err == nil {
		t.Error("payload missing required fields passed schema validation")
	}
}
