package llm

import "encoding/json"

// BuildReviewJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We embed it in the OpenAI prompt as a structured output
// constraint and also use it locally as an advisory check on responses.
func BuildReviewJSONSchema(allowedCategories []string) map[string]any {
	props := map[string]any{
		"article_title": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "Title of the academic article under review",
		},
		"inclusion_exclusion_decision": map[string]any{
			"type":        "string",
			"description": "Inclusion or exclusion decision for the paper",
			"enum":        []string{"include", "exclude"},
		},
		"category": map[string]any{
			"type":        "string",
			"description": "Category assigned to the paper; N/A when excluded",
		},
		"detailed_reasoning_for_decision": map[string]any{
			"type":        "string",
			"minLength":   1,
			"description": "Detailed reasoning for the decision, reflecting critical review of the criteria",
		},
	}

	// Constrain category if a taxonomy is provided.
	if len(allowedCategories) > 0 {
		props["category"] = map[string]any{
			"type": "string",
			"enum": allowedCategories,
		}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required": []string{
			"article_title",
			"inclusion_exclusion_decision",
			"category",
			"detailed_reasoning_for_decision",
		},
	}
}

func MustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
