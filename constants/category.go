package constants

import (
	"strings"
)

// Category is the label assigned to an included paper.
type Category string

const (
	Client         Category = "Client"
	FLW            Category = "FLW"
	Feasibility    Category = "Feasibility"
	Data           Category = "Data"
	GreyLiterature Category = "Grey Literature"
	NotApplicable  Category = CategoryNA
)

var allCategories = []Category{
	Client,
	FLW,
	Feasibility,
	Data,
	GreyLiterature,
	NotApplicable,
}

func AsStringSlice() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize maps a model-supplied category label onto the taxonomy.
func Canonicalize(input string) (Category, bool) {
	if input == "" {
		return NotApplicable, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"frontline worker": FLW,
		"flws":             FLW,
		"grey":             GreyLiterature,
		"gray literature":  GreyLiterature,
		"na":               NotApplicable,
		"not applicable":   NotApplicable,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return NotApplicable, false
}
