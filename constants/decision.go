package constants

import "strings"

// Decision is the canonical inclusion/exclusion outcome for a reviewed paper.
type Decision string

const (
	Include Decision = "include"
	Exclude Decision = "exclude"
)

// CategoryNA is the sentinel category for excluded papers.
const CategoryNA = "N/A"

// CanonicalDecision maps model-supplied decision strings onto the canonical
// enum, case-insensitively. Returns false for anything it does not recognize;
// callers decide whether to tolerate or reject those.
func CanonicalDecision(input string) (Decision, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))

	switch normalized {
	case "include", "included", "inclusion":
		return Include, true
	case "exclude", "excluded", "exclusion":
		return Exclude, true
	}
	return "", false
}
