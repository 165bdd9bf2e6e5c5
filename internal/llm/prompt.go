package llm

import (
	"strings"
)

// BuildSystemPrompt composes the fixed review instructions: the inclusion
// rubric, the exclusion criteria, and the output contract. The schema itself
// travels separately (embedded for OpenAI, enforced locally for both).
func BuildSystemPrompt(allowedCategories []string) string {
	catLine := "You MUST include a 'category' that is a short, sensible label."
	if len(allowedCategories) > 0 {
		catLine = "You MUST include a 'category' and it MUST be exactly one of the allowed enum. " +
			"Allowed categories (enum): " + strings.Join(allowedCategories, ", ") + "."
	}

	parts := []string{
		"You are an expert research assistant reviewing academic papers for inclusion in an evidence base.",
		"For each paper: decide inclusion or exclusion, assign a category if included, and give detailed reasoning reflecting critical review of the criteria.",

		// inclusion rubric
		"Include 'Client' for peer-reviewed papers on how equipping frontline workers with the platform affects client outcomes (patient health, service uptake, adherence).",
		"Include 'FLW' for peer-reviewed papers on how the platform affects frontline worker service delivery (productivity, capacity, service quality).",
		"Include 'Feasibility' for papers demonstrating acceptability, usability, adoption barriers, or conceptual frameworks that fit neither of the above.",
		"Include 'Data' only for strong cases demonstrating value derived from data collected on the platform; use sparingly.",
		"Include 'Grey Literature' for non-peer-reviewed but important studies; these must also fit one of the other categories.",

		// exclusion criteria
		"Exclude pre-prints, protocol papers without results, and papers using the platform solely as a survey or digitization tool without discussing impact.",
		"Exclude systematic reviews of already-included papers, studies where the evaluated platform is unclear, workshop summaries, and papers where the platform is mentioned but not central to the findings.",

		// output contract
		"Return ONLY a JSON object with exactly these fields: " +
			"'article_title' (title of the paper), " +
			"'inclusion_exclusion_decision' ('include' or 'exclude'), " +
			"'category' (use 'N/A' when excluding), " +
			"'detailed_reasoning_for_decision' (your full reasoning).",
		catLine,
		"Do not wrap the JSON in prose or markdown fences.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the extracted paper text with its filename hint.
func BuildUserPrompt(req ReviewRequest) string {
	var b strings.Builder
	if f := strings.TrimSpace(req.SourceFile); f != "" {
		b.WriteString("Source file: ")
		b.WriteString(f)
		b.WriteString("\n\n")
	}
	b.WriteString("Paper text:\n")
	b.WriteString(req.PaperText)
	return b.String()
}
