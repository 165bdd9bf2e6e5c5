package constants

// Stage names the pipeline step at which a document failed.
type Stage string

// Stable values (these exact strings end up in the failure exports).
const (
	StageExtraction Stage = "extraction" // PDF unreadable or empty after OCR fallback
	StageModelCall  Stage = "model-call" // network/auth/rate failure from the provider
	StageValidation Stage = "validation" // malformed or incomplete model response
)
