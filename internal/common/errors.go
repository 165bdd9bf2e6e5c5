package common

import (
	"errors"
	"fmt"

	"github.com/joseph-ayodele/evidence-screener/constants"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Per-document error taxonomy. Each is non-fatal to the batch: the processor
// converts it to a failure record and moves on to the next document.
var (
	ErrExtraction   = errors.New("extraction failed")
	ErrModelCall    = errors.New("model call failed")
	ErrValidation   = errors.New("validation failed")
	ErrInvalidInput = errors.New("invalid input")
)

func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// StageOf maps an error from the taxonomy above onto the pipeline stage
// recorded in failure exports. Unmatched errors count as model-call failures
// since that is the only stage talking to the outside world.
func StageOf(err error) constants.Stage {
	switch {
	case errors.Is(err, ErrExtraction):
		return constants.StageExtraction
	case errors.Is(err, ErrValidation):
		return constants.StageValidation
	default:
		return constants.StageModelCall
	}
}
