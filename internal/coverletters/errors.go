package coverletters

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation indicates missing or malformed generation parameters.
	ErrValidation = errors.New("validation error")

	// ErrDocumentNotFound indicates the document does not exist for the owner.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrVariantNotFound indicates the variant id is not part of the document.
	ErrVariantNotFound = errors.New("variant not found")

	// ErrAllVariantsFailed indicates every concurrent generation task failed.
	ErrAllVariantsFailed = errors.New("all variants failed")

	// ErrGenerationFailed indicates a single revision call to the generator failed.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrDocumentFinalized indicates the selection can no longer change without re-finalizing.
	ErrDocumentFinalized = errors.New("document finalized")
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationError carries the failing fields of a request.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Rule)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// StyleFailure records why one style produced no variant.
type StyleFailure struct {
	StyleID string
	Err     error
}

// AllVariantsFailedError is returned when no generation task succeeded.
type AllVariantsFailedError struct {
	Failures []StyleFailure
}

func (e *AllVariantsFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.StyleID, f.Err))
	}
	return ErrAllVariantsFailed.Error() + " (" + strings.Join(parts, "; ") + ")"
}

func (e *AllVariantsFailedError) Is(target error) bool { return target == ErrAllVariantsFailed }

// GenerationError wraps a failed revision call.
type GenerationError struct {
	Op        Operation
	VariantID string
	Err       error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s variant %s: %s: %v", e.Op, e.VariantID, ErrGenerationFailed, e.Err)
}

func (e *GenerationError) Is(target error) bool { return target == ErrGenerationFailed }

func (e *GenerationError) Unwrap() error { return e.Err }
