package locator

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a pipeline failure so callers can map it to a response
// category without inspecting error strings.
type Kind string

const (
	// KindExtraction covers bad input images and OCR engine faults.
	KindExtraction Kind = "extraction"

	// KindEmbedding covers embedding model faults.
	KindEmbedding Kind = "embedding"

	// KindTimeout covers any collaborator call exceeding its budget.
	KindTimeout Kind = "timeout"

	// KindConfiguration covers invalid option values at startup.
	KindConfiguration Kind = "configuration"
)

// Sentinel causes for client-side failures. Transport layers match on these
// to distinguish caller mistakes from backend faults.
var (
	// ErrEmptyImage indicates a nil or zero-area input image.
	ErrEmptyImage = errors.New("image is empty or zero-area")

	// ErrInvalidQuery indicates a blank query text or out-of-range
	// topK/minScore value.
	ErrInvalidQuery = errors.New("invalid locate query")
)

// Error is a pipeline failure with its kind and the stage that raised it.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error in %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("%s error in %s", e.Kind, e.Stage)
}

func (e *Error) Unwrap() error { return e.Err }

// NewExtractionError wraps an OCR-stage failure.
func NewExtractionError(stage string, cause error) *Error {
	return &Error{Kind: KindExtraction, Stage: stage, Err: cause}
}

// NewEmbeddingError wraps an embedding-stage failure.
func NewEmbeddingError(stage string, cause error) *Error {
	return &Error{Kind: KindEmbedding, Stage: stage, Err: cause}
}

// NewTimeoutError wraps a collaborator timeout.
func NewTimeoutError(stage string, cause error) *Error {
	return &Error{Kind: KindTimeout, Stage: stage, Err: cause}
}

// NewConfigurationError wraps an invalid option value.
func NewConfigurationError(stage string, cause error) *Error {
	return &Error{Kind: KindConfiguration, Stage: stage, Err: cause}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var le *Error
	return errors.As(err, &le) && le.Kind == kind
}

// stageError classifies a collaborator failure: deadline overruns become
// timeout errors, everything else keeps the stage's own kind.
func stageError(kind Kind, stage string, cause error) *Error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return NewTimeoutError(stage, cause)
	}
	return &Error{Kind: kind, Stage: stage, Err: cause}
}
