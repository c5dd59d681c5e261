package ocr

import (
	"context"
	"image"
)

// Detection is one raw engine detection: a recognized token, its bounding
// box in pixel coordinates of the input image, and the engine's confidence
// normalized to [0, 1].
type Detection struct {
	Text       string
	X          int
	Y          int
	Width      int
	Height     int
	Confidence float64
}

// Engine is the OCR collaborator contract: one decoded image in, word-level
// detections out. Implementations may fault with an engine-level error;
// retry policy belongs to the caller.
//
// Engines are not assumed safe for unbounded concurrent use; callers gate
// access (see the gate package).
type Engine interface {
	// Name identifies the engine for health reporting.
	Name() string

	// Recognize extracts word-level text detections from img. It honors
	// ctx cancellation where the underlying engine allows it.
	Recognize(ctx context.Context, img image.Image) ([]Detection, error)
}
