package locator

import (
	"context"
	"image"
	"strings"

	"github.com/avencia/textlocate/internal/gate"
	imgprep "github.com/avencia/textlocate/internal/imaging"
	"github.com/avencia/textlocate/internal/ocr"
)

// Extractor wraps the OCR collaborator and normalizes raw detections into
// TextRegions. It is a pure function of its input: the only side effect is
// the gated engine invocation.
type Extractor struct {
	engine          ocr.Engine
	gate            *gate.Gate
	confidenceFloor float64
	preprocess      bool
}

// NewExtractor creates an extractor around engine. Detections with
// confidence below floor are dropped (floor 0 accepts all). When preprocess
// is set, images are prepared for OCR (grayscale, dark-theme inversion,
// upscaling) before recognition and geometry is mapped back to original
// coordinates.
func NewExtractor(engine ocr.Engine, g *gate.Gate, floor float64, preprocess bool) *Extractor {
	return &Extractor{
		engine:          engine,
		gate:            g,
		confidenceFloor: floor,
		preprocess:      preprocess,
	}
}

// Extract runs OCR once over img and returns one TextRegion per usable
// detection. Detections with empty or whitespace-only text are dropped, as
// are detections under the confidence floor. Fails with an extraction-kind
// error on a nil or zero-area image or an engine fault; it never retries.
func (x *Extractor) Extract(ctx context.Context, img image.Image) ([]TextRegion, error) {
	if img == nil {
		return nil, NewExtractionError("extract", ErrEmptyImage)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, NewExtractionError("extract", ErrEmptyImage)
	}

	input := img
	scale := 1.0
	if x.preprocess {
		input, scale = imgprep.Prepare(img)
	}

	var detections []ocr.Detection
	err := x.gate.Do(ctx, func(callCtx context.Context) error {
		var engineErr error
		detections, engineErr = x.engine.Recognize(callCtx, input)
		return engineErr
	})
	if err != nil {
		return nil, stageError(KindExtraction, "extract", err)
	}

	regions := make([]TextRegion, 0, len(detections))
	for _, d := range detections {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		if d.Confidence < x.confidenceFloor {
			continue
		}
		regions = append(regions, TextRegion{
			Text: text,
			Box: Box{
				X:      int(float64(d.X) / scale),
				Y:      int(float64(d.Y) / scale),
				Width:  int(float64(d.Width) / scale),
				Height: int(float64(d.Height) / scale),
			},
			Confidence: d.Confidence,
		})
	}

	return regions, nil
}
