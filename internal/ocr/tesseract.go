package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine performs OCR with the Tesseract library via gosseract.
//
// A fresh gosseract client is created per Recognize call; clients are cheap
// relative to recognition itself and are not safe to share across
// goroutines. Concurrency is bounded by the caller's gate, not here.
type TesseractEngine struct {
	language       string
	tessdataPrefix string
}

// NewTesseractEngine creates a Tesseract-backed engine.
//
// language is a Tesseract language code ("eng", "deu", ...); the matching
// traineddata must be installed. tessdataPrefix optionally overrides the
// traineddata directory; empty means the system default.
func NewTesseractEngine(language, tessdataPrefix string) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{language: language, tessdataPrefix: tessdataPrefix}
}

// Name implements Engine.
func (t *TesseractEngine) Name() string { return "tesseract" }

// Recognize implements Engine. The image is encoded to PNG in memory and
// handed to Tesseract; word-level boxes are read back with confidence
// rescaled from Tesseract's 0-100 range to [0, 1].
//
// gosseract has no cancellation hook, so ctx is checked between steps; an
// in-flight Tesseract call runs to completion even if ctx expires.
func (t *TesseractEngine) Recognize(ctx context.Context, img image.Image) ([]Detection, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image for OCR: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.tessdataPrefix); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.language); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract recognition failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detections := make([]Detection, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		detections = append(detections, Detection{
			Text:       box.Word,
			X:          box.Box.Min.X,
			Y:          box.Box.Min.Y,
			Width:      box.Box.Dx(),
			Height:     box.Box.Dy(),
			Confidence: float64(box.Confidence) / 100.0,
		})
	}

	return detections, nil
}
