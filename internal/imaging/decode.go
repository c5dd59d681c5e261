// Package imaging decodes request images and prepares them for OCR.
//
// Preparation is tuned for UI screenshots: grayscale conversion, inversion
// of dark-theme captures (Tesseract expects dark text on light background),
// and upscaling of small captures. Geometry produced on a prepared image is
// mapped back to original pixel coordinates via the returned scale factor.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
)

// Decode parses raw image bytes into an image.Image. Supported formats are
// PNG, JPEG, and GIF.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data is empty")
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("decoded %s image has zero area", format)
	}

	return img, nil
}
