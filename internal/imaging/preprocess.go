package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	// darkThemeLuminance is the mean-luminance threshold below which a
	// capture is treated as a dark-theme screenshot and inverted.
	darkThemeLuminance = 0.35

	// minOCRWidth is the width below which captures are upscaled before
	// OCR. Tesseract accuracy drops sharply on small renders.
	minOCRWidth = 600

	// luminanceSampleStride limits luminance estimation to a sparse pixel
	// grid; full scans add latency without changing the decision.
	luminanceSampleStride = 8
)

// Prepare converts an image into a form Tesseract handles well and returns
// it together with the scale factor applied. Detections made on the prepared
// image divide their coordinates by the scale to recover original-image
// geometry. A scale of 1 means geometry is unchanged.
func Prepare(img image.Image) (image.Image, float64) {
	prepared := effect.Grayscale(img)

	if MeanLuminance(prepared) < darkThemeLuminance {
		prepared = effect.Invert(prepared)
	}

	scale := 1.0
	width := prepared.Bounds().Dx()
	if width > 0 && width < minOCRWidth {
		scale = 2.0
		resized := imaging.Resize(prepared, width*2, 0, imaging.Lanczos)
		return resized, scale
	}

	return prepared, scale
}

// MeanLuminance estimates the perceptual lightness of an image in [0, 1] by
// sampling a sparse grid and averaging CIE Lab lightness.
func MeanLuminance(img image.Image) float64 {
	bounds := img.Bounds()
	total := 0.0
	count := 0

	for y := bounds.Min.Y; y < bounds.Max.Y; y += luminanceSampleStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += luminanceSampleStride {
			col, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent pixel, skip.
				continue
			}
			l, _, _ := col.Lab()
			total += l
			count++
		}
	}

	if count == 0 {
		return 1.0
	}
	return total / float64(count)
}
