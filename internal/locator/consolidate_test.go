package locator

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConsolidator() *Consolidator {
	return NewConsolidator(0.1, 0.5)
}

func TestConsolidateWordFragments(t *testing.T) {
	// "Submit" split word-by-word with a 1px gap, as Tesseract commonly
	// produces. Average character height is 10, so the gap tolerance is 5.
	regions := []TextRegion{
		{Text: "Sub", Box: Box{X: 10, Y: 10, Width: 30, Height: 10}, Confidence: 0.9},
		{Text: "mit", Box: Box{X: 41, Y: 10, Width: 25, Height: 10}, Confidence: 0.85},
	}

	out := defaultConsolidator().Consolidate(regions)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, "Sub mit", got.Text)
	assert.Equal(t, Box{X: 10, Y: 10, Width: 56, Height: 10}, got.Box)
	assert.Equal(t, 2, got.SourceCount)
	assert.InDelta(t, 0.875, got.Confidence, 1e-9)
}

func TestConsolidateOverlappingDuplicates(t *testing.T) {
	// Near-identical boxes for the same label merge by IoU.
	regions := []TextRegion{
		{Text: "Cancel", Box: Box{X: 100, Y: 50, Width: 60, Height: 12}, Confidence: 0.8},
		{Text: "Cancel", Box: Box{X: 102, Y: 51, Width: 60, Height: 12}, Confidence: 0.9},
	}

	out := defaultConsolidator().Consolidate(regions)
	require.Len(t, out, 1)
	assert.Equal(t, 2, out[0].SourceCount)
}

func TestConsolidateKeepsDistantRegionsApart(t *testing.T) {
	regions := []TextRegion{
		{Text: "Save", Box: Box{X: 10, Y: 10, Width: 40, Height: 12}, Confidence: 0.9},
		{Text: "Quit", Box: Box{X: 300, Y: 200, Width: 40, Height: 12}, Confidence: 0.9},
	}

	out := defaultConsolidator().Consolidate(regions)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0].SourceCount)
	assert.Equal(t, 1, out[1].SourceCount)
}

func TestConsolidateSingleton(t *testing.T) {
	regions := []TextRegion{
		{Text: "OK", Box: Box{X: 5, Y: 5, Width: 20, Height: 10}, Confidence: 0.7},
	}

	out := defaultConsolidator().Consolidate(regions)
	require.Len(t, out, 1)
	assert.Equal(t, 1, out[0].SourceCount)
	assert.Equal(t, "OK", out[0].Text)
	assert.Equal(t, regions[0].Box, out[0].Box)
}

func TestConsolidateEmptyInput(t *testing.T) {
	out := defaultConsolidator().Consolidate(nil)
	assert.Empty(t, out)
	assert.NotNil(t, out)
}

func TestConsolidateCollapsesWhitespace(t *testing.T) {
	regions := []TextRegion{
		{Text: "Log   in", Box: Box{X: 10, Y: 10, Width: 40, Height: 10}, Confidence: 0.9},
	}

	out := defaultConsolidator().Consolidate(regions)
	require.Len(t, out, 1)
	assert.Equal(t, "Log in", out[0].Text)
}

// Shuffling the input must not change the set of consolidated regions: the
// deterministic row-major sort pins the merge result regardless of the
// iteration order the OCR engine happened to produce.
func TestConsolidateOrderIndependence(t *testing.T) {
	regions := []TextRegion{
		{Text: "Create", Box: Box{X: 10, Y: 10, Width: 50, Height: 12}, Confidence: 0.9},
		{Text: "new", Box: Box{X: 63, Y: 10, Width: 30, Height: 12}, Confidence: 0.9},
		{Text: "account", Box: Box{X: 96, Y: 10, Width: 60, Height: 12}, Confidence: 0.85},
		{Text: "Cancel", Box: Box{X: 300, Y: 10, Width: 50, Height: 12}, Confidence: 0.8},
		{Text: "Forgot", Box: Box{X: 10, Y: 60, Width: 48, Height: 12}, Confidence: 0.9},
		{Text: "password?", Box: Box{X: 61, Y: 60, Width: 70, Height: 12}, Confidence: 0.9},
	}

	canonical := regionSetKey(defaultConsolidator().Consolidate(regions))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]TextRegion, len(regions))
		copy(shuffled, regions)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := regionSetKey(defaultConsolidator().Consolidate(shuffled))
		assert.Equal(t, canonical, got, "shuffle %d changed the merge result", i)
	}
}

// regionSetKey produces an order-insensitive fingerprint of a consolidation
// result for set comparison.
func regionSetKey(regions []ConsolidatedRegion) []ConsolidatedRegion {
	out := make([]ConsolidatedRegion, len(regions))
	copy(out, regions)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Box.Y != out[j].Box.Y {
			return out[i].Box.Y < out[j].Box.Y
		}
		if out[i].Box.X != out[j].Box.X {
			return out[i].Box.X < out[j].Box.X
		}
		return out[i].Text < out[j].Text
	})
	return out
}
