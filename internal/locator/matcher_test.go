package locator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMatcher(vectors map[string][]float32, convention ScoreConvention) (*Matcher, *stubEmbedder) {
	embedder := newStubEmbedder(vectors)
	cache := NewEmbeddingCache(embedder, testGate(), 100)
	return NewMatcher(cache, convention), embedder
}

func regionWithText(text string, x int) ConsolidatedRegion {
	return ConsolidatedRegion{
		Text:        text,
		Box:         Box{X: x, Y: 10, Width: 40, Height: 12},
		SourceCount: 1,
		Confidence:  0.9,
	}
}

func TestMatchRanksByScore(t *testing.T) {
	matcher, _ := newTestMatcher(map[string][]float32{
		"exact":    {1, 0, 0},
		"close":    {1, 1, 0},
		"opposite": {-1, 0, 0},
	}, ScoreNormalized)

	regions := []ConsolidatedRegion{
		regionWithText("opposite", 10),
		regionWithText("close", 60),
		regionWithText("exact", 110),
	}
	query := []float32{1, 0, 0}

	results, err := matcher.Match(context.Background(), regions, query, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "exact", results[0].Region.Text)
	assert.Equal(t, 1, results[0].Rank)
	assert.Equal(t, "close", results[1].Region.Text)
	assert.Equal(t, 2, results[1].Rank)
	assert.Equal(t, "opposite", results[2].Region.Text)
	assert.Equal(t, 3, results[2].Rank)

	// Scores are non-increasing and ranks strictly increasing.
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i].Score, results[i-1].Score)
		assert.Equal(t, results[i-1].Rank+1, results[i].Rank)
	}
}

func TestMatchMinScoreBoundaryIsInclusive(t *testing.T) {
	// Orthogonal vectors give cosine 0, which the normalized convention
	// maps to exactly 0.5. A region scoring exactly minScore stays in;
	// anything below is excluded.
	matcher, _ := newTestMatcher(map[string][]float32{
		"orthogonal": {0, 1, 0},
		"opposite":   {-1, 0, 0},
	}, ScoreNormalized)

	regions := []ConsolidatedRegion{
		regionWithText("orthogonal", 10),
		regionWithText("opposite", 60),
	}
	query := []float32{1, 0, 0}

	results, err := matcher.Match(context.Background(), regions, query, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "orthogonal", results[0].Region.Text)
	assert.Equal(t, 0.5, results[0].Score)
}

func TestMatchTopKCap(t *testing.T) {
	vectors := make(map[string][]float32)
	regions := make([]ConsolidatedRegion, 0, 10)
	for i := 0; i < 10; i++ {
		text := fmt.Sprintf("region %d", i)
		// Later regions align better with the query.
		vectors[text] = []float32{float32(i), 1, 0}
		regions = append(regions, regionWithText(text, i*50))
	}
	matcher, _ := newTestMatcher(vectors, ScoreNormalized)

	query := []float32{1, 0, 0}
	results, err := matcher.Match(context.Background(), regions, query, 3, 0)
	require.NoError(t, err)

	require.Len(t, results, 3)
	assert.Equal(t, "region 9", results[0].Region.Text)
	assert.Equal(t, "region 8", results[1].Region.Text)
	assert.Equal(t, "region 7", results[2].Region.Text)
}

func TestMatchTieBreaks(t *testing.T) {
	// Identical vectors force equal scores; ordering must fall back to
	// larger sourceCount, then topmost, then leftmost.
	matcher, _ := newTestMatcher(map[string][]float32{
		"one": {1, 0, 0}, "two": {1, 0, 0}, "three": {1, 0, 0},
	}, ScoreNormalized)

	regions := []ConsolidatedRegion{
		{Text: "one", Box: Box{X: 50, Y: 20, Width: 40, Height: 12}, SourceCount: 1},
		{Text: "two", Box: Box{X: 10, Y: 20, Width: 40, Height: 12}, SourceCount: 1},
		{Text: "three", Box: Box{X: 90, Y: 80, Width: 40, Height: 12}, SourceCount: 3},
	}
	query := []float32{1, 0, 0}

	results, err := matcher.Match(context.Background(), regions, query, 10, 0)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "three", results[0].Region.Text) // largest sourceCount
	assert.Equal(t, "two", results[1].Region.Text)   // same row, leftmost
	assert.Equal(t, "one", results[2].Region.Text)
}

func TestMatchRawConvention(t *testing.T) {
	matcher, _ := newTestMatcher(map[string][]float32{
		"exact":      {1, 0, 0},
		"orthogonal": {0, 1, 0},
	}, ScoreRaw)

	regions := []ConsolidatedRegion{
		regionWithText("exact", 10),
		regionWithText("orthogonal", 60),
	}
	query := []float32{1, 0, 0}

	// Under the raw convention the orthogonal region scores 0, below a
	// 0.5 threshold that would have admitted it under normalization.
	results, err := matcher.Match(context.Background(), regions, query, 10, 0.5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "exact", results[0].Region.Text)
	assert.InDelta(t, 1.0, results[0].Score, 1e-9)
}

func TestMatchNoRegionsAboveThresholdIsEmptyNotError(t *testing.T) {
	matcher, _ := newTestMatcher(map[string][]float32{
		"opposite": {-1, 0, 0},
	}, ScoreNormalized)

	results, err := matcher.Match(context.Background(),
		[]ConsolidatedRegion{regionWithText("opposite", 10)},
		[]float32{1, 0, 0}, 5, 0.9)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchDimensionMismatch(t *testing.T) {
	matcher, _ := newTestMatcher(map[string][]float32{
		"bad": {1, 0},
	}, ScoreNormalized)

	_, err := matcher.Match(context.Background(),
		[]ConsolidatedRegion{regionWithText("bad", 10)},
		[]float32{1, 0, 0}, 5, 0)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindEmbedding))
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
