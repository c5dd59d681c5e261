package locator

import (
	"context"
	"fmt"
	"math"
	"sort"
)

// ScoreConvention selects how cosine similarity is presented as a score.
// One convention is applied consistently everywhere scores are compared or
// thresholded.
type ScoreConvention string

const (
	// ScoreNormalized maps cosine to [0, 1] via (cos+1)/2, keeping scores
	// in the same domain as MinScore. This is the default.
	ScoreNormalized ScoreConvention = "normalized"

	// ScoreRaw uses the raw cosine in [-1, 1].
	ScoreRaw ScoreConvention = "raw"
)

// Matcher scores consolidated regions against a query embedding and
// produces the ranked match list.
type Matcher struct {
	cache      *EmbeddingCache
	convention ScoreConvention
}

// NewMatcher creates a matcher embedding region text through cache.
func NewMatcher(cache *EmbeddingCache, convention ScoreConvention) *Matcher {
	return &Matcher{cache: cache, convention: convention}
}

// Match embeds each region's text, scores it against queryVec, filters
// regions scoring below minScore (a region scoring exactly minScore is
// included), and returns at most topK results ordered by descending score.
// Ties break deterministically: larger SourceCount first, then topmost,
// then leftmost box. An empty result is a normal outcome, not an error.
func (m *Matcher) Match(ctx context.Context, regions []ConsolidatedRegion, queryVec []float32, topK int, minScore float64) ([]MatchResult, error) {
	results := make([]MatchResult, 0, len(regions))

	for _, region := range regions {
		vector, err := m.cache.Embed(ctx, region.Text)
		if err != nil {
			return nil, err
		}
		if len(vector) != len(queryVec) {
			return nil, NewEmbeddingError("match",
				fmt.Errorf("dimension mismatch: region vector has %d, query has %d", len(vector), len(queryVec)))
		}

		score := m.scoreOf(cosineSimilarity(vector, queryVec))
		if score < minScore {
			continue
		}
		results = append(results, MatchResult{Region: region, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Region.SourceCount != b.Region.SourceCount {
			return a.Region.SourceCount > b.Region.SourceCount
		}
		if a.Region.Box.Y != b.Region.Box.Y {
			return a.Region.Box.Y < b.Region.Box.Y
		}
		return a.Region.Box.X < b.Region.Box.X
	})

	if len(results) > topK {
		results = results[:topK]
	}
	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}

// scoreOf converts raw cosine similarity into the configured score
// convention. This is the only place the conversion happens.
func (m *Matcher) scoreOf(cosine float64) float64 {
	if m.convention == ScoreRaw {
		return cosine
	}
	return (cosine + 1) / 2
}

// cosineSimilarity returns the cosine of the angle between a and b, or 0 if
// either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
