package locator

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/avencia/textlocate/internal/embed"
	"github.com/avencia/textlocate/internal/gate"
	"github.com/avencia/textlocate/internal/ocr"
)

// Locator orchestrates the full pipeline for one locate call:
// extract -> consolidate -> embed query -> match.
type Locator struct {
	extractor    *Extractor
	consolidator *Consolidator
	cache        *EmbeddingCache
	matcher      *Matcher
	engine       ocr.Engine
	embedder     embed.Embedder
}

// New assembles a locator around the injected collaborators. Both
// collaborators share one admission gate sized and budgeted from cfg.
func New(engine ocr.Engine, embedder embed.Embedder, cfg Config) (*Locator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := gate.New(cfg.CollaboratorPoolSize, cfg.CollaboratorTimeout)
	cache := NewEmbeddingCache(embedder, g, cfg.EmbeddingCacheCapacity)

	return &Locator{
		extractor:    NewExtractor(engine, g, cfg.OCRConfidenceFloor, cfg.Preprocess),
		consolidator: NewConsolidator(cfg.MergeIoUThreshold, cfg.MergeGapFactor),
		cache:        cache,
		matcher:      NewMatcher(cache, cfg.Convention),
		engine:       engine,
		embedder:     embedder,
	}, nil
}

// Locate runs the pipeline for img and query, returning the ranked matches.
// It fails with the first stage error, wrapped with stage identity so a
// caller can tell "bad image" from "embedding backend down". An image with
// no recognizable text yields an empty match list, not an error.
//
// Locate is idempotent: the same image, query, and configuration produce
// the same ranked result set; the cache changes only latency.
func (l *Locator) Locate(ctx context.Context, img image.Image, query LocateQuery) ([]MatchResult, error) {
	if err := validateQuery(query); err != nil {
		return nil, err
	}

	regions, err := l.extractor.Extract(ctx, img)
	if err != nil {
		return nil, err
	}

	consolidated := l.consolidator.Consolidate(regions)
	if len(consolidated) == 0 {
		return []MatchResult{}, nil
	}

	queryVec, err := l.cache.Embed(ctx, query.QueryText)
	if err != nil {
		return nil, err
	}

	return l.matcher.Match(ctx, consolidated, queryVec, query.TopK, query.MinScore)
}

// CacheStats exposes embedding cache counters for health reporting.
func (l *Locator) CacheStats() (hits, misses uint64, size int) {
	return l.cache.Stats()
}

// EngineName identifies the OCR collaborator.
func (l *Locator) EngineName() string { return l.engine.Name() }

// ModelName identifies the embedding collaborator.
func (l *Locator) ModelName() string { return l.embedder.ModelName() }

func validateQuery(q LocateQuery) error {
	if strings.TrimSpace(q.QueryText) == "" {
		return fmt.Errorf("%w: query text is blank", ErrInvalidQuery)
	}
	if q.TopK < 1 {
		return fmt.Errorf("%w: topK must be >= 1, got %d", ErrInvalidQuery, q.TopK)
	}
	if q.MinScore < 0 || q.MinScore > 1 {
		return fmt.Errorf("%w: minScore must be in [0,1], got %g", ErrInvalidQuery, q.MinScore)
	}
	return nil
}
