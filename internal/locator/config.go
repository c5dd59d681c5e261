package locator

import (
	"fmt"
	"time"
)

// Config carries the locator pipeline knobs. Values are validated once at
// startup; a bad value fails construction with a configuration-kind error.
type Config struct {
	// OCRConfidenceFloor drops detections the engine is less sure about.
	// 0 accepts everything.
	OCRConfidenceFloor float64

	// MergeIoUThreshold is the box-overlap ratio above which two
	// detections are considered the same region.
	MergeIoUThreshold float64

	// MergeGapFactor scales the cluster's average character height into
	// the maximum horizontal gap for word-fragment joins.
	MergeGapFactor float64

	// EmbeddingCacheCapacity bounds the embedding memoization cache.
	EmbeddingCacheCapacity int

	// CollaboratorTimeout is the per-call budget for OCR and embedding
	// invocations.
	CollaboratorTimeout time.Duration

	// CollaboratorPoolSize bounds concurrent collaborator calls; 1 means
	// mutual exclusion.
	CollaboratorPoolSize int

	// Convention selects raw-cosine or normalized scoring.
	Convention ScoreConvention

	// Preprocess enables OCR-oriented image preparation.
	Preprocess bool
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		OCRConfidenceFloor:     0.0,
		MergeIoUThreshold:      0.1,
		MergeGapFactor:         0.5,
		EmbeddingCacheCapacity: 10000,
		CollaboratorTimeout:    30 * time.Second,
		CollaboratorPoolSize:   4,
		Convention:             ScoreNormalized,
		Preprocess:             true,
	}
}

// Validate checks every knob and reports the first invalid one.
func (c Config) Validate() error {
	if c.OCRConfidenceFloor < 0 || c.OCRConfidenceFloor > 1 {
		return NewConfigurationError("config",
			fmt.Errorf("ocr confidence floor must be in [0,1], got %g", c.OCRConfidenceFloor))
	}
	if c.MergeIoUThreshold < 0 || c.MergeIoUThreshold >= 1 {
		return NewConfigurationError("config",
			fmt.Errorf("merge IoU threshold must be in [0,1), got %g", c.MergeIoUThreshold))
	}
	if c.MergeGapFactor < 0 {
		return NewConfigurationError("config",
			fmt.Errorf("merge gap factor must be >= 0, got %g", c.MergeGapFactor))
	}
	if c.EmbeddingCacheCapacity <= 0 {
		return NewConfigurationError("config",
			fmt.Errorf("embedding cache capacity must be positive, got %d", c.EmbeddingCacheCapacity))
	}
	if c.CollaboratorTimeout <= 0 {
		return NewConfigurationError("config",
			fmt.Errorf("collaborator timeout must be positive, got %s", c.CollaboratorTimeout))
	}
	if c.CollaboratorPoolSize < 1 {
		return NewConfigurationError("config",
			fmt.Errorf("collaborator pool size must be >= 1, got %d", c.CollaboratorPoolSize))
	}
	switch c.Convention {
	case ScoreNormalized, ScoreRaw:
	default:
		return NewConfigurationError("config",
			fmt.Errorf("unknown score convention %q", c.Convention))
	}
	return nil
}
