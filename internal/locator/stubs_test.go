package locator

import (
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"sync"
	"time"

	"github.com/avencia/textlocate/internal/ocr"
)

// stubEngine returns a fixed detection list, or a fixed error, regardless of
// the image content.
type stubEngine struct {
	mu         sync.Mutex
	detections []ocr.Detection
	err        error
	delay      time.Duration
	calls      int
}

func (s *stubEngine) Name() string { return "stub-ocr" }

func (s *stubEngine) Recognize(ctx context.Context, _ image.Image) ([]ocr.Detection, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]ocr.Detection, len(s.detections))
	copy(out, s.detections)
	return out, nil
}

// stubEmbedder returns fixed vectors for known normalized texts and a
// deterministic hash-derived vector otherwise. It counts invocations per
// text so tests can assert memoization.
type stubEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   map[string]int
	err     error
	delay   time.Duration
	dim     int
}

func newStubEmbedder(vectors map[string][]float32) *stubEmbedder {
	return &stubEmbedder{
		vectors: vectors,
		calls:   make(map[string]int),
		dim:     3,
	}
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.calls[text]++
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}

	// Deterministic fallback so unknown texts still embed.
	h := fnv.New32a()
	fmt.Fprint(h, text)
	seed := h.Sum32()
	v := make([]float32, s.dim)
	for i := range v {
		seed = seed*1664525 + 1013904223
		v[i] = float32(seed%1000)/1000 + 0.001
	}
	return v, nil
}

func (s *stubEmbedder) Dimension() int { return s.dim }

func (s *stubEmbedder) ModelName() string { return "stub-embedder" }

func (s *stubEmbedder) callCount(text string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[text]
}

func (s *stubEmbedder) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// testConfig is a valid pipeline configuration for tests: no preprocessing,
// small pool, generous timeout.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Preprocess = false
	cfg.CollaboratorPoolSize = 2
	cfg.CollaboratorTimeout = 2 * time.Second
	cfg.EmbeddingCacheCapacity = 100
	return cfg
}

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 200, 100))
}
