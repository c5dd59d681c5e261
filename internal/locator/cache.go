package locator

import (
	"container/list"
	"context"
	"strings"
	"sync"

	"github.com/avencia/textlocate/internal/embed"
	"github.com/avencia/textlocate/internal/gate"
)

// EmbeddingCache memoizes embedding vectors for normalized text strings.
//
// Embedding invocation dominates pipeline latency, so repeated queries and
// recurring region text across calls must not re-pay the model call. The
// cache is the one piece of mutable state shared across locate calls; it is
// bounded with least-recently-used eviction and is safe for concurrent use.
//
// The lock covers only the internal map and recency list, never a model
// invocation. Two callers missing on the same key concurrently may both
// invoke the model; whichever write lands last is kept. Vectors for
// identical normalized text are model-deterministic, so the lost race is
// harmless.
type EmbeddingCache struct {
	embedder embed.Embedder
	gate     *gate.Gate
	capacity int

	mu      sync.Mutex
	entries map[string]*list.Element
	recency *list.List // front is most recently used

	hits   uint64
	misses uint64
}

type cacheEntry struct {
	key    string
	vector []float32
}

// NewEmbeddingCache creates a cache of at most capacity entries around
// embedder. Collaborator calls go through g.
func NewEmbeddingCache(embedder embed.Embedder, g *gate.Gate, capacity int) *EmbeddingCache {
	return &EmbeddingCache{
		embedder: embedder,
		gate:     g,
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		recency:  list.New(),
	}
}

// NormalizeText trims, case-folds, and collapses internal whitespace so
// semantically-identical strings share one cache entry.
func NormalizeText(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// Embed returns the embedding vector for text, invoking the model at most
// once per distinct normalized string while the entry stays cached. Failed
// model calls are surfaced as embedding- or timeout-kind errors and are
// never stored.
func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := NormalizeText(text)

	c.mu.Lock()
	if elem, ok := c.entries[key]; ok {
		c.recency.MoveToFront(elem)
		c.hits++
		vector := elem.Value.(*cacheEntry).vector
		c.mu.Unlock()
		return vector, nil
	}
	c.misses++
	c.mu.Unlock()

	// Model call happens outside the critical section.
	var vector []float32
	err := c.gate.Do(ctx, func(callCtx context.Context) error {
		var embedErr error
		vector, embedErr = c.embedder.Embed(callCtx, key)
		return embedErr
	})
	if err != nil {
		return nil, stageError(KindEmbedding, "embed", err)
	}

	c.store(key, vector)
	return vector, nil
}

func (c *EmbeddingCache) store(key string, vector []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		// Lost race with a concurrent miss: last write wins.
		elem.Value.(*cacheEntry).vector = vector
		c.recency.MoveToFront(elem)
		return
	}

	elem := c.recency.PushFront(&cacheEntry{key: key, vector: vector})
	c.entries[key] = elem

	for len(c.entries) > c.capacity {
		oldest := c.recency.Back()
		if oldest == nil {
			break
		}
		c.recency.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

// Stats returns cache hit/miss counters and the current entry count.
func (c *EmbeddingCache) Stats() (hits, misses uint64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, len(c.entries)
}
