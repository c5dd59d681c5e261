package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// LocalEmbedder produces embeddings through an Ollama-compatible HTTP
// endpoint (POST {base}/api/embeddings), for deployments that run a local
// sentence-embedding model next to the service.
type LocalEmbedder struct {
	baseURL   string
	model     string
	dimension int
	client    *http.Client
}

type localEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type localEmbedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// NewLocalEmbedder creates an embedder talking to an Ollama-compatible
// server at baseURL. Timeouts come from the caller's context, so the HTTP
// client itself has none.
func NewLocalEmbedder(baseURL, model string, dimension int) (*LocalEmbedder, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("embedding URL is empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("embedding model is empty")
	}
	return &LocalEmbedder{
		baseURL:   strings.TrimRight(baseURL, "/"),
		model:     model,
		dimension: dimension,
		client:    &http.Client{},
	}, nil
}

// Embed implements Embedder.
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(localEmbedRequest{Model: e.model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding request failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed localEmbedResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse embedding response: %w", err)
	}
	if len(parsed.Embedding) == 0 {
		return nil, fmt.Errorf("embedding response returned empty vector")
	}

	vector := make([]float32, len(parsed.Embedding))
	for i, v := range parsed.Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Dimension implements Embedder.
func (e *LocalEmbedder) Dimension() int { return e.dimension }

// ModelName implements Embedder.
func (e *LocalEmbedder) ModelName() string { return e.model }

var _ Embedder = (*LocalEmbedder)(nil)
