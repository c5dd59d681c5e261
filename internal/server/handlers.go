package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/avencia/textlocate/internal/imaging"
	"github.com/avencia/textlocate/internal/locator"
)

// LocateRequest is the POST /locate body.
type LocateRequest struct {
	// Image is the base64-encoded bitmap (PNG, JPEG, or GIF).
	Image string `json:"image"`

	// Query is the natural-language description of the target text.
	Query string `json:"query"`

	// TopK caps the number of matches; defaults to 1.
	TopK *int `json:"top_k,omitempty"`

	// MinScore excludes matches scoring below it; defaults to 0.
	MinScore *float64 `json:"min_score,omitempty"`
}

// Match is one ranked result in the response.
type Match struct {
	Text        string      `json:"text"`
	Box         locator.Box `json:"box"`
	Score       float64     `json:"score"`
	Rank        int         `json:"rank"`
	SourceCount int         `json:"source_count"`
}

// LocateResponse is the POST /locate response body.
type LocateResponse struct {
	Matches []Match `json:"matches"`
	Count   int     `json:"count"`
}

// ErrorResponse is the body for every non-2xx response.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is the GET /healthz body.
type HealthResponse struct {
	Status         string `json:"status"`
	Version        string `json:"version"`
	OCREngine      string `json:"ocr_engine"`
	EmbeddingModel string `json:"embedding_model"`
	CacheHits      uint64 `json:"cache_hits"`
	CacheMisses    uint64 `json:"cache_misses"`
	CacheSize      int    `json:"cache_size"`
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	var req LocateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid JSON body: %w", err))
		return
	}

	raw, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid base64 image: %w", err))
		return
	}

	img, err := imaging.Decode(raw)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	query := locator.LocateQuery{
		QueryText: req.Query,
		TopK:      1,
		MinScore:  0,
	}
	if req.TopK != nil {
		query.TopK = *req.TopK
	}
	if req.MinScore != nil {
		query.MinScore = *req.MinScore
	}

	results, err := s.locator.Locate(r.Context(), img, query)
	if err != nil {
		s.writeError(w, r, statusFor(err), err)
		return
	}

	matches := make([]Match, len(results))
	for i, res := range results {
		matches[i] = Match{
			Text:        res.Region.Text,
			Box:         res.Region.Box,
			Score:       res.Score,
			Rank:        res.Rank,
			SourceCount: res.Region.SourceCount,
		}
	}

	s.writeJSON(w, http.StatusOK, LocateResponse{Matches: matches, Count: len(matches)})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	hits, misses, size := s.locator.CacheStats()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:         "ok",
		Version:        s.version,
		OCREngine:      s.locator.EngineName(),
		EmbeddingModel: s.locator.ModelName(),
		CacheHits:      hits,
		CacheMisses:    misses,
		CacheSize:      size,
	})
}

// statusFor maps the core error taxonomy to HTTP status categories: caller
// mistakes are 4xx, collaborator trouble is 5xx.
func statusFor(err error) int {
	switch {
	case errors.Is(err, locator.ErrInvalidQuery),
		errors.Is(err, locator.ErrEmptyImage):
		return http.StatusBadRequest
	case locator.IsKind(err, locator.KindTimeout):
		return http.StatusGatewayTimeout
	case locator.IsKind(err, locator.KindExtraction),
		locator.IsKind(err, locator.KindEmbedding):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "request_id", requestIDFrom(r.Context()), "error", err)
	}
	s.writeJSON(w, status, ErrorResponse{
		Error:     err.Error(),
		RequestID: requestIDFrom(r.Context()),
	})
}

func contextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
