package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/avencia/textlocate/internal/locator"
)

// Server routes HTTP requests to the locator.
type Server struct {
	locator *locator.Locator
	logger  *slog.Logger
	version string
}

// New creates a server around loc. logger must not be nil.
func New(loc *locator.Locator, logger *slog.Logger, version string) *Server {
	return &Server{
		locator: loc,
		logger:  logger,
		version: version,
	}
}

// Handler returns the routed handler with request-id and logging middleware
// applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /locate", s.handleLocate)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.withRequestLog(mux)
}

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type requestIDKey struct{}

// withRequestLog assigns a request id and logs one line per request.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		ctx := contextWithRequestID(r.Context(), requestID)
		next.ServeHTTP(rec, r.WithContext(ctx))

		s.logger.Info("request",
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
