package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avencia/textlocate/internal/config"
	"github.com/avencia/textlocate/internal/embed"
	"github.com/avencia/textlocate/internal/locator"
	"github.com/avencia/textlocate/internal/ocr"
	"github.com/avencia/textlocate/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("textlocate %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("textlocate - semantic text-region locator service")
			fmt.Println()
			fmt.Println("Usage: textlocate [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Configuration is read from environment variables")
			fmt.Println("(optionally seeded from a .env file). Key variables:")
			fmt.Println("  LISTEN_ADDR                HTTP listen address (default :8000)")
			fmt.Println("  EMBEDDER_PROVIDER          openai or local (default openai)")
			fmt.Println("  OPENAI_API_KEY             required for the openai provider")
			fmt.Println("  EMBEDDING_URL              local provider endpoint")
			fmt.Println("  OCR_LANGUAGE               Tesseract language code (default eng)")
			return
		}
	}

	// Missing .env is fine; the container sets variables directly.
	_ = godotenv.Load()

	logger := newLogger()

	if err := run(logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return err
	}
	engine := ocr.NewTesseractEngine(cfg.OCRLanguage, cfg.TessdataPrefix)

	loc, err := locator.New(engine, embedder, cfg.Locator)
	if err != nil {
		return err
	}

	srv := server.New(loc, logger, Version)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			"addr", cfg.ListenAddr,
			"ocr_engine", engine.Name(),
			"embedding_model", embedder.ModelName(),
			"version", Version,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

func newEmbedder(cfg *config.Config) (embed.Embedder, error) {
	switch cfg.EmbedderProvider {
	case config.ProviderLocal:
		return embed.NewLocalEmbedder(cfg.EmbeddingURL, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	default:
		return embed.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDimension)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
