package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/p-n-ai/b1-trainer/internal/content"
	"github.com/p-n-ai/b1-trainer/internal/httpapi"
	"github.com/p-n-ai/b1-trainer/internal/platform/config"
	"github.com/p-n-ai/b1-trainer/internal/platform/logging"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	root := os.DirFS(cfg.Content.Path)
	layout := layoutFromConfig(cfg.Content)
	if cfg.Content.Validate {
		logReport(content.Validate(root, layout))
	}
	cat := loadCatalog(root, layout)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      newHandler(cat, cfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr, "content", cfg.Content.Path)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func layoutFromConfig(c config.ContentConfig) content.Layout {
	return content.Layout{
		LevelsDir:      c.LevelsDir,
		DictionaryDir:  c.DictionaryDir,
		DictionaryFile: c.DictionaryFile,
		EmailsFile:     c.EmailsFile,
	}
}

// loadCatalog loads content once at startup. An empty catalog is served
// rather than refusing to start.
func loadCatalog(root fs.FS, layout content.Layout) *content.Catalog {
	cat := content.Load(root, layout)
	if st := cat.Stats(); st.Modules == 0 && st.DictionaryEntries == 0 && st.Emails == 0 {
		slog.Warn("no content found", "layout", layout)
	}
	return cat
}

func logReport(r content.Report) {
	for _, i := range r.Issues {
		level := slog.LevelWarn
		if i.Severity == content.SeverityError {
			level = slog.LevelError
		}
		slog.Log(context.Background(), level, "content issue",
			"path", i.Path,
			"field", i.Field,
			"message", i.Message,
		)
	}
	slog.Info("content validated", "issues", len(r.Issues), "errors", r.HasErrors())
}

// newHandler creates the HTTP handler with health checks and the content API.
func newHandler(cat *content.Catalog, cfg *config.Config) http.Handler {
	return httpapi.New(cat, httpapi.Options{AllowedOrigins: cfg.CORS.AllowedOrigins})
}
