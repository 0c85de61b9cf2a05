package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"content-studio/internal/analysis"
	"content-studio/internal/api"
	"content-studio/internal/config"
	"content-studio/internal/gemini"
	"content-studio/internal/httpclient"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg)

	httpClient, err := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
		ProxyURL:   cfg.ProxyURL,
	})
	if err != nil {
		logger.Error("http client init failed", "err", err)
		os.Exit(1)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	svc := analysis.New(analysis.Options{
		APIKey:        config.APIKey,
		NewGenerator:  newGeneratorFactory(cfg, httpClient, logger),
		MaxInputChars: cfg.MaxInputChars,
		Logger:        logger,
	})

	srv := &http.Server{
		Addr:              cfg.WebAddr,
		Handler:           api.NewRouter(api.Options{Processor: svc, Logger: logger}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       90 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "err", err)
		}
	}()

	if config.APIKey() == "" {
		logger.Warn("GEMINI_API_KEY is not set; requests will fail until it is configured")
	}

	logger.Info("web started", "addr", cfg.WebAddr, "text_model", cfg.GeminiTextModel, "image_model", cfg.GeminiImageModel)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}

func newGeneratorFactory(cfg config.Config, httpClient *http.Client, logger *slog.Logger) func(string) analysis.Generator {
	return func(apiKey string) analysis.Generator {
		return gemini.New(gemini.Options{
			APIKey:      apiKey,
			BaseURL:     cfg.GeminiBaseURL,
			APIVersion:  cfg.GeminiAPIVersion,
			TextModel:   cfg.GeminiTextModel,
			ImageModel:  cfg.GeminiImageModel,
			AspectRatio: cfg.ImageAspectRatio,
			HTTPClient:  httpClient,
			Logger:      logger,
		})
	}
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}
