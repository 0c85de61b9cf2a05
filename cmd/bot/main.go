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

	"github.com/joho/godotenv"

	"content-studio/internal/analysis"
	"content-studio/internal/config"
	"content-studio/internal/content"
	"content-studio/internal/gemini"
	"content-studio/internal/handlers"
	"content-studio/internal/httpclient"
	"content-studio/internal/session"
	"content-studio/internal/telegram"
	"content-studio/internal/textbatch"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg)

	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_BOT_TOKEN is required")
		os.Exit(1)
	}

	httpClient, err := httpclient.New(httpclient.Options{
		PreferIPv4: cfg.PreferIPv4,
		Timeout:    cfg.HTTPTimeout,
		ProxyURL:   cfg.ProxyURL,
	})
	if err != nil {
		logger.Error("http client init failed", "err", err)
		os.Exit(1)
	}

	tg, err := telegram.New(telegram.Options{
		Token:      cfg.TelegramToken,
		HTTPClient: httpClient,
		Logger:     logger,
		Debug:      cfg.Debug,
	})
	if err != nil {
		logger.Error("telegram init failed", "err", err)
		os.Exit(1)
	}

	svc := analysis.New(analysis.Options{
		APIKey:        config.APIKey,
		NewGenerator:  newGeneratorFactory(cfg, httpClient, logger),
		MaxInputChars: cfg.MaxInputChars,
		Logger:        logger,
	})

	sessions := session.NewStore(session.Options{DefaultMode: content.ModeDetect})

	handler := handlers.New(handlers.Options{
		Telegram: tg,
		Analyzer: svc,
		Sessions: sessions,
		Logger:   logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sem := make(chan struct{}, cfg.MaxConcurrent)
	onBatchFlush := func(batch textbatch.Batch) {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return
		}

		go func() {
			defer func() { <-sem }()

			reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
			defer cancel()

			handler.HandleBatch(reqCtx, batch)
		}()
	}

	batcher := textbatch.New(textbatch.Options{
		Debounce: cfg.TextBatchDebounce,
		OnFlush:  onBatchFlush,
	})
	handler.SetTextBatcher(batcher)

	go sweepSessions(ctx, sessions, logger)

	logger.Info("bot started", "username", tg.Username())

	updates := tg.Updates(telegram.UpdatesOptions{
		Timeout: 30 * time.Second,
	})
	defer tg.StopUpdates()

	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return
		case update, ok := <-updates:
			if !ok {
				logger.Info("updates channel closed")
				return
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}

			go func(update telegram.Update) {
				defer func() { <-sem }()

				reqCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
				defer cancel()

				if err := handler.HandleUpdate(reqCtx, update); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("handle update failed", "err", err)
				}
			}(update)
		}
	}
}

func sweepSessions(ctx context.Context, sessions *session.Store, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := sessions.Sweep(now); n > 0 {
				logger.Debug("idle sessions dropped", "count", n)
			}
		}
	}
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
