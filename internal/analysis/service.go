package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"content-studio/internal/content"
	"content-studio/internal/gemini"
)

// Generator is the remote model capability the orchestrator needs.
type Generator interface {
	GenerateJSON(ctx context.Context, req gemini.TextRequest) (string, error)
	GenerateImage(ctx context.Context, prompt string) (gemini.Image, error)
}

type Options struct {
	// APIKey is called on every request; the credential is never cached.
	APIKey func() string
	// NewGenerator builds the remote client for one request.
	NewGenerator  func(apiKey string) Generator
	MaxInputChars int
	Logger        *slog.Logger
}

type Service struct {
	apiKey        func() string
	newGenerator  func(apiKey string) Generator
	maxInputChars int
	logger        *slog.Logger
}

func New(opts Options) *Service {
	apiKey := opts.APIKey
	if apiKey == nil {
		apiKey = func() string { return "" }
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Service{
		apiKey:        apiKey,
		newGenerator:  opts.NewGenerator,
		maxInputChars: opts.MaxInputChars,
		logger:        logger,
	}
}

type requestIDKey struct{}

// WithRequestID tags ctx so Process logs under the caller's request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Process runs the text phase and, when the result carries image prompts,
// the image phase. Image failures never fail the request.
func (s *Service) Process(ctx context.Context, text string, mode content.Mode) (content.Result, error) {
	if strings.TrimSpace(text) == "" {
		return content.Result{}, newError(KindValidation, msgEmptyText, nil)
	}
	if s.maxInputChars > 0 && utf8.RuneCountInString(text) > s.maxInputChars {
		return content.Result{}, newError(KindValidation, fmt.Sprintf(msgTooLong, s.maxInputChars), nil)
	}

	key := strings.TrimSpace(s.apiKey())
	if !usableKey(key) {
		return content.Result{}, newError(KindConfiguration, msgMissingKey, nil)
	}
	if s.newGenerator == nil {
		return content.Result{}, newError(KindConfiguration, msgMissingKey, errors.New("no generator factory"))
	}

	logger := s.logger.With("request_id", requestID(ctx), "mode", string(mode))
	gen := s.newGenerator(key)
	profile := content.Lookup(mode)

	raw, err := gen.GenerateJSON(ctx, gemini.TextRequest{
		SystemInstruction: content.SystemInstruction(mode),
		UserText:          content.UserContent(text),
		Schema:            content.Schema(),
		Temperature:       profile.Temperature,
	})
	if err != nil {
		return content.Result{}, s.processingFailure(logger, err)
	}

	res, err := content.Decode(raw)
	if err != nil {
		return content.Result{}, s.processingFailure(logger, err)
	}
	res = content.Shape(res, mode, text)

	if len(res.ImagePrompts) > 0 {
		res.GeneratedImages = generateImages(ctx, logger, gen, res.ImagePrompts)
	}

	logger.Info("content processed",
		"original_score", res.OriginalScore,
		"prediction_score", res.PredictionScore,
		"sentences", len(res.SentenceAnalysis),
		"image_prompts", len(res.ImagePrompts),
		"images", len(res.GeneratedImages),
	)
	return res, nil
}

func (s *Service) processingFailure(logger *slog.Logger, err error) error {
	if errors.Is(err, ErrConfiguration) {
		return err
	}
	logger.Error("text generation failed", "err", err)
	return newError(KindProcessing, msgProcessFail, err)
}

// generateImages issues one call per prompt (at most content.MaxImagePrompt),
// all at once, and keeps the successes in prompt order.
func generateImages(ctx context.Context, logger *slog.Logger, gen Generator, prompts []string) []string {
	if len(prompts) > content.MaxImagePrompt {
		prompts = prompts[:content.MaxImagePrompt]
	}

	slots := make([]string, len(prompts))
	var g errgroup.Group
	for i, prompt := range prompts {
		i, prompt := i, prompt
		g.Go(func() error {
			img, err := gen.GenerateImage(ctx, prompt)
			if err != nil {
				logger.Warn("image generation failed", "index", i, "prompt", prompt, "err", err)
				return nil
			}
			slots[i] = img.DataURL()
			return nil
		})
	}
	_ = g.Wait()

	var out []string
	for _, s := range slots {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func usableKey(key string) bool {
	switch strings.ToLower(key) {
	case "", "undefined", "null":
		return false
	}
	return true
}
