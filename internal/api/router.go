package api

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"content-studio/internal/analysis"
	"content-studio/internal/content"
)

const (
	ErrorBadRequest       = "BAD_REQUEST"
	ErrorUnknownMode      = "UNKNOWN_MODE"
	ErrorValidation       = "VALIDATION_FAILED"
	ErrorAPIKeyMissing    = "API_KEY_MISSING"
	ErrorProcessingFailed = "PROCESSING_FAILED"
	ErrorInternal         = "INTERNAL_ERROR"
)

const requestIDHeader = "X-Request-ID"

type Processor interface {
	Process(ctx context.Context, text string, mode content.Mode) (content.Result, error)
}

type Options struct {
	Processor Processor
	Logger    *slog.Logger
}

type handler struct {
	proc   Processor
	logger *slog.Logger
}

type apiError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type modeInfo struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SampleText  string `json:"sampleText"`
	WantsImages bool   `json:"wantsImages"`
}

type processRequest struct {
	Text string `json:"text"`
	Mode string `json:"mode" binding:"required"`
}

func NewRouter(opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &handler{proc: opts.Processor, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), withLogging(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")
	api.GET("/modes", h.listModes)
	api.POST("/process", h.process)

	return r
}

func (h *handler) listModes(c *gin.Context) {
	profiles := content.Modes()
	out := make([]modeInfo, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, modeInfo{
			Key:         string(p.Mode),
			Title:       p.Title,
			Description: p.Description,
			SampleText:  p.SampleText,
			WantsImages: p.WantsImages,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiError{Error: "请求格式错误", Code: ErrorBadRequest})
		return
	}

	mode, ok := content.ParseMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, apiError{Error: "不支持的模式: " + req.Mode, Code: ErrorUnknownMode})
		return
	}

	ctx := analysis.WithRequestID(c.Request.Context(), c.GetString("request_id"))
	res, err := h.proc.Process(ctx, req.Text, mode)
	if err != nil {
		status, body := errorResponse(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("unexpected process error", "err", err)
		}
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, res)
}

func errorResponse(err error) (int, apiError) {
	var e *analysis.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, apiError{Error: "服务器内部错误", Code: ErrorInternal}
	}

	switch e.Kind {
	case analysis.KindValidation:
		return http.StatusBadRequest, apiError{Error: e.Error(), Code: ErrorValidation}
	case analysis.KindConfiguration:
		return http.StatusServiceUnavailable, apiError{Error: e.Error(), Code: ErrorAPIKeyMissing}
	default:
		return http.StatusBadGateway, apiError{Error: e.Error(), Code: ErrorProcessingFailed}
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func withLogging(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"request_id", c.GetString("request_id"),
			"dur_ms", time.Since(start).Milliseconds(),
		)
	}
}
