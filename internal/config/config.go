package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	LogLevel string
	Debug    bool

	PreferIPv4  bool
	HTTPTimeout time.Duration
	ProxyURL    string

	GeminiBaseURL     string
	GeminiAPIVersion  string
	GeminiTextModel   string
	GeminiImageModel  string
	ImageAspectRatio  string
	MaxInputChars     int
	WebAddr           string
	TelegramToken     string
	MaxConcurrent     int
	RequestTimeout    time.Duration
	TextBatchDebounce time.Duration
}

// Load reads the environment. The Gemini key is not part of Config; APIKey
// looks it up at request time.
func Load() Config {
	cfg := Config{
		LogLevel:          strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Debug:             getEnvBool("DEBUG", false),
		PreferIPv4:        getEnvBool("PREFER_IPV4", true),
		HTTPTimeout:       time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		ProxyURL:          getEnv("HTTPS_PROXY_URL", ""),
		GeminiBaseURL:     getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIVersion:  getEnv("GEMINI_API_VERSION", "v1beta"),
		GeminiTextModel:   getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
		GeminiImageModel:  getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		ImageAspectRatio:  getEnv("GEMINI_IMAGE_ASPECT_RATIO", ""),
		MaxInputChars:     getEnvInt("MAX_INPUT_CHARS", 20000),
		WebAddr:           getEnv("WEB_ADDR", ":8080"),
		TelegramToken:     strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN")),
		MaxConcurrent:     getEnvInt("MAX_CONCURRENT", 4),
		RequestTimeout:    time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 300)) * time.Second,
		TextBatchDebounce: time.Duration(getEnvInt("TEXT_BATCH_DEBOUNCE_MS", 1200)) * time.Millisecond,
	}

	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.MaxInputChars < 0 {
		cfg.MaxInputChars = 0
	}
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 300 * time.Second
	}
	if cfg.TextBatchDebounce <= 0 {
		cfg.TextBatchDebounce = 1200 * time.Millisecond
	}

	return cfg
}

// APIKey returns the Gemini credential as currently set in the environment.
func APIKey() string {
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		return v
	}
	return strings.TrimSpace(os.Getenv("API_KEY"))
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
