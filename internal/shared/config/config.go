package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"coverletter-backend/internal/shared/telemetry"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	CORSAllowOrigin []string
	LogLevel        string

	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string
	GeminiAPIKey string

	GenerationTimeout     time.Duration
	GenerationMaxParallel int
	StylesFile            string

	GenerationRateLimit RateLimit
}

// RateLimit is a token bucket rule for one route group.
type RateLimit struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LLM_PROVIDER", "openai")
	v.SetDefault("LLM_MODEL", "")
	v.SetDefault("GENERATION_TIMEOUT", "60s")
	v.SetDefault("GENERATION_MAX_PARALLEL", 0)
	v.SetDefault("STYLES_FILE", "")
	v.SetDefault("RATE_LIMIT_GENERATION_RPS", 0.2)
	v.SetDefault("RATE_LIMIT_GENERATION_BURST", 5)
	for _, key := range []string{"DATABASE_URL", "OPENAI_API_KEY", "GEMINI_API_KEY"} {
		_ = v.BindEnv(key)
	}
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	timeout := v.GetDuration("GENERATION_TIMEOUT")
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	maxParallel := v.GetInt("GENERATION_MAX_PARALLEL")
	if maxParallel < 0 {
		maxParallel = 0
	}

	return Config{
		Port:                  v.GetString("PORT"),
		Env:                   env,
		DatabaseURL:           dbURL,
		CORSAllowOrigin:       splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:              strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		LLMProvider:           normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:              strings.TrimSpace(v.GetString("LLM_MODEL")),
		OpenAIAPIKey:          strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		GeminiAPIKey:          strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
		GenerationTimeout:     timeout,
		GenerationMaxParallel: maxParallel,
		StylesFile:            strings.TrimSpace(v.GetString("STYLES_FILE")),
		GenerationRateLimit: RateLimit{
			RPS:   v.GetFloat64("RATE_LIMIT_GENERATION_RPS"),
			Burst: v.GetInt("RATE_LIMIT_GENERATION_BURST"),
		},
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	case "none", "placeholder", "":
		return "none"
	default:
		return "openai"
	}
}
