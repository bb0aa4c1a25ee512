package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"adcraft/internal/providers/copywriter"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	CopyProvider       string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIOrg          string
	ProviderTimeout    time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	SessionIdleTimeout time.Duration
	CORSAllowedOrigins []string
	DefaultLocale      string
	GeoIPDBPath        string
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		CopyProvider:       strings.ToLower(getEnv("COPY_PROVIDER", copywriter.ProviderGenAI)),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:        getEnv("GEMINI_MODEL", copywriter.DefaultGeminiModel),
		GeminiBaseURL:      os.Getenv("GEMINI_BASE_URL"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", copywriter.DefaultOpenAIModel),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		ProviderTimeout:    time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 0)),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		SessionIdleTimeout: time.Minute * time.Duration(getEnvInt("SESSION_IDLE_TIMEOUT_MINUTES", 30)),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
	}

	if !validProvider(cfg.CopyProvider) {
		return nil, fmt.Errorf("COPY_PROVIDER must be one of %s, got %q", strings.Join(copywriter.Providers(), ", "), cfg.CopyProvider)
	}

	return cfg, nil
}

// Backend returns the copywriter settings for the configured provider.
func (c *Config) Backend() copywriter.BackendConfig {
	return copywriter.BackendConfig{
		Provider:      c.CopyProvider,
		GeminiAPIKey:  c.GeminiAPIKey,
		GeminiModel:   c.GeminiModel,
		GeminiBaseURL: c.GeminiBaseURL,
		OpenAIAPIKey:  c.OpenAIAPIKey,
		OpenAIModel:   c.OpenAIModel,
		OpenAIBaseURL: c.OpenAIBaseURL,
		OpenAIOrg:     c.OpenAIOrg,
		Timeout:       c.ProviderTimeout,
	}
}

func validProvider(name string) bool {
	for _, p := range copywriter.Providers() {
		if p == name {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
