package copywriter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	ProviderGenAI  = genaiProviderName
	ProviderGemini = geminiProviderName
	ProviderOpenAI = openAIProviderName
	ProviderStatic = staticProviderName
)

// Providers lists the accepted COPY_PROVIDER values.
func Providers() []string {
	return []string{ProviderGenAI, ProviderGemini, ProviderOpenAI, ProviderStatic}
}

// BackendConfig selects and configures one backend.
type BackendConfig struct {
	Provider      string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	OpenAIOrg     string
	// Timeout bounds each upstream HTTP call; zero keeps the backend default.
	Timeout time.Duration
}

// NewBackend builds the backend named by cfg.Provider.
func NewBackend(ctx context.Context, cfg BackendConfig, logger zerolog.Logger) (Backend, error) {
	var httpClient *http.Client
	if cfg.Timeout > 0 {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	var (
		backend Backend
		err     error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case ProviderGenAI, "":
		backend, err = NewGenAIBackend(ctx, GenAIOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
		})
	case ProviderGemini:
		backend, err = NewGeminiBackend(GeminiOptions{
			APIKey:     cfg.GeminiAPIKey,
			Model:      cfg.GeminiModel,
			BaseURL:    cfg.GeminiBaseURL,
			HTTPClient: httpClient,
		})
	case ProviderOpenAI:
		backend, err = NewOpenAIBackend(OpenAIOptions{
			APIKey:       cfg.OpenAIAPIKey,
			Model:        cfg.OpenAIModel,
			BaseURL:      cfg.OpenAIBaseURL,
			Organization: cfg.OpenAIOrg,
			HTTPClient:   httpClient,
			OnWarning: func(reason, detail string) {
				logger.Warn().Str("reason", reason).Str("detail", detail).Msg("openai model adjusted")
			},
		})
	case ProviderStatic:
		backend = NewStaticBackend()
	default:
		err = fmt.Errorf("unsupported copy provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return backend, nil
}
