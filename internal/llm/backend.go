package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/config"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// Options selects and configures a backend.
type Options struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	MaxAttempts int
	Timeout     time.Duration
	Logger      *zap.Logger
}

// OptionsFromConfig maps the application config onto backend options.
func OptionsFromConfig(cfg config.LLMConfig, logger *zap.Logger) Options {
	return Options{
		Provider:    cfg.Provider,
		Model:       cfg.Model,
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		MaxAttempts: cfg.MaxAttempts,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		Logger:      logger,
	}
}

// NewBackend constructs the backend for opts.Provider.
func NewBackend(ctx context.Context, opts Options) (persona.Backend, error) {
	var httpClient *http.Client
	if opts.Timeout > 0 {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	switch opts.Provider {
	case config.ProviderOpenAI, "":
		return &Client{
			BaseURL:     opts.BaseURL,
			APIKey:      opts.APIKey,
			Model:       opts.Model,
			MaxAttempts: opts.MaxAttempts,
			HTTPClient:  httpClient,
			Logger:      opts.Logger,
		}, nil
	case config.ProviderGemini:
		// The OpenAI base URL default does not apply to Gemini.
		return NewGeminiClient(ctx, GeminiOptions{
			APIKey:     opts.APIKey,
			Model:      opts.Model,
			HTTPClient: httpClient,
		})
	default:
		return nil, fmt.Errorf("%w: unknown llm provider %q", internalerr.ErrInvalidConfig, opts.Provider)
	}
}
