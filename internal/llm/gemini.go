package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

// GeminiClient implements persona.Backend with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// GeminiOptions configures NewGeminiClient. BaseURL and HTTPClient are
// optional overrides.
type GeminiOptions struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewGeminiClient creates a Gemini backend.
func NewGeminiClient(ctx context.Context, opts GeminiOptions) (*GeminiClient, error) {
	if opts.APIKey == "" || opts.Model == "" {
		return nil, fmt.Errorf("%w: gemini api key and model required", internalerr.ErrInvalidConfig)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      opts.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: opts.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiClient{client: client, model: opts.Model}, nil
}

// Generate implements persona.Backend.
func (g *GeminiClient) Generate(ctx context.Context, req persona.GenerateRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", mapGeminiError(err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned no text", internalerr.ErrNoContent)
	}
	return text, nil
}

func mapGeminiError(err error) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code != 0 {
		return statusError(code, err.Error())
	}

	s := err.Error()
	if strings.Contains(s, "RESOURCE_EXHAUSTED") || strings.Contains(s, "quota") {
		return fmt.Errorf("%w: %v", internalerr.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", internalerr.ErrTransient, err)
}
