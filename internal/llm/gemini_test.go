package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "models/gemini-test:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"  persona text  "}]}}]}`)
	}))
	defer srv.Close()

	client, err := NewGeminiClient(context.Background(), GeminiOptions{
		APIKey:  "g-key",
		Model:   "gemini-test",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)

	out, err := client.Generate(context.Background(), persona.GenerateRequest{System: "sys", Prompt: "p", MaxTokens: 10})
	require.NoError(t, err)
	assert.Equal(t, "persona text", out)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), GeminiOptions{Model: "m"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestMapGeminiError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "quota", err: genai.APIError{Code: 429, Message: "quota"}, want: internalerr.ErrRateLimited},
		{name: "bad key", err: genai.APIError{Code: 403, Message: "denied"}, want: internalerr.ErrUnauthorized},
		{name: "bad request", err: genai.APIError{Code: 400}, want: internalerr.ErrBadRequest},
		{name: "server", err: fmt.Errorf("wrapped: %w", genai.APIError{Code: 500}), want: internalerr.ErrTransient},
		{name: "resource exhausted text", err: fmt.Errorf("RESOURCE_EXHAUSTED"), want: internalerr.ErrRateLimited},
		{name: "network", err: fmt.Errorf("dial tcp: refused"), want: internalerr.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapGeminiError(tt.err), tt.want)
		})
	}
}
