package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/persona/pkg/persona/config"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

func TestNewBackendOpenAI(t *testing.T) {
	opts := OptionsFromConfig(config.Default().LLM, nil)
	opts.APIKey = "sk"

	b, err := NewBackend(context.Background(), opts)
	require.NoError(t, err)

	client, ok := b.(*Client)
	require.True(t, ok)
	assert.Equal(t, "gpt-4o-mini", client.Model)
	assert.Equal(t, 3, client.MaxAttempts)
	assert.Equal(t, 60*time.Second, client.HTTPClient.Timeout)
}

func TestNewBackendGemini(t *testing.T) {
	b, err := NewBackend(context.Background(), Options{Provider: config.ProviderGemini, Model: "gemini-2.0-flash", APIKey: "g"})
	require.NoError(t, err)

	_, ok := b.(*GeminiClient)
	assert.True(t, ok)
}

func TestNewBackendUnknown(t *testing.T) {
	_, err := NewBackend(context.Background(), Options{Provider: "cohere"})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}
