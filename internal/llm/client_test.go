package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/persona/pkg/persona"
	"github.com/cognicore/persona/pkg/persona/internalerr"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(rt roundTrip) *Client {
	return &Client{
		BaseURL:    "https://api.test/v1",
		APIKey:     "sk-test",
		Model:      "gpt-test",
		RetryBase:  time.Millisecond,
		HTTPClient: &http.Client{Transport: rt},
	}
}

func TestGenerateSuccess(t *testing.T) {
	client := newTestClient(func(req *http.Request) *http.Response {
		assert.Equal(t, "https://api.test/v1/chat/completions", req.URL.String())
		assert.Equal(t, "Bearer sk-test", req.Header.Get("Authorization"))

		var body chatRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		assert.Equal(t, 200, body.MaxTokens)
		require.NotNil(t, body.Temperature)
		assert.Equal(t, 0.2, *body.Temperature)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "be careful", body.Messages[0].Content)
		assert.Equal(t, "analyze this", body.Messages[1].Content)

		return jsonResponse(200, `{"choices":[{"message":{"role":"assistant","content":"Answer"}}]}`)
	})

	out, err := client.Generate(context.Background(), persona.GenerateRequest{
		System:      "be careful",
		Prompt:      "analyze this",
		MaxTokens:   200,
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "Answer", out)
}

func TestGenerateFullEndpointURL(t *testing.T) {
	var gotPath string
	client := newTestClient(func(req *http.Request) *http.Response {
		gotPath = req.URL.Path
		return jsonResponse(200, `{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`)
	})
	client.BaseURL = "https://api.test/v1/chat/completions/"

	out, err := client.Generate(context.Background(), persona.GenerateRequest{System: "system", Prompt: "user prompt"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
	assert.Equal(t, "/v1/chat/completions", gotPath)
}

func TestGenerateErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "unauthorized", status: 401, body: `{"error":{"message":"bad key"}}`, want: internalerr.ErrUnauthorized},
		{name: "forbidden", status: 403, body: `nope`, want: internalerr.ErrUnauthorized},
		{name: "bad request", status: 400, body: `{"error":{"message":"bad"}}`, want: internalerr.ErrBadRequest},
		{name: "unknown model", status: 404, body: `{}`, want: internalerr.ErrBadRequest},
		{name: "rate limited", status: 429, body: `{"error":{"message":"slow down"}}`, want: internalerr.ErrRateLimited},
		{name: "server error", status: 503, body: `unavailable`, want: internalerr.ErrTransient},
		{name: "error body with 200", status: 200, body: `{"error":{"message":"bad"}}`, want: internalerr.ErrBadRequest},
		{name: "quota body with 200", status: 200, body: `{"error":{"message":"quota","type":"insufficient_quota"}}`, want: internalerr.ErrRateLimited},
		{name: "no choices", status: 200, body: `{"choices":[]}`, want: internalerr.ErrNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(func(req *http.Request) *http.Response {
				return jsonResponse(tt.status, tt.body)
			})
			_, err := client.Generate(context.Background(), persona.GenerateRequest{Prompt: "p"})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGenerateRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(func(req *http.Request) *http.Response {
		if calls.Add(1) < 3 {
			return jsonResponse(500, `oops`)
		}
		return jsonResponse(200, `{"choices":[{"message":{"content":"third time"}}]}`)
	})

	out, err := client.Generate(context.Background(), persona.GenerateRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "third time", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGenerateGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(func(req *http.Request) *http.Response {
		calls.Add(1)
		return jsonResponse(429, `{"error":{"message":"slow down"}}`)
	})
	client.MaxAttempts = 2

	_, err := client.Generate(context.Background(), persona.GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, internalerr.ErrRateLimited)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateDoesNotRetryAuth(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(func(req *http.Request) *http.Response {
		calls.Add(1)
		return jsonResponse(401, `{"error":{"message":"bad key"}}`)
	})

	_, err := client.Generate(context.Background(), persona.GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, internalerr.ErrUnauthorized)
	assert.Equal(t, int32(1), calls.Load())
}

type failingTransport struct{}

func (failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, errors.New("connection refused")
}

func TestGenerateNetworkError(t *testing.T) {
	client := &Client{
		BaseURL:     "https://api.test/v1",
		Model:       "gpt-test",
		MaxAttempts: 1,
		HTTPClient:  &http.Client{Transport: failingTransport{}},
	}

	_, err := client.Generate(context.Background(), persona.GenerateRequest{Prompt: "p"})
	assert.ErrorIs(t, err, internalerr.ErrTransient)
}

func TestGenerateRequiresModel(t *testing.T) {
	_, err := (&Client{BaseURL: "https://api.test"}).Generate(context.Background(), persona.GenerateRequest{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestRetryAfter(t *testing.T) {
	h := make(http.Header)
	assert.Zero(t, retryAfter(h))
	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, retryAfter(h))
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, retryAfter(h))
}
