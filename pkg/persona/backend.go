package persona

import "context"

// GenerateRequest is one text-generation call.
type GenerateRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Backend produces free-form analysis text for a prompt. Implementations
// map transport failures onto the internalerr sentinels.
type Backend interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Generate calls f.
func (f BackendFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
