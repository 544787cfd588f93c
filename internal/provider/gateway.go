// Package provider holds the outbound gateways to the external generative-AI
// services. Every variant exposes the same two calls: Describe, which turns
// an image into a caption, and Generate, which turns a prompt into image
// bytes. Describe degrades into a placeholder string on failure because a
// caption has a safe fallback; Generate has none, so its failures are
// returned to the caller with the provider's diagnostic detail attached.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"photo-server/internal/config"
)

// DefaultDescription is the caption returned whenever the provider call
// fails or its response cannot be parsed.
const DefaultDescription = "Description could not be generated."

// Gateway is a stateless pass-through to one remote AI provider.
type Gateway interface {
	// Describe captions the given image. It never returns a provider
	// failure as an error; the caption falls back to DefaultDescription,
	// or to the provider's own cold-start advisory when the model is
	// still loading.
	Describe(ctx context.Context, data []byte, mimeType string) (string, error)

	// Generate renders the prompt into image bytes, returning the payload
	// and its MIME type. Provider failures surface as *Error.
	Generate(ctx context.Context, prompt string) ([]byte, string, error)
}

// Error carries the provider's status code and response body so the API
// layer can attach diagnostic detail to a failed generation.
type Error struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s provider request failed with status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// ErrNoImage reports a well-formed provider response that contained no image
// payload to extract.
var ErrNoImage = errors.New("no image data in provider response")

// ErrNotConfigured is returned by New when the selected provider has no API
// key; handlers map it to a configuration failure.
var ErrNotConfigured = errors.New("AI provider API key is not configured")

// New selects the gateway variant named by cfg.Provider.
func New(ctx context.Context, cfg config.AIConfig) (Gateway, error) {
	if cfg.APIKey == "" {
		return nil, ErrNotConfigured
	}

	switch cfg.Provider {
	case "gemini", "":
		return NewGemini(ctx, cfg)
	case "openai":
		return NewOpenAI(cfg), nil
	case "huggingface":
		return NewHuggingFace(cfg), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

func newHTTPClient(cfg config.AIConfig) *http.Client {
	return &http.Client{Timeout: cfg.Timeout()}
}
