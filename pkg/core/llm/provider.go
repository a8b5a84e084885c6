// Package llm abstracts the generative model used to curate machine-built
// valuation estimates. The engine never depends on a model being available:
// callers treat ErrUnavailable as "keep the deterministic estimate".
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable means no provider is configured (missing API key). It is a
// soft failure: reports fall back to uncurated estimates.
var ErrUnavailable = errors.New("llm: no provider configured")

// Provider is the interface for all LLM providers.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}

// NoopProvider always reports ErrUnavailable. Used when GEMINI_API_KEY is
// absent so the report path stays deterministic.
type NoopProvider struct{}

var _ Provider = (*NoopProvider)(nil)

func (p *NoopProvider) GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error) {
	return "", ErrUnavailable
}
