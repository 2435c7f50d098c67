package llm

import (
	"context"
	"errors"
)

// Generator abstracts text-generation providers. Implementations make exactly one
// attempt per call and must honor ctx cancellation and deadlines.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ErrNotConfigured is returned by the placeholder generator.
var ErrNotConfigured = errors.New("llm generator not configured")

// ErrEmptyResponse indicates the provider answered with no usable text.
var ErrEmptyResponse = errors.New("llm response empty")

// PlaceholderGenerator is used when no provider is configured.
type PlaceholderGenerator struct{}

// Generate returns ErrNotConfigured.
func (PlaceholderGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
