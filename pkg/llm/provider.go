package llm

import (
	"context"
	"errors"
)

// ErrMalformed marks a response the oracle produced but that could not be
// decoded into the target structure. Callers distinguish it from transport
// or provider failures via errors.Is.
var ErrMalformed = errors.New("malformed oracle response")

// Provider defines the interface for interacting with storyboard oracle services.
type Provider interface {
	// GenerateText sends a prompt and returns the text response.
	GenerateText(ctx context.Context, name, prompt string) (string, error)

	// GenerateJSON sends a prompt and unmarshals the response into the target struct.
	GenerateJSON(ctx context.Context, name, prompt string, target any) error

	// HealthCheck verifies that the provider is configured and reachable.
	HealthCheck(ctx context.Context) error

	// HasProfile checks if the provider has a specific profile configured.
	HasProfile(name string) bool
}
