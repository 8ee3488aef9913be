// Package clients wires the concrete vendor clients behind the
// provider.Factory seam, so everything above it can be tested with fakes.
package clients

import (
	"context"
	"fmt"

	"shortsfactory/internal/provider"
	"shortsfactory/internal/provider/gemini"
	"shortsfactory/internal/provider/openai"
	"shortsfactory/internal/settings"
)

// New builds the wire client for p. It fails fast with *MissingKeyError
// before any network traffic when store holds no key for p.
func New(ctx context.Context, p settings.Provider, store settings.Store) (provider.Client, error) {
	key := store.APIKey(p)
	if key == "" {
		return nil, &provider.MissingKeyError{Provider: p}
	}

	switch p {
	case settings.ProviderGemini:
		return gemini.NewClient(ctx, gemini.Config{APIKey: key})
	case settings.ProviderOpenAI:
		return openai.NewClient(openai.Config{APIKey: key}), nil
	}
	return nil, fmt.Errorf("unknown provider: %q", p)
}
