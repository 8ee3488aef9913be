package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shortsfactory/internal/script"
	"shortsfactory/internal/settings"
)

// Format describes the audio payload a provider returns.
type Format string

const (
	// FormatPCM is raw mono 16-bit PCM; its duration is measured exactly.
	FormatPCM Format = "pcm"
	// FormatMP3 is an already-encoded stream; duration is not measured.
	FormatMP3 Format = "mp3"
)

// Speech is the result of one narration synthesis call.
type Speech struct {
	Audio      []byte
	Format     Format
	SampleRate int // meaningful for FormatPCM only
}

// Client is the provider-agnostic surface the orchestrator drives. One
// implementation exists per vendor; the orchestrator picks one by the
// settings store's active provider tag, never by type inspection.
type Client interface {
	ID() settings.Provider

	// GenerateScript turns a topic into a schema-validated VideoScript
	// with no assets attached. Narration text comes back in lang; the
	// character description and image prompts come back in English.
	GenerateScript(ctx context.Context, topic string, lang script.Language) (*script.VideoScript, error)

	// GenerateImage renders one vertical 9:16 frame for a scene. The
	// provider composes the final prompt from the recurring character
	// description and the scene's visual prompt, applies its own model
	// tiering, and returns raw image bytes.
	GenerateImage(ctx context.Context, characterDesc, imagePrompt string) ([]byte, error)

	// GenerateSpeech synthesizes the scene narration with the provider's
	// fixed narrator voice.
	GenerateSpeech(ctx context.Context, text string) (*Speech, error)

	// Ping issues one minimal request to verify the key works, returning
	// a human-readable success message.
	Ping(ctx context.Context) (string, error)

	// SceneDelay is the pause inserted between scenes to respect the
	// provider's rate limits. Zero means no pacing needed.
	SceneDelay() time.Duration
}

// MissingKeyError is returned before any network call when the active
// provider has no API key configured.
type MissingKeyError struct {
	Provider settings.Provider
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no API key configured for %s", strings.ToUpper(string(e.Provider)))
}

// Factory builds a wire client for p using the key held in store. It fails
// with *MissingKeyError when no key is available.
type Factory func(ctx context.Context, p settings.Provider, store settings.Store) (Client, error)
