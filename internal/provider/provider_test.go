package provider

import (
	"testing"

	"shortsfactory/internal/settings"
)

func TestMissingKeyErrorMessage(t *testing.T) {
	err := &MissingKeyError{Provider: settings.ProviderGemini}
	if got, want := err.Error(), "no API key configured for GEMINI"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
