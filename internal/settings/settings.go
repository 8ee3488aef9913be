package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Provider identifies one of the supported AI vendors.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

const DefaultProvider = ProviderGemini

// GeminiKeyEnv is the build/deploy-time fallback key source for Gemini,
// used when no key has been stored explicitly.
const GeminiKeyEnv = "GEMINI_API_KEY"

func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case "":
		return DefaultProvider, nil
	}
	return "", fmt.Errorf("unknown provider: %q", s)
}

// Store holds the active provider selection and per-provider API keys.
// Implementations persist across runs; keys are stored per provider, so
// switching providers never clears the other provider's key.
type Store interface {
	Provider() Provider
	SetProvider(p Provider) error
	// APIKey returns the normalized key for p, falling back to any seeded
	// source (environment, secret manager) when none was stored.
	APIKey(p Provider) string
	SetAPIKey(p Provider, key string) error
	RemoveAPIKey(p Provider) error
	// SeedAPIKey installs a non-persisted fallback key for p. Stored keys
	// always win over seeds.
	SeedAPIKey(p Provider, key string)
}

// NormalizeKey trims whitespace and strips one layer of surrounding quotes,
// which keys pasted from shell configs tend to carry.
func NormalizeKey(key string) string {
	key = strings.TrimSpace(key)
	for _, q := range []string{`"`, `'`} {
		if len(key) >= 2 && strings.HasPrefix(key, q) && strings.HasSuffix(key, q) {
			key = key[1 : len(key)-1]
		}
	}
	return strings.TrimSpace(key)
}

type fileState struct {
	Provider Provider            `json:"provider,omitempty"`
	Keys     map[Provider]string `json:"keys,omitempty"`
}

// FileStore is a Store backed by a single JSON file, the process-wide
// equivalent of the browser's local storage.
type FileStore struct {
	mu    sync.Mutex
	path  string
	state fileState
	seeds map[Provider]string
}

// DefaultPath places the settings file under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "shortsfactory", "settings.json"), nil
}

// NewFileStore loads (or initializes) the store at path. The Gemini
// environment fallback is seeded automatically.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		state: fileState{Keys: map[Provider]string{}},
		seeds: map[Provider]string{},
	}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := json.Unmarshal(data, &s.state); err != nil {
			return nil, fmt.Errorf("parse settings file %s: %w", path, err)
		}
		if s.state.Keys == nil {
			s.state.Keys = map[Provider]string{}
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read settings file %s: %w", path, err)
	}

	if env := NormalizeKey(os.Getenv(GeminiKeyEnv)); env != "" {
		s.seeds[ProviderGemini] = env
	}

	return s, nil
}

func (s *FileStore) Provider() Provider {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Provider == "" {
		return DefaultProvider
	}
	return s.state.Provider
}

func (s *FileStore) SetProvider(p Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Provider = p
	return s.save()
}

func (s *FileStore) APIKey(p Provider) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if key := s.state.Keys[p]; key != "" {
		return key
	}
	return s.seeds[p]
}

func (s *FileStore) SetAPIKey(p Provider, key string) error {
	key = NormalizeKey(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if key == "" {
		delete(s.state.Keys, p)
	} else {
		s.state.Keys[p] = key
	}
	return s.save()
}

func (s *FileStore) RemoveAPIKey(p Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.state.Keys, p)
	return s.save()
}

func (s *FileStore) SeedAPIKey(p Provider, key string) {
	key = NormalizeKey(key)
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds[p] = key
}

func (s *FileStore) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
