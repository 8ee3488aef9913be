package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	tmp := t.TempDir()
	orig, _ := os.Getwd()
	defer func() { _ = os.Chdir(orig) }()
	_ = os.Chdir(tmp)

	cfg := Load()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Render.ServerURL != "http://localhost:3001" {
		t.Errorf("Render.ServerURL = %q", cfg.Render.ServerURL)
	}
	if cfg.Generation.Language != "en-US" {
		t.Errorf("Generation.Language = %q, want en-US", cfg.Generation.Language)
	}
	if cfg.Generation.Provider != "gemini" {
		t.Errorf("Generation.Provider = %q, want gemini", cfg.Generation.Provider)
	}
}

func TestLoadFromYAML(t *testing.T) {
	tmp := t.TempDir()
	orig, _ := os.Getwd()
	defer func() { _ = os.Chdir(orig) }()
	_ = os.Chdir(tmp)

	yaml := `
server:
  addr: ":9090"
assets:
  dir: /srv/assets
render:
  server_url: http://render:3001
generation:
  language: pt-BR
  provider: openai
`
	_ = os.WriteFile(filepath.Join(tmp, "config.yaml"), []byte(yaml), 0644)

	cfg := Load()

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Assets.Dir != "/srv/assets" {
		t.Errorf("Assets.Dir = %q", cfg.Assets.Dir)
	}
	if cfg.Render.ServerURL != "http://render:3001" {
		t.Errorf("Render.ServerURL = %q", cfg.Render.ServerURL)
	}
	if cfg.Generation.Language != "pt-BR" {
		t.Errorf("Generation.Language = %q, want pt-BR", cfg.Generation.Language)
	}
	if cfg.Generation.Provider != "openai" {
		t.Errorf("Generation.Provider = %q, want openai", cfg.Generation.Provider)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tmp := t.TempDir()
	orig, _ := os.Getwd()
	defer func() { _ = os.Chdir(orig) }()
	_ = os.Chdir(tmp)

	t.Setenv("GCS_BUCKET", "test-bucket")
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("RENDER_SERVER_URL", "http://elsewhere:3001")

	cfg := Load()

	if cfg.GCSBucket != "test-bucket" {
		t.Errorf("GCSBucket = %q, want test-bucket", cfg.GCSBucket)
	}
	if cfg.GoogleCloudProject != "test-project" {
		t.Errorf("GoogleCloudProject = %q, want test-project", cfg.GoogleCloudProject)
	}
	if cfg.Render.ServerURL != "http://elsewhere:3001" {
		t.Errorf("Render.ServerURL = %q", cfg.Render.ServerURL)
	}
}
