package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultConfigPath    = "config.yaml"
	defaultListenAddr    = ":8080"
	defaultAssetsDir     = "./assets"
	defaultAssetsBaseURL = "http://localhost:8080/assets"
	defaultOutputDir     = "./output"
	defaultRenderURL     = "http://localhost:3001"
	defaultLanguage      = "en-US"
	defaultProvider      = "gemini"
)

type Config struct {
	GCSBucket          string
	GoogleCloudProject string
	OpenAIAPIKey       string

	Server     ServerConfig     `yaml:"server"`
	Assets     AssetsConfig     `yaml:"assets"`
	Render     RenderConfig     `yaml:"render"`
	Generation GenerationConfig `yaml:"generation"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type AssetsConfig struct {
	// Dir backs the local asset store; ignored when a GCS bucket is set.
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"base_url"`
}

type RenderConfig struct {
	ServerURL string `yaml:"server_url"`
	OutputDir string `yaml:"output_dir"`
}

type GenerationConfig struct {
	Language string `yaml:"language"`
	Provider string `yaml:"provider"`
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg := &Config{
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GoogleCloudProject: os.Getenv("GOOGLE_CLOUD_PROJECT"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
	}

	loadYAMLConfig(cfg)
	applyDefaults(cfg)

	return cfg
}

func loadYAMLConfig(cfg *Config) {
	data, err := os.ReadFile(defaultConfigPath)
	if err != nil {
		slog.Warn("No config.yaml found, using defaults")
		return
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		slog.Error("Failed to parse config.yaml", "error", err)
	}
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(cfg)
	applyAssetsDefaults(cfg)
	applyRenderDefaults(cfg)
	applyGenerationDefaults(cfg)
}

func applyServerDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = getEnvOrDefault("LISTEN_ADDR", defaultListenAddr)
	}
}

func applyAssetsDefaults(cfg *Config) {
	if cfg.Assets.Dir == "" {
		cfg.Assets.Dir = defaultAssetsDir
	}
	if cfg.Assets.BaseURL == "" {
		cfg.Assets.BaseURL = defaultAssetsBaseURL
	}
}

func applyRenderDefaults(cfg *Config) {
	if cfg.Render.ServerURL == "" {
		cfg.Render.ServerURL = getEnvOrDefault("RENDER_SERVER_URL", defaultRenderURL)
	}
	if cfg.Render.OutputDir == "" {
		cfg.Render.OutputDir = defaultOutputDir
	}
}

func applyGenerationDefaults(cfg *Config) {
	if cfg.Generation.Language == "" {
		cfg.Generation.Language = defaultLanguage
	}
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = defaultProvider
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
