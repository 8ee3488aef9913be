package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"shortsfactory/internal/generator"
	"shortsfactory/internal/provider/clients"
	"shortsfactory/internal/settings"
	"shortsfactory/internal/storage"
	"shortsfactory/pkg/config"
)

// deps is the wired application: config plus everything the commands drive.
type deps struct {
	cfg      *config.Config
	settings settings.Store
	store    storage.Store
	gen      *generator.Generator

	closers []func() error
}

func buildDeps(ctx context.Context) (*deps, error) {
	cfg := config.Load()

	path, err := settings.DefaultPath()
	if err != nil {
		return nil, err
	}
	st, err := settings.NewFileStore(path)
	if err != nil {
		return nil, fmt.Errorf("open settings: %w", err)
	}
	if cfg.OpenAIAPIKey != "" {
		st.SeedAPIKey(settings.ProviderOpenAI, cfg.OpenAIAPIKey)
	}
	if cfg.GoogleCloudProject != "" {
		if err := settings.SeedFromSecretManager(ctx, st, cfg.GoogleCloudProject); err != nil {
			slog.Warn("Secret Manager seeding skipped", "error", err)
		}
	}

	d := &deps{cfg: cfg, settings: st}

	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, err
		}
		d.store = gcs
		d.closers = append(d.closers, gcs.Close)
	} else {
		d.store = storage.NewLocalStore(cfg.Assets.Dir, cfg.Assets.BaseURL)
	}

	d.gen = generator.New(generator.Options{
		Settings: st,
		Factory:  clients.New,
		Store:    d.store,
	})

	return d, nil
}

func (d *deps) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			slog.Warn("Close failed", "error", err)
		}
	}
}
