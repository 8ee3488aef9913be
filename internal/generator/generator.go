// Package generator orchestrates the full generation flow: one script, then
// one image and one narration clip per scene, with progress reporting and
// cooperative cancellation throughout.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"shortsfactory/internal/audio"
	"shortsfactory/internal/provider"
	"shortsfactory/internal/script"
	"shortsfactory/internal/settings"
	"shortsfactory/internal/storage"
)

const (
	progressScriptStart = 5
	progressAssetsStart = 10
	progressAssetsSpan  = 90

	// Measured narration runs slightly past the raw audio length so captions
	// never cut off mid-word.
	narrationTailPadding = 0.5
	// Encoded narration streams are not decoded for length, so scenes keep
	// at least this long on screen.
	minSceneDuration = 2.0

	// DefaultOwner namespaces assets when no user is attached.
	DefaultOwner = "anonymous"
)

// ProgressFunc receives progress updates during a generation. percent is
// monotonically non-decreasing in [0, 100].
type ProgressFunc func(percent int, status string)

// Request describes one generation run.
type Request struct {
	Topic      string
	Language   script.Language
	Owner      string
	OnProgress ProgressFunc
}

// Generator drives a provider client through script and asset generation and
// persists the results.
type Generator struct {
	settings settings.Store
	factory  provider.Factory
	store    storage.Store
	sleep    func(ctx context.Context, d time.Duration) error
}

// Options carries the Generator's dependencies.
type Options struct {
	Settings settings.Store
	Factory  provider.Factory
	Store    storage.Store
	// Sleep overrides inter-scene pacing, for tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

func New(opts Options) *Generator {
	g := &Generator{
		settings: opts.Settings,
		factory:  opts.Factory,
		store:    opts.Store,
		sleep:    opts.Sleep,
	}
	if g.sleep == nil {
		g.sleep = sleepCtx
	}
	return g
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Generate produces a complete script with per-scene assets attached. The
// returned error is ctx's error when the run was cancelled; scenes whose
// assets failed individually keep empty asset URLs instead of failing the
// whole run.
func (g *Generator) Generate(ctx context.Context, req Request) (*script.VideoScript, error) {
	if req.Topic == "" {
		return nil, errors.New("topic is required")
	}
	owner := req.Owner
	if owner == "" {
		owner = DefaultOwner
	}
	progress := req.OnProgress
	if progress == nil {
		progress = func(int, string) {}
	}

	active := g.settings.Provider()
	client, err := g.factory(ctx, active, g.settings)
	if err != nil {
		return nil, err
	}

	progress(progressScriptStart, "Writing script...")

	s, err := client.GenerateScript(ctx, req.Topic, req.Language)
	if err != nil {
		return nil, cancelOr(ctx, err)
	}

	progress(progressAssetsStart, "Script ready. Generating assets...")
	slog.Info("Script generated",
		"provider", active, "scenes", len(s.Scenes), "mood", s.BackgroundMusicMood)

	total := len(s.Scenes)
	for i := range s.Scenes {
		if err := ctx.Err(); err != nil {
			return nil, cancelled(err)
		}

		percent := progressAssetsStart + int(math.Round(float64(i)/float64(total)*progressAssetsSpan))
		progress(percent, fmt.Sprintf("Scene %d/%d: creating image...", i+1, total))

		if err := g.sceneImage(ctx, client, s, i, owner); err != nil {
			return nil, err
		}

		progress(percent, fmt.Sprintf("Scene %d/%d: recording narration...", i+1, total))

		if err := g.sceneNarration(ctx, client, s, i, owner); err != nil {
			return nil, err
		}

		if i < total-1 {
			if err := g.sleep(ctx, client.SceneDelay()); err != nil {
				return nil, cancelled(err)
			}
		}
	}

	progress(100, "Done!")
	return s, nil
}

// sceneImage renders and persists scene i's image. Generation failures leave
// the scene without an image; only cancellation aborts the run.
func (g *Generator) sceneImage(ctx context.Context, client provider.Client, s *script.VideoScript, i int, owner string) error {
	sc := &s.Scenes[i]

	data, err := client.GenerateImage(ctx, s.CharacterDescription, sc.ImagePrompt)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled(ctx.Err())
		}
		slog.Warn("Image generation failed, scene keeps gradient background", "scene", i, "error", err)
		return nil
	}

	name := storage.ObjectName(owner, "image", i, "png")
	url, err := g.store.Upload(ctx, data, name, "image/png")
	if err != nil {
		slog.Warn("Image upload failed, inlining as data URL", "scene", i, "error", err)
		url = storage.DataURL(data, "image/png")
	}
	sc.ImageURL = url
	return nil
}

// sceneNarration synthesizes and persists scene i's narration, then
// reconciles the scene duration against the actual audio.
func (g *Generator) sceneNarration(ctx context.Context, client provider.Client, s *script.VideoScript, i int, owner string) error {
	sc := &s.Scenes[i]

	sp, err := client.GenerateSpeech(ctx, sc.Text)
	if err != nil {
		if ctx.Err() != nil {
			return cancelled(ctx.Err())
		}
		slog.Warn("Narration synthesis failed, scene keeps estimated duration", "scene", i, "error", err)
		return nil
	}

	var (
		data        []byte
		name        string
		contentType string
	)
	switch sp.Format {
	case provider.FormatPCM:
		measured := audio.PCMDuration(sp.Audio, sp.SampleRate)
		sc.DurationInSeconds = math.Max(sc.DurationInSeconds, measured+narrationTailPadding)
		data = audio.PCMToWAV(sp.Audio, sp.SampleRate)
		name = storage.ObjectName(owner, "audio", i, "wav")
		contentType = "audio/wav"
	default:
		sc.DurationInSeconds = math.Max(sc.DurationInSeconds, minSceneDuration)
		data = sp.Audio
		name = storage.ObjectName(owner, "audio", i, "mp3")
		contentType = "audio/mpeg"
	}

	url, err := g.store.Upload(ctx, data, name, contentType)
	if err != nil {
		slog.Warn("Narration upload failed, inlining as data URL", "scene", i, "error", err)
		url = storage.DataURL(data, contentType)
	}
	sc.AudioURL = url
	return nil
}

func cancelled(err error) error {
	return fmt.Errorf("generation cancelled: %w", err)
}

// cancelOr maps provider errors that were really ctx expiring onto the
// cancellation shape, and passes everything else through.
func cancelOr(ctx context.Context, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return cancelled(err)
	}
	return err
}
