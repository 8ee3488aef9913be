package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"shortsfactory/internal/generator"
	"shortsfactory/internal/render"
	"shortsfactory/internal/script"
	"shortsfactory/internal/settings"
)

var (
	generateTopic    string
	generateLanguage string
	generateProvider string
	generateOwner    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a video script with images and narration",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateTopic, "topic", "t", "", "Topic for the video")
	generateCmd.Flags().StringVarP(&generateLanguage, "language", "l", "", "Narration language (pt-BR, en-US, es-ES)")
	generateCmd.Flags().StringVarP(&generateProvider, "provider", "p", "", "Override the active provider (gemini, openai)")
	generateCmd.Flags().StringVar(&generateOwner, "owner", "", "Owner namespace for stored assets")
	_ = generateCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lang, err := script.ParseLanguage(generateLanguage)
	if err != nil {
		return err
	}

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	if generateProvider != "" {
		p, err := settings.ParseProvider(generateProvider)
		if err != nil {
			return err
		}
		if err := d.settings.SetProvider(p); err != nil {
			return err
		}
	}

	slog.Info("Starting generation", "topic", generateTopic, "language", lang, "provider", d.settings.Provider())

	result, err := d.gen.Generate(ctx, generator.Request{
		Topic:    generateTopic,
		Language: lang,
		Owner:    generateOwner,
		OnProgress: func(percent int, status string) {
			slog.Info("Progress", "percent", percent, "status", status)
		},
	})
	if err != nil {
		return err
	}

	outPath, err := saveScript(result, d.cfg.Render.OutputDir)
	if err != nil {
		return err
	}

	cmdLine, err := render.Command(result, generateTopic)
	if err != nil {
		return err
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Script with %d scenes saved to %s", len(result.Scenes), outPath)))
	fmt.Println(infoStyle.Render("Render it with:"))
	fmt.Println(cmdLine)
	return nil
}

func saveScript(s *script.VideoScript, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal script: %w", err)
	}

	path := filepath.Join(dir, "script.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}
	return path, nil
}
