package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"shortsfactory/internal/render"
	"shortsfactory/internal/script"
)

var (
	renderScriptPath string
	renderTitle      string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a generated script to MP4 via the render server",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderScriptPath, "script", "s", "./output/script.json", "Path to the generated script JSON")
	renderCmd.Flags().StringVar(&renderTitle, "title", "video", "Title for the output file")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	data, err := os.ReadFile(renderScriptPath)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	var s script.VideoScript
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("parse script: %w", err)
	}
	if len(s.Scenes) == 0 {
		return fmt.Errorf("script has no scenes")
	}

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	client := render.NewClient(d.cfg.Render.ServerURL, nil)
	if err := client.Health(ctx); err != nil {
		return err
	}

	if err := os.MkdirAll(d.cfg.Render.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	outPath := filepath.Join(d.cfg.Render.OutputDir, render.SafeTitle(renderTitle)+".mp4")
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	var renderErr error
	_ = spinner.New().
		Title(fmt.Sprintf("Rendering %d frames...", render.TotalFrames(&s))).
		Action(func() {
			renderErr = client.Render(ctx, &s, renderTitle, out)
		}).
		Run()
	if renderErr != nil {
		_ = os.Remove(outPath)
		return renderErr
	}

	fmt.Println(successStyle.Render("✓ Rendered to " + outPath))
	return nil
}
