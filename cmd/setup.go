package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"shortsfactory/internal/settings"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long:  `Pick the AI provider, store API keys, and configure optional cloud storage.`,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	fmt.Println(titleStyle.Render("🎬 Shortsfactory Setup"))

	path, err := settings.DefaultPath()
	if err != nil {
		return err
	}
	store, err := settings.NewFileStore(path)
	if err != nil {
		return err
	}

	if err := configureProvider(store); err != nil {
		return err
	}
	if err := configureKeys(store); err != nil {
		return err
	}
	if err := configureStorage(); err != nil {
		return err
	}

	fmt.Println(successStyle.Render("✓ Settings saved to " + path))
	printNextSteps()
	return nil
}

func configureProvider(store settings.Store) error {
	choice := string(store.Provider())

	if err := huh.NewSelect[string]().
		Title("AI Provider").
		Description("Which vendor generates scripts, images, and narration").
		Options(
			huh.NewOption("Google Gemini", string(settings.ProviderGemini)),
			huh.NewOption("OpenAI", string(settings.ProviderOpenAI)),
		).
		Value(&choice).
		Run(); err != nil {
		return err
	}

	p, err := settings.ParseProvider(choice)
	if err != nil {
		return err
	}
	return store.SetProvider(p)
}

func configureKeys(store settings.Store) error {
	var geminiKey, openaiKey string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Gemini API Key").
				Description("https://aistudio.google.com/apikey (blank keeps the current key)").
				EchoMode(huh.EchoModePassword).
				Value(&geminiKey),
			huh.NewInput().
				Title("OpenAI API Key").
				Description("https://platform.openai.com/api-keys (blank keeps the current key)").
				EchoMode(huh.EchoModePassword).
				Value(&openaiKey),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if key := settings.NormalizeKey(geminiKey); key != "" {
		if err := store.SetAPIKey(settings.ProviderGemini, key); err != nil {
			return err
		}
	}
	if key := settings.NormalizeKey(openaiKey); key != "" {
		if err := store.SetAPIKey(settings.ProviderOpenAI, key); err != nil {
			return err
		}
	}

	active := store.Provider()
	if store.APIKey(active) == "" {
		fmt.Println(warnStyle.Render(fmt.Sprintf("No key stored for %s yet - generation will fail until one is set", active)))
	}
	return nil
}

func configureStorage() error {
	var setup bool
	if err := huh.NewConfirm().
		Title("Setup Google Cloud Storage?").
		Description("Stores generated assets in a public bucket; otherwise assets stay on disk").
		Value(&setup).
		Run(); err != nil {
		return err
	}
	if !setup {
		return nil
	}

	var bucket, project string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("GCS Bucket").
				Placeholder("my-shorts-assets").
				Value(&bucket),
			huh.NewInput().
				Title("Google Cloud Project").
				Description("Also enables Secret Manager key seeding (optional)").
				Value(&project),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	env := map[string]string{
		"GCS_BUCKET":           strings.TrimSpace(bucket),
		"GOOGLE_CLOUD_PROJECT": strings.TrimSpace(project),
	}
	return writeEnvFile(env)
}

func writeEnvFile(env map[string]string) error {
	if _, err := os.Stat(".env"); err == nil {
		var overwrite bool
		if err := huh.NewConfirm().
			Title("Found existing .env file").
			Description("Overwrite?").
			Value(&overwrite).
			Run(); err != nil {
			return err
		}
		if !overwrite {
			fmt.Println(infoStyle.Render("Kept existing .env"))
			return nil
		}
	}

	f, err := os.Create(".env")
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	for _, key := range []string{"GCS_BUCKET", "GOOGLE_CLOUD_PROJECT"} {
		if val := env[key]; val != "" {
			_, _ = fmt.Fprintf(f, "%s=%s\n", key, val)
		}
	}

	fmt.Println(successStyle.Render("✓ Created .env file"))
	return nil
}

func printNextSteps() {
	fmt.Println()
	fmt.Println(titleStyle.Render("Next steps:"))
	fmt.Println("  1. Verify the connection: shortsfactory check")
	fmt.Println("  2. Generate a video: shortsfactory generate -t \"your topic\"")
	fmt.Println("  3. Or run the dashboard API: shortsfactory serve")
}
