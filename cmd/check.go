package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"shortsfactory/internal/generator"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the active provider's API key works",
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	d, err := buildDeps(ctx)
	if err != nil {
		return err
	}
	defer d.Close()

	var status generator.ConnectionStatus
	var checkErr error
	_ = spinner.New().
		Title(fmt.Sprintf("Pinging %s...", d.settings.Provider())).
		Action(func() {
			status, checkErr = d.gen.CheckConnection(ctx)
		}).
		Run()
	if checkErr != nil {
		return checkErr
	}

	if !status.Success {
		fmt.Println(warnStyle.Render("✗ " + status.Message))
		return fmt.Errorf("connection check failed")
	}

	fmt.Println(successStyle.Render(fmt.Sprintf("✓ %s (%dms)", status.Message, status.LatencyMs)))
	return nil
}
