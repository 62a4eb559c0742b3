package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/meysamhadeli/codepack/constants/lipgloss"
)

var archiveOutput string

var archiveCmd = &cobra.Command{
	Use:   "archive <directory>",
	Short: "Collect a directory and build a validated zip archive from it.",
	Long: `The 'archive' subcommand collects a directory under the same path-safety
and resource rules as packing, then serializes the collected file set into a
zip archive. Invalid names or ceiling breaches fail the whole run.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies := handleRootCommand(cmd)
		return handleArchiveCommand(rootDependencies, args[0])
	},
}

func init() {
	archiveCmd.Flags().StringVarP(&archiveOutput, "output", "o", "project.zip", "output archive path")
	rootCmd.AddCommand(archiveCmd)
}

func handleArchiveCommand(rootDependencies *RootDependencies, dir string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).WithRemoveWhenDone(true)
	spinnerArchive, _ := spinner.Start("Building archive...")
	defer func() { _ = spinnerArchive.Stop() }()

	uploads, err := stageDirectory(dir)
	if err != nil {
		return err
	}
	project, err := rootDependencies.Packer.PackFromFiles(ctx, uploads)
	if err != nil {
		return err
	}
	buffer, err := rootDependencies.Packer.BuildArchive(project.Files)
	if err != nil {
		return err
	}
	if err := os.WriteFile(archiveOutput, buffer, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", archiveOutput, err)
	}

	_ = spinnerArchive.Stop()
	fmt.Println(lipgloss.Green.Render(fmt.Sprintf("Archived %d files into %s", len(project.Files), archiveOutput)))
	return nil
}
