package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meysamhadeli/codepack/config"
	"github.com/meysamhadeli/codepack/constants/lipgloss"
	"github.com/meysamhadeli/codepack/logging"
	"github.com/meysamhadeli/codepack/packer"
	"github.com/meysamhadeli/codepack/packer/contracts"
	"github.com/meysamhadeli/codepack/token_management"
	token_contracts "github.com/meysamhadeli/codepack/token_management/contracts"
)

// RootDependencies holds the shared wiring every subcommand needs.
type RootDependencies struct {
	Config    *config.Config
	Cwd       string
	Packer    contracts.IProjectPacker
	Estimator token_contracts.ITokenEstimator
}

var verbosity int

var rootCmd = &cobra.Command{
	Use:   "codepack",
	Short: "Pack project archives and directories into a single analyzable document.",
	Long: `codepack safely ingests an untrusted project archive or a directory tree,
validates every path and size against fixed ceilings, and serializes the
collected files into one composite text document for downstream analysis.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("%v", err)))
		os.Exit(1)
	}
}

// handleRootCommand builds the dependency set shared by all subcommands.
func handleRootCommand(cmd *cobra.Command) *RootDependencies {
	logging.SetupLogger(verbosity)

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error getting current directory: %v", err)))
		os.Exit(1)
	}

	cfg := config.LoadConfigs(rootCmd, cwd)
	limits := cfg.ToLimits()
	estimator := token_management.NewTokenEstimator(limits.TokenWarningThreshold)

	return &RootDependencies{
		Config:    cfg,
		Cwd:       cwd,
		Packer:    packer.NewProjectPacker(limits, packer.DefaultExclusions(), estimator),
		Estimator: estimator,
	}
}
