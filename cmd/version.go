package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meysamhadeli/codepack/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the codepack version.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codepack %s\n", config.DefaultConfig.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
