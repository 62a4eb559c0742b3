package config

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/meysamhadeli/codepack/constants/lipgloss"
	"github.com/meysamhadeli/codepack/packer"
)

// Config represents the structure of the configuration file.
type Config struct {
	Version               string `mapstructure:"version"`
	Theme                 string `mapstructure:"theme"`
	MaxTotalSizeMB        int64  `mapstructure:"max_total_size_mb"`
	MaxFileCount          int    `mapstructure:"max_file_count"`
	MaxFileSizeMB         int64  `mapstructure:"max_file_size_mb"`
	MaxPathLength         int    `mapstructure:"max_path_length"`
	TokenWarningThreshold int    `mapstructure:"token_warning_threshold"`
}

// DefaultConfig values mirror the production packing ceilings.
var DefaultConfig = Config{
	Version:               "1.0.0",
	Theme:                 "dracula",
	MaxTotalSizeMB:        500,
	MaxFileCount:          100_000,
	MaxFileSizeMB:         100,
	MaxPathLength:         260,
	TokenWarningThreshold: 200_000,
}

// cfgFile holds the path to the configuration file (set via CLI).
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment
// variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.SetEnvPrefix("CODEPACK")
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("codepack-config")
		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		_ = viper.ReadInConfig()
	}

	// Bind CLI flags to override config values.
	if flag := rootCmd.PersistentFlags().Lookup("theme"); flag != nil {
		_ = viper.BindPFlag("theme", flag)
	}

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode config: %v", err)))
		os.Exit(1)
	}

	return config
}

// setDefaults sets default values in viper from DefaultConfig.
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("max_total_size_mb", DefaultConfig.MaxTotalSizeMB)
	viper.SetDefault("max_file_count", DefaultConfig.MaxFileCount)
	viper.SetDefault("max_file_size_mb", DefaultConfig.MaxFileSizeMB)
	viper.SetDefault("max_path_length", DefaultConfig.MaxPathLength)
	viper.SetDefault("token_warning_threshold", DefaultConfig.TokenWarningThreshold)
}

// ToLimits converts the configured ceilings into an immutable packer.Limits
// value. Values above the built-in ceilings are clamped down; the config can
// only tighten limits, never loosen them.
func (c *Config) ToLimits() packer.Limits {
	limits := packer.DefaultLimits()
	if mb := c.MaxTotalSizeMB * 1024 * 1024; mb > 0 && mb < limits.MaxTotalSize {
		limits.MaxTotalSize = mb
	}
	if c.MaxFileCount > 0 && c.MaxFileCount < limits.MaxFileCount {
		limits.MaxFileCount = c.MaxFileCount
	}
	if mb := c.MaxFileSizeMB * 1024 * 1024; mb > 0 && mb < limits.MaxFileSize {
		limits.MaxFileSize = mb
	}
	if c.MaxPathLength > 0 && c.MaxPathLength < limits.MaxPathLength {
		limits.MaxPathLength = c.MaxPathLength
	}
	if c.TokenWarningThreshold > 0 {
		limits.TokenWarningThreshold = c.TokenWarningThreshold
	}
	return limits
}

// RegisterFlags attaches shared configuration flags to the root command.
func RegisterFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "display theme")
}
