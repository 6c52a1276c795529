package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"lipost/pkg/auth"
	"lipost/pkg/config"
	"lipost/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage lipost configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (LINKEDIN_TOKEN, LIPOST_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default values",
	Long: `Write a configuration file with the default values.

The file is created as '.lipost.yaml' in the current directory unless a
different path is given with --config. The token is never written.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Long:  `Show the configuration after merging all sources. The token is masked.`,
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = ".lipost.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists: %s", configPath)
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	ui.PrintDim("Store your token with 'lipost auth login' or export LINKEDIN_TOKEN.")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	display := *cfg
	if display.LinkedIn.Token != "" {
		display.LinkedIn.Token = auth.MaskToken(display.LinkedIn.Token)
	}

	data, err := yaml.Marshal(&display)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintDim(string(data))
	return nil
}
