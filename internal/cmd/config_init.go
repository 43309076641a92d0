package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/apptemplate/apptemplate/internal/config"
	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/output"
)

const configHeader = "# apptemplate configuration\n# Precedence: flag > APPTEMPLATE_* env > this file > defaults\n\n"

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Create the apptemplate configuration file with default values.

The file is written to ~/.apptemplate/config.yaml unless --config or
APPTEMPLATE_CONFIG points elsewhere. The default recipe search directory
~/.apptemplate/recipes is created alongside it.

Examples:
  # Initialize configuration
  apptemplate config init

  # Overwrite existing configuration
  apptemplate config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

func runConfigInit(_ *cobra.Command, force bool) error {
	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return aerrors.Wrap(aerrors.ErrNotFound, "could not determine home directory")
	}
	configPath, err := config.ExpandPath(pathResult.ConfigPath)
	if err != nil {
		return fmt.Errorf("expanding config path: %w", err)
	}

	exists, err := config.ConfigFileExists(configPath)
	if err != nil {
		return fmt.Errorf("checking config file: %w", err)
	}
	if exists && !force {
		return &aerrors.DetailError{
			Type:     "already exists",
			Message:  "configuration already exists",
			Location: configPath,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    aerrors.ErrAlreadyExists,
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	recipesDir, err := config.ExpandPath(config.DefaultRecipesDir)
	if err != nil {
		return fmt.Errorf("expanding recipes directory: %w", err)
	}
	if err := os.MkdirAll(recipesDir, 0o755); err != nil {
		return fmt.Errorf("creating recipes directory: %w", err)
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append([]byte(configHeader), data...)

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	output.Println("Configuration initialized at " + output.StyleNoun(configPath))
	output.Println("Recipes directory: " + output.StyleNoun(recipesDir))
	output.Println("Validate with: apptemplate config vet")

	return nil
}
