package cmd

import (
	"github.com/spf13/cobra"

	"github.com/apptemplate/apptemplate/internal/config"
	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the apptemplate configuration file.

Checks performed:
  1. Config file exists at the resolved path
  2. Config file is valid YAML and matches the schema
  3. Values pass semantic checks (non-empty recipe paths, author email)

The config path is resolved using precedence:
  --config flag > APPTEMPLATE_CONFIG env > ~/.apptemplate/config.yaml

Examples:
  # Validate default configuration
  apptemplate config vet

  # Validate custom config path
  apptemplate config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(_ *cobra.Command, _ []string) error {
	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return aerrors.Wrap(aerrors.ErrNotFound, "could not resolve config path")
	}
	configPath, err := config.ExpandPath(pathResult.ConfigPath)
	if err != nil {
		return err
	}

	output.Debug("validating config", "path", configPath, "source", pathResult.Source)

	exists, err := config.ConfigFileExists(configPath)
	if err != nil {
		return err
	}
	if !exists {
		return &aerrors.DetailError{
			Type:     "not found",
			Message:  "configuration file not found",
			Location: configPath,
			Hint:     "Run 'apptemplate config init' to create default configuration.",
			Cause:    aerrors.ErrNotFound,
		}
	}

	validator, err := config.NewValidator()
	if err != nil {
		return err
	}
	if err := validator.ValidateFile(configPath); err != nil {
		return &aerrors.DetailError{
			Type:     "validation failed",
			Message:  err.Error(),
			Location: configPath,
			Cause:    aerrors.ErrValidation,
		}
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + configPath))
	return nil
}
