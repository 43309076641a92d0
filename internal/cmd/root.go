// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/apptemplate/apptemplate/internal/config"
	"github.com/apptemplate/apptemplate/internal/output"
	"github.com/apptemplate/apptemplate/internal/version"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// Resolved configuration (loaded during PersistentPreRunE)
	resolvedConfig *config.ResolvedConfig
)

// NewRootCmd creates the root command for the apptemplate CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "apptemplate",
		Short: "Apply project templates to freshly generated apps",
		Long: `apptemplate mutates a freshly generated project according to a recipe.

A recipe patches manifests and configuration files, writes new files,
then installs dependencies and runs follow-up commands in order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd.Flags(), "")
		},
	}

	addGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(NewApplyCmd())
	rootCmd.AddCommand(NewRecipeCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&configFlag, "config", "", "Path to config file (env: APPTEMPLATE_CONFIG)")
	fs.BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	fs.BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output (env: APPTEMPLATE_LOG_TIMESTAMPS)")
}

// initializeGlobals resolves configuration and sets up logging. flags is
// consulted to tell an explicit --timestamps from its default.
func initializeGlobals(flags *pflag.FlagSet, recipeFlag string) error {
	// Verbose logging must be on before resolution logs its decisions.
	output.SetupLogging(output.LogConfig{Verbose: verboseFlag})

	var timestamps *bool
	if f := flags.Lookup("timestamps"); f != nil && f.Changed {
		timestamps = output.BoolPtr(timestampsFlag)
	}

	resolved, err := config.Resolve(config.ResolveOptions{
		ConfigFlag:     configFlag,
		RecipeFlag:     recipeFlag,
		TimestampsFlag: timestamps,
	})
	if err != nil {
		return err
	}
	resolvedConfig = resolved

	output.SetupLogging(output.LogConfig{
		Verbose:    verboseFlag,
		Timestamps: resolved.Timestamps,
	})

	info := version.Get()
	output.Debug("apptemplate started",
		"version", info.Version,
		"config", resolved.ConfigPath,
		"recipe", resolved.Recipe,
	)

	return nil
}

// GetResolvedConfig returns the resolved configuration.
func GetResolvedConfig() *config.ResolvedConfig {
	return resolvedConfig
}

// GetRecipePaths returns the resolved recipe search paths.
func GetRecipePaths() []string {
	if resolvedConfig != nil {
		return resolvedConfig.RecipePaths
	}
	return nil
}
