package cmd

import (
	"io"

	"github.com/spf13/pflag"
)

// applyOptions holds the apply command's own flags. Everything else on the
// command line belongs to the recipe.
type applyOptions struct {
	recipe     string
	dir        string
	appName    string
	set        []string
	noInput    bool
	dryRun     bool
	idempotent bool
	help       bool
}

func (o *applyOptions) addTo(fs *pflag.FlagSet) {
	fs.StringVar(&o.recipe, "recipe", "", "Recipe name or directory (env: APPTEMPLATE_RECIPE)")
	fs.StringVar(&o.dir, "dir", ".", "Project directory to mutate")
	fs.StringVar(&o.appName, "app-name", "", "Application name (default: base name of --dir)")
	fs.StringArrayVar(&o.set, "set", nil, "Set a run value as key=value, skipping its prompt (repeatable)")
	fs.BoolVar(&o.noInput, "no-input", false, "Never prompt; use defaults")
	fs.BoolVar(&o.dryRun, "dry-run", false, "Show the changes without touching the project or running commands")
	fs.BoolVar(&o.idempotent, "idempotent", false, "Skip patches whose content is already present")
}

// parseApplyArgs parses the apply and global flags out of args. Unknown
// flags are left for the recipe to read from args.
func parseApplyArgs(args []string) (*applyOptions, *pflag.FlagSet, error) {
	opts := &applyOptions{}

	fs := pflag.NewFlagSet("apply", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)

	addGlobalFlags(fs)
	opts.addTo(fs)
	fs.BoolVarP(&opts.help, "help", "h", false, "help for apply")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}
