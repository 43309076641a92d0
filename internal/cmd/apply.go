package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/output"
	"github.com/apptemplate/apptemplate/internal/pipeline"
	"github.com/apptemplate/apptemplate/internal/recipes"
	"github.com/apptemplate/apptemplate/internal/runctx"
	"github.com/apptemplate/apptemplate/internal/vcs"
)

// NewApplyCmd creates the apply command.
func NewApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [flags] [recipe flags]",
		Short: "Apply a recipe to a project",
		Long: `Apply a recipe to a freshly generated project.

Plans run first and patch or write files. Dependency installation and the
after_install steps then run in order; the first failure stops the run.

Flags declared by the recipe (for example --devise or --scaffold) are read
from the same command line. Unrecognized flags are ignored.

Examples:
  # Apply the default recipe to the current directory
  apptemplate apply

  # Apply with devise and a scaffold
  apptemplate apply --dir blog --devise --scaffold="Post title:string"

  # Preview the changes
  apptemplate apply --dry-run --no-input

  # Answer prompts up front
  apptemplate apply --set db_username=rails --set db_password=secret`,
		// Recipe flags are not known until the recipe is loaded, so flags are
		// parsed in runApply.
		DisableFlagParsing: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: runApply,
	}

	var opts applyOptions
	opts.addTo(cmd.Flags())

	return cmd
}

func runApply(cmd *cobra.Command, args []string) error {
	opts, flags, err := parseApplyArgs(args)
	if err != nil {
		return &aerrors.ExitError{Code: aerrors.ExitGeneralError, Err: err}
	}
	if opts.help {
		return cmd.Help()
	}

	if err := initializeGlobals(flags, opts.recipe); err != nil {
		return err
	}
	resolved := GetResolvedConfig()

	dir, err := filepath.Abs(opts.dir)
	if err != nil {
		return fmt.Errorf("resolving project directory: %w", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return &aerrors.DetailError{
			Type:     "not found",
			Message:  "project directory does not exist",
			Location: dir,
			Hint:     "Generate the app first, then run apply inside it or pass --dir.",
			Cause:    aerrors.ErrNotFound,
		}
	}

	rec, err := recipes.NewRegistry(resolved.RecipePaths).Find(resolved.Recipe)
	if err != nil {
		return err
	}
	output.Debug("recipe loaded", "name", rec.Name, "source", rec.Source)

	overrides, err := runctx.ParseOverrides(opts.set)
	if err != nil {
		return err
	}

	rc, err := runctx.Collect(runctx.Options{
		ProjectDir: dir,
		AppName:    opts.appName,
		Args:       args,
		Flags:      rec.Flags,
		Prompts:    rec.Prompts,
		Overrides:  overrides,
		Prompter:   runctx.NewTerminalPrompter(opts.noInput),
	})
	if err != nil {
		return err
	}

	var author vcs.Author
	if resolved.Config != nil {
		author = vcs.Author{Name: resolved.Config.Git.AuthorName, Email: resolved.Config.Git.AuthorEmail}
	}

	driver, err := pipeline.New(pipeline.Options{
		ProjectDir: dir,
		Recipe:     rec,
		Context:    rc,
		DryRun:     opts.dryRun,
		Idempotent: opts.idempotent,
		Author:     author,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	report, runErr := driver.Run(ctx)
	printReport(dir, report, opts.dryRun)

	if runErr != nil {
		return &aerrors.ExitError{Code: aerrors.ExitCodeFromError(runErr), Err: runErr}
	}

	if opts.dryRun {
		output.Println(output.FormatCheckmark("Dry run complete, no changes made"))
		return nil
	}
	output.Println(output.FormatCheckmark(fmt.Sprintf("Applied %s to %s", output.StyleNoun(rec.Name), dir)))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printReport(dir string, report *pipeline.Report, dryRun bool) {
	if report == nil {
		return
	}

	if len(report.Changes) > 0 {
		output.Println(output.RenderChangeTree(dir, report.Changes))
	}

	if !dryRun {
		if report.Commit != "" {
			output.Println("Created commit " + output.StyleNoun(report.Commit[:min(len(report.Commit), 12)]))
		}
		return
	}

	if len(report.Diffs) > 0 {
		output.Println(output.RenderFileDiffs(report.Diffs, output.IsTTY()))
	}
	if len(report.Hooks) > 0 {
		output.Println("")
		output.Println("Would run, in order:")
		for _, name := range report.Hooks {
			output.Println("  " + name)
		}
	}
}
