package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apptemplate/apptemplate/internal/output"
	"github.com/apptemplate/apptemplate/internal/recipe"
	"github.com/apptemplate/apptemplate/internal/recipes"
	"github.com/apptemplate/apptemplate/internal/runctx"
)

// NewRecipeCmd creates the recipe command group.
func NewRecipeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Inspect available recipes",
	}

	cmd.AddCommand(NewRecipeListCmd())
	cmd.AddCommand(NewRecipeShowCmd())

	return cmd
}

// NewRecipeListCmd creates the recipe list command.
func NewRecipeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in recipes and recipes on the search paths",
		Long: `List every recipe that apply can find.

Recipes in the configured search paths (recipePaths, default
~/.apptemplate/recipes) are listed before the built-in ones and shadow
built-ins of the same name.`,
		Args: cobra.NoArgs,
		RunE: runRecipeList,
	}
}

func runRecipeList(cmd *cobra.Command, _ []string) error {
	list, err := recipes.NewRegistry(GetRecipePaths()).List()
	if err != nil {
		// Broken recipes on disk should not hide the rest.
		output.Warn("some recipes could not be loaded", "error", err)
	}

	tbl := output.NewTable("NAME", "SOURCE", "DESCRIPTION")
	for _, r := range list {
		tbl.Row(r.Name, r.Source, r.Description)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tbl.String())
	return nil
}

// NewRecipeShowCmd creates the recipe show command.
func NewRecipeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show NAME|DIR",
		Short: "Show the flags, prompts, plans and hooks of a recipe",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecipeShow,
	}
}

func runRecipeShow(cmd *cobra.Command, args []string) error {
	rec, err := recipes.NewRegistry(GetRecipePaths()).Find(args[0])
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), describeRecipe(rec))
	return nil
}

func describeRecipe(rec *recipe.Recipe) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s (%s)\n", rec.Name, rec.Source)
	if rec.Description != "" {
		fmt.Fprintf(&sb, "  %s\n", rec.Description)
	}

	if len(rec.Flags) > 0 {
		sb.WriteString("\nFlags:\n")
		for _, f := range rec.Flags {
			name := "--" + f.Name
			if f.Type == runctx.FlagString {
				name += "=VALUE"
			}
			fmt.Fprintf(&sb, "  %-24s %s\n", name, f.Description)
		}
	}

	if len(rec.Prompts) > 0 {
		sb.WriteString("\nPrompts:\n")
		for _, p := range rec.Prompts {
			line := fmt.Sprintf("  %-24s %s", p.Key, p.Question)
			if p.Default != "" {
				line += fmt.Sprintf(" [%s]", p.Default)
			}
			if p.Secret {
				line += " (secret)"
			}
			sb.WriteString(line + "\n")
		}
	}

	if len(rec.Plans) > 0 {
		sb.WriteString("\nPlans:\n")
		for _, p := range rec.Plans {
			header := p.Name
			if p.When != "" {
				header += " [when " + p.When + "]"
			}
			fmt.Fprintf(&sb, "  %s\n", header)
			for _, s := range p.Steps {
				fmt.Fprintf(&sb, "    - %s\n", s.Summary())
			}
		}
	}

	if rec.Install != nil || len(rec.AfterInstall) > 0 {
		sb.WriteString("\nAfter install:\n")
		if rec.Install != nil {
			fmt.Fprintf(&sb, "  1. install: %s\n", rec.Install.CommandLine())
		}
		n := 1
		if rec.Install != nil {
			n = 2
		}
		for i, s := range rec.AfterInstall {
			fmt.Fprintf(&sb, "  %d. %s\n", n+i, s.Summary())
		}
	}

	return sb.String()
}
