package runctx

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

// Options are the inputs to Collect.
type Options struct {
	// ProjectDir is the project root. Its base name is the default app name.
	ProjectDir string

	// AppName overrides the name derived from ProjectDir.
	AppName string

	// Args is the raw command line scanned for recipe flags.
	Args []string

	Flags   []Flag
	Prompts []Prompt

	// Overrides are --set key=value pairs. They win over everything and
	// suppress the prompt for their key.
	Overrides map[string]string

	Prompter *Prompter
}

// Collect resolves derived values, recipe flags, prompt answers and
// overrides, in that order, into a RunContext.
func Collect(opts Options) (*RunContext, error) {
	values := make(map[string]any)

	dir, err := filepath.Abs(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project directory: %w", err)
	}
	values[KeyProjectDir] = dir

	name := opts.AppName
	if name == "" {
		name = filepath.Base(dir)
	}
	for k, v := range DeriveNames(name) {
		values[k] = v
	}

	for k, v := range ScanFlags(opts.Args, opts.Flags) {
		values[k] = v
	}

	for _, q := range opts.Prompts {
		if _, ok := opts.Overrides[q.Key]; ok {
			continue
		}
		answer, err := opts.Prompter.Ask(q)
		if err != nil {
			return nil, err
		}
		values[q.Key] = answer
	}

	for k, v := range opts.Overrides {
		if _, ok := values[k].(bool); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, aerrors.NewValidationError(
					fmt.Sprintf("--set %s=%s: %s is a flag and takes true or false", k, v, k), "", "")
			}
			values[k] = b
			continue
		}
		values[k] = v
	}

	return New(values), nil
}

// appNameReplacer normalizes a directory name into an application name the
// way the framework does: backslashes dropped, separators become underscores.
// Case and digits are left alone.
var appNameReplacer = strings.NewReplacer(`\`, "", "-", "_", ".", "_", " ", "_")

// DeriveNames computes the normalized identifiers of an application name.
func DeriveNames(name string) map[string]string {
	appName := appNameReplacer.Replace(strings.TrimSpace(name))
	return map[string]string{
		KeyAppName:      appName,
		KeyAppNameUpper: strings.ToUpper(appName),
		KeyAppConst:     strcase.ToCamel(appName),
	}
}

// ParseOverrides turns key=value pairs into a map.
func ParseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, aerrors.NewValidationError(
				fmt.Sprintf("invalid --set value %q", pair), "", "Use --set key=value.")
		}
		out[key] = value
	}
	return out, nil
}
