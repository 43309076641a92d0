// Package recipes ships the built-in recipes and finds recipes on disk.
package recipes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/output"
	"github.com/apptemplate/apptemplate/internal/recipe"
)

//go:embed all:builtin
var builtinFS embed.FS

const builtinDir = "builtin"

// DefaultName is the recipe applied when none is configured.
const DefaultName = "rails-api"

// BuiltinNames returns the names of the embedded recipes in sorted order.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, builtinDir)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Builtin loads an embedded recipe by name.
func Builtin(name string) (*recipe.Recipe, error) {
	sub, err := fs.Sub(builtinFS, path.Join(builtinDir, name))
	if err != nil {
		return nil, fmt.Errorf("opening built-in recipe %s: %w", name, err)
	}
	if _, err := fs.Stat(sub, recipe.FileName); err != nil {
		return nil, notFound(name)
	}
	return recipe.Load(sub, recipe.SourceBuiltin)
}

// Registry resolves recipe references against directories on disk and the
// built-in set. Search paths are consulted in order and shadow built-ins.
type Registry struct {
	SearchPaths []string
}

// NewRegistry creates a Registry over the given search paths.
func NewRegistry(searchPaths []string) *Registry {
	return &Registry{SearchPaths: searchPaths}
}

// Find resolves ref, which is either a directory containing recipe.yaml or
// a recipe name.
func (r *Registry) Find(ref string) (*recipe.Recipe, error) {
	if ref == "" {
		ref = DefaultName
	}

	if isRecipeDir(ref) {
		output.Debug("loading recipe from directory", "dir", ref)
		return recipe.LoadDir(ref)
	}
	if strings.ContainsRune(ref, os.PathSeparator) {
		return nil, aerrors.NewNotFoundError(filepath.Join(ref, recipe.FileName))
	}

	for _, dir := range r.SearchPaths {
		candidate := filepath.Join(dir, ref)
		if isRecipeDir(candidate) {
			output.Debug("loading recipe from search path", "dir", candidate)
			return recipe.LoadDir(candidate)
		}
	}

	for _, name := range BuiltinNames() {
		if name == ref {
			return Builtin(name)
		}
	}
	return nil, notFound(ref)
}

// List loads every recipe reachable from the search paths and the built-in
// set. A recipe that fails to load is reported through the returned error
// and skipped.
func (r *Registry) List() ([]*recipe.Recipe, error) {
	var (
		out  []*recipe.Recipe
		errs []error
	)

	for _, dir := range r.SearchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				errs = append(errs, fmt.Errorf("reading recipe path %s: %w", dir, err))
			}
			continue
		}
		for _, e := range entries {
			candidate := filepath.Join(dir, e.Name())
			if !e.IsDir() || !isRecipeDir(candidate) {
				continue
			}
			rec, err := recipe.LoadDir(candidate)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			out = append(out, rec)
		}
	}

	for _, name := range BuiltinNames() {
		rec, err := Builtin(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, rec)
	}

	return out, errors.Join(errs...)
}

func isRecipeDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, recipe.FileName))
	return err == nil && !info.IsDir()
}

func notFound(name string) error {
	return &aerrors.DetailError{
		Type:    "recipe not found",
		Message: fmt.Sprintf("no recipe named %q", name),
		Hint:    fmt.Sprintf("Built-in recipes: %s. Run 'apptemplate recipe list' to see all recipes.", strings.Join(BuiltinNames(), ", ")),
		Cause:   aerrors.ErrNotFound,
	}
}
