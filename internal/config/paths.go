package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for apptemplate.
type Paths struct {
	// ConfigFile is the path to the config file (~/.apptemplate/config.yaml).
	ConfigFile string

	// RecipesDir is the default recipe search path (~/.apptemplate/recipes).
	RecipesDir string

	// HomeDir is the apptemplate home directory (~/.apptemplate).
	HomeDir string
}

// DefaultPaths returns the default paths for apptemplate.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".apptemplate")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		RecipesDir: filepath.Join(home, "recipes"),
		HomeDir:    home,
	}, nil
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}

// ExpandPaths expands every element of paths.
func ExpandPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		expanded, err := ExpandPath(p)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded)
	}
	return out, nil
}
