package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Environment variable prefix for apptemplate configuration.
const envPrefix = "APPTEMPLATE"

// Environment variables read by the resolver.
const (
	EnvConfig      = envPrefix + "_CONFIG"
	EnvRecipe      = envPrefix + "_RECIPE"
	EnvRecipePaths = envPrefix + "_RECIPE_PATHS"
	EnvTimestamps  = envPrefix + "_LOG_TIMESTAMPS"
)

// Loader reads the config file. Git author settings also honour their
// environment variables; every other key is resolved against flags and the
// environment by Resolve so that its source can be reported.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = v.BindEnv("git.authorName", envPrefix+"_GIT_AUTHOR_NAME")
	_ = v.BindEnv("git.authorEmail", envPrefix+"_GIT_AUTHOR_EMAIL")

	return &Loader{v: v}
}

// Load loads configuration from path. A missing file yields an empty
// Config.
func (l *Loader) Load(path string) (*Config, error) {
	expandedPath, err := ExpandPath(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(path string) (bool, error) {
	expandedPath, err := ExpandPath(path)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
