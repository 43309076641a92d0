// Package config provides configuration loading and management.
package config

// GitConfig contains settings for the initial commit.
type GitConfig struct {
	// AuthorName is the commit author name.
	// Env: APPTEMPLATE_GIT_AUTHOR_NAME, Default: global git config user.name
	AuthorName string `mapstructure:"authorName" yaml:"authorName,omitempty"`

	// AuthorEmail is the commit author email.
	// Env: APPTEMPLATE_GIT_AUTHOR_EMAIL, Default: global git config user.email
	AuthorEmail string `mapstructure:"authorEmail" yaml:"authorEmail,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config represents the apptemplate configuration.
// Loaded from ~/.apptemplate/config.yaml, validated against the embedded
// CUE schema.
type Config struct {
	// Recipe is the recipe applied when --recipe is not given.
	// Env: APPTEMPLATE_RECIPE, Default: rails-api
	Recipe string `mapstructure:"recipe" yaml:"recipe,omitempty"`

	// RecipePaths are directories searched for recipes by name, in order.
	// Env: APPTEMPLATE_RECIPE_PATHS (comma separated), Default: ~/.apptemplate/recipes
	RecipePaths []string `mapstructure:"recipePaths" yaml:"recipePaths,omitempty"`

	// Git contains settings for the initial commit.
	Git GitConfig `mapstructure:"git" yaml:"git,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `apptemplate config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Recipe:      DefaultRecipe,
		RecipePaths: []string{DefaultRecipesDir},
	}
}

// Defaults shared by DefaultConfig and the resolver.
const (
	DefaultRecipe     = "rails-api"
	DefaultRecipesDir = "~/.apptemplate/recipes"
)

// ResolvedConfig is the effective configuration after applying precedence.
type ResolvedConfig struct {
	// Config is the loaded config file content (empty when no file exists).
	Config *Config

	// ConfigPath is the config file that was consulted.
	ConfigPath string

	// Recipe is the resolved recipe reference.
	Recipe string

	// RecipePaths are the resolved, tilde-expanded search paths.
	RecipePaths []string

	// Timestamps is the resolved timestamp setting (nil means default).
	Timestamps *bool

	// Values records where each resolved value came from.
	Values []ResolvedValue
}

// ResolvedValue records the source of one configuration value.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}
