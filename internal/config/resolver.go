package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/apptemplate/apptemplate/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]any
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) APPTEMPLATE_CONFIG env, (3) ~/.apptemplate/config.yaml
func ResolveConfigPath(flagValue string) (ResolveConfigPathResult, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolveConfigPathResult{}, err
	}

	v := resolve("config", flagValue != "", flagValue, os.Getenv(EnvConfig), "", paths.ConfigFile)
	return ResolveConfigPathResult{
		ConfigPath: v.Value.(string),
		Source:     v.Source,
		Shadowed:   v.Shadowed,
	}, nil
}

// ResolveOptions carries the flag values that participate in resolution.
type ResolveOptions struct {
	// ConfigFlag is the --config flag value (empty if not set).
	ConfigFlag string

	// RecipeFlag is the --recipe flag value (empty if not set).
	RecipeFlag string

	// TimestampsFlag is the --timestamps flag value (nil if not set).
	TimestampsFlag *bool
}

// Resolve loads and validates the config file and resolves each value
// using precedence flag > env > config > default.
func Resolve(opts ResolveOptions) (*ResolvedConfig, error) {
	pathResult, err := ResolveConfigPath(opts.ConfigFlag)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}

	cfg, err := NewLoader().Load(pathResult.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}

	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}

	configValue := ResolvedValue{
		Key:      "config",
		Value:    pathResult.ConfigPath,
		Source:   pathResult.Source,
		Shadowed: pathResult.Shadowed,
	}

	recipeValue := resolve("recipe",
		opts.RecipeFlag != "", opts.RecipeFlag,
		os.Getenv(EnvRecipe), cfg.Recipe, DefaultRecipe)

	recipePathsValue := resolveList("recipePaths",
		splitList(os.Getenv(EnvRecipePaths)), cfg.RecipePaths, []string{paths.RecipesDir})
	recipePaths, err := ExpandPaths(recipePathsValue.Value.([]string))
	if err != nil {
		return nil, fmt.Errorf("expanding recipe paths: %w", err)
	}

	timestampsValue, err := resolveTimestamps(opts.TimestampsFlag, cfg.Log.Timestamps)
	if err != nil {
		return nil, err
	}
	var timestamps *bool
	if b, ok := timestampsValue.Value.(bool); ok {
		timestamps = &b
	}

	values := []ResolvedValue{configValue, recipeValue, recipePathsValue, timestampsValue}
	LogResolvedValues(values)

	return &ResolvedConfig{
		Config:      cfg,
		ConfigPath:  pathResult.ConfigPath,
		Recipe:      recipeValue.Value.(string),
		RecipePaths: recipePaths,
		Timestamps:  timestamps,
		Values:      values,
	}, nil
}

// resolve picks the highest-precedence non-empty string.
func resolve(key string, flagSet bool, flagValue, envValue, configValue, defaultValue string) ResolvedValue {
	candidates := []struct {
		source ConfigSource
		value  string
		set    bool
	}{
		{SourceFlag, flagValue, flagSet},
		{SourceEnv, envValue, envValue != ""},
		{SourceConfig, configValue, configValue != ""},
		{SourceDefault, defaultValue, true},
	}

	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	for _, c := range candidates {
		if !c.set {
			continue
		}
		if result.Source == "" {
			result.Value = c.value
			result.Source = c.source
			continue
		}
		result.Shadowed[c.source] = c.value
	}
	return result
}

func resolveList(key string, envValue, configValue, defaultValue []string) ResolvedValue {
	result := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]any)}
	switch {
	case len(envValue) > 0:
		result.Value, result.Source = envValue, SourceEnv
		if len(configValue) > 0 {
			result.Shadowed[SourceConfig] = configValue
		}
	case len(configValue) > 0:
		result.Value, result.Source = configValue, SourceConfig
	default:
		result.Value, result.Source = defaultValue, SourceDefault
	}
	return result
}

func resolveTimestamps(flagValue, configValue *bool) (ResolvedValue, error) {
	result := ResolvedValue{Key: "log.timestamps", Shadowed: make(map[ConfigSource]any)}

	var envValue *bool
	if raw := os.Getenv(EnvTimestamps); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return result, fmt.Errorf("%s: %w", EnvTimestamps, err)
		}
		envValue = &b
	}

	for _, c := range []struct {
		source ConfigSource
		value  *bool
	}{
		{SourceFlag, flagValue},
		{SourceEnv, envValue},
		{SourceConfig, configValue},
	} {
		if c.value == nil {
			continue
		}
		if result.Source == "" {
			result.Value, result.Source = *c.value, c.source
			continue
		}
		result.Shadowed[c.source] = *c.value
	}
	if result.Source == "" {
		result.Source = SourceDefault
	}
	return result, nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
