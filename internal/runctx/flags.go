package runctx

import (
	"strconv"
	"strings"
)

// FlagType is the kind of value a recipe flag carries.
type FlagType string

const (
	// FlagBool is present or absent.
	FlagBool FlagType = "bool"
	// FlagString carries a value as --name=value or --name value.
	FlagString FlagType = "string"
)

// Flag is a command-line flag declared by a recipe.
type Flag struct {
	Name        string   `yaml:"name" json:"name"`
	Type        FlagType `yaml:"type,omitempty" json:"type,omitempty"`
	Default     string   `yaml:"default,omitempty" json:"default,omitempty"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// Key is the RunContext key for the flag. Dashes become underscores so the
// value is reachable from templates.
func (f Flag) Key() string {
	return strings.ReplaceAll(f.Name, "-", "_")
}

// ScanFlags reads the declared flags out of a raw argument list. Arguments
// that match no declaration are ignored. A bool flag is true when --name is
// present and false for --no-name or --skip-name; the last occurrence wins.
// Absent flags take their defaults.
func ScanFlags(args []string, decls []Flag) map[string]any {
	values := make(map[string]any, len(decls))
	for _, d := range decls {
		values[d.Key()] = defaultValue(d)
	}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimPrefix(arg, "--"), "=")

		for _, d := range decls {
			switch d.Type {
			case FlagString:
				if name != d.Name {
					continue
				}
				if hasValue {
					values[d.Key()] = value
				} else if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
					i++
					values[d.Key()] = args[i]
				}
			default:
				switch name {
				case d.Name:
					if !hasValue {
						values[d.Key()] = true
					} else if b, err := strconv.ParseBool(value); err == nil {
						values[d.Key()] = b
					}
				case "no-" + d.Name, "skip-" + d.Name:
					values[d.Key()] = false
				}
			}
		}
	}
	return values
}

func defaultValue(d Flag) any {
	if d.Type == FlagString {
		return d.Default
	}
	b, _ := strconv.ParseBool(d.Default)
	return b
}
