package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"
)

//go:embed schema.cue
var schemaCUE []byte

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validator validates configuration files against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	if def.Err() != nil {
		return nil, fmt.Errorf("looking up #Config: %w", def.Err())
	}

	return &Validator{ctx: ctx, schema: def}, nil
}

// ValidateFile checks the config file at path against the schema and the
// rules in Validate. A missing file is an error.
func (v *Validator) ValidateFile(path string) error {
	expanded, err := ExpandPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", expanded)
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	if strings.TrimSpace(string(jsonData)) == "null" {
		return nil
	}

	doc := v.ctx.CompileBytes(jsonData, cue.Filename(expanded))
	if doc.Err() != nil {
		return fmt.Errorf("parsing config file: %w", doc.Err())
	}

	if err := v.schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		var errs ValidationErrors
		for _, e := range cueerrors.Errors(err) {
			format, args := e.Msg()
			errs = append(errs, ValidationError{
				Field:   strings.Join(e.Path(), "."),
				Message: fmt.Sprintf(format, args...),
			})
		}
		return errs
	}

	cfg, err := NewLoader().Load(expanded)
	if err != nil {
		return err
	}
	return Validate(cfg)
}

// Validate checks rules on a loaded Config.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	for i, p := range cfg.RecipePaths {
		if strings.TrimSpace(p) == "" {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("recipePaths[%d]", i),
				Message: "must not be empty or whitespace only",
			})
		}
	}

	if cfg.Recipe != "" && strings.TrimSpace(cfg.Recipe) == "" {
		errs = append(errs, ValidationError{
			Field:   "recipe",
			Message: "must not be empty or whitespace only",
		})
	}

	if email := cfg.Git.AuthorEmail; email != "" && !strings.Contains(email, "@") {
		errs = append(errs, ValidationError{
			Field:   "git.authorEmail",
			Message: "must be an email address",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
