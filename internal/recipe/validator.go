package recipe

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

//go:embed schema.cue
var schemaCUE []byte

// Validator checks recipe documents against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	recipe cue.Value
}

// NewValidator compiles the schema.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling recipe schema: %w", schema.Err())
	}

	def := schema.LookupPath(cue.ParsePath("#Recipe"))
	if def.Err() != nil {
		return nil, fmt.Errorf("looking up #Recipe: %w", def.Err())
	}

	return &Validator{ctx: ctx, recipe: def}, nil
}

// ValidateYAML validates a recipe.yaml document. location names the file in
// errors.
func (v *Validator) ValidateYAML(data []byte, location string) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return aerrors.NewValidationError(fmt.Sprintf("parsing YAML: %v", err), location, "")
	}

	doc := v.ctx.CompileBytes(jsonData, cue.Filename(location))
	if doc.Err() != nil {
		return aerrors.NewValidationError(fmt.Sprintf("parsing recipe: %v", doc.Err()), location, "")
	}

	unified := v.recipe.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return aerrors.NewValidationError(formatCUEError(err), location,
			"Run 'apptemplate recipe show' on a built-in recipe for a working example.")
	}
	return nil
}

func formatCUEError(err error) string {
	var lines []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if p := e.Path(); len(p) > 0 {
			msg = strings.Join(p, ".") + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 0 {
		return err.Error()
	}
	return strings.Join(lines, "\n  ")
}
