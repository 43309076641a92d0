// Package templates renders recipe strings and template bodies against the
// run context.
package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

// missingKeyMarker is the text/template execution error text for a lookup
// of an absent map key under missingkey=error.
const missingKeyMarker = "map has no entry for key"

// FuncMap returns the helper functions available to every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"snake":          strcase.ToSnake,
		"screamingSnake": strcase.ToScreamingSnake,
		"camel":          strcase.ToCamel,
		"lowerCamel":     strcase.ToLowerCamel,
		"kebab":          strcase.ToKebab,
		"upper":          strings.ToUpper,
		"lower":          strings.ToLower,
	}
}

// Renderer handles template rendering with data substitution.
type Renderer struct {
	data map[string]any
}

// NewRenderer creates a renderer over the given values. The map is not
// copied; callers hand over a snapshot they will not mutate.
func NewRenderer(data map[string]any) *Renderer {
	return &Renderer{data: data}
}

// Render renders content and returns the result. name identifies the
// template in error messages.
func (r *Renderer) Render(name string, content []byte) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(FuncMap()).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, aerrors.NewValidationError(
			fmt.Sprintf("parsing template: %v", err), name, "")
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, r.data); err != nil {
		if strings.Contains(err.Error(), missingKeyMarker) {
			return nil, &aerrors.UnresolvedPlaceholderError{Template: name, Err: err}
		}
		return nil, fmt.Errorf("executing template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// RenderString renders a template string and returns the result.
func (r *Renderer) RenderString(name, content string) (string, error) {
	if !strings.Contains(content, "{{") {
		return content, nil
	}
	result, err := r.Render(name, []byte(content))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// RenderStrings renders every element of values.
func (r *Renderer) RenderStrings(name string, values []string) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		rendered, err := r.RenderString(name, v)
		if err != nil {
			return nil, err
		}
		out[i] = rendered
	}
	return out, nil
}
