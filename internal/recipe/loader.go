package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"gopkg.in/yaml.v3"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/output"
)

// SourceBuiltin marks recipes shipped with the binary.
const SourceBuiltin = "builtin"

// LoadDir loads the recipe rooted at dir.
func LoadDir(dir string) (*Recipe, error) {
	return Load(os.DirFS(dir), dir)
}

// Load reads recipe.yaml from fsys, validates it against the schema and
// the structural rules, and decodes it.
func Load(fsys fs.FS, source string) (*Recipe, error) {
	location := path.Join(source, FileName)
	data, err := fs.ReadFile(fsys, FileName)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, aerrors.NewNotFoundError(location)
		}
		return nil, fmt.Errorf("reading %s: %w", location, err)
	}

	v, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateYAML(data, location); err != nil {
		return nil, err
	}

	var r Recipe
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, aerrors.NewValidationError(fmt.Sprintf("decoding recipe: %v", err), location, "")
	}
	r.FS = fsys
	r.Source = source

	if err := r.Check(); err != nil {
		return nil, err
	}

	output.Debug("loaded recipe", "name", r.Name, "source", source, "plans", len(r.Plans))
	return &r, nil
}

// Check enforces the rules the schema cannot express.
func (r *Recipe) Check() error {
	location := path.Join(r.Source, FileName)
	fail := func(format string, args ...any) error {
		return aerrors.NewValidationError(fmt.Sprintf(format, args...), location, "")
	}

	seen := make(map[string]bool)
	for _, f := range r.Flags {
		if seen[f.Key()] {
			return fail("flag %q declared twice", f.Name)
		}
		seen[f.Key()] = true
	}
	for _, p := range r.Prompts {
		if seen[p.Key] {
			return fail("prompt key %q collides with another flag or prompt", p.Key)
		}
		seen[p.Key] = true
	}

	if r.Install != nil {
		if err := r.checkRun(*r.Install); err != nil {
			return fail("install: %v", err)
		}
	}

	plans := make(map[string]bool)
	for _, p := range r.Plans {
		if plans[p.Name] {
			return fail("plan %q declared twice", p.Name)
		}
		plans[p.Name] = true
		for i, s := range p.Steps {
			if err := r.checkStep(s); err != nil {
				return fail("plan %s step %d: %v", p.Name, i+1, err)
			}
		}
	}
	for i, s := range r.AfterInstall {
		if err := r.checkStep(s); err != nil {
			return fail("after_install step %d: %v", i+1, err)
		}
	}
	return nil
}

func (r *Recipe) checkStep(s Step) error {
	kinds := s.kinds()
	switch len(kinds) {
	case 0:
		return errors.New("step has no action")
	case 1:
	default:
		return fmt.Errorf("step has %d actions (%v), expected one", len(kinds), kinds)
	}

	switch kinds[0] {
	case KindFile:
		if s.File.Path == "" {
			return errors.New("file path is required")
		}
		return r.checkBody(s.File.Body, true)
	case KindPatch:
		if s.Patch.Path == "" {
			return errors.New("patch path is required")
		}
		if s.Patch.Anchors() > 1 {
			return errors.New("patch sets more than one anchor")
		}
		if s.Patch.Force && s.Patch.SkipIfPresent {
			return errors.New("patch sets both force and skip_if_present")
		}
		return r.checkBody(s.Patch.Body, false)
	case KindRoute:
		return r.checkBody(*s.Route, false)
	case KindApplication:
		return r.checkBody(s.Application.Body, false)
	case KindRun:
		return r.checkRun(*s.Run)
	}
	return nil
}

func (r *Recipe) checkBody(b Body, allowEmpty bool) error {
	switch {
	case b.Content != "" && b.Template != "":
		return errors.New("set content or template, not both")
	case b.Template != "":
		if _, err := fs.Stat(r.FS, b.Template); err != nil {
			return fmt.Errorf("template %s: %w", b.Template, err)
		}
	case b.Content == "" && !allowEmpty:
		return errors.New("content or template is required")
	}
	return nil
}

func (r *Recipe) checkRun(run Run) error {
	if (run.Command == "") == (run.Program == "") {
		return errors.New("set exactly one of command or program")
	}
	if run.Command != "" && len(run.Args) > 0 {
		return errors.New("args only apply to program")
	}
	return nil
}

// ReadBody returns the raw content of b, reading its template when set.
func (r *Recipe) ReadBody(b Body) (string, error) {
	if b.Template == "" {
		return b.Content, nil
	}
	data, err := fs.ReadFile(r.FS, b.Template)
	if err != nil {
		return "", fmt.Errorf("reading template %s: %w", b.Template, err)
	}
	return string(data), nil
}
