// Package files writes whole files into the project tree.
package files

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/templates"
)

// DefaultMode is used when a Spec does not set Mode.
const DefaultMode os.FileMode = 0o644

// Spec describes one file to write.
type Spec struct {
	// Path is relative to the filesystem root handed to the Writer.
	Path string

	// Content is a template rendered against the run context.
	Content string

	// Force allows replacing an existing file.
	Force bool

	// Raw skips template rendering.
	Raw bool

	// Mode overrides DefaultMode.
	Mode os.FileMode
}

// Outcome reports what Write did.
type Outcome int

const (
	// Created means the file did not exist before.
	Created Outcome = iota
	// Overwritten means existing content was replaced.
	Overwritten
)

func (o Outcome) String() string {
	if o == Overwritten {
		return "overwritten"
	}
	return "created"
}

// Writer writes files from templates.
type Writer struct {
	fs       afero.Fs
	renderer *templates.Renderer
}

// NewWriter creates a Writer over fsys. renderer may be nil when every Spec
// is Raw.
func NewWriter(fsys afero.Fs, renderer *templates.Renderer) *Writer {
	return &Writer{fs: fsys, renderer: renderer}
}

// Write creates or replaces spec.Path. An existing file without Force
// fails with ErrAlreadyExists and is left untouched; a template that
// references an unknown value fails with ErrUnresolvedPlaceholder before
// anything is written.
func (w *Writer) Write(spec Spec) (Outcome, error) {
	exists, err := afero.Exists(w.fs, spec.Path)
	if err != nil {
		return Created, fmt.Errorf("checking %s: %w", spec.Path, err)
	}
	if exists && !spec.Force {
		return Created, aerrors.NewAlreadyExistsError(spec.Path)
	}

	content := []byte(spec.Content)
	if !spec.Raw {
		if w.renderer == nil {
			return Created, fmt.Errorf("rendering %s: no renderer configured", spec.Path)
		}
		content, err = w.renderer.Render(spec.Path, content)
		if err != nil {
			return Created, err
		}
	}

	if err := w.fs.MkdirAll(filepath.Dir(spec.Path), 0o755); err != nil {
		return Created, fmt.Errorf("creating parent directory for %s: %w", spec.Path, err)
	}

	mode := spec.Mode
	if mode == 0 {
		mode = DefaultMode
	}
	if err := WriteAtomic(w.fs, spec.Path, content, mode); err != nil {
		return Created, err
	}

	if exists {
		return Overwritten, nil
	}
	return Created, nil
}
