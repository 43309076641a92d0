// Package patch inserts text blocks into existing files relative to an
// anchor.
//
// A literal or pattern anchor may match several times. The block goes in at
// the first match by byte offset unless the request is Unique, in which case
// more than one match is an error. Re-applying a request with the Force
// policy inserts the block again; SkipIfPresent leaves a file that already
// contains the block alone.
package patch

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/files"
)

// Policy controls what happens when the block is already in the file.
type Policy int

const (
	// Default defers to the Patcher's run-wide policy.
	Default Policy = iota
	// Force inserts unconditionally.
	Force
	// SkipIfPresent leaves the file unchanged when it already contains the
	// block.
	SkipIfPresent
)

// Request describes one insertion.
type Request struct {
	Path     string
	Anchor   Anchor
	Content  string
	Policy   Policy
	Required bool
	Unique   bool
}

// Outcome reports what a patch did.
type Outcome int

const (
	// Applied means the block was inserted.
	Applied Outcome = iota
	// AlreadyPresent means SkipIfPresent found the block in the file.
	AlreadyPresent
	// AnchorMissing means an optional anchor was not found.
	AnchorMissing
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "patched"
	case AlreadyPresent:
		return "already present"
	default:
		return "anchor missing"
	}
}

// EditFunc computes new content for a file. Returning an Outcome other than
// Applied leaves the file untouched.
type EditFunc func(content string) (string, Outcome, error)

// Patcher applies Requests to files on an afero filesystem.
type Patcher struct {
	fs         afero.Fs
	idempotent bool
}

// Option configures a Patcher.
type Option func(*Patcher)

// WithIdempotent makes SkipIfPresent the policy for requests that leave
// Policy at Default.
func WithIdempotent(enabled bool) Option {
	return func(p *Patcher) {
		p.idempotent = enabled
	}
}

// New creates a Patcher over fsys.
func New(fsys afero.Fs, opts ...Option) *Patcher {
	p := &Patcher{fs: fsys}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Patch inserts req.Content at req.Anchor in req.Path.
func (p *Patcher) Patch(req Request) (Outcome, error) {
	return p.Edit(req.Path, func(content string) (string, Outcome, error) {
		return p.apply(req, content)
	})
}

// Edit reads path, passes its content to fn and writes the result back
// atomically when fn reports Applied. File mode is preserved.
func (p *Patcher) Edit(path string, fn EditFunc) (Outcome, error) {
	info, err := p.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return AnchorMissing, aerrors.NewNotFoundError(path)
		}
		return AnchorMissing, fmt.Errorf("reading %s: %w", path, err)
	}
	data, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return AnchorMissing, fmt.Errorf("reading %s: %w", path, err)
	}

	updated, outcome, err := fn(string(data))
	if err != nil {
		return outcome, err
	}
	if outcome != Applied {
		return outcome, nil
	}

	if err := files.WriteAtomic(p.fs, path, []byte(updated), info.Mode().Perm()); err != nil {
		return outcome, err
	}
	return Applied, nil
}

func (p *Patcher) apply(req Request, content string) (string, Outcome, error) {
	if p.skipIfPresent(req.Policy) && req.Content != "" && containsBlock(content, req.Content) {
		return content, AlreadyPresent, nil
	}

	matches, err := locate(content, req.Anchor)
	if err != nil {
		return content, AnchorMissing, withLocation(err, req.Path)
	}

	switch {
	case len(matches) == 0 && req.Required:
		return content, AnchorMissing, aerrors.NewAnchorNotFoundError(req.Path, req.Anchor.String())
	case len(matches) == 0:
		return content, AnchorMissing, nil
	case len(matches) > 1 && req.Unique:
		return content, AnchorMissing, aerrors.NewAnchorAmbiguousError(req.Path, req.Anchor.String(), len(matches))
	}

	pos := insertionPoint(req.Anchor.Kind, matches[0])
	return InsertAt(content, pos, req.Content), Applied, nil
}

func (p *Patcher) skipIfPresent(policy Policy) bool {
	switch policy {
	case SkipIfPresent:
		return true
	case Force:
		return false
	default:
		return p.idempotent
	}
}

func withLocation(err error, path string) error {
	var detail *aerrors.DetailError
	if errors.As(err, &detail) && detail.Location == "" {
		detail.Location = path
	}
	return err
}

// Idempotent reports whether Default requests skip blocks already present.
func (p *Patcher) Idempotent() bool {
	return p.idempotent
}
