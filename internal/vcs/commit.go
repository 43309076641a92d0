// Package vcs records the mutated project in version control.
package vcs

import (
	"errors"
	"fmt"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/apptemplate/apptemplate/internal/output"
)

// Fallback identity used when neither configuration nor the global git
// config names an author.
const (
	FallbackAuthorName  = "apptemplate"
	FallbackAuthorEmail = "apptemplate@localhost"
)

// Author identifies the commit author.
type Author struct {
	Name  string
	Email string
}

// globalConfig is replaced in tests.
var globalConfig = func() (*gitconfig.Config, error) {
	return gitconfig.LoadConfig(gitconfig.GlobalScope)
}

// ResolveAuthor fills unset fields from the global git config and then the
// fallback identity.
func ResolveAuthor(a Author) Author {
	if a.Name == "" || a.Email == "" {
		if cfg, err := globalConfig(); err == nil && cfg != nil {
			if a.Name == "" {
				a.Name = cfg.User.Name
			}
			if a.Email == "" {
				a.Email = cfg.User.Email
			}
		} else if err != nil {
			output.Debug("reading global git config", "err", err)
		}
	}
	if a.Name == "" {
		a.Name = FallbackAuthorName
	}
	if a.Email == "" {
		a.Email = FallbackAuthorEmail
	}
	return a
}

// Commit stages every file under dir not excluded by .gitignore and
// records a commit. A repository is initialized when dir has none. It
// returns the new commit hash, or an empty hash when nothing changed.
func Commit(dir, message string, author Author) (string, error) {
	repo, err := git.PlainOpen(dir)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		output.Debug("initializing git repository", "dir", dir)
		repo, err = git.PlainInit(dir, false)
	}
	if err != nil {
		return "", fmt.Errorf("opening repository in %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("opening worktree: %w", err)
	}

	patterns, err := gitignore.ReadPatterns(wt.Filesystem, nil)
	if err != nil {
		return "", fmt.Errorf("reading .gitignore: %w", err)
	}
	wt.Excludes = append(wt.Excludes, patterns...)

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return "", fmt.Errorf("staging files: %w", err)
	}

	author = ResolveAuthor(author)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author.Name,
			Email: author.Email,
			When:  time.Now(),
		},
	})
	if errors.Is(err, git.ErrEmptyCommit) {
		output.Info("nothing to commit, working tree clean", "dir", dir)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("committing: %w", err)
	}

	return hash.String(), nil
}
