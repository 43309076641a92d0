// Package recipe defines recipe documents and loads them from a
// filesystem.
//
// A recipe is a recipe.yaml plan file plus the template bodies it
// references. Plans are applied in order during the mutation phase; the
// install command and the after_install steps run afterwards as hooks.
package recipe

import (
	"io/fs"

	"github.com/apptemplate/apptemplate/internal/runctx"
)

// FileName is the plan file at the root of every recipe.
const FileName = "recipe.yaml"

// Recipe is a decoded recipe.yaml.
type Recipe struct {
	Name         string          `yaml:"name"`
	Description  string          `yaml:"description,omitempty"`
	Flags        []runctx.Flag   `yaml:"flags,omitempty"`
	Prompts      []runctx.Prompt `yaml:"prompts,omitempty"`
	Install      *Run            `yaml:"install,omitempty"`
	Plans        []Plan          `yaml:"plans,omitempty"`
	AfterInstall []Step          `yaml:"after_install,omitempty"`

	// FS holds the template bodies referenced by steps.
	FS fs.FS `yaml:"-"`

	// Source is "builtin" or the directory the recipe was loaded from.
	Source string `yaml:"-"`
}

// Plan is a named group of steps with an optional guard.
type Plan struct {
	Name  string `yaml:"name"`
	When  string `yaml:"when,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Body is inline content or the path of a template inside the recipe.
type Body struct {
	Content  string `yaml:"content,omitempty"`
	Template string `yaml:"template,omitempty"`
}

// Step holds exactly one action.
type Step struct {
	When        string       `yaml:"when,omitempty"`
	Say         string       `yaml:"say,omitempty"`
	File        *File        `yaml:"file,omitempty"`
	Patch       *Patch       `yaml:"patch,omitempty"`
	Gem         *Gem         `yaml:"gem,omitempty"`
	GemGroup    *GemGroup    `yaml:"gem_group,omitempty"`
	Route       *Body        `yaml:"route,omitempty"`
	Application *Application `yaml:"application,omitempty"`
	Run         *Run         `yaml:"run,omitempty"`
	Commit      *Commit      `yaml:"commit,omitempty"`
}

// File writes a whole file.
type File struct {
	Body       `yaml:",inline"`
	Path       string `yaml:"path"`
	Force      bool   `yaml:"force,omitempty"`
	Raw        bool   `yaml:"raw,omitempty"`
	Executable bool   `yaml:"executable,omitempty"`
}

// Patch inserts a block at an anchor. With no anchor the block is appended.
type Patch struct {
	Body          `yaml:",inline"`
	Path          string `yaml:"path"`
	Before        string `yaml:"before,omitempty"`
	After         string `yaml:"after,omitempty"`
	BeforePattern string `yaml:"before_pattern,omitempty"`
	AfterPattern  string `yaml:"after_pattern,omitempty"`
	AtEnd         bool   `yaml:"at_end,omitempty"`
	Required      bool   `yaml:"required,omitempty"`
	Unique        bool   `yaml:"unique,omitempty"`
	Force         bool   `yaml:"force,omitempty"`
	SkipIfPresent bool   `yaml:"skip_if_present,omitempty"`
}

// Gem declares one dependency.
type Gem struct {
	Name     string   `yaml:"name"`
	Versions []string `yaml:"versions,omitempty"`
	Git      string   `yaml:"git,omitempty"`
	Branch   string   `yaml:"branch,omitempty"`
	Require  *bool    `yaml:"require,omitempty"`
}

// GemGroup declares dependencies inside a group block.
type GemGroup struct {
	Groups []string `yaml:"groups"`
	Gems   []Gem    `yaml:"gems"`
	Create bool     `yaml:"create,omitempty"`
}

// Application adds a configuration line to the application or to one
// environment.
type Application struct {
	Body `yaml:",inline"`
	Env  string `yaml:"env,omitempty"`
}

// Run is an external command, either a Command line split with shell
// quoting rules or a Program with Args. The line is not run through a
// shell: no expansion, pipes or redirection.
type Run struct {
	Command      string   `yaml:"command,omitempty"`
	Program      string   `yaml:"program,omitempty"`
	Args         []string `yaml:"args,omitempty"`
	Env          []string `yaml:"env,omitempty"`
	AllowFailure bool     `yaml:"allow_failure,omitempty"`
}

// Commit records the project in version control.
type Commit struct {
	Message string `yaml:"message,omitempty"`
}

// DefaultCommitMessage is used when a commit step sets none.
const DefaultCommitMessage = "Initial commit"
