// Package pipeline applies a recipe to a project: plan steps mutate the
// tree, then the install command and the after-install steps run as
// ordered hooks.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/apptemplate/apptemplate/internal/files"
	"github.com/apptemplate/apptemplate/internal/hooks"
	"github.com/apptemplate/apptemplate/internal/manifest"
	"github.com/apptemplate/apptemplate/internal/output"
	"github.com/apptemplate/apptemplate/internal/patch"
	"github.com/apptemplate/apptemplate/internal/recipe"
	"github.com/apptemplate/apptemplate/internal/runctx"
	"github.com/apptemplate/apptemplate/internal/runner"
	"github.com/apptemplate/apptemplate/internal/templates"
	"github.com/apptemplate/apptemplate/internal/vcs"
)

// Options configures a Driver.
type Options struct {
	// ProjectDir is the root of the project being mutated.
	ProjectDir string

	Recipe  *recipe.Recipe
	Context *runctx.RunContext

	// DryRun applies plan steps to an in-memory overlay. Finalize hooks
	// are listed and their commands recorded, but none of them run.
	DryRun bool

	// Idempotent makes patches skip blocks already present unless the
	// step forces insertion.
	Idempotent bool

	// Author is the configured commit author; blanks are filled by
	// vcs.ResolveAuthor.
	Author vcs.Author
}

// Report summarizes a run.
type Report struct {
	// Changes maps project-relative paths to an output.Status* value.
	Changes map[string]string

	// Diffs holds per-file content changes. Only set for dry runs.
	Diffs []output.FileDiff

	// Commands are the external commands run, or recorded in a dry run.
	Commands []runner.Invocation

	// Hooks are the names of the registered finalize hooks in order.
	Hooks []string

	// Commit is the hash of the commit created, if any.
	Commit string
}

// Driver runs one recipe application. A Driver is single use.
type Driver struct {
	opts Options

	base afero.Fs
	fs   afero.Fs

	renderer *templates.Renderer
	patcher  *patch.Patcher
	writer   *files.Writer
	editor   *manifest.Editor
	runner   *runner.Runner
	hooks    *hooks.Executor

	report *Report
}

// New prepares a Driver. For a dry run the project is mounted read-only
// under a copy-on-write memory layer.
func New(opts Options) (*Driver, error) {
	if opts.Recipe == nil {
		return nil, fmt.Errorf("no recipe")
	}
	if opts.Context == nil {
		return nil, fmt.Errorf("no run context")
	}

	dir, err := filepath.Abs(opts.ProjectDir)
	if err != nil {
		return nil, fmt.Errorf("resolving project dir: %w", err)
	}
	opts.ProjectDir = dir

	project := afero.NewBasePathFs(afero.NewOsFs(), dir)
	d := &Driver{
		opts:   opts,
		base:   project,
		fs:     project,
		hooks:  hooks.NewExecutor(),
		runner: runner.New(opts.ProjectDir, opts.DryRun),
		report: &Report{Changes: make(map[string]string)},
	}
	if opts.DryRun {
		d.base = afero.NewReadOnlyFs(project)
		d.fs = afero.NewCopyOnWriteFs(d.base, afero.NewMemMapFs())
	}

	d.renderer = templates.NewRenderer(opts.Context.Values())
	d.patcher = patch.New(d.fs, patch.WithIdempotent(opts.Idempotent))
	d.writer = files.NewWriter(d.fs, d.renderer)
	d.editor = manifest.NewEditor(d.patcher)

	return d, nil
}

// Run applies the selected plans, registers the finalize hooks and runs
// them. The returned Report is populated even when Run fails.
func (d *Driver) Run(ctx context.Context) (*Report, error) {
	rec := d.opts.Recipe
	output.Debug("applying recipe", "recipe", rec.Name, "dir", d.opts.ProjectDir, "dry_run", d.opts.DryRun)
	output.Debug("run context", "keys", strings.Join(d.opts.Context.Keys(), ","))

	for _, plan := range selectPlans(rec.Plans, d.opts.Context) {
		output.Debug("applying plan", "plan", plan.Name)
		for _, step := range plan.Steps {
			if !guard(step.When, d.opts.Context) {
				output.Debug("skipping step", "plan", plan.Name, "step", step.Summary())
				continue
			}
			if err := d.apply(ctx, step); err != nil {
				return d.finish(), &StepError{Plan: plan.Name, Step: step.Summary(), Err: err}
			}
		}
	}

	d.registerHooks()
	d.report.Hooks = d.hooks.Names()

	if d.opts.DryRun {
		if err := d.recordCommands(ctx); err != nil {
			return d.finish(), err
		}
		return d.finish(), nil
	}

	output.Debug("running hooks", "count", d.hooks.Len())
	if err := d.hooks.RunAll(ctx); err != nil {
		return d.finish(), err
	}
	return d.finish(), nil
}

// registerHooks queues dependency installation first, then every
// after-install step whose guard holds.
func (d *Driver) registerHooks() {
	rec := d.opts.Recipe
	if rec.Install != nil {
		install := *rec.Install
		d.hooks.Register("install: "+install.CommandLine(), func(ctx context.Context) error {
			return d.run(ctx, install)
		})
	}

	for _, step := range rec.AfterInstall {
		if !guard(step.When, d.opts.Context) {
			continue
		}
		step := step
		d.hooks.Register(step.Summary(), func(ctx context.Context) error {
			return d.apply(ctx, step)
		})
	}
}

// recordCommands passes the commands of every finalize hook through the
// dry-run runner. Other after-install steps usually depend on files those
// commands generate, so they are only listed.
func (d *Driver) recordCommands(ctx context.Context) error {
	var runs []recipe.Run
	if d.opts.Recipe.Install != nil {
		runs = append(runs, *d.opts.Recipe.Install)
	}
	for _, step := range d.opts.Recipe.AfterInstall {
		if step.Run != nil && guard(step.When, d.opts.Context) {
			runs = append(runs, *step.Run)
		}
	}

	for _, r := range runs {
		inv, err := d.invocation(r)
		if err != nil {
			return err
		}
		if _, err := d.runner.Run(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func (d *Driver) finish() *Report {
	d.report.Commands = d.runner.Recorded()
	if d.opts.DryRun {
		d.report.Diffs = d.diffs()
	}
	return d.report
}

// diffs compares every changed path between the read-only base and the
// overlay.
func (d *Driver) diffs() []output.FileDiff {
	paths := make([]string, 0, len(d.report.Changes))
	for p, status := range d.report.Changes {
		if status == output.StatusCreated || status == output.StatusOverwritten || status == output.StatusPatched {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	var out []output.FileDiff
	for _, p := range paths {
		after, err := afero.ReadFile(d.fs, p)
		if err != nil {
			output.Debug("reading overlay file", "path", p, "err", err)
			continue
		}
		diff := output.FileDiff{Path: p, After: after}
		if before, err := afero.ReadFile(d.base, p); err == nil {
			diff.Before = before
		}
		out = append(out, diff)
	}
	return out
}

// record notes a change to path. A created file stays created however
// often it is patched afterwards.
func (d *Driver) record(path, status string) {
	if rank(status) >= rank(d.report.Changes[path]) {
		d.report.Changes[path] = status
	}
}

func rank(status string) int {
	switch status {
	case output.StatusFailed:
		return 5
	case output.StatusCreated:
		return 4
	case output.StatusOverwritten:
		return 3
	case output.StatusPatched:
		return 2
	case output.StatusUnchanged, output.StatusSkipped:
		return 1
	default:
		return 0
	}
}
