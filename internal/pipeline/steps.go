package pipeline

import (
	"context"
	"fmt"

	"github.com/mattn/go-shellwords"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/files"
	"github.com/apptemplate/apptemplate/internal/manifest"
	"github.com/apptemplate/apptemplate/internal/output"
	"github.com/apptemplate/apptemplate/internal/patch"
	"github.com/apptemplate/apptemplate/internal/recipe"
	"github.com/apptemplate/apptemplate/internal/runner"
	"github.com/apptemplate/apptemplate/internal/vcs"
)

// apply performs one step. Every string in the step is rendered against
// the run context first.
func (d *Driver) apply(ctx context.Context, step recipe.Step) error {
	switch step.Kind() {
	case recipe.KindSay:
		msg, err := d.renderer.RenderString("say", step.Say)
		if err != nil {
			return err
		}
		output.Println(output.FormatSay(msg))
		return nil

	case recipe.KindFile:
		return d.writeFile(*step.File)

	case recipe.KindPatch:
		return d.patchFile(*step.Patch)

	case recipe.KindGem:
		gem, err := d.gem(*step.Gem)
		if err != nil {
			return err
		}
		return d.recordPatch(manifest.GemfilePath)(d.editor.AddGem(gem))

	case recipe.KindGemGroup:
		return d.gemGroup(*step.GemGroup)

	case recipe.KindRoute:
		body, err := d.body(manifest.RoutesPath, *step.Route)
		if err != nil {
			return err
		}
		return d.recordPatch(manifest.RoutesPath)(d.editor.AddRoute(body))

	case recipe.KindApplication:
		body, err := d.body(manifest.ApplicationPath, step.Application.Body)
		if err != nil {
			return err
		}
		path := manifest.ApplicationPath
		if step.Application.Env != "" {
			path = manifest.EnvironmentPath(step.Application.Env)
		}
		return d.recordPatch(path)(d.editor.AddApplicationConfig(body, step.Application.Env))

	case recipe.KindRun:
		return d.run(ctx, *step.Run)

	case recipe.KindCommit:
		return d.commit(*step.Commit)

	default:
		return aerrors.NewValidationError("step must hold exactly one action", "", "")
	}
}

func (d *Driver) writeFile(f recipe.File) error {
	path, err := d.renderer.RenderString("path", f.Path)
	if err != nil {
		return err
	}
	content, err := d.opts.Recipe.ReadBody(f.Body)
	if err != nil {
		return err
	}

	spec := files.Spec{Path: path, Content: content, Force: f.Force, Raw: f.Raw}
	if f.Executable {
		spec.Mode = 0o755
	}

	outcome, err := d.writer.Write(spec)
	if err != nil {
		d.record(path, output.StatusFailed)
		return err
	}
	if outcome == files.Overwritten {
		d.record(path, output.StatusOverwritten)
	} else {
		d.record(path, output.StatusCreated)
	}
	return nil
}

func (d *Driver) patchFile(p recipe.Patch) error {
	path, err := d.renderer.RenderString("path", p.Path)
	if err != nil {
		return err
	}
	content, err := d.body(path, p.Body)
	if err != nil {
		return err
	}
	anchor, err := d.anchor(p)
	if err != nil {
		return err
	}

	req := patch.Request{
		Path:     path,
		Anchor:   anchor,
		Content:  content,
		Required: p.Required,
		Unique:   p.Unique,
	}
	switch {
	case p.Force:
		req.Policy = patch.Force
	case p.SkipIfPresent:
		req.Policy = patch.SkipIfPresent
	}

	return d.recordPatch(path)(d.patcher.Patch(req))
}

func (d *Driver) anchor(p recipe.Patch) (patch.Anchor, error) {
	var a patch.Anchor
	switch {
	case p.Before != "":
		a = patch.Anchor{Kind: patch.Before, Value: p.Before}
	case p.After != "":
		a = patch.Anchor{Kind: patch.After, Value: p.After}
	case p.BeforePattern != "":
		a = patch.Anchor{Kind: patch.BeforePattern, Value: p.BeforePattern}
	case p.AfterPattern != "":
		a = patch.Anchor{Kind: patch.AfterPattern, Value: p.AfterPattern}
	default:
		return patch.Anchor{Kind: patch.End}, nil
	}

	value, err := d.renderer.RenderString("anchor", a.Value)
	if err != nil {
		return a, err
	}
	a.Value = value
	return a, nil
}

func (d *Driver) gem(g recipe.Gem) (manifest.Gem, error) {
	fields := append([]string{g.Name, g.Git, g.Branch}, g.Versions...)
	rendered, err := d.renderer.RenderStrings("gem "+g.Name, fields)
	if err != nil {
		return manifest.Gem{}, err
	}
	return manifest.Gem{
		Name:      rendered[0],
		Git:       rendered[1],
		Branch:    rendered[2],
		Versions:  rendered[3:],
		NoRequire: g.Require != nil && !*g.Require,
	}, nil
}

func (d *Driver) gemGroup(g recipe.GemGroup) error {
	req := manifest.GroupRequest{Groups: g.Groups, Create: g.Create}
	for _, rg := range g.Gems {
		gem, err := d.gem(rg)
		if err != nil {
			return err
		}
		req.Gems = append(req.Gems, gem)
	}
	return d.recordPatch(manifest.GemfilePath)(d.editor.AddGemGroup(req))
}

// recordPatch returns a function that records the outcome of a patch to
// path and passes its error through.
func (d *Driver) recordPatch(path string) func(patch.Outcome, error) error {
	return func(outcome patch.Outcome, err error) error {
		if err != nil {
			d.record(path, output.StatusFailed)
			return err
		}
		switch outcome {
		case patch.Applied:
			d.record(path, output.StatusPatched)
		case patch.AlreadyPresent:
			d.record(path, output.StatusUnchanged)
		default:
			d.record(path, output.StatusSkipped)
		}
		return nil
	}
}

// body reads and renders a step body. name identifies it in errors.
func (d *Driver) body(name string, b recipe.Body) (string, error) {
	raw, err := d.opts.Recipe.ReadBody(b)
	if err != nil {
		return "", err
	}
	if b.Template != "" {
		name = b.Template
	}
	return d.renderer.RenderString(name, raw)
}

func (d *Driver) invocation(r recipe.Run) (runner.Invocation, error) {
	inv := runner.Invocation{AllowFailure: r.AllowFailure}

	if r.Command != "" {
		line, err := d.renderer.RenderString("command", r.Command)
		if err != nil {
			return inv, err
		}
		fields, err := shellwords.Parse(line)
		if err != nil {
			return inv, aerrors.NewValidationError(fmt.Sprintf("command %q: %v", line, err), "", "Check the quoting of the command line.")
		}
		if len(fields) == 0 {
			return inv, aerrors.NewValidationError(fmt.Sprintf("command %q is empty after rendering", r.Command), "", "")
		}
		inv.Program, inv.Args = fields[0], fields[1:]
	} else {
		program, err := d.renderer.RenderString("program", r.Program)
		if err != nil {
			return inv, err
		}
		args, err := d.renderer.RenderStrings("args", r.Args)
		if err != nil {
			return inv, err
		}
		inv.Program, inv.Args = program, args
	}

	env, err := d.renderer.RenderStrings("env", r.Env)
	if err != nil {
		return inv, err
	}
	inv.Env = env
	return inv, nil
}

func (d *Driver) run(ctx context.Context, r recipe.Run) error {
	inv, err := d.invocation(r)
	if err != nil {
		return err
	}
	return output.RunWithSpinner(ctx, inv.String(), func() error {
		_, err := d.runner.Run(ctx, inv)
		return err
	})
}

func (d *Driver) commit(c recipe.Commit) error {
	message := c.Message
	if message == "" {
		message = recipe.DefaultCommitMessage
	}
	message, err := d.renderer.RenderString("commit", message)
	if err != nil {
		return err
	}
	if d.opts.DryRun {
		output.Debug("dry run, not committing", "message", message)
		return nil
	}
	hash, err := vcs.Commit(d.opts.ProjectDir, message, d.opts.Author)
	if err != nil {
		return err
	}
	d.report.Commit = hash
	if hash != "" {
		output.Debug("created commit", "hash", hash)
	}
	return nil
}
