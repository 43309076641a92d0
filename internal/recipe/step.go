package recipe

import (
	"fmt"
	"strings"
)

// Step kinds as they appear in recipe.yaml.
const (
	KindSay         = "say"
	KindFile        = "file"
	KindPatch       = "patch"
	KindGem         = "gem"
	KindGemGroup    = "gem_group"
	KindRoute       = "route"
	KindApplication = "application"
	KindRun         = "run"
	KindCommit      = "commit"
)

// kinds lists the actions set on s.
func (s Step) kinds() []string {
	var kinds []string
	if s.Say != "" {
		kinds = append(kinds, KindSay)
	}
	if s.File != nil {
		kinds = append(kinds, KindFile)
	}
	if s.Patch != nil {
		kinds = append(kinds, KindPatch)
	}
	if s.Gem != nil {
		kinds = append(kinds, KindGem)
	}
	if s.GemGroup != nil {
		kinds = append(kinds, KindGemGroup)
	}
	if s.Route != nil {
		kinds = append(kinds, KindRoute)
	}
	if s.Application != nil {
		kinds = append(kinds, KindApplication)
	}
	if s.Run != nil {
		kinds = append(kinds, KindRun)
	}
	if s.Commit != nil {
		kinds = append(kinds, KindCommit)
	}
	return kinds
}

// Kind returns the step's action, or "" when it does not hold exactly one.
func (s Step) Kind() string {
	kinds := s.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

// Summary is a one-line description for listings.
func (s Step) Summary() string {
	var summary string
	switch s.Kind() {
	case KindSay:
		summary = "say " + s.Say
	case KindFile:
		summary = "file " + s.File.Path
	case KindPatch:
		summary = "patch " + s.Patch.Path
	case KindGem:
		summary = "gem " + s.Gem.Name
	case KindGemGroup:
		names := make([]string, len(s.GemGroup.Gems))
		for i, g := range s.GemGroup.Gems {
			names[i] = g.Name
		}
		summary = fmt.Sprintf("gem_group %s: %s", strings.Join(s.GemGroup.Groups, ", "), strings.Join(names, ", "))
	case KindRoute:
		summary = "route"
	case KindApplication:
		summary = "application"
		if s.Application.Env != "" {
			summary += " (" + s.Application.Env + ")"
		}
	case KindRun:
		summary = "run " + s.Run.CommandLine()
	case KindCommit:
		summary = "commit"
	default:
		summary = "invalid step"
	}
	if s.When != "" {
		summary += " [when " + s.When + "]"
	}
	return summary
}

// CommandLine renders the unexpanded command.
func (r Run) CommandLine() string {
	if r.Command != "" {
		return r.Command
	}
	return strings.TrimSpace(r.Program + " " + strings.Join(r.Args, " "))
}

// Anchors returns how many anchor fields are set.
func (p Patch) Anchors() int {
	n := 0
	for _, set := range []bool{p.Before != "", p.After != "", p.BeforePattern != "", p.AfterPattern != "", p.AtEnd} {
		if set {
			n++
		}
	}
	return n
}
