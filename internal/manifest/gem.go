package manifest

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/patch"
)

// Gem is one dependency declaration.
type Gem struct {
	Name     string
	Versions []string
	Git      string
	Branch   string
	// NoRequire renders `require: false`.
	NoRequire bool
}

// Line renders the declaration without indentation or newline.
func (g Gem) Line() string {
	parts := []string{fmt.Sprintf("gem %q", g.Name)}
	for _, v := range g.Versions {
		parts = append(parts, fmt.Sprintf("%q", v))
	}
	if g.Git != "" {
		parts = append(parts, fmt.Sprintf("git: %q", g.Git))
	}
	if g.Branch != "" {
		parts = append(parts, fmt.Sprintf("branch: %q", g.Branch))
	}
	if g.NoRequire {
		parts = append(parts, "require: false")
	}
	return strings.Join(parts, ", ")
}

var groupHeader = regexp.MustCompile(`^(\s*)group\s+(.+?)\s+do\s*(?:#.*)?$`)

// AddGem appends g at the end of the Gemfile.
func (e *Editor) AddGem(g Gem) (patch.Outcome, error) {
	line := g.Line()
	return e.patcher.Edit(GemfilePath, func(content string) (string, patch.Outcome, error) {
		if e.patcher.Idempotent() && hasLine(content, line) {
			return content, patch.AlreadyPresent, nil
		}
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		return content + line + "\n", patch.Applied, nil
	})
}

// GroupRequest adds gems to the group block named by Groups.
type GroupRequest struct {
	Groups []string
	Gems   []Gem
	// Create appends a new group block when none matches.
	Create bool
}

// AddGemGroup inserts gems before the closing `end` of the first group
// block whose symbol set equals req.Groups. Content outside that block is
// not touched.
func (e *Editor) AddGemGroup(req GroupRequest) (patch.Outcome, error) {
	want := normalizeGroups(req.Groups)

	return e.patcher.Edit(GemfilePath, func(content string) (string, patch.Outcome, error) {
		lines := make([]string, 0, len(req.Gems))
		for _, g := range req.Gems {
			line := g.Line()
			if e.patcher.Idempotent() && hasLine(content, line) {
				continue
			}
			lines = append(lines, line)
		}
		if len(lines) == 0 {
			return content, patch.AlreadyPresent, nil
		}

		bounds := lineBounds(content)
		for i := 0; i < len(bounds)-1; i++ {
			line := strings.TrimRight(content[bounds[i]:bounds[i+1]], "\r\n")
			m := groupHeader.FindStringSubmatch(line)
			if m == nil || !sameGroups(parseGroups(m[2]), want) {
				continue
			}
			end := closingEnd(content, bounds, i, m[1])
			if end < 0 {
				continue
			}
			var block strings.Builder
			for _, l := range lines {
				block.WriteString(m[1] + "  " + l + "\n")
			}
			return patch.InsertAt(content, end, block.String()), patch.Applied, nil
		}

		if !req.Create {
			return content, patch.AnchorMissing, aerrors.NewGroupNotFoundError(GemfilePath, req.Groups)
		}

		var block strings.Builder
		if content != "" && !strings.HasSuffix(content, "\n") {
			block.WriteString("\n")
		}
		block.WriteString("\ngroup " + groupSymbols(want) + " do\n")
		for _, l := range lines {
			block.WriteString("  " + l + "\n")
		}
		block.WriteString("end\n")
		return content + block.String(), patch.Applied, nil
	})
}

func hasLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}

// parseGroups extracts group names from the argument list of a group
// header, ignoring options such as `platforms:`.
func parseGroups(args string) []string {
	var groups []string
	for _, arg := range strings.Split(args, ",") {
		arg = strings.TrimSpace(arg)
		switch {
		case strings.HasPrefix(arg, ":"):
			groups = append(groups, strings.TrimPrefix(arg, ":"))
		case len(arg) >= 2 && (arg[0] == '"' || arg[0] == '\'') && arg[len(arg)-1] == arg[0]:
			groups = append(groups, arg[1:len(arg)-1])
		}
	}
	return normalizeGroups(groups)
}

func normalizeGroups(groups []string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		g = strings.TrimPrefix(strings.TrimSpace(g), ":")
		if g != "" {
			out = append(out, g)
		}
	}
	sort.Strings(out)
	return out
}

func sameGroups(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func groupSymbols(groups []string) string {
	syms := make([]string, len(groups))
	for i, g := range groups {
		syms[i] = ":" + g
	}
	return strings.Join(syms, ", ")
}
