// Package manifest appends structured entries to Gemfile, routes and
// application configuration using the patch primitives.
package manifest

import (
	"strings"

	"github.com/apptemplate/apptemplate/internal/patch"
)

// Well-known manifest paths relative to the project root.
const (
	GemfilePath     = "Gemfile"
	RoutesPath      = "config/routes.rb"
	ApplicationPath = "config/application.rb"
)

// Editor edits manifests through a Patcher so that dry runs and the
// idempotent policy apply uniformly.
type Editor struct {
	patcher *patch.Patcher
}

// NewEditor creates an Editor.
func NewEditor(p *patch.Patcher) *Editor {
	return &Editor{patcher: p}
}

// Reindent strips the common leading whitespace of the non-blank lines in
// block, indents each of them by width spaces and ensures a trailing
// newline.
func Reindent(block string, width int) string {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")

	common := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common < 0 {
		common = 0
	}

	pad := strings.Repeat(" ", width)
	var b strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(pad)
		b.WriteString(line[common:])
		b.WriteString("\n")
	}
	return b.String()
}

// lineBounds returns the start offset of every line in content, plus
// len(content) as a final sentinel.
func lineBounds(content string) []int {
	bounds := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' && i+1 < len(content) {
			bounds = append(bounds, i+1)
		}
	}
	return append(bounds, len(content))
}

// closingEnd finds the `end` line closing a block whose header starts at
// line index header with the given indentation. A trailing comment after
// `end` is allowed. It returns the byte offset of that line or -1.
func closingEnd(content string, bounds []int, header int, indent string) int {
	for i := header + 1; i < len(bounds)-1; i++ {
		line := strings.TrimRight(content[bounds[i]:bounds[i+1]], "\r\n")
		rest, ok := strings.CutPrefix(line, indent+"end")
		if ok && blankOrComment(rest) {
			return bounds[i]
		}
	}
	return -1
}

func blankOrComment(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.HasPrefix(s, "#")
}
