package output

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is the number of unchanged lines kept around each change.
const diffContext = 2

// FileDiff describes how a run changes (or would change) one file.
type FileDiff struct {
	// Path is the project-relative path.
	Path string

	// Before is the original content; nil when the file did not exist.
	Before []byte

	// After is the resulting content.
	After []byte
}

// Created reports whether the file did not exist before the run.
func (d FileDiff) Created() bool {
	return d.Before == nil
}

// RenderFileDiffs renders one section per file followed by a summary line.
// YAML files are compared structurally with dyff; everything else gets a
// line diff.
func RenderFileDiffs(diffs []FileDiff, useColor bool) string {
	if len(diffs) == 0 {
		return "No changes detected.\n"
	}

	styles := GetStyles()
	var sb strings.Builder
	var created, modified int

	for _, d := range diffs {
		header := "~ " + d.Path
		if d.Created() {
			header = "+ " + d.Path
			created++
		} else {
			modified++
		}
		sb.WriteString(paint(styles.Bold, header, useColor))
		sb.WriteString("\n")

		body := renderOne(d, useColor)
		sb.WriteString(IndentDiff(body, "    "))
		sb.WriteString("\n")
	}

	sb.WriteString("Summary: ")
	sb.WriteString(diffSummary(created, modified))
	sb.WriteString("\n")
	return sb.String()
}

func renderOne(d FileDiff, useColor bool) string {
	if !d.Created() && isYAML(d.Path) {
		if out, err := DiffYAML(d.Before, d.After, useColor); err == nil && out != "" {
			return out
		}
	}
	return DiffText(string(d.Before), string(d.After), useColor)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}

// DiffText renders a line diff of before and after, keeping a little
// unchanged context around each change.
func DiffText(before, after string, useColor bool) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	styles := GetStyles()
	var sb strings.Builder

	for i, d := range diffs {
		chunk := splitLines(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			for _, l := range chunk {
				sb.WriteString(paint(styles.Success, "+ "+l, useColor))
				sb.WriteString("\n")
			}
		case diffmatchpatch.DiffDelete:
			for _, l := range chunk {
				sb.WriteString(paint(styles.Error, "- "+l, useColor))
				sb.WriteString("\n")
			}
		case diffmatchpatch.DiffEqual:
			writeContext(&sb, chunk, i == 0, i == len(diffs)-1)
		}
	}

	return sb.String()
}

// writeContext writes unchanged lines, trimming long runs down to the lines
// adjacent to neighbouring changes.
func writeContext(sb *strings.Builder, lines []string, first, last bool) {
	keepHead, keepTail := diffContext, diffContext
	if first {
		keepHead = 0
	}
	if last {
		keepTail = 0
	}

	if len(lines) <= keepHead+keepTail+1 {
		for _, l := range lines {
			sb.WriteString("  " + l + "\n")
		}
		return
	}

	for _, l := range lines[:keepHead] {
		sb.WriteString("  " + l + "\n")
	}
	sb.WriteString("  ...\n")
	for _, l := range lines[len(lines)-keepTail:] {
		sb.WriteString("  " + l + "\n")
	}
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

// DiffYAML computes a structural YAML diff using dyff. An empty string means
// the documents are equivalent.
func DiffYAML(before, after []byte, useColor bool) (string, error) {
	from, err := yamlInput("before", before)
	if err != nil {
		return "", fmt.Errorf("parsing original YAML: %w", err)
	}
	to, err := yamlInput("after", after)
	if err != nil {
		return "", fmt.Errorf("parsing updated YAML: %w", err)
	}

	report, err := dyff.CompareInputFiles(from, to)
	if err != nil {
		return "", fmt.Errorf("comparing YAML: %w", err)
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	writer := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := writer.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n", nil
}

func yamlInput(name string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: name}, nil
	}

	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: name, Documents: docs}, nil
}

// IndentDiff indents every non-empty line of diff.
func IndentDiff(diff string, indent string) string {
	if diff == "" {
		return ""
	}

	var sb strings.Builder
	for _, line := range strings.Split(diff, "\n") {
		if line != "" {
			sb.WriteString(indent)
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func diffSummary(created, modified int) string {
	parts := make([]string, 0, 2)
	if created > 0 {
		parts = append(parts, fmt.Sprintf("%d created", created))
	}
	if modified > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", modified))
	}
	if len(parts) == 0 {
		return "No changes"
	}
	return strings.Join(parts, ", ")
}

func paint(style interface{ Render(...string) string }, s string, useColor bool) string {
	if !useColor {
		return s
	}
	return style.Render(s)
}
