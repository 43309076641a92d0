package version

import (
	"bytes"
	"os/exec"
	"regexp"
	"strings"
)

// versionRegex matches output like "Rails 7.1.3" or "Bundler version 2.5.6".
var versionRegex = regexp.MustCompile(`v?\d+\.\d+(?:\.\d+)?(?:[-.][a-zA-Z0-9.]+)?`)

// ToolInfo describes an external program found on PATH.
type ToolInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Path    string `json:"path,omitempty"`
	Found   bool   `json:"found"`

	// Message explains a missing tool or unreadable version.
	Message string `json:"message,omitempty"`
}

// String returns a one-line summary.
func (t ToolInfo) String() string {
	if !t.Found {
		return "  " + t.Name + ": not found"
	}
	if t.Version == "" {
		return "  " + t.Name + ": " + t.Message + " (" + t.Path + ")"
	}
	return "  " + t.Name + ": " + t.Version + " (" + t.Path + ")"
}

// DefaultTools are the programs the built-in recipes run.
var DefaultTools = []string{"ruby", "bundle", "rails", "git"}

// DetectTools runs DetectTool for each name.
func DetectTools(names []string) []ToolInfo {
	infos := make([]ToolInfo, 0, len(names))
	for _, name := range names {
		infos = append(infos, DetectTool(name))
	}
	return infos
}

// DetectTool finds name in PATH and reads its `--version` output.
func DetectTool(name string) ToolInfo {
	path, err := exec.LookPath(name)
	if err != nil {
		return ToolInfo{Name: name, Message: name + " not found in PATH"}
	}

	info := ToolInfo{Name: name, Path: path, Found: true}
	version, err := toolVersion(path)
	if err != nil {
		info.Message = "failed to get version: " + err.Error()
		return info
	}
	info.Version = version
	return info
}

func toolVersion(path string) (string, error) {
	cmd := exec.Command(path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", err
	}
	return extractVersion(out.String())
}

// extractVersion returns the first version number in output.
func extractVersion(output string) (string, error) {
	first, _, _ := strings.Cut(output, "\n")
	match := versionRegex.FindString(first)
	if match == "" {
		match = versionRegex.FindString(output)
	}
	if match == "" {
		return "", &versionParseError{output: output}
	}
	return strings.TrimPrefix(match, "v"), nil
}

type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse version from output: " + strings.TrimSpace(e.output)
}
