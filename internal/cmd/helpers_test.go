package cmd

import (
	"bytes"
	"testing"
)

// isolateHome points HOME at a temp dir and clears the environment
// overrides so tests never read the developer's configuration.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"APPTEMPLATE_CONFIG",
		"APPTEMPLATE_RECIPE",
		"APPTEMPLATE_RECIPE_PATHS",
		"APPTEMPLATE_LOG_TIMESTAMPS",
		"APPTEMPLATE_GIT_AUTHOR_NAME",
		"APPTEMPLATE_GIT_AUTHOR_EMAIL",
	} {
		t.Setenv(key, "")
	}
	configFlag = ""
	return home
}

// executeRoot runs the root command with args and returns what it wrote to
// its output stream.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}
