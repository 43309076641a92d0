package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/testutil"
)

func TestNewConfigVetCmd(t *testing.T) {
	cmd := NewConfigVetCmd()

	assert.Equal(t, "vet", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func runConfigVetCmd(t *testing.T) error {
	t.Helper()
	cmd := NewConfigVetCmd()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestConfigVet(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantErr   bool
		errSubstr string
	}{
		{
			name:    "defaults",
			content: "recipe: rails-api\nrecipePaths:\n  - ~/.apptemplate/recipes\n",
		},
		{
			name:    "full",
			content: "recipe: rails-api-minitest\ngit:\n  authorName: Jane\n  authorEmail: jane@example.com\nlog:\n  timestamps: false\n",
		},
		{
			name:    "empty file",
			content: "",
		},
		{
			name:      "unknown key",
			content:   "recipes: rails-api\n",
			wantErr:   true,
			errSubstr: "validation failed",
		},
		{
			name:      "bad email",
			content:   "git:\n  authorEmail: nobody\n",
			wantErr:   true,
			errSubstr: "validation failed",
		},
		{
			name:      "timestamps not bool",
			content:   "log:\n  timestamps: sometimes\n",
			wantErr:   true,
			errSubstr: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolateHome(t)
			testutil.WriteTree(t, home, map[string]string{".apptemplate/config.yaml": tt.content})

			err := runConfigVetCmd(t)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, aerrors.ErrValidation)
				assert.Contains(t, err.Error(), tt.errSubstr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigVet_MissingConfigFile(t *testing.T) {
	isolateHome(t)

	err := runConfigVetCmd(t)
	require.Error(t, err)
	assert.ErrorIs(t, err, aerrors.ErrNotFound)
	assert.Contains(t, err.Error(), "not found")
}

func TestConfigVet_AfterInit(t *testing.T) {
	isolateHome(t)

	require.NoError(t, runConfigInitCmd(t))
	assert.NoError(t, runConfigVetCmd(t))
}

func TestConfigVet_ConfigEnv(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{"custom.yaml": "recipe: custom\n"})
	t.Setenv("APPTEMPLATE_CONFIG", filepath.Join(dir, "custom.yaml"))

	assert.NoError(t, runConfigVetCmd(t))
}
