package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

func TestRun_CapturesOutput(t *testing.T) {
	r := New(t.TempDir(), false)

	res, err := r.Run(context.Background(), Invocation{
		Program: "sh",
		Args:    []string{"-c", "echo out; echo err >&2"},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "out\n", string(res.Stdout))
	assert.Equal(t, "err\n", string(res.Stderr))
}

func TestRun_UsesProjectDir(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, false)

	res, err := r.Run(context.Background(), Invocation{Program: "sh", Args: []string{"-c", "pwd -P"}})
	require.NoError(t, err)

	assert.NotEmpty(t, string(res.Stdout))
}

func TestRun_PassesEnv(t *testing.T) {
	r := New(t.TempDir(), false)

	res, err := r.Run(context.Background(), Invocation{
		Program: "sh",
		Args:    []string{"-c", "printf %s \"$RAILS_ENV\""},
		Env:     []string{"RAILS_ENV=test"},
	})
	require.NoError(t, err)
	assert.Equal(t, "test", string(res.Stdout))
}

func TestRun_NonZeroExit(t *testing.T) {
	r := New(t.TempDir(), false)

	res, err := r.Run(context.Background(), Invocation{
		Program: "sh",
		Args:    []string{"-c", "echo boom >&2; exit 3"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, aerrors.ErrExternalCommand))
	var cmdErr *aerrors.ExternalCommandFailedError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "sh", cmdErr.Program)
	assert.Equal(t, 3, cmdErr.ExitCode)
	assert.Equal(t, "boom", cmdErr.Stderr)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, 3, aerrors.ExitCodeFromError(err))
}

func TestRun_AllowFailure(t *testing.T) {
	r := New(t.TempDir(), false)

	res, err := r.Run(context.Background(), Invocation{
		Program:      "sh",
		Args:         []string{"-c", "exit 2"},
		AllowFailure: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, res.ExitCode)
}

func TestRun_ProgramNotFound(t *testing.T) {
	r := New(t.TempDir(), false)

	_, err := r.Run(context.Background(), Invocation{Program: "apptemplate-no-such-program"})

	var cmdErr *aerrors.ExternalCommandFailedError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, ExitCodeNotFound, cmdErr.ExitCode)
}

func TestRun_DryRunRecordsOnly(t *testing.T) {
	r := New(t.TempDir(), true)

	first := Invocation{Program: "bundle", Args: []string{"install"}}
	second := Invocation{Program: "bin/rails", Args: []string{"db:migrate"}}
	_, err := r.Run(context.Background(), first)
	require.NoError(t, err)
	_, err = r.Run(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, []Invocation{first, second}, r.Recorded())
}

func TestInvocationString(t *testing.T) {
	assert.Equal(t, "bundle", Invocation{Program: "bundle"}.String())
	assert.Equal(t, "bin/rails generate devise:install", Invocation{
		Program: "bin/rails",
		Args:    []string{"generate", "devise:install"},
	}.String())
}
