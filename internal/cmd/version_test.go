package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	assert.Equal(t, "version", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestVersionCmd_Execute(t *testing.T) {
	isolateHome(t)

	out, err := executeRoot(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "apptemplate")
	assert.Contains(t, out, "CUE SDK")
	assert.Contains(t, out, "Tools:")
}
