package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderChangeTree_Empty(t *testing.T) {
	assert.Empty(t, RenderChangeTree("blog", nil))
}

func TestRenderChangeTree(t *testing.T) {
	out := RenderChangeTree("blog", map[string]string{
		"Gemfile":                             StatusPatched,
		".rubocop.yml":                        StatusCreated,
		"app/controllers/users_controller.rb": StatusCreated,
		"app/activities/base_activity.rb":     StatusCreated,
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 8)

	assert.Contains(t, lines[0], "blog/")
	// directories first
	assert.Contains(t, lines[1], "├── app/")
	assert.Contains(t, lines[2], "│   ├── activities/")
	assert.Contains(t, lines[3], "base_activity.rb")
	assert.Contains(t, lines[4], "│   └── controllers/")
	assert.Contains(t, lines[5], "users_controller.rb")
	assert.Contains(t, lines[6], ".rubocop.yml")
	assert.Contains(t, lines[6], StatusCreated)
	assert.Contains(t, lines[7], "└── Gemfile")
	assert.Contains(t, lines[7], StatusPatched)
}
