package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	info := Get()

	require.NotEmpty(t, info.GoVersion, "GoVersion should be populated")
	require.NotEmpty(t, info.CUESDKVersion, "CUESDKVersion should be populated")
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:       "v1.0.0",
		GitCommit:     "abc123",
		BuildDate:     "2026-01-29",
		GoVersion:     "go1.25",
		CUESDKVersion: "v0.15.4",
	}

	str := info.String()

	assert.Contains(t, str, "v1.0.0")
	assert.Contains(t, str, "abc123")
	assert.Contains(t, str, "2026-01-29")
	assert.Contains(t, str, "go1.25")
	assert.Contains(t, str, "v0.15.4")
}

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    string
		wantErr bool
	}{
		{"rails", "Rails 7.1.3\n", "7.1.3", false},
		{"bundler", "Bundler version 2.5.6\n", "2.5.6", false},
		{"ruby", "ruby 3.3.0 (2023-12-25 revision 5124f9ac75) [x86_64-linux]\n", "3.3.0", false},
		{"git", "git version 2.43.0\n", "2.43.0", false},
		{"prefixed", "tool v1.2.3", "1.2.3", false},
		{"second line", "banner\nversion 1.4\n", "1.4", false},
		{"garbage", "no version here", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractVersion(tt.output)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectTool_Missing(t *testing.T) {
	info := DetectTool("apptemplate-no-such-tool")

	assert.False(t, info.Found)
	assert.Contains(t, info.String(), "not found")
}

func TestFullVersionString(t *testing.T) {
	s := FullVersionString(Get(), []ToolInfo{
		{Name: "rails", Version: "7.1.3", Path: "/usr/bin/rails", Found: true},
		{Name: "bundle"},
	})

	assert.Contains(t, s, "Tools:")
	assert.Contains(t, s, "rails: 7.1.3 (/usr/bin/rails)")
	assert.Contains(t, s, "bundle: not found")
}
