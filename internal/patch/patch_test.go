package patch

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

const appController = `class ApplicationController < ActionController::API
end
`

func writeFile(t *testing.T, fsys afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
}

func readFile(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestPatch_AnchorKinds(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		anchor  Anchor
		block   string
		want    string
	}{
		{
			name:    "after literal",
			initial: appController,
			anchor:  Anchor{Kind: After, Value: "class ApplicationController < ActionController::API\n"},
			block:   "  include Pundit\n",
			want:    "class ApplicationController < ActionController::API\n  include Pundit\nend\n",
		},
		{
			name:    "before literal",
			initial: appController,
			anchor:  Anchor{Kind: Before, Value: "end\n"},
			block:   "  def ping; end\n",
			want:    "class ApplicationController < ActionController::API\n  def ping; end\nend\n",
		},
		{
			name:    "after pattern",
			initial: "require 'rails_helper'\nRSpec.configure do |config|\nend\n",
			anchor:  Anchor{Kind: AfterPattern, Value: `RSpec\.configure do \|config\|\n`},
			block:   "  config.include FactoryBot::Syntax::Methods\n",
			want:    "require 'rails_helper'\nRSpec.configure do |config|\n  config.include FactoryBot::Syntax::Methods\nend\n",
		},
		{
			name:    "before pattern",
			initial: "a\nb\nend\n",
			anchor:  Anchor{Kind: BeforePattern, Value: `(?m)^end$`},
			block:   "c\n",
			want:    "a\nb\nc\nend\n",
		},
		{
			name:    "end of file",
			initial: ".env*\n",
			anchor:  Anchor{Kind: End},
			block:   "/coverage\n",
			want:    ".env*\n/coverage\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			writeFile(t, fsys, "target.rb", tt.initial)

			outcome, err := New(fsys).Patch(Request{
				Path:     "target.rb",
				Anchor:   tt.anchor,
				Content:  tt.block,
				Required: true,
			})
			require.NoError(t, err)
			assert.Equal(t, Applied, outcome)
			assert.Equal(t, tt.want, readFile(t, fsys, "target.rb"))
		})
	}
}

func TestPatch_PreservesOtherBytes(t *testing.T) {
	initial := "line one\r\n\tANCHOR\r\ntrailing  \n"
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "f", initial)

	_, err := New(fsys).Patch(Request{Path: "f", Anchor: Anchor{Kind: After, Value: "ANCHOR"}, Content: "+"})
	require.NoError(t, err)

	assert.Equal(t, "line one\r\n\tANCHOR+\r\ntrailing  \n", readFile(t, fsys, "f"))
}

func TestPatch_MissingFile(t *testing.T) {
	_, err := New(afero.NewMemMapFs()).Patch(Request{
		Path:   "config/routes.rb",
		Anchor: Anchor{Kind: End},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, aerrors.ErrNotFound)
}

func TestPatch_RequiredAnchorMissing(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "Gemfile", "source 'https://rubygems.org'\n")

	_, err := New(fsys).Patch(Request{
		Path:     "Gemfile",
		Anchor:   Anchor{Kind: After, Value: "gem 'rails'"},
		Content:  "gem 'pg'\n",
		Required: true,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, aerrors.ErrAnchorNotFound)
	assert.Equal(t, "source 'https://rubygems.org'\n", readFile(t, fsys, "Gemfile"))
}

func TestPatch_OptionalAnchorMissingIsNoop(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "Gemfile", "source 'https://rubygems.org'\n")

	outcome, err := New(fsys).Patch(Request{
		Path:    "Gemfile",
		Anchor:  Anchor{Kind: After, Value: "gem 'rails'"},
		Content: "gem 'pg'\n",
	})

	require.NoError(t, err)
	assert.Equal(t, AnchorMissing, outcome)
	assert.Equal(t, "source 'https://rubygems.org'\n", readFile(t, fsys, "Gemfile"))
}

func TestPatch_MultipleMatches(t *testing.T) {
	initial := "end\nend\n"

	t.Run("first match wins", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		writeFile(t, fsys, "f.rb", initial)

		_, err := New(fsys).Patch(Request{Path: "f.rb", Anchor: Anchor{Kind: Before, Value: "end"}, Content: "x\n"})
		require.NoError(t, err)
		assert.Equal(t, "x\nend\nend\n", readFile(t, fsys, "f.rb"))
	})

	t.Run("unique fails", func(t *testing.T) {
		fsys := afero.NewMemMapFs()
		writeFile(t, fsys, "f.rb", initial)

		_, err := New(fsys).Patch(Request{
			Path:    "f.rb",
			Anchor:  Anchor{Kind: Before, Value: "end"},
			Content: "x\n",
			Unique:  true,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, aerrors.ErrAnchorAmbiguous)
		assert.Equal(t, initial, readFile(t, fsys, "f.rb"))
	})
}

func TestPatch_RerunPolicies(t *testing.T) {
	req := Request{
		Path:    "spec/rails_helper.rb",
		Anchor:  Anchor{Kind: After, Value: "RSpec.configure do |config|\n"},
		Content: "  config.include FactoryBot::Syntax::Methods\n",
	}
	initial := "RSpec.configure do |config|\nend\n"
	once := "RSpec.configure do |config|\n  config.include FactoryBot::Syntax::Methods\nend\n"
	twice := "RSpec.configure do |config|\n  config.include FactoryBot::Syntax::Methods\n  config.include FactoryBot::Syntax::Methods\nend\n"

	tests := []struct {
		name   string
		policy Policy
		opts   []Option
		want   string
	}{
		{"default duplicates", Default, nil, twice},
		{"force duplicates under idempotent run", Force, []Option{WithIdempotent(true)}, twice},
		{"skip if present", SkipIfPresent, nil, once},
		{"idempotent run", Default, []Option{WithIdempotent(true)}, once},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			require.NoError(t, fsys.MkdirAll("spec", 0o755))
			writeFile(t, fsys, req.Path, initial)
			p := New(fsys, tt.opts...)

			r := req
			r.Policy = tt.policy
			_, err := p.Patch(r)
			require.NoError(t, err)
			_, err = p.Patch(r)
			require.NoError(t, err)

			assert.Equal(t, tt.want, readFile(t, fsys, req.Path))
		})
	}
}

func TestPatch_InvalidPattern(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeFile(t, fsys, "f", "content")

	_, err := New(fsys).Patch(Request{Path: "f", Anchor: Anchor{Kind: AfterPattern, Value: "("}, Content: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, aerrors.ErrValidation)
	assert.Contains(t, err.Error(), "Location: f")
}

func TestPatch_PreservesMode(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "bin/setup", []byte("#!/bin/sh\n"), 0o755))

	_, err := New(fsys).Patch(Request{Path: "bin/setup", Anchor: Anchor{Kind: End}, Content: "echo ok\n"})
	require.NoError(t, err)

	info, err := fsys.Stat("bin/setup")
	require.NoError(t, err)
	assert.Equal(t, "-rwxr-xr-x", info.Mode().Perm().String())
}

func TestInsertAt(t *testing.T) {
	assert.Equal(t, "abXc", InsertAt("abc", 2, "X"))
	assert.Equal(t, "Xabc", InsertAt("abc", 0, "X"))
	assert.Equal(t, "abcX", InsertAt("abc", 3, "X"))
}

func TestAnchorString(t *testing.T) {
	assert.Equal(t, "end of file", Anchor{Kind: End}.String())
	assert.Equal(t, "after_pattern ^end", Anchor{Kind: AfterPattern, Value: "^end"}.String())
	assert.Equal(t, "AnchorKind(9)", AnchorKind(9).String())
}
