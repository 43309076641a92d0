package manifest

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/patch"
)

const gemfile = `source "https://rubygems.org"

gem "rails", "~> 7.1.3"

group :development, :test do
  gem "debug", platforms: %i[ mri windows ]
end

group :development do
  gem "web-console"
end

group :test do
  gem "capybara"
end
`

func newEditor(t *testing.T, files map[string]string, opts ...patch.Option) (*Editor, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0o644))
	}
	return NewEditor(patch.New(fsys, opts...)), fsys
}

func read(t *testing.T, fsys afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestGemLine(t *testing.T) {
	tests := []struct {
		name string
		gem  Gem
		want string
	}{
		{"bare", Gem{Name: "pg"}, `gem "pg"`},
		{"versions", Gem{Name: "puma", Versions: []string{">= 5.0", "< 7"}}, `gem "puma", ">= 5.0", "< 7"`},
		{"git and branch", Gem{Name: "devise", Git: "https://github.com/heartcombo/devise", Branch: "main"},
			`gem "devise", git: "https://github.com/heartcombo/devise", branch: "main"`},
		{"no require", Gem{Name: "rubocop", NoRequire: true}, `gem "rubocop", require: false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.gem.Line())
		})
	}
}

func TestAddGem_AppendsAtEnd(t *testing.T) {
	e, fsys := newEditor(t, map[string]string{GemfilePath: "source \"https://rubygems.org\""})

	outcome, err := e.AddGem(Gem{Name: "pundit"})
	require.NoError(t, err)
	assert.Equal(t, patch.Applied, outcome)

	assert.Equal(t, "source \"https://rubygems.org\"\ngem \"pundit\"\n", read(t, fsys, GemfilePath))
}

func TestAddGem_MissingGemfile(t *testing.T) {
	e, _ := newEditor(t, nil)

	_, err := e.AddGem(Gem{Name: "pundit"})
	assert.ErrorIs(t, err, aerrors.ErrNotFound)
}

func TestAddGem_IdempotentSkipsExistingLine(t *testing.T) {
	e, fsys := newEditor(t, map[string]string{GemfilePath: gemfile}, patch.WithIdempotent(true))

	outcome, err := e.AddGem(Gem{Name: "rails", Versions: []string{"~> 7.1.3"}})
	require.NoError(t, err)
	assert.Equal(t, patch.AlreadyPresent, outcome)
	assert.Equal(t, gemfile, read(t, fsys, GemfilePath))
}

func TestAddGemGroup_OnlyTouchesTargetBlock(t *testing.T) {
	e, fsys := newEditor(t, map[string]string{GemfilePath: gemfile})

	_, err := e.AddGemGroup(GroupRequest{
		Groups: []string{"test"},
		Gems:   []Gem{{Name: "shoulda-matchers"}, {Name: "simplecov", NoRequire: true}},
	})
	require.NoError(t, err)

	got := read(t, fsys, GemfilePath)
	want := strings.Replace(gemfile,
		"  gem \"capybara\"\nend\n",
		"  gem \"capybara\"\n  gem \"shoulda-matchers\"\n  gem \"simplecov\", require: false\nend\n", 1)
	assert.Equal(t, want, got)
	assert.Contains(t, got, "group :development do\n  gem \"web-console\"\nend\n")
}

func TestAddGemGroup_MatchesSymbolSet(t *testing.T) {
	e, fsys := newEditor(t, map[string]string{GemfilePath: gemfile})

	_, err := e.AddGemGroup(GroupRequest{
		Groups: []string{"test", ":development"},
		Gems:   []Gem{{Name: "rspec-rails"}},
	})
	require.NoError(t, err)

	assert.Contains(t, read(t, fsys, GemfilePath),
		"group :development, :test do\n  gem \"debug\", platforms: %i[ mri windows ]\n  gem \"rspec-rails\"\nend\n")
}

func TestAddGemGroup_Missing(t *testing.T) {
	t.Run("fails without create", func(t *testing.T) {
		e, fsys := newEditor(t, map[string]string{GemfilePath: gemfile})

		_, err := e.AddGemGroup(GroupRequest{Groups: []string{"production"}, Gems: []Gem{{Name: "lograge"}}})

		require.Error(t, err)
		assert.ErrorIs(t, err, aerrors.ErrGroupNotFound)
		assert.Equal(t, gemfile, read(t, fsys, GemfilePath))
	})

	t.Run("appends with create", func(t *testing.T) {
		e, fsys := newEditor(t, map[string]string{GemfilePath: gemfile})

		_, err := e.AddGemGroup(GroupRequest{
			Groups: []string{"production", "staging"},
			Gems:   []Gem{{Name: "lograge"}},
			Create: true,
		})
		require.NoError(t, err)

		assert.Equal(t, gemfile+"\ngroup :production, :staging do\n  gem \"lograge\"\nend\n", read(t, fsys, GemfilePath))
	})
}

func TestAddGemGroup_CommentedEnd(t *testing.T) {
	initial := "group :development, :test do # tooling\n  gem \"debug\"\nend # development, test\n"
	e, fsys := newEditor(t, map[string]string{GemfilePath: initial})

	_, err := e.AddGemGroup(GroupRequest{
		Groups: []string{"development", "test"},
		Gems:   []Gem{{Name: "rspec-rails"}},
		Create: true,
	})
	require.NoError(t, err)

	got := read(t, fsys, GemfilePath)
	assert.Equal(t,
		"group :development, :test do # tooling\n  gem \"debug\"\n  gem \"rspec-rails\"\nend # development, test\n", got)
	assert.Equal(t, 1, strings.Count(got, "group "))
}

func TestAddGemGroup_IndentsNestedBlocks(t *testing.T) {
	initial := "platforms :ruby do\n  group :test do\n    gem \"a\"\n  end\nend\n"
	e, fsys := newEditor(t, map[string]string{GemfilePath: initial})

	_, err := e.AddGemGroup(GroupRequest{Groups: []string{"test"}, Gems: []Gem{{Name: "b"}}})
	require.NoError(t, err)

	assert.Equal(t, "platforms :ruby do\n  group :test do\n    gem \"a\"\n    gem \"b\"\n  end\nend\n", read(t, fsys, GemfilePath))
}

func TestAddRoute(t *testing.T) {
	routes := "Rails.application.routes.draw do\n  get \"up\" => \"rails/health#show\"\nend\n"
	e, fsys := newEditor(t, map[string]string{RoutesPath: routes})

	_, err := e.AddRoute("namespace :api do\n  resources :users\nend")
	require.NoError(t, err)

	assert.Equal(t,
		"Rails.application.routes.draw do\n  get \"up\" => \"rails/health#show\"\n  namespace :api do\n    resources :users\n  end\nend\n",
		read(t, fsys, RoutesPath))
}

func TestAddRoute_CommentedEnd(t *testing.T) {
	routes := "Rails.application.routes.draw do # routes\n  get \"up\" => \"rails/health#show\"\nend # draw\n"
	e, fsys := newEditor(t, map[string]string{RoutesPath: routes})

	_, err := e.AddRoute("resources :posts")
	require.NoError(t, err)

	assert.Equal(t,
		"Rails.application.routes.draw do # routes\n  get \"up\" => \"rails/health#show\"\n  resources :posts\nend # draw\n",
		read(t, fsys, RoutesPath))
}

func TestAddRoute_NoDrawBlock(t *testing.T) {
	e, fsys := newEditor(t, map[string]string{RoutesPath: "# empty\n"})

	_, err := e.AddRoute("resources :users")

	require.Error(t, err)
	assert.ErrorIs(t, err, aerrors.ErrAnchorNotFound)
	assert.Equal(t, "# empty\n", read(t, fsys, RoutesPath))
}

func TestAddApplicationConfig(t *testing.T) {
	application := "module Blog\n  class Application < Rails::Application\n    config.load_defaults 7.1\n  end\nend\n"
	development := "Rails.application.configure do\n  config.cache_classes = false\nend\n"
	e, fsys := newEditor(t, map[string]string{
		ApplicationPath:                application,
		EnvironmentPath("development"): development,
	})

	_, err := e.AddApplicationConfig("config.generators.system_tests = nil", "")
	require.NoError(t, err)
	_, err = e.AddApplicationConfig("config.action_mailer.default_url_options = { host: \"localhost\", port: 3000 }", "development")
	require.NoError(t, err)

	assert.Equal(t,
		"module Blog\n  class Application < Rails::Application\n    config.generators.system_tests = nil\n    config.load_defaults 7.1\n  end\nend\n",
		read(t, fsys, ApplicationPath))
	assert.Equal(t,
		"Rails.application.configure do\n  config.action_mailer.default_url_options = { host: \"localhost\", port: 3000 }\n  config.cache_classes = false\nend\n",
		read(t, fsys, EnvironmentPath("development")))
}

func TestReindent(t *testing.T) {
	assert.Equal(t, "  a\n    b\n\n  c\n", Reindent("    a\n      b\n\n    c", 2))
	assert.Equal(t, "    x\n", Reindent("x\n", 4))
}
