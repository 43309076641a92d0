package runctx

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

var railsFlags = []Flag{
	{Name: "devise", Type: FlagBool},
	{Name: "scaffold", Type: FlagString},
}

var dbPrompts = []Prompt{
	{Key: "db_username", Question: "Postgres username", Default: "postgres"},
	{Key: "db_password", Question: "Postgres password", Secret: true},
}

func TestScanFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want map[string]any
	}{
		{
			name: "absent flags take defaults",
			args: nil,
			want: map[string]any{"devise": false, "scaffold": ""},
		},
		{
			name: "bool present",
			args: []string{"--devise"},
			want: map[string]any{"devise": true, "scaffold": ""},
		},
		{
			name: "string with equals",
			args: []string{"--scaffold=Post title:string body:text"},
			want: map[string]any{"devise": false, "scaffold": "Post title:string body:text"},
		},
		{
			name: "string with separate value",
			args: []string{"--scaffold", "Post", "--devise"},
			want: map[string]any{"devise": true, "scaffold": "Post"},
		},
		{
			name: "unknown flags ignored",
			args: []string{"--database=postgresql", "--api", "-T", "--devise"},
			want: map[string]any{"devise": true, "scaffold": ""},
		},
		{
			name: "negated bool",
			args: []string{"--devise", "--skip-devise"},
			want: map[string]any{"devise": false, "scaffold": ""},
		},
		{
			name: "explicit bool value",
			args: []string{"--devise=false"},
			want: map[string]any{"devise": false, "scaffold": ""},
		},
		{
			name: "stops at double dash",
			args: []string{"--", "--devise"},
			want: map[string]any{"devise": false, "scaffold": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScanFlags(tt.args, railsFlags))
		})
	}
}

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "api_only", Flag{Name: "api-only"}.Key())
}

func TestDeriveNames(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{"blog", map[string]string{KeyAppName: "blog", KeyAppNameUpper: "BLOG", KeyAppConst: "Blog"}},
		{"blog-api", map[string]string{KeyAppName: "blog_api", KeyAppNameUpper: "BLOG_API", KeyAppConst: "BlogApi"}},
		{"BlogApi", map[string]string{KeyAppName: "BlogApi", KeyAppNameUpper: "BLOGAPI", KeyAppConst: "BlogApi"}},
		{"blog2", map[string]string{KeyAppName: "blog2", KeyAppNameUpper: "BLOG2", KeyAppConst: "Blog2"}},
		{"api_v2", map[string]string{KeyAppName: "api_v2", KeyAppNameUpper: "API_V2", KeyAppConst: "ApiV2"}},
		{"my.app name", map[string]string{KeyAppName: "my_app_name", KeyAppNameUpper: "MY_APP_NAME", KeyAppConst: "MyAppName"}},
		{`win\app`, map[string]string{KeyAppName: "winapp", KeyAppNameUpper: "WINAPP", KeyAppConst: "Winapp"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveNames(tt.in))
		})
	}
}

func TestAsk(t *testing.T) {
	t.Run("non-interactive uses default", func(t *testing.T) {
		p := &Prompter{In: strings.NewReader("ignored\n"), Out: &bytes.Buffer{}}

		answer, err := p.Ask(dbPrompts[0])
		require.NoError(t, err)
		assert.Equal(t, "postgres", answer)
	})

	t.Run("blank answer uses default", func(t *testing.T) {
		out := &bytes.Buffer{}
		p := &Prompter{In: strings.NewReader("\n"), Out: out, Interactive: true}

		answer, err := p.Ask(dbPrompts[0])
		require.NoError(t, err)
		assert.Equal(t, "postgres", answer)
		assert.Contains(t, out.String(), "[postgres]")
	})

	t.Run("answers read in order", func(t *testing.T) {
		p := &Prompter{In: strings.NewReader("admin\nsecret\n"), Out: &bytes.Buffer{}, Interactive: true}

		first, err := p.Ask(dbPrompts[0])
		require.NoError(t, err)
		second, err := p.Ask(dbPrompts[1])
		require.NoError(t, err)

		assert.Equal(t, "admin", first)
		assert.Equal(t, "secret", second)
	})

	t.Run("secret uses secret reader", func(t *testing.T) {
		p := &Prompter{
			In:          strings.NewReader(""),
			Out:         &bytes.Buffer{},
			Interactive: true,
			ReadSecret:  func() (string, error) { return "hunter2", nil },
		}

		answer, err := p.Ask(dbPrompts[1])
		require.NoError(t, err)
		assert.Equal(t, "hunter2", answer)
	})

	t.Run("eof without newline", func(t *testing.T) {
		p := &Prompter{In: strings.NewReader("admin"), Out: &bytes.Buffer{}, Interactive: true}

		answer, err := p.Ask(dbPrompts[0])
		require.NoError(t, err)
		assert.Equal(t, "admin", answer)
	})
}

func TestCollect(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "blog-api")

	rc, err := Collect(Options{
		ProjectDir: dir,
		Args:       []string{"new", "blog-api", "--devise"},
		Flags:      railsFlags,
		Prompts:    dbPrompts,
		Overrides:  map[string]string{"db_password": "s3cret", "scaffold": "Post title:string"},
		Prompter:   &Prompter{In: strings.NewReader("admin\n"), Out: &bytes.Buffer{}, Interactive: true},
	})
	require.NoError(t, err)

	assert.Equal(t, "blog_api", rc.String(KeyAppName))
	assert.Equal(t, "BLOG_API", rc.String(KeyAppNameUpper))
	assert.Equal(t, "BlogApi", rc.String(KeyAppConst))
	assert.Equal(t, dir, rc.String(KeyProjectDir))
	assert.True(t, rc.Truthy("devise"))
	assert.Equal(t, "Post title:string", rc.String("scaffold"))
	assert.Equal(t, "admin", rc.String("db_username"))
	assert.Equal(t, "s3cret", rc.String("db_password"))
}

func TestCollect_AppNameOverride(t *testing.T) {
	rc, err := Collect(Options{ProjectDir: t.TempDir(), AppName: "store-front"})
	require.NoError(t, err)
	assert.Equal(t, "store_front", rc.String(KeyAppName))
	assert.Equal(t, "StoreFront", rc.String(KeyAppConst))
}

func TestCollect_BoolOverride(t *testing.T) {
	rc, err := Collect(Options{
		ProjectDir: t.TempDir(),
		Flags:      railsFlags,
		Overrides:  map[string]string{"devise": "true"},
	})
	require.NoError(t, err)
	assert.Equal(t, true, rc.Values()["devise"])

	_, err = Collect(Options{
		ProjectDir: t.TempDir(),
		Flags:      railsFlags,
		Overrides:  map[string]string{"devise": "maybe"},
	})
	assert.ErrorIs(t, err, aerrors.ErrValidation)
}

func TestRunContext_Immutable(t *testing.T) {
	src := map[string]any{"a": "1"}
	rc := New(src)
	src["a"] = "changed"

	values := rc.Values()
	values["a"] = "mutated"

	assert.Equal(t, "1", rc.String("a"))
}

func TestRunContext_Truthy(t *testing.T) {
	rc := New(map[string]any{
		"on":    true,
		"off":   false,
		"text":  "Post",
		"empty": "",
		"no":    "false",
	})

	assert.True(t, rc.Truthy("on"))
	assert.False(t, rc.Truthy("off"))
	assert.True(t, rc.Truthy("text"))
	assert.False(t, rc.Truthy("empty"))
	assert.False(t, rc.Truthy("no"))
	assert.False(t, rc.Truthy("missing"))
	assert.Equal(t, []string{"empty", "no", "off", "on", "text"}, rc.Keys())
}

func TestParseOverrides(t *testing.T) {
	got, err := ParseOverrides([]string{"db_username=admin", "db_password=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"db_username": "admin", "db_password": "a=b", "empty": ""}, got)

	_, err = ParseOverrides([]string{"novalue"})
	assert.ErrorIs(t, err, aerrors.ErrValidation)
}
