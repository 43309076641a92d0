// Package testutil provides test helpers for project fixtures.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// RailsApp is the subset of a freshly generated Rails API app that the
// built-in recipes touch, keyed by slash-separated path. The app is named
// "blog".
var RailsApp = map[string]string{
	"Gemfile": `source "https://rubygems.org"

gem "rails", "~> 7.1"

group :development, :test do
  gem "debug"
end
`,
	".gitignore": "/log/*\n/tmp/*\n",
	"config/database.yml": `default: &default
  adapter: postgresql

development:
  <<: *default
  database: blog_development

test:
  <<: *default
  database: blog_test
`,
	"config/routes.rb": `Rails.application.routes.draw do
  get "up" => "rails/health#show"
end
`,
	"config/application.rb": `module Blog
  class Application < Rails::Application
    config.load_defaults 7.1
  end
end
`,
	"app/controllers/application_controller.rb": "class ApplicationController < ActionController::API\nend\n",
	"db/seeds.rb": "# seeds\n",
}

// WriteFile creates a file with the given content in the specified
// directory, creating parents as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// WriteTree writes every file in tree under dir.
func WriteTree(t *testing.T, dir string, tree map[string]string) {
	t.Helper()
	for name, content := range tree {
		WriteFile(t, dir, name, content)
	}
}

// ReadFile returns the content of name under dir.
func ReadFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(data)
}

// AssertTree fails the test for every file in tree whose content under dir
// differs.
func AssertTree(t *testing.T, dir string, tree map[string]string) {
	t.Helper()
	for name, want := range tree {
		if got := ReadFile(t, dir, name); got != want {
			t.Errorf("%s changed:\n--- want\n%s\n--- got\n%s", name, want, got)
		}
	}
}

// NewRailsApp writes RailsApp into a fresh directory named "blog" and
// returns its path.
func NewRailsApp(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "blog")
	WriteTree(t, dir, RailsApp)
	return dir
}
