package manifest

import (
	"path"

	"github.com/apptemplate/apptemplate/internal/patch"
)

const (
	applicationSentinel = "class Application < Rails::Application\n"
	environmentSentinel = "Rails.application.configure do\n"
)

// AddApplicationConfig inserts data into config/application.rb, or into
// config/environments/<env>.rb when env is set.
func (e *Editor) AddApplicationConfig(data, env string) (patch.Outcome, error) {
	req := patch.Request{
		Path:     ApplicationPath,
		Anchor:   patch.Anchor{Kind: patch.After, Value: applicationSentinel},
		Content:  Reindent(data, 4),
		Required: true,
	}
	if env != "" {
		req.Path = EnvironmentPath(env)
		req.Anchor.Value = environmentSentinel
		req.Content = Reindent(data, 2)
	}
	return e.patcher.Patch(req)
}

// EnvironmentPath returns the configuration file of a Rails environment.
func EnvironmentPath(env string) string {
	return path.Join("config", "environments", env+".rb")
}
