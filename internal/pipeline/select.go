package pipeline

import (
	"strings"

	"github.com/apptemplate/apptemplate/internal/recipe"
	"github.com/apptemplate/apptemplate/internal/runctx"
)

// selectPlans returns the plans whose guard holds, in declaration order.
func selectPlans(plans []recipe.Plan, rc *runctx.RunContext) []recipe.Plan {
	var selected []recipe.Plan
	for _, p := range plans {
		if guard(p.When, rc) {
			selected = append(selected, p)
		}
	}
	return selected
}

// guard evaluates a `when` expression: a RunContext key, optionally
// negated with a leading "!". An empty expression always holds.
func guard(when string, rc *runctx.RunContext) bool {
	if when == "" {
		return true
	}
	if key, negated := strings.CutPrefix(when, "!"); negated {
		return !rc.Truthy(key)
	}
	return rc.Truthy(when)
}
