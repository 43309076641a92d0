// Package runctx resolves the run-time parameters of a recipe application
// into an immutable RunContext.
package runctx

import (
	"sort"
	"strings"
)

// Derived keys present in every RunContext.
const (
	KeyAppName      = "app_name"
	KeyAppNameUpper = "app_name_upper"
	KeyAppConst     = "app_const"
	KeyProjectDir   = "project_dir"
)

// RunContext is the resolved set of run-time values. It is created once by
// Collect and never modified; accessors hand out copies.
type RunContext struct {
	values map[string]any
}

// New creates a RunContext holding a copy of values.
func New(values map[string]any) *RunContext {
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &RunContext{values: copied}
}

// Get returns the value stored under key.
func (c *RunContext) Get(key string) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// String returns the value under key as a string, or "" when absent.
func (c *RunContext) String(key string) string {
	switch v := c.values[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Truthy reports whether key holds true or a non-empty string other than
// "false". Missing keys are false.
func (c *RunContext) Truthy(key string) bool {
	switch v := c.values[key].(type) {
	case bool:
		return v
	case string:
		return v != "" && !strings.EqualFold(v, "false")
	default:
		return false
	}
}

// Values returns a copy of every value, suitable as template data.
func (c *RunContext) Values() map[string]any {
	out := make(map[string]any, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}

// Keys returns the keys in sorted order.
func (c *RunContext) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
