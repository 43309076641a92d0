package manifest

import (
	"regexp"
	"strings"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
	"github.com/apptemplate/apptemplate/internal/patch"
)

const routesDrawAnchor = "Rails.application.routes.draw do"

var routesDraw = regexp.MustCompile(`^(\s*)Rails\.application\.routes\.draw do\s*(\|.*\|)?\s*(?:#.*)?$`)

// AddRoute inserts block, re-indented to two spaces, before the closing
// `end` of the routes draw block.
func (e *Editor) AddRoute(block string) (patch.Outcome, error) {
	body := Reindent(block, 2)

	return e.patcher.Edit(RoutesPath, func(content string) (string, patch.Outcome, error) {
		if e.patcher.Idempotent() && strings.Contains(content, strings.TrimRight(body, "\n")) {
			return content, patch.AlreadyPresent, nil
		}

		bounds := lineBounds(content)
		for i := 0; i < len(bounds)-1; i++ {
			line := strings.TrimRight(content[bounds[i]:bounds[i+1]], "\r\n")
			m := routesDraw.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			end := closingEnd(content, bounds, i, m[1])
			if end < 0 {
				break
			}
			return patch.InsertAt(content, end, body), patch.Applied, nil
		}
		return content, patch.AnchorMissing, aerrors.NewAnchorNotFoundError(RoutesPath, routesDrawAnchor)
	})
}
