package patch

import "strings"

// containsBlock reports whether block already occurs in content. Leading and
// trailing blank lines of the block are ignored so that a block inserted
// with surrounding newlines is still recognised.
func containsBlock(content, block string) bool {
	trimmed := strings.Trim(block, "\n")
	if trimmed == "" {
		return false
	}
	return strings.Contains(content, trimmed)
}
