package patch

import (
	"fmt"
	"regexp"
	"strings"

	aerrors "github.com/apptemplate/apptemplate/internal/errors"
)

// AnchorKind selects how an anchor is located and which side of the match
// receives the block.
type AnchorKind int

const (
	// Before inserts in front of a literal substring.
	Before AnchorKind = iota
	// After inserts behind a literal substring.
	After
	// BeforePattern inserts in front of a regular expression match.
	BeforePattern
	// AfterPattern inserts behind a regular expression match.
	AfterPattern
	// End appends at end of file.
	End
)

var kindNames = map[AnchorKind]string{
	Before:        "before",
	After:         "after",
	BeforePattern: "before_pattern",
	AfterPattern:  "after_pattern",
	End:           "end",
}

func (k AnchorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("AnchorKind(%d)", int(k))
}

// Anchor locates an insertion point.
type Anchor struct {
	Kind  AnchorKind
	Value string
}

func (a Anchor) String() string {
	if a.Kind == End {
		return "end of file"
	}
	return a.Kind.String() + " " + a.Value
}

// span is a half-open byte range of one anchor match.
type span struct {
	start, end int
}

// locate returns every match of a in content ordered by byte offset.
func locate(content string, a Anchor) ([]span, error) {
	switch a.Kind {
	case End:
		return []span{{len(content), len(content)}}, nil

	case Before, After:
		if a.Value == "" {
			return nil, aerrors.NewValidationError("literal anchor is empty", "", "")
		}
		var spans []span
		offset := 0
		for {
			i := strings.Index(content[offset:], a.Value)
			if i < 0 {
				break
			}
			start := offset + i
			spans = append(spans, span{start, start + len(a.Value)})
			offset = start + len(a.Value)
		}
		return spans, nil

	case BeforePattern, AfterPattern:
		re, err := regexp.Compile(a.Value)
		if err != nil {
			return nil, aerrors.NewValidationError(
				fmt.Sprintf("invalid anchor pattern %q: %v", a.Value, err), "", "")
		}
		matches := re.FindAllStringIndex(content, -1)
		spans := make([]span, len(matches))
		for i, m := range matches {
			spans[i] = span{m[0], m[1]}
		}
		return spans, nil

	default:
		return nil, aerrors.NewValidationError(
			fmt.Sprintf("unknown anchor kind %d", int(a.Kind)), "", "")
	}
}

// insertionPoint returns the offset that receives the block for match m.
func insertionPoint(kind AnchorKind, m span) int {
	switch kind {
	case Before, BeforePattern:
		return m.start
	default:
		return m.end
	}
}

// InsertAt splices block into content at offset pos.
func InsertAt(content string, pos int, block string) string {
	return content[:pos] + block + content[pos:]
}
