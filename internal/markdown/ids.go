package markdown

import (
	"strconv"
	"unicode"

	"github.com/yuin/goldmark/ast"
)

// headingIDs generates heading ids namespaced by a per-document prefix so
// several documents can share one HTML page without colliding anchors.
type headingIDs struct {
	prefix string
	seen   map[string]bool
}

func newHeadingIDs(prefix string) *headingIDs {
	return &headingIDs{prefix: prefix, seen: make(map[string]bool)}
}

func (ids *headingIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	base := slug(string(value))
	if base == "" {
		base = "heading"
	}
	if ids.prefix != "" {
		base = ids.prefix + "-" + base
	}
	id := base
	for i := 1; ids.seen[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	ids.seen[id] = true
	return []byte(id)
}

func (ids *headingIDs) Put(value []byte) {
	ids.seen[string(value)] = true
}

func slug(text string) string {
	out := make([]rune, 0, len(text))
	dash := false
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && len(out) > 0 {
				out = append(out, '-')
			}
			dash = false
			out = append(out, unicode.ToLower(r))
		case unicode.IsSpace(r) || r == '-' || r == '_':
			dash = true
		}
	}
	return string(out)
}
