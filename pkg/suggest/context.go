package suggest

import (
	"strings"

	"github.com/bastiangx/stache/pkg/placeholder"
)

// Context describes an open placeholder at the cursor.
type Context struct {
	// Query is the lower-cased word/dot/underscore run between {{ and the cursor.
	Query string
	// OpenBrace is the offset of the first { of the opening pair.
	OpenBrace int
	Cursor    int
	// QueryEnd is where the replaceable text ends: the cursor, or the byte
	// before an existing }} that follows the rest of the word.
	QueryEnd         int
	HasClosingBraces bool
}

// From is the offset right after the opening braces.
func (c Context) From() int {
	return c.OpenBrace + len(placeholder.Open)
}

func isQueryByte(b byte) bool {
	return b == '_' || b == '.' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// DetectContext reports whether cursor sits right after "{{" plus an optional
// run of word, dot or underscore characters.
func DetectContext(text string, cursor int) (Context, bool) {
	if cursor < 0 || cursor > len(text) {
		return Context{}, false
	}

	start := cursor
	for start > 0 && isQueryByte(text[start-1]) {
		start--
	}
	if start < len(placeholder.Open) || text[start-len(placeholder.Open):start] != placeholder.Open {
		return Context{}, false
	}

	ctx := Context{
		Query:     strings.ToLower(text[start:cursor]),
		OpenBrace: start - len(placeholder.Open),
		Cursor:    cursor,
		QueryEnd:  cursor,
	}

	// Typing inside existing braces: the rest of the word up to }} is replaced too.
	tail := cursor
	for tail < len(text) && isQueryByte(text[tail]) {
		tail++
	}
	if strings.HasPrefix(text[tail:], placeholder.Close) {
		ctx.QueryEnd = tail
		ctx.HasClosingBraces = true
	}
	return ctx, true
}
