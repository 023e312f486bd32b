// Package placeholder finds {{...}} spans in free text and classifies what is inside them.
//
// Only closed spans are reported. An opening {{ without a later }} is plain
// text, and a {{ found inside an open span never starts a nested one.
package placeholder

import "strings"

const (
	Open  = "{{"
	Close = "}}"
)

// Span is the half-open byte range [Start, End) of a closed placeholder,
// braces included.
type Span struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
}

// Inner returns the range between the braces.
func (s Span) Inner() (start, end int) {
	return s.Start + len(Open), s.End - len(Close)
}

// Contains reports whether offset lies within the span, braces included.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Scan returns the closed placeholder spans of text, left to right.
func Scan(text string) []Span {
	var spans []Span
	pos := 0
	for pos < len(text) {
		open := strings.Index(text[pos:], Open)
		if open < 0 {
			break
		}
		open += pos

		closeAt := strings.Index(text[open+len(Open):], Close)
		if closeAt < 0 {
			// Unterminated: no later }} exists, so nothing further can close either.
			break
		}
		end := open + len(Open) + closeAt + len(Close)
		spans = append(spans, Span{Start: open, End: end})
		pos = end
	}
	return spans
}

// SpanAt returns the closed span containing offset.
func SpanAt(text string, offset int) (Span, bool) {
	for _, sp := range Scan(text) {
		if sp.Contains(offset) {
			return sp, true
		}
		if sp.Start > offset {
			break
		}
	}
	return Span{}, false
}
