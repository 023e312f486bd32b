package placeholder

// StylePlaceholder is the generic style every decorated span carries.
const StylePlaceholder = "placeholder"

// Range is a half-open [Start, End) byte window, usually the host's viewport.
type Range struct {
	Start int `msgpack:"s"`
	End   int `msgpack:"e"`
}

// FullRange covers all of text.
func FullRange(text string) Range {
	return Range{Start: 0, End: len(text)}
}

// Intersects reports whether sp overlaps r.
func (r Range) Intersects(sp Span) bool {
	return sp.Start < r.End && sp.End > r.Start
}

// Decoration is one highlighted span plus its finer-grained tokens.
type Decoration struct {
	Span
	Style  string  `msgpack:"st"`
	Tokens []Token `msgpack:"tk,omitempty"`
}

// BuildDecorations returns a decoration for every closed span that intersects
// visible, left to right. Spans are found on the whole text so a placeholder
// straddling the window edge is still reported whole.
func BuildDecorations(text string, visible Range) []Decoration {
	var out []Decoration
	for _, sp := range Scan(text) {
		if sp.Start >= visible.End {
			break
		}
		if !visible.Intersects(sp) {
			continue
		}
		out = append(out, Decoration{
			Span:   sp,
			Style:  StylePlaceholder,
			Tokens: TokenizeSpan(text, sp),
		})
	}
	return out
}
