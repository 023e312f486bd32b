package placeholder

import (
	"unicode/utf8"

	"github.com/bastiangx/stache/pkg/catalog"
)

// TokenKind classifies a piece of a placeholder.
type TokenKind uint8

const (
	Untyped TokenKind = iota
	BracketOpen
	BracketClose
	CategoryPrefix
	ValueFragment
	FunctionName
	Parameter
	QuotedString

	// space is consumed by the tokenizer but never emitted.
	space
)

var tokenKindNames = [...]string{
	Untyped:        "untyped",
	BracketOpen:    "bracket-open",
	BracketClose:   "bracket-close",
	CategoryPrefix: "category-prefix",
	ValueFragment:  "value-fragment",
	FunctionName:   "function-name",
	Parameter:      "parameter",
	QuotedString:   "quoted-string",
	space:          "space",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

// Token is a classified [Start, End) byte range inside a closed span.
type Token struct {
	Kind     TokenKind `msgpack:"k"`
	Start    int       `msgpack:"s"`
	End      int       `msgpack:"e"`
	Category string    `msgpack:"cat,omitempty"`
}

type mode uint8

const (
	outside mode = iota
	inBraces
	inBracesWithCategory
)

// state is the tokenizer state between two tokens. It is a value; transitions
// return a new one.
type state struct {
	mode     mode
	category string
}

func (s state) withCategory(category string) state {
	return state{mode: inBracesWithCategory, category: category}
}

// Tokenize classifies the contents of every closed span in text.
func Tokenize(text string) []Token {
	var tokens []Token
	for _, sp := range Scan(text) {
		tokens = append(tokens, TokenizeSpan(text, sp)...)
	}
	return tokens
}

// TokenizeSpan classifies one span returned by Scan.
func TokenizeSpan(text string, sp Span) []Token {
	innerStart, innerEnd := sp.Inner()
	tokens := []Token{{Kind: BracketOpen, Start: sp.Start, End: innerStart}}

	st := state{mode: inBraces}
	for pos := innerStart; pos < innerEnd; {
		var tok Token
		tok, st = next(st, text, pos, innerEnd)
		pos = tok.End

		if tok.Kind == space {
			continue
		}
		if last := len(tokens) - 1; tok.Kind == Untyped && tokens[last].Kind == Untyped && tokens[last].End == tok.Start {
			tokens[last].End = tok.End
			continue
		}
		tokens = append(tokens, tok)
	}

	return append(tokens, Token{Kind: BracketClose, Start: innerEnd, End: sp.End})
}

// next reads one token from text[pos:end]. It always consumes at least one byte.
func next(st state, text string, pos, end int) (Token, state) {
	rest := text[pos:end]

	if n := spaceRun(rest); n > 0 {
		return Token{Kind: space, Start: pos, End: pos + n}, st
	}

	if category, n := catalog.MatchPrefix(rest); n > 0 {
		return Token{Kind: CategoryPrefix, Start: pos, End: pos + n, Category: category}, st.withCategory(category)
	}

	ident := wordRun(rest)
	if ident > 0 && len(rest) > ident+1 && rest[ident] == '=' && rest[ident+1] == '\'' {
		return Token{Kind: Parameter, Start: pos, End: pos + ident + 1, Category: st.category}, st
	}

	if rest[0] == '\'' {
		if n := quotedRun(rest); n > 0 {
			return Token{Kind: QuotedString, Start: pos, End: pos + n}, st
		}
	}

	if ident > 0 {
		word := rest[:ident]
		if st.mode == inBracesWithCategory && catalog.IsVariableCategory(st.category) {
			return Token{Kind: ValueFragment, Start: pos, End: pos + ident, Category: st.category}, st
		}
		if group, ok := catalog.FunctionCategory(word); ok {
			return Token{Kind: FunctionName, Start: pos, End: pos + ident, Category: group}, st.withCategory(group)
		}
		return Token{Kind: Untyped, Start: pos, End: pos + ident}, st
	}

	_, size := utf8.DecodeRuneInString(rest)
	return Token{Kind: Untyped, Start: pos, End: pos + size}, st
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func wordRun(s string) int {
	n := 0
	for n < len(s) && isWordByte(s[n]) {
		n++
	}
	return n
}

func spaceRun(s string) int {
	n := 0
	for n < len(s) {
		switch s[n] {
		case ' ', '\t', '\n', '\r':
			n++
		default:
			return n
		}
	}
	return n
}

// quotedRun measures a single-quoted literal on one line, quotes included.
func quotedRun(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\'':
			return i + 1
		case '\n':
			return 0
		}
	}
	return 0
}
