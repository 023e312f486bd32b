package placeholder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/stache/pkg/catalog"
)

func TestScan(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		want        []Span
	}{
		{"no placeholders", "plain text", nil},
		{"single", "Hi {{VISITOR.name}}!", []Span{{3, 19}}},
		{"two disjoint", "{{a}} and {{b}}", []Span{{0, 5}, {10, 15}}},
		{"adjacent", "{{a}}{{b}}", []Span{{0, 5}, {5, 10}}},
		{"empty interior", "{{}}", []Span{{0, 4}}},
		{"unterminated", "Hello {{VISITOR.na", nil},
		{"closed then unterminated", "{{a}} {{b", []Span{{0, 5}}},
		{"no nesting", "{{a {{b}} c}}", []Span{{0, 9}}},
		{"triple open brace", "{{{a}}", []Span{{0, 6}}},
		{"stray closing", "a}} {{b}}", []Span{{4, 9}}},
		{"multiline", "{{eq a='1'\n b='2'}}", []Span{{0, 19}}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := Scan(tc.text)
			assert.Equal(t, tc.want, got)
			for _, sp := range got {
				assert.Equal(t, Open, tc.text[sp.Start:sp.Start+2])
				assert.Equal(t, Close, tc.text[sp.End-2:sp.End])
				assert.Less(t, sp.Start, sp.End)
			}
		})
	}
}

func TestScanSpansAreOrderedAndDisjoint(t *testing.T) {
	text := "x {{FLOW.a}} y {{eq a='1' b='2'}} z {{SESSION.status}} {{open"
	spans := Scan(text)
	require.Len(t, spans, 3)
	for i := 1; i < len(spans); i++ {
		assert.LessOrEqual(t, spans[i-1].End, spans[i].Start)
	}
}

func TestSpanAt(t *testing.T) {
	text := "a {{b}} c"
	sp, ok := SpanAt(text, 4)
	require.True(t, ok)
	assert.Equal(t, Span{2, 7}, sp)

	_, ok = SpanAt(text, 7)
	assert.False(t, ok)
}

type tok struct {
	kind     TokenKind
	text     string
	category string
}

func simplify(text string, tokens []Token) []tok {
	out := make([]tok, len(tokens))
	for i, t := range tokens {
		out[i] = tok{t.Kind, text[t.Start:t.End], t.Category}
	}
	return out
}

func TestTokenize(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		want        []tok
	}{
		{
			"variable",
			"{{VISITOR.name}}",
			[]tok{
				{BracketOpen, "{{", ""},
				{CategoryPrefix, "VISITOR.", catalog.CategoryVisitor},
				{ValueFragment, "name", catalog.CategoryVisitor},
				{BracketClose, "}}", ""},
			},
		},
		{
			"prefix is case-insensitive",
			"{{flow.last_response}}",
			[]tok{
				{BracketOpen, "{{", ""},
				{CategoryPrefix, "flow.", catalog.CategoryFlow},
				{ValueFragment, "last_response", catalog.CategoryFlow},
				{BracketClose, "}}", ""},
			},
		},
		{
			"nested path",
			"{{CONTACT.address.city}}",
			[]tok{
				{BracketOpen, "{{", ""},
				{CategoryPrefix, "CONTACT.", catalog.CategoryContact},
				{ValueFragment, "address", catalog.CategoryContact},
				{Untyped, ".", ""},
				{ValueFragment, "city", catalog.CategoryContact},
				{BracketClose, "}}", ""},
			},
		},
		{
			"function with parameters",
			"{{eq a='value1' b='value2'}}",
			[]tok{
				{BracketOpen, "{{", ""},
				{FunctionName, "eq", catalog.CategoryEquality},
				{Parameter, "a=", catalog.CategoryEquality},
				{QuotedString, "'value1'", ""},
				{Parameter, "b=", catalog.CategoryEquality},
				{QuotedString, "'value2'", ""},
				{BracketClose, "}}", ""},
			},
		},
		{
			"function name must be a whole word",
			"{{equals}}",
			[]tok{
				{BracketOpen, "{{", ""},
				{Untyped, "equals", ""},
				{BracketClose, "}}", ""},
			},
		},
		{
			"unknown characters merge",
			"{{#$%}}",
			[]tok{
				{BracketOpen, "{{", ""},
				{Untyped, "#$%", ""},
				{BracketClose, "}}", ""},
			},
		},
		{
			"unterminated quote",
			"{{trim str='abc}}",
			[]tok{
				{BracketOpen, "{{", ""},
				{FunctionName, "trim", catalog.CategoryString},
				{Parameter, "str=", catalog.CategoryString},
				{Untyped, "'abc", ""},
				{BracketClose, "}}", ""},
			},
		},
		{
			"only closed spans",
			"{{VISITOR.name",
			[]tok{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.want, simplify(tc.text, Tokenize(tc.text)))
		})
	}
}

func TestBuildDecorationsVisibleWindow(t *testing.T) {
	text := "{{a}} middle {{VISITOR.name}} tail {{b}}"
	all := BuildDecorations(text, FullRange(text))
	require.Len(t, all, 3)
	for _, d := range all {
		assert.Equal(t, StylePlaceholder, d.Style)
		assert.NotEmpty(t, d.Tokens)
	}

	// A window that cuts through the middle span still reports it whole.
	got := BuildDecorations(text, Range{Start: 20, End: 22})
	require.Len(t, got, 1)
	assert.Equal(t, Span{13, 29}, got[0].Span)

	assert.Empty(t, BuildDecorations(text, Range{Start: 5, End: 13}))
}

func TestBuildDecorationsIsIdempotent(t *testing.T) {
	text := "{{eq a='1' b='2'}} and {{CONTACT.email}} {{open"
	r := Range{Start: 0, End: 30}
	assert.Equal(t, BuildDecorations(text, r), BuildDecorations(text, r))
}
