package suggest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/placeholder"
)

func values(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Value
	}
	return out
}

func TestDetectContext(t *testing.T) {
	testCases := []struct {
		description string
		text        string
		cursor      int
		ok          bool
		query       string
		openBrace   int
		queryEnd    int
		closing     bool
	}{
		{"right after braces", "Hi {{", 5, true, "", 3, 5, false},
		{"partial path", "Hi {{VISITOR.na", 15, true, "visitor.na", 3, 15, false},
		{"cursor mid word", "{{VISITOR.na", 5, true, "vis", 0, 5, false},
		{"inside closed braces", "{{VIS}}", 5, true, "vis", 0, 5, true},
		{"mid word before closing", "{{VISITOR.name}} x", 5, true, "vis", 0, 14, true},
		{"empty closed braces", "{{}}", 2, true, "", 0, 2, true},
		{"plain text", "hello", 5, false, "", 0, 0, false},
		{"single brace", "{VISITOR", 8, false, "", 0, 0, false},
		{"after closed span", "{{a}} ", 6, false, "", 0, 0, false},
		{"right after closing braces", "{{a}}", 5, false, "", 0, 0, false},
		{"space breaks the run", "{{eq a", 6, false, "", 0, 0, false},
		{"cursor before text", "{{a", -1, false, "", 0, 0, false},
		{"cursor after text", "{{a", 4, false, "", 0, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			ctx, ok := DetectContext(tc.text, tc.cursor)
			require.Equal(t, tc.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tc.query, ctx.Query)
			assert.Equal(t, tc.openBrace, ctx.OpenBrace)
			assert.Equal(t, tc.cursor, ctx.Cursor)
			assert.Equal(t, tc.queryEnd, ctx.QueryEnd)
			assert.Equal(t, tc.closing, ctx.HasClosingBraces)
		})
	}
}

func TestComputeEveryCursorInsideUnclosedRun(t *testing.T) {
	text := "say {{foo"
	open := strings.Index(text, "{{") + 2
	for cursor := open; cursor <= len(text); cursor++ {
		res, ok := Compute(text, cursor, catalog.Default())
		require.True(t, ok, "cursor %d", cursor)
		assert.Equal(t, text[open:cursor], res.Query)
		assert.Equal(t, open, res.ReplaceFrom)
	}
}

func TestComputeOutsidePlaceholders(t *testing.T) {
	text := "a {{VISITOR.name}} b"
	for cursor := 0; cursor <= len(text); cursor++ {
		if cursor >= 4 && cursor <= 16 {
			continue
		}
		_, ok := Compute(text, cursor, catalog.Default())
		assert.False(t, ok, "cursor %d", cursor)
	}
}

func TestRankingPrefersPrefixMatches(t *testing.T) {
	cat := catalog.MustNew([]catalog.Item{
		{Value: "CONTACT.name", Category: catalog.CategoryContact},
		{Value: "CONTACT.company", Category: catalog.CategoryContact},
		{Value: "company.size"},
		{Value: "VISITOR.company", Category: catalog.CategoryVisitor},
	})

	res, ok := Compute("{{com", 5, cat)
	require.True(t, ok)
	assert.Equal(t, []string{"company.size", "CONTACT.company", "VISITOR.company"}, values(res.Candidates))
	assert.Equal(t, []int{BoostPrefix, BoostSubstring, BoostSubstring}, res.Boosts)
}

func TestRankingIsCaseInsensitive(t *testing.T) {
	res, ok := Compute("{{contact.C", 11, catalog.Default())
	require.True(t, ok)
	assert.Equal(t, []string{"CONTACT.company", "CONTACT.country", "CONTACT.city"}, values(res.Candidates))
}

func TestEmptyQueryReturnsWholeCatalog(t *testing.T) {
	cat := catalog.Default()
	res, ok := Compute("{{", 2, cat)
	require.True(t, ok)
	assert.Equal(t, values(cat.Items()), values(res.Candidates))
}

func TestNoMatchesIsNotNull(t *testing.T) {
	res, ok := Compute("{{zzz", 5, catalog.Default())
	require.True(t, ok)
	require.NotNil(t, res)
	assert.Empty(t, res.Candidates)

	res, ok = Compute("{{a", 3, catalog.MustNew(nil))
	require.True(t, ok)
	assert.Empty(t, res.Candidates)
}

func TestLimit(t *testing.T) {
	res, _ := Compute("{{", 2, catalog.Default())
	res.Limit(3)
	assert.Len(t, res.Candidates, 3)
	assert.Len(t, res.Boosts, 3)

	res.Limit(0)
	assert.Len(t, res.Candidates, 3)
}

func TestEndToEndVisitorName(t *testing.T) {
	text := "Hello {{VISITOR.na"
	res, ok := Compute(text, len(text), catalog.Default())
	require.True(t, ok)
	assert.Equal(t, "visitor.na", res.Query)
	require.Equal(t, []string{"VISITOR.name"}, values(res.Candidates))

	edit, err := Commit(text, res, res.Candidates[0])
	require.NoError(t, err)
	assert.Equal(t, "Hello {{VISITOR.name}}", edit.Text)
	assert.Equal(t, 20, edit.Cursor)
	assert.Equal(t, "}}", edit.Text[edit.Cursor:])
}

func TestCommitReusesClosingBraces(t *testing.T) {
	text := "x {{VIS}} y"
	res, ok := Compute(text, 7, catalog.Default())
	require.True(t, ok)
	require.True(t, res.HasClosingBraces)

	item, _ := catalog.Default().Lookup("VISITOR.region")
	edit, err := Commit(text, res, item)
	require.NoError(t, err)
	assert.Equal(t, "x {{VISITOR.region}} y", edit.Text)
	assert.Equal(t, strings.Index(edit.Text, "}}"), edit.Cursor)
}

func TestCommitReplacesWordTailInsideBraces(t *testing.T) {
	text := "{{VISITOR.name}}"
	res, ok := Compute(text, 4, catalog.Default())
	require.True(t, ok)

	item, _ := catalog.Default().Lookup("VISITOR.language")
	edit, err := Commit(text, res, item)
	require.NoError(t, err)
	assert.Equal(t, "{{VISITOR.language}}", edit.Text)
}

func TestCommitRoundTripsThroughScan(t *testing.T) {
	cat := catalog.Default()
	texts := []string{"{{", "a {{con", "{{eq", "pre {{SESSION.st}} post", "{{a}} {{flow."}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			cursor := len(text)
			if i := strings.Index(text, "}} post"); i >= 0 {
				cursor = i
			}
			res, ok := Compute(text, cursor, cat)
			require.True(t, ok)
			require.NotEmpty(t, res.Candidates)

			chosen := res.Candidates[0]
			edit, err := Commit(text, res, chosen)
			require.NoError(t, err)

			want := placeholder.Span{Start: res.ReplaceFrom - 2, End: res.ReplaceFrom + len(chosen.Value) + 2}
			assert.Contains(t, placeholder.Scan(edit.Text), want)
			assert.Equal(t, "{{"+chosen.Value+"}}", edit.Text[want.Start:want.End])
		})
	}
}

func TestCommitInvalidRange(t *testing.T) {
	item := catalog.Item{Value: "x"}
	testCases := []struct {
		description string
		res         *Result
	}{
		{"nil result", nil},
		{"negative from", &Result{ReplaceFrom: -1, ReplaceTo: 0}},
		{"to past end", &Result{ReplaceFrom: 0, ReplaceTo: 10}},
		{"from after to", &Result{ReplaceFrom: 2, ReplaceTo: 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			edit, err := Commit("{{ab", tc.res, item)
			require.ErrorIs(t, err, ErrInvalidRange)
			assert.Equal(t, Edit{}, edit)
		})
	}
}

func TestCompleterStats(t *testing.T) {
	c := NewCompleter(catalog.Default())
	stats := c.Stats()
	assert.Equal(t, catalog.Default().Len(), stats["totalItems"])
	assert.Equal(t, 9, stats["functions"])
	assert.Equal(t, 7, stats["categories"])

	_, ok := NewCompleter(nil).Complete("{{", 2)
	assert.True(t, ok)
}
