package suggest

import (
	"github.com/bastiangx/stache/pkg/catalog"
)

// Boost values used for ranking. Higher sorts first.
const (
	BoostPrefix    = 2
	BoostSubstring = 1
)

// Result is the suggestion list for one text/cursor snapshot.
type Result struct {
	ReplaceFrom      int
	ReplaceTo        int
	Query            string
	HasClosingBraces bool
	Candidates       []catalog.Item
	Boosts           []int
}

// Len reports the number of candidates.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Candidates)
}

// Limit truncates the candidate list to at most n entries. n <= 0 keeps all.
func (r *Result) Limit(n int) {
	if r == nil || n <= 0 || len(r.Candidates) <= n {
		return
	}
	r.Candidates = r.Candidates[:n]
	r.Boosts = r.Boosts[:n]
}

// Index returns the position of item in the candidate list, or -1.
func (r *Result) Index(item catalog.Item) int {
	if r == nil {
		return -1
	}
	for i, c := range r.Candidates {
		if c.Value == item.Value {
			return i
		}
	}
	return -1
}

// Compute returns the suggestions for cursor within text. ok is false when the
// cursor is not inside an open placeholder; a context with no matches yields
// a non-nil result with no candidates.
func Compute(text string, cursor int, cat *catalog.Catalog) (*Result, bool) {
	ctx, ok := DetectContext(text, cursor)
	if !ok {
		return nil, false
	}
	return Rank(ctx, cat), true
}

// Rank filters cat by ctx.Query and orders prefix matches before substring
// matches, keeping catalog order within each group.
func Rank(ctx Context, cat *catalog.Catalog) *Result {
	res := &Result{
		ReplaceFrom:      ctx.From(),
		ReplaceTo:        ctx.QueryEnd,
		Query:            ctx.Query,
		HasClosingBraces: ctx.HasClosingBraces,
		Candidates:       []catalog.Item{},
		Boosts:           []int{},
	}

	prefixed, contained := cat.Match(ctx.Query)
	for _, i := range prefixed {
		res.Candidates = append(res.Candidates, cat.At(i))
		res.Boosts = append(res.Boosts, BoostPrefix)
	}
	for _, i := range contained {
		res.Candidates = append(res.Candidates, cat.At(i))
		res.Boosts = append(res.Boosts, BoostSubstring)
	}
	return res
}
