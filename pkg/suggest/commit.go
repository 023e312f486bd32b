package suggest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/placeholder"
)

// ErrInvalidRange is returned by Commit when the replacement range does not fit the text.
var ErrInvalidRange = errors.New("invalid replacement range")

// Edit is the outcome of a commit.
type Edit struct {
	Text   string
	Cursor int
	// From and To locate the replaced bytes in the input text; Insert is
	// what replaced them. Hosts with their own undo stack apply this instead of Text.
	From   int
	To     int
	Insert string
}

// Commit writes chosen into text over the result's replacement range, adding
// the closing braces unless they already follow. The cursor lands right after
// the inserted value.
func Commit(text string, res *Result, chosen catalog.Item) (Edit, error) {
	if res == nil {
		return Edit{}, fmt.Errorf("%w: no suggestion result", ErrInvalidRange)
	}
	from, to := res.ReplaceFrom, res.ReplaceTo
	if from < 0 || to > len(text) || from > to {
		return Edit{}, fmt.Errorf("%w: [%d, %d) in text of length %d", ErrInvalidRange, from, to, len(text))
	}

	insert := chosen.Value
	if !strings.HasPrefix(text[to:], placeholder.Close) {
		insert += placeholder.Close
	}

	var sb strings.Builder
	sb.Grow(len(text) - (to - from) + len(insert))
	sb.WriteString(text[:from])
	sb.WriteString(insert)
	sb.WriteString(text[to:])

	return Edit{
		Text:   sb.String(),
		Cursor: from + len(chosen.Value),
		From:   from,
		To:     to,
		Insert: insert,
	}, nil
}
