package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/popup"
	"github.com/bastiangx/stache/pkg/suggest"
)

func newSession(opts Options) *Session {
	return New(suggest.NewCompleter(catalog.Default()), opts)
}

func at(text string) Snapshot {
	return Snapshot{Text: text, Cursor: len(text)}
}

func selectedValue(t *testing.T, s *Session) string {
	t.Helper()
	item, _, ok := s.Selected()
	require.True(t, ok)
	return item.Value
}

func TestUpdateOpensAndCloses(t *testing.T) {
	s := newSession(DefaultOptions())
	assert.Equal(t, Closed, s.State())
	assert.Nil(t, s.Result())

	res := s.Update(at("Hi {{VISITOR."))
	require.NotNil(t, res)
	assert.Equal(t, Open, s.State())
	assert.Equal(t, []string{"VISITOR.name", "VISITOR.region", "VISITOR.language"}, values(res.Candidates))

	assert.Nil(t, s.Update(at("Hi {{VISITOR.name}} ")))
	assert.Equal(t, Closed, s.State())
	assert.Nil(t, s.Result())
}

func TestOpenWithNoMatches(t *testing.T) {
	s := newSession(DefaultOptions())
	res := s.Update(at("{{zzz"))
	require.NotNil(t, res)
	assert.True(t, s.IsOpen())

	_, _, ok := s.Selected()
	assert.False(t, ok)

	s.Next()
	s.Prev()
	_, err := s.Confirm()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestNavigationWraps(t *testing.T) {
	s := newSession(DefaultOptions())
	s.Update(at("{{VISITOR."))

	assert.Equal(t, "VISITOR.name", selectedValue(t, s))
	s.Prev()
	assert.Equal(t, "VISITOR.language", selectedValue(t, s))
	s.Next()
	assert.Equal(t, "VISITOR.name", selectedValue(t, s))
	s.Next()
	s.Next()
	assert.Equal(t, "VISITOR.language", selectedValue(t, s))
	s.Next()
	assert.Equal(t, "VISITOR.name", selectedValue(t, s))
}

func TestNavigationWhileClosedIsNoop(t *testing.T) {
	s := newSession(DefaultOptions())
	s.Next()
	s.Prev()
	assert.Equal(t, Closed, s.State())
	_, idx, ok := s.Selected()
	assert.False(t, ok)
	assert.Equal(t, -1, idx)
}

func TestSelectionResetsOnUpdate(t *testing.T) {
	s := newSession(DefaultOptions())
	s.Update(at("{{VISITOR."))
	s.Next()
	require.Equal(t, "VISITOR.region", selectedValue(t, s))

	s.Update(at("{{VISITOR.r"))
	_, idx, _ := s.Selected()
	assert.Equal(t, 0, idx)
}

func TestPreserveSelection(t *testing.T) {
	opts := DefaultOptions()
	opts.PreserveSelection = true

	testCases := []struct {
		description string
		first       string
		moves       int
		second      string
		want        string
	}{
		{"keeps the same item", "{{VISITOR.", 2, "{{VISITOR.", "VISITOR.language"},
		{"follows the item to a new index", "{{CONTACT.", 5, "{{CONTACT.c", "CONTACT.city"},
		{"clamps when the item is gone", "{{CONTACT.", 7, "{{CONTACT.c", "CONTACT.city"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			s := newSession(opts)
			s.Update(at(tc.first))
			for range tc.moves {
				s.Next()
			}
			s.Update(at(tc.second))
			assert.Equal(t, tc.want, selectedValue(t, s))
		})
	}
}

func TestConfirmCommitsAndCloses(t *testing.T) {
	s := newSession(DefaultOptions())
	s.Update(at("Hello {{VISITOR.na"))

	edit, err := s.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "Hello {{VISITOR.name}}", edit.Text)
	assert.Equal(t, 20, edit.Cursor)
	assert.Equal(t, Closed, s.State())
	assert.Equal(t, Snapshot{Text: edit.Text, Cursor: 20}, s.Snapshot())

	_, err = s.Confirm()
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestChoose(t *testing.T) {
	s := newSession(DefaultOptions())
	s.Update(at("{{VISITOR."))

	_, err := s.Choose(catalog.Item{Value: "CONTACT.name"})
	require.ErrorIs(t, err, ErrUnknownCandidate)
	assert.True(t, s.IsOpen())

	edit, err := s.Choose(catalog.Item{Value: "VISITOR.region"})
	require.NoError(t, err)
	assert.Equal(t, "{{VISITOR.region}}", edit.Text)
	assert.False(t, s.IsOpen())

	_, err = s.Choose(catalog.Item{Value: "VISITOR.region"})
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestCancelAndClickOutside(t *testing.T) {
	for name, dismiss := range map[string]func(*Session){
		"cancel":        (*Session).Cancel,
		"click outside": (*Session).ClickOutside,
	} {
		t.Run(name, func(t *testing.T) {
			s := newSession(DefaultOptions())
			s.Update(at("{{"))
			require.True(t, s.IsOpen())

			dismiss(s)
			assert.False(t, s.IsOpen())
			assert.Equal(t, at("{{"), s.Snapshot())
		})
	}
}

func TestLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.Limit = 4
	s := newSession(opts)
	res := s.Update(at("{{"))
	assert.Len(t, res.Candidates, 4)

	s.Prev()
	_, idx, _ := s.Selected()
	assert.Equal(t, 3, idx)
}

func TestPlaceOnlyWhileOpen(t *testing.T) {
	s := newSession(DefaultOptions())
	caret := popup.Point{X: 10, Y: 760}
	container := popup.Rect{Top: 560, Width: 800, Height: 240}
	size := popup.Size{Width: 380, Height: 300}

	_, ok := s.Place(caret, container, size, 800)
	assert.False(t, ok)

	s.Update(at("{{"))
	p, ok := s.Place(caret, container, size, 800)
	require.True(t, ok)
	assert.True(t, p.PlaceAbove)
}

func TestIndependentSessionsConcurrently(t *testing.T) {
	completer := suggest.NewCompleter(catalog.Default())
	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := range 64 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := New(completer, DefaultOptions())
			prefix := fmt.Sprintf("line %d {{", i)
			for _, q := range []string{"", "C", "CO", "CON", "CONTACT.", "CONTACT.e"} {
				s.Update(at(prefix + q))
			}
			edit, err := s.Confirm()
			if err != nil {
				errs <- err
				return
			}
			if want := prefix + "CONTACT.email}}"; edit.Text != want {
				errs <- fmt.Errorf("session %d: got %q, want %q", i, edit.Text, want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func values(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Value
	}
	return out
}
