// Package session tracks one editing surface's suggestion list.
//
// A Session is either Closed or Open. Every text or cursor change is fed in as
// a Snapshot; the session recomputes suggestions and opens or closes itself.
// While Open it keeps a selected candidate that Next and Prev move around, and
// Confirm or Choose commit a candidate into the text and close the list.
//
// A Session belongs to a single surface and must not be shared between
// goroutines. Independent sessions over the same completer are fine.
package session

import (
	"errors"
	"fmt"

	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/popup"
	"github.com/bastiangx/stache/pkg/suggest"
)

var (
	// ErrNoSelection is returned when committing while the list is closed or empty.
	ErrNoSelection = errors.New("no suggestion selected")
	// ErrUnknownCandidate is returned by Choose for an item the open list does not offer.
	ErrUnknownCandidate = errors.New("candidate not in current suggestions")
)

// State is the session's visibility state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

// Snapshot is the surface's text and cursor taken together.
type Snapshot struct {
	Text   string `msgpack:"t"`
	Cursor int    `msgpack:"c"`
}

// Options configure a session.
type Options struct {
	// PreserveSelection keeps the selected candidate across updates when it is
	// still offered, otherwise clamps the old index. Off resets to the top.
	PreserveSelection bool
	// Limit caps the number of candidates. 0 keeps all.
	Limit int
	Popup popup.Options
}

// DefaultOptions returns options with the default popup policy.
func DefaultOptions() Options {
	return Options{Popup: popup.DefaultOptions()}
}

// Session is the suggestion state machine for one surface.
type Session struct {
	completer suggest.ICompleter
	opts      Options

	snap     Snapshot
	state    State
	result   *suggest.Result
	selected int
}

// New creates a closed session.
func New(completer suggest.ICompleter, opts Options) *Session {
	return &Session{completer: completer, opts: opts}
}

// State reports whether the list is open.
func (s *Session) State() State { return s.state }

// IsOpen is shorthand for State() == Open.
func (s *Session) IsOpen() bool { return s.state == Open }

// Snapshot returns the last text and cursor the session saw.
func (s *Session) Snapshot() Snapshot { return s.snap }

// Result returns the open suggestion list, or nil when closed.
func (s *Session) Result() *suggest.Result {
	if s.state != Open {
		return nil
	}
	return s.result
}

// Selected returns the selected candidate and its index.
func (s *Session) Selected() (catalog.Item, int, bool) {
	if s.state != Open || s.result.Len() == 0 {
		return catalog.Item{}, -1, false
	}
	return s.result.Candidates[s.selected], s.selected, true
}

// Update recomputes suggestions for snap. It returns the new result, or nil
// when the cursor is no longer inside an open placeholder.
func (s *Session) Update(snap Snapshot) *suggest.Result {
	s.snap = snap

	res, ok := s.completer.Complete(snap.Text, snap.Cursor)
	if !ok {
		s.close()
		return nil
	}
	res.Limit(s.opts.Limit)

	prev, _, hadSelection := s.Selected()
	prevIndex := s.selected
	s.result = res
	s.state = Open
	s.selected = 0

	if s.opts.PreserveSelection && hadSelection {
		if i := res.Index(prev); i >= 0 {
			s.selected = i
		} else {
			s.selected = clamp(prevIndex, res.Len())
		}
	}
	return res
}

// Next moves the selection down, wrapping to the top.
func (s *Session) Next() {
	if n := s.result.Len(); s.state == Open && n > 0 {
		s.selected = (s.selected + 1) % n
	}
}

// Prev moves the selection up, wrapping to the bottom.
func (s *Session) Prev() {
	if n := s.result.Len(); s.state == Open && n > 0 {
		s.selected = (s.selected - 1 + n) % n
	}
}

// Confirm commits the selected candidate and closes the list.
func (s *Session) Confirm() (suggest.Edit, error) {
	item, _, ok := s.Selected()
	if !ok {
		return suggest.Edit{}, ErrNoSelection
	}
	return s.commit(item)
}

// Choose commits item, which must be one of the open candidates.
func (s *Session) Choose(item catalog.Item) (suggest.Edit, error) {
	if s.state != Open {
		return suggest.Edit{}, ErrNoSelection
	}
	if s.result.Index(item) < 0 {
		return suggest.Edit{}, fmt.Errorf("%w: %q", ErrUnknownCandidate, item.Value)
	}
	return s.commit(item)
}

// Cancel closes the list without editing.
func (s *Session) Cancel() { s.close() }

// ClickOutside closes the list when the user clicks away from the popup.
func (s *Session) ClickOutside() { s.close() }

// Place computes the popup position for the open list.
func (s *Session) Place(caret popup.Point, container popup.Rect, size popup.Size, windowHeight float64) (popup.Placement, bool) {
	if s.state != Open {
		return popup.Placement{}, false
	}
	return popup.ComputePlacement(caret, container, size, windowHeight, s.opts.Popup), true
}

func (s *Session) commit(item catalog.Item) (suggest.Edit, error) {
	edit, err := s.completer.Commit(s.snap.Text, s.result, item)
	if err != nil {
		return suggest.Edit{}, err
	}
	s.snap = Snapshot{Text: edit.Text, Cursor: edit.Cursor}
	s.close()
	return edit, nil
}

func (s *Session) close() {
	s.state = Closed
	s.result = nil
	s.selected = 0
}

func clamp(i, n int) int {
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}
