// Package cli is an interactive prompt for trying the completion engine by hand.
//
// Each line is a text snapshot; a '|' marks the cursor, otherwise the cursor
// sits at the end of the line. The prompt prints the text with its
// placeholders highlighted and, when the cursor is inside an open
// placeholder, the ranked suggestions. Commands drive the suggestion session:
//
//	:n   select the next suggestion
//	:p   select the previous suggestion
//	:ok  commit the selected suggestion
//	:c   dismiss the list
//	:q   quit
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/stache/pkg/session"
	"github.com/bastiangx/stache/pkg/suggest"
)

// CursorMarker marks the cursor position in an input line.
const CursorMarker = "|"

// InputHandler runs the prompt over one suggestion session.
type InputHandler struct {
	session *session.Session
	in      io.Reader
	out     io.Writer
	styles  styles
}

// NewInputHandler creates a prompt on stdin/stdout.
func NewInputHandler(completer suggest.ICompleter, opts session.Options) *InputHandler {
	return NewInputHandlerWithIO(completer, opts, os.Stdin, os.Stdout)
}

// NewInputHandlerWithIO creates a prompt on the given streams.
func NewInputHandlerWithIO(completer suggest.ICompleter, opts session.Options, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		session: session.New(completer, opts),
		in:      in,
		out:     out,
		styles:  newStyles(out),
	}
}

// Start runs the loop until :q or the end of input.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, "stache CLI")
	fmt.Fprintf(h.out, "type a template, %s marks the cursor. :n :p :ok :c :q\n", CursorMarker)

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			return nil
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := h.handleInput(line); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			return err
		}
	}
}

var errQuit = errors.New("quit")

// handleInput runs a command or takes the line as a new snapshot.
func (h *InputHandler) handleInput(line string) error {
	switch strings.TrimSpace(line) {
	case ":q":
		return errQuit
	case ":n":
		h.session.Next()
		h.printList()
	case ":p":
		h.session.Prev()
		h.printList()
	case ":c":
		h.session.Cancel()
		fmt.Fprintln(h.out, h.styles.dim.Render("  (dismissed)"))
	case ":ok":
		h.confirm()
	default:
		h.update(ParseLine(line))
	}
	return nil
}

// ParseLine splits a line into text and cursor at the first marker.
func ParseLine(line string) session.Snapshot {
	if i := strings.Index(line, CursorMarker); i >= 0 {
		return session.Snapshot{Text: line[:i] + line[i+len(CursorMarker):], Cursor: i}
	}
	return session.Snapshot{Text: line, Cursor: len(line)}
}

// FormatSnapshot is the inverse of ParseLine.
func FormatSnapshot(snap session.Snapshot) string {
	return snap.Text[:snap.Cursor] + CursorMarker + snap.Text[snap.Cursor:]
}

func (h *InputHandler) update(snap session.Snapshot) {
	start := time.Now()
	res := h.session.Update(snap)
	log.Debugf("Took [ %v ] for cursor %d", time.Since(start), snap.Cursor)

	fmt.Fprintln(h.out, h.styles.decorate(snap.Text))
	if res == nil {
		fmt.Fprintln(h.out, h.styles.dim.Render("  (cursor is not inside a placeholder)"))
		return
	}
	fmt.Fprintf(h.out, "%d suggestions for %q:\n", res.Len(), res.Query)
	h.printList()
}

func (h *InputHandler) printList() {
	res := h.session.Result()
	if res == nil {
		fmt.Fprintln(h.out, h.styles.dim.Render("  (no open list)"))
		return
	}
	_, selected, _ := h.session.Selected()
	fmt.Fprintln(h.out, h.styles.suggestions(res, selected))
}

func (h *InputHandler) confirm() {
	edit, err := h.session.Confirm()
	if err != nil {
		log.Warnf("Nothing to commit: %v", err)
		return
	}
	fmt.Fprintln(h.out, h.styles.decorate(edit.Text))
	fmt.Fprintln(h.out, FormatSnapshot(h.session.Snapshot()))
}
