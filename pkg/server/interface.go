/*
Package server implements msgpack IPC for placeholder completion.

The server reads a stream of msgpack-encoded requests from stdin and writes
exactly one msgpack response per request to stdout. Logs go to stderr so they
never interleave with the protocol. Requests are handled one at a time, in
order.

# IPC

Every request carries an ID, echoed back in the response, and an action:

	{"id": "r1", "a": "complete", "sid": "editor-1", "t": "Hello {{VISITOR.na", "c": 18}

The server answers with the ranked suggestions and the byte range a commit
would replace:

	{"id": "r1", "o": true, "q": "visitor.na", "f": 8, "to": 18,
	 "s": [{"v": "VISITOR.name", "k": "variable", "cat": "Visitor", "r": 1, "b": 2}], "n": 1, "t": 31}

Requests with a session ID ("sid") drive a suggestion session kept by the
server: complete updates it, next and prev move the selection, confirm commits
the selected candidate, commit commits an explicit one, cancel dismisses the
list, place positions the popup and close forgets the session. Without a
session ID, complete and commit work statelessly on the text they are given.

decorate returns the placeholder spans and tokens for a text, optionally only
those intersecting a visible window. catalog lists the loaded items, health is
a liveness probe.

# Errors

Failures return an ErrorResponse with an HTTP-like code:

	400  malformed request, unknown action, missing field, text too long
	404  unknown session, unknown candidate, nothing selected
	422  replacement range does not fit the text

# Message Types

Request is the single request envelope. CompletionResponse, DecorateResponse,
EditResponse, PlacementResponse, CatalogResponse and StatusResponse are the
success payloads, ErrorResponse the failure one. TimeTaken fields are in
microseconds.
*/
package server

import (
	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/placeholder"
	"github.com/bastiangx/stache/pkg/popup"
)

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionDecorate = "decorate"
	ActionCommit   = "commit"
	ActionNext     = "next"
	ActionPrev     = "prev"
	ActionConfirm  = "confirm"
	ActionCancel   = "cancel"
	ActionPlace    = "place"
	ActionCatalog  = "catalog"
	ActionClose    = "close"
	ActionHealth   = "health"
)

// Error codes.
const (
	CodeBadRequest    = 400
	CodeNotFound      = 404
	CodeInvalidRange  = 422
	CodeInternalError = 500
)

// Request is the envelope for every action.
type Request struct {
	ID      string `msgpack:"id"`
	Action  string `msgpack:"a"`
	Session string `msgpack:"sid,omitempty"`
	Text    string `msgpack:"t,omitempty"`
	Cursor  int    `msgpack:"c,omitempty"`
	Limit   int    `msgpack:"l,omitempty"`
	// Value names the candidate for commit.
	Value string `msgpack:"v,omitempty"`
	// Visible narrows decorate to a window of the text.
	Visible *placeholder.Range `msgpack:"vr,omitempty"`

	// Geometry for place.
	Caret        popup.Point `msgpack:"caret,omitempty"`
	Container    popup.Rect  `msgpack:"box,omitempty"`
	Size         popup.Size  `msgpack:"size,omitempty"`
	WindowHeight float64     `msgpack:"wh,omitempty"`
}

// Suggestion is one ranked candidate.
type Suggestion struct {
	Value       string       `msgpack:"v"`
	Kind        catalog.Kind `msgpack:"k"`
	Category    string       `msgpack:"cat,omitempty"`
	Description string       `msgpack:"d,omitempty"`
	Rank        uint16       `msgpack:"r"`
	Boost       int          `msgpack:"b"`
}

// CompletionResponse answers complete, next and prev.
type CompletionResponse struct {
	ID          string       `msgpack:"id"`
	Open        bool         `msgpack:"o"`
	Query       string       `msgpack:"q,omitempty"`
	From        int          `msgpack:"f"`
	To          int          `msgpack:"to"`
	Suggestions []Suggestion `msgpack:"s"`
	Selected    int          `msgpack:"sel"`
	Count       int          `msgpack:"n"`
	TimeTaken   int64        `msgpack:"t"`
}

// DecorateResponse answers decorate.
type DecorateResponse struct {
	ID          string                   `msgpack:"id"`
	Decorations []placeholder.Decoration `msgpack:"d"`
	TimeTaken   int64                    `msgpack:"t"`
}

// EditResponse answers commit and confirm.
type EditResponse struct {
	ID     string `msgpack:"id"`
	Text   string `msgpack:"t"`
	Cursor int    `msgpack:"c"`
	From   int    `msgpack:"f"`
	To     int    `msgpack:"to"`
	Insert string `msgpack:"i"`
}

// PlacementResponse answers place. Open is false when the session has no list
// to show, in which case Placement is zero.
type PlacementResponse struct {
	ID        string          `msgpack:"id"`
	Open      bool            `msgpack:"o"`
	Placement popup.Placement `msgpack:"p"`
}

// CatalogResponse answers catalog.
type CatalogResponse struct {
	ID         string         `msgpack:"id"`
	Items      []catalog.Item `msgpack:"items"`
	Categories []string       `msgpack:"categories"`
	Stats      map[string]int `msgpack:"stats"`
}

// StatusResponse answers health, cancel and close, and announces readiness.
type StatusResponse struct {
	ID       string `msgpack:"id,omitempty"`
	Status   string `msgpack:"status"`
	Sessions int    `msgpack:"sessions,omitempty"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
