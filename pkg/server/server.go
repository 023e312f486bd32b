package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/placeholder"
	"github.com/bastiangx/stache/pkg/session"
	"github.com/bastiangx/stache/pkg/suggest"
)

// Options bound what a single request may ask for.
type Options struct {
	// MaxLimit caps the number of suggestions returned.
	MaxLimit int
	// MaxTextLength rejects texts longer than this many bytes.
	MaxTextLength int
	// Session configures every session the server creates.
	Session session.Options
}

// Server handles the IPC for placeholder completion
type Server struct {
	completer suggest.ICompleter
	opts      Options
	sessions  map[string]*session.Session

	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	out     *bufio.Writer
}

// NewServer creates a server on stdin/stdout.
func NewServer(completer suggest.ICompleter, opts Options) *Server {
	return NewServerWithIO(completer, opts, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server on the given streams.
func NewServerWithIO(completer suggest.ICompleter, opts Options, r io.Reader, w io.Writer) *Server {
	if opts.Session.Limit <= 0 {
		opts.Session.Limit = opts.MaxLimit
	}
	out := bufio.NewWriter(w)
	return &Server{
		completer: completer,
		opts:      opts,
		sessions:  make(map[string]*session.Session),
		decoder:   msgpack.NewDecoder(bufio.NewReader(r)),
		encoder:   msgpack.NewEncoder(out),
		out:       out,
	}
}

// Start announces readiness and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				log.Debugf("Input closed, %d sessions dropped", len(s.sessions))
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return err
		}
		s.handleRequest(raw)
	}
}

// handleRequest decodes one raw message and dispatches it by action.
func (s *Server) handleRequest(raw msgpack.RawMessage) {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		log.Warnf("Unmarshaling request: %v", err)
		s.sendError("", "invalid msgpack request", CodeBadRequest)
		return
	}
	if s.opts.MaxTextLength > 0 && len(req.Text) > s.opts.MaxTextLength {
		s.sendError(req.ID, fmt.Sprintf("text exceeds maximum length of %d bytes", s.opts.MaxTextLength), CodeBadRequest)
		return
	}
	log.Debugf("Request %s: %s sid=%q cursor=%d", req.ID, req.Action, req.Session, req.Cursor)

	switch req.Action {
	case ActionComplete:
		s.handleComplete(req)
	case ActionDecorate:
		s.handleDecorate(req)
	case ActionCommit:
		s.handleCommit(req)
	case ActionNext, ActionPrev:
		s.handleNavigate(req)
	case ActionConfirm:
		s.handleConfirm(req)
	case ActionCancel:
		s.withSession(req, func(sess *session.Session) {
			sess.Cancel()
			s.sendResponse(StatusResponse{ID: req.ID, Status: sess.State().String()})
		})
	case ActionPlace:
		s.withSession(req, func(sess *session.Session) {
			p, open := sess.Place(req.Caret, req.Container, req.Size, req.WindowHeight)
			s.sendResponse(PlacementResponse{ID: req.ID, Open: open, Placement: p})
		})
	case ActionCatalog:
		s.handleCatalog(req)
	case ActionClose:
		delete(s.sessions, req.Session)
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Sessions: len(s.sessions)})
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Sessions: len(s.sessions)})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %q", req.Action), CodeBadRequest)
	}
}

func (s *Server) handleComplete(req Request) {
	start := time.Now()
	limit := s.limit(req.Limit)

	var (
		res      *suggest.Result
		selected int
	)
	if req.Session != "" {
		sess, ok := s.sessions[req.Session]
		if !ok {
			sess = session.New(s.completer, s.opts.Session)
			s.sessions[req.Session] = sess
			log.Debugf("New session %s", req.Session)
		}
		res = sess.Update(session.Snapshot{Text: req.Text, Cursor: req.Cursor})
		_, selected, _ = sess.Selected()
	} else {
		res, _ = s.completer.Complete(req.Text, req.Cursor)
	}

	resp := completionResponse(req.ID, res, selected, limit)
	resp.TimeTaken = time.Since(start).Microseconds()
	s.sendResponse(resp)
}

func (s *Server) handleNavigate(req Request) {
	s.withSession(req, func(sess *session.Session) {
		if req.Action == ActionNext {
			sess.Next()
		} else {
			sess.Prev()
		}
		_, selected, _ := sess.Selected()
		s.sendResponse(completionResponse(req.ID, sess.Result(), selected, s.limit(req.Limit)))
	})
}

func (s *Server) handleConfirm(req Request) {
	s.withSession(req, func(sess *session.Session) {
		edit, err := sess.Confirm()
		if err != nil {
			s.sendEditError(req.ID, err)
			return
		}
		s.sendResponse(editResponse(req.ID, edit))
	})
}

func (s *Server) handleCommit(req Request) {
	if req.Value == "" {
		s.sendError(req.ID, "missing 'v' parameter", CodeBadRequest)
		return
	}

	if req.Session != "" {
		s.withSession(req, func(sess *session.Session) {
			res := sess.Result()
			if res == nil {
				s.sendEditError(req.ID, session.ErrNoSelection)
				return
			}
			idx := res.Index(catalog.Item{Value: req.Value})
			if idx < 0 {
				s.sendEditError(req.ID, fmt.Errorf("%w: %q", session.ErrUnknownCandidate, req.Value))
				return
			}
			edit, err := sess.Choose(res.Candidates[idx])
			if err != nil {
				s.sendEditError(req.ID, err)
				return
			}
			s.sendResponse(editResponse(req.ID, edit))
		})
		return
	}

	res, ok := s.completer.Complete(req.Text, req.Cursor)
	if !ok {
		s.sendError(req.ID, "cursor is not inside an open placeholder", CodeNotFound)
		return
	}
	idx := res.Index(catalog.Item{Value: req.Value})
	if idx < 0 {
		s.sendEditError(req.ID, fmt.Errorf("%w: %q", session.ErrUnknownCandidate, req.Value))
		return
	}
	edit, err := s.completer.Commit(req.Text, res, res.Candidates[idx])
	if err != nil {
		s.sendEditError(req.ID, err)
		return
	}
	s.sendResponse(editResponse(req.ID, edit))
}

func (s *Server) handleDecorate(req Request) {
	start := time.Now()
	visible := placeholder.FullRange(req.Text)
	if req.Visible != nil {
		visible = *req.Visible
	}
	decorations := placeholder.BuildDecorations(req.Text, visible)
	if decorations == nil {
		decorations = []placeholder.Decoration{}
	}
	s.sendResponse(DecorateResponse{
		ID:          req.ID,
		Decorations: decorations,
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleCatalog(req Request) {
	cat := s.completer.Catalog()
	s.sendResponse(CatalogResponse{
		ID:         req.ID,
		Items:      cat.Items(),
		Categories: cat.Categories(),
		Stats:      s.completer.Stats(),
	})
}

// withSession runs fn on the request's session or answers 404.
func (s *Server) withSession(req Request, fn func(*session.Session)) {
	if req.Session == "" {
		s.sendError(req.ID, "missing 'sid' parameter", CodeBadRequest)
		return
	}
	sess, ok := s.sessions[req.Session]
	if !ok {
		s.sendError(req.ID, fmt.Sprintf("unknown session: %q", req.Session), CodeNotFound)
		return
	}
	fn(sess)
}

// limit clamps the requested suggestion count to the configured maximum.
func (s *Server) limit(requested int) int {
	if requested <= 0 || (s.opts.MaxLimit > 0 && requested > s.opts.MaxLimit) {
		return s.opts.MaxLimit
	}
	return requested
}

// completionResponse renders at most limit candidates of res. The session keeps
// its full list so the selection can move past the rendered window.
func completionResponse(id string, res *suggest.Result, selected, limit int) CompletionResponse {
	resp := CompletionResponse{ID: id, Suggestions: []Suggestion{}}
	if res == nil {
		return resp
	}
	resp.Open = true
	resp.Query = res.Query
	resp.From = res.ReplaceFrom
	resp.To = res.ReplaceTo
	resp.Selected = selected
	for i, item := range res.Candidates {
		if limit > 0 && i >= limit {
			break
		}
		resp.Suggestions = append(resp.Suggestions, Suggestion{
			Value:       item.Value,
			Kind:        item.Kind,
			Category:    item.Category,
			Description: item.Description,
			Rank:        uint16(i + 1),
			Boost:       res.Boosts[i],
		})
	}
	resp.Count = len(resp.Suggestions)
	return resp
}

func editResponse(id string, edit suggest.Edit) EditResponse {
	return EditResponse{
		ID:     id,
		Text:   edit.Text,
		Cursor: edit.Cursor,
		From:   edit.From,
		To:     edit.To,
		Insert: edit.Insert,
	}
}

// sendEditError maps commit errors onto protocol codes.
func (s *Server) sendEditError(id string, err error) {
	switch {
	case errors.Is(err, suggest.ErrInvalidRange):
		s.sendError(id, err.Error(), CodeInvalidRange)
	case errors.Is(err, session.ErrUnknownCandidate), errors.Is(err, session.ErrNoSelection):
		s.sendError(id, err.Error(), CodeNotFound)
	default:
		log.Errorf("Commit failed: %v", err)
		s.sendError(id, err.Error(), CodeInternalError)
	}
}

// sendResponse encodes one response and flushes it so the client sees it immediately.
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	log.Debugf("Request %s failed (%d): %s", id, code, message)
	s.sendResponse(ErrorResponse{ID: id, Error: message, Code: code})
}
