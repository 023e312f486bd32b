// Package lsp serves placeholder completion, highlighting and hover to editors
// over the Language Server Protocol.
package lsp

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bastiangx/stache/internal/utils"
	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/placeholder"
	"github.com/bastiangx/stache/pkg/suggest"
)

// ServerName is reported to clients during initialize.
const ServerName = "stache"

// maxDocuments caps how many open documents one client may keep in memory.
const maxDocuments = 100

// ErrTooManyDocuments is returned by didOpen once maxDocuments are open.
var ErrTooManyDocuments = errors.New("document limit reached")

// Semantic token type indices. Must match the order of TokenTypes.
const (
	TokenTypeOperator uint32 = iota
	TokenTypeNamespace
	TokenTypeVariable
	TokenTypeFunction
	TokenTypeParameter
	TokenTypeString
)

// TokenTypes is the semantic tokens legend.
var TokenTypes = []string{
	"operator",  // {{ and }}
	"namespace", // VISITOR.
	"variable",  // name
	"function",  // eq
	"parameter", // a=
	"string",    // 'value'
}

// TriggerCharacters open completion without an explicit request.
var TriggerCharacters = []string{"{", "."}

// Handler implements the LSP methods for one client connection.
type Handler struct {
	completer suggest.ICompleter
	version   string
	limit     int

	documents map[string]string // URI → document text
	mu        sync.RWMutex
}

// NewHandler creates a handler. limit caps completion items; 0 keeps all.
func NewHandler(completer suggest.ICompleter, version string, limit int) *Handler {
	return &Handler{
		completer: completer,
		version:   version,
		limit:     limit,
		documents: make(map[string]string),
	}
}

// Protocol wires the handler into a glsp protocol handler.
func (h *Handler) Protocol() *protocol.Handler {
	return &protocol.Handler{
		Initialize:                     h.Initialize,
		Initialized:                    h.Initialized,
		Shutdown:                       h.Shutdown,
		SetTrace:                       h.SetTrace,
		TextDocumentDidOpen:            h.TextDocumentDidOpen,
		TextDocumentDidChange:          h.TextDocumentDidChange,
		TextDocumentDidClose:           h.TextDocumentDidClose,
		TextDocumentCompletion:         h.TextDocumentCompletion,
		TextDocumentHover:              h.TextDocumentHover,
		TextDocumentSemanticTokensFull: h.TextDocumentSemanticTokensFull,
	}
}

// Initialize handles LSP initialize request
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	if params.ClientInfo != nil {
		log.Debugf("LSP client initializing: %s", params.ClientInfo.Name)
	}

	syncKind := protocol.TextDocumentSyncKindFull
	openClose := true
	capabilities := protocol.ServerCapabilities{
		CompletionProvider: &protocol.CompletionOptions{
			TriggerCharacters: TriggerCharacters,
		},
		HoverProvider: true,
		TextDocumentSync: &protocol.TextDocumentSyncOptions{
			OpenClose: &openClose,
			Change:    &syncKind,
		},
		SemanticTokensProvider: &protocol.SemanticTokensOptions{
			Legend: protocol.SemanticTokensLegend{
				TokenTypes:     TokenTypes,
				TokenModifiers: []string{},
			},
			Full: true,
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: &h.version,
		},
	}, nil
}

// Initialized is called after client receives InitializeResult
func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Debug("LSP client initialized")
	return nil
}

// Shutdown handles LSP shutdown request
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Debug("LSP client shutting down")
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

// SetTrace records the client's requested trace level.
func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles document open notifications
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := string(params.TextDocument.URI)
	if _, exists := h.documents[uri]; !exists && len(h.documents) >= maxDocuments {
		log.Warnf("Rejecting %s: %d documents already open", uri, len(h.documents))
		return fmt.Errorf("%w (%d documents open)", ErrTooManyDocuments, maxDocuments)
	}
	h.documents[uri] = params.TextDocument.Text
	log.Debugf("Document opened: %s (%d bytes, %d open)", uri, len(params.TextDocument.Text), len(h.documents))
	return nil
}

// TextDocumentDidChange replaces the document; sync is always full.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := string(params.TextDocument.URI)
	for _, change := range params.ContentChanges {
		if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			h.documents[uri] = whole.Text
		}
	}
	return nil
}

// TextDocumentDidClose handles document close notifications
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	uri := string(params.TextDocument.URI)
	delete(h.documents, uri)
	log.Debugf("Document closed: %s", uri)
	return nil
}

func (h *Handler) document(uri protocol.DocumentUri) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	text, ok := h.documents[string(uri)]
	return text, ok
}

// TextDocumentCompletion returns ranked catalog items for the placeholder at
// the cursor. Each item carries a TextEdit over the replacement range, so the
// client inserts the closing braces only when they are missing.
func (h *Handler) TextDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (result any, err error) {
	empty := &protocol.CompletionList{IsIncomplete: false, Items: []protocol.CompletionItem{}}
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Panic in completion handler for %s: %v", params.TextDocument.URI, r)
			result = empty
			err = nil
		}
	}()

	text, ok := h.document(params.TextDocument.URI)
	if !ok {
		return empty, nil
	}
	cursor := utils.PositionToOffset(text, params.Position.Line, params.Position.Character)

	res, ok := h.completer.Complete(text, cursor)
	if !ok {
		return empty, nil
	}
	res.Limit(h.limit)

	// The client filters on the typed word; keep every ranked item visible.
	typed := text[res.ReplaceFrom:cursor]
	items := make([]protocol.CompletionItem, 0, res.Len())
	for i, candidate := range res.Candidates {
		edit, err := h.completer.Commit(text, res, candidate)
		if err != nil {
			log.Warnf("Skipping %q: %v", candidate.Value, err)
			continue
		}
		items = append(items, completionItem(text, candidate, edit, typed, i))
	}
	log.Debugf("LSP completion %q: %d items", res.Query, len(items))

	// Incomplete makes the client ask again on every keystroke, since
	// substring matches are not something it can narrow down itself.
	return &protocol.CompletionList{IsIncomplete: true, Items: items}, nil
}

func completionItem(text string, item catalog.Item, edit suggest.Edit, typed string, rank int) protocol.CompletionItem {
	kind := protocol.CompletionItemKindVariable
	if item.Kind == catalog.KindFunction {
		kind = protocol.CompletionItemKindFunction
	}
	sortText := fmt.Sprintf("%04d", rank)

	return protocol.CompletionItem{
		Label:         item.Value,
		Kind:          &kind,
		Detail:        stringPtrOrNil(item.Category),
		Documentation: markdown(itemMarkdown(item)),
		SortText:      &sortText,
		FilterText:    &typed,
		TextEdit: protocol.TextEdit{
			Range:   offsetRange(text, edit.From, edit.To),
			NewText: edit.Insert,
		},
	}
}

// TextDocumentHover describes the catalog item under the cursor.
func (h *Handler) TextDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (result *protocol.Hover, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Panic in hover handler for %s: %v", params.TextDocument.URI, r)
			result = nil
			err = nil
		}
	}()

	text, ok := h.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}
	offset := utils.PositionToOffset(text, params.Position.Line, params.Position.Character)

	sp, ok := placeholder.SpanAt(text, offset)
	if !ok {
		return nil, nil
	}
	start, end := sp.Inner()
	item, ok := lookupPlaceholder(h.completer.Catalog(), text[start:end])
	if !ok {
		return nil, nil
	}

	r := offsetRange(text, sp.Start, sp.End)
	return &protocol.Hover{
		Contents: markdown(itemMarkdown(item)),
		Range:    &r,
	}, nil
}

// lookupPlaceholder resolves placeholder contents to a catalog item: first by
// value, then, for function calls, by the function name alone.
func lookupPlaceholder(cat *catalog.Catalog, inner string) (catalog.Item, bool) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return catalog.Item{}, false
	}
	if item, ok := cat.LookupFold(inner); ok {
		return item, true
	}

	name, _, _ := strings.Cut(inner, " ")
	for _, item := range cat.Items() {
		if item.Kind != catalog.KindFunction {
			continue
		}
		if fn, _, _ := strings.Cut(item.Value, " "); strings.EqualFold(fn, name) {
			return item, true
		}
	}
	return catalog.Item{}, false
}

// TextDocumentSemanticTokensFull encodes every classified placeholder token.
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (result *protocol.SemanticTokens, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Panic in semantic tokens handler for %s: %v", params.TextDocument.URI, r)
			result = &protocol.SemanticTokens{Data: []protocol.UInteger{}}
			err = nil
		}
	}()

	text, ok := h.document(params.TextDocument.URI)
	if !ok {
		return &protocol.SemanticTokens{Data: []protocol.UInteger{}}, nil
	}
	return &protocol.SemanticTokens{Data: encodeSemanticTokens(text, placeholder.Tokenize(text))}, nil
}

// semanticTokenType maps a token kind onto the legend. Untyped tokens are not
// reported.
func semanticTokenType(kind placeholder.TokenKind) (uint32, bool) {
	switch kind {
	case placeholder.BracketOpen, placeholder.BracketClose:
		return TokenTypeOperator, true
	case placeholder.CategoryPrefix:
		return TokenTypeNamespace, true
	case placeholder.ValueFragment:
		return TokenTypeVariable, true
	case placeholder.FunctionName:
		return TokenTypeFunction, true
	case placeholder.Parameter:
		return TokenTypeParameter, true
	case placeholder.QuotedString:
		return TokenTypeString, true
	}
	return 0, false
}

// encodeSemanticTokens converts tokens to LSP 5-tuples (deltaLine, deltaStart,
// length, tokenType, tokenModifiers), each position relative to the previous token.
func encodeSemanticTokens(text string, tokens []placeholder.Token) []protocol.UInteger {
	data := make([]protocol.UInteger, 0, len(tokens)*5)
	var prevLine, prevChar uint32

	for _, tok := range tokens {
		tokenType, ok := semanticTokenType(tok.Kind)
		if !ok {
			continue
		}
		line, char := utils.OffsetToPosition(text, tok.Start)
		endLine, endChar := utils.OffsetToPosition(text, tok.End)
		if endLine != line {
			// Multi-line tokens need client support we do not advertise.
			continue
		}

		deltaStart := char
		if line == prevLine {
			deltaStart = char - prevChar
		}
		data = append(data, line-prevLine, deltaStart, endChar-char, tokenType, 0)
		prevLine, prevChar = line, char
	}
	return data
}

func itemMarkdown(item catalog.Item) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**", item.Value)
	if item.Category != "" {
		fmt.Fprintf(&sb, "\n\n_%s_", item.Category)
	}
	if item.Description != "" {
		fmt.Fprintf(&sb, "\n\n%s", item.Description)
	}
	if item.Docs != "" {
		fmt.Fprintf(&sb, "\n\n[Documentation](%s)", item.Docs)
	}
	return sb.String()
}

func markdown(value string) protocol.MarkupContent {
	return protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: value}
}

func offsetRange(text string, from, to int) protocol.Range {
	startLine, startChar := utils.OffsetToPosition(text, from)
	endLine, endChar := utils.OffsetToPosition(text, to)
	return protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startChar},
		End:   protocol.Position{Line: endLine, Character: endChar},
	}
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
