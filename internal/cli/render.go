package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bastiangx/stache/pkg/catalog"
	"github.com/bastiangx/stache/pkg/placeholder"
	"github.com/bastiangx/stache/pkg/suggest"
)

// categoryColors are ANSI 256 colors per catalog category.
var categoryColors = map[string]string{
	catalog.CategoryFlow:     "212",
	catalog.CategorySession:  "99",
	catalog.CategoryVisitor:  "75",
	catalog.CategoryContact:  "114",
	catalog.CategoryEquality: "214",
	catalog.CategoryLogical:  "203",
	catalog.CategoryString:   "180",
}

// styles renders placeholders and suggestion lists for one output.
type styles struct {
	bracket  lipgloss.Style
	quoted   lipgloss.Style
	untyped  lipgloss.Style
	selected lipgloss.Style
	dim      lipgloss.Style
	category map[string]lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	s := styles{
		bracket:  r.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
		quoted:   r.NewStyle().Foreground(lipgloss.Color("150")),
		untyped:  r.NewStyle().Underline(true),
		selected: r.NewStyle().Reverse(true),
		dim:      r.NewStyle().Foreground(lipgloss.Color("241")),
		category: make(map[string]lipgloss.Style, len(categoryColors)),
	}
	for category, color := range categoryColors {
		s.category[category] = r.NewStyle().Foreground(lipgloss.Color(color))
	}
	return s
}

func (s styles) token(tok placeholder.Token) lipgloss.Style {
	switch tok.Kind {
	case placeholder.BracketOpen, placeholder.BracketClose:
		return s.bracket
	case placeholder.QuotedString:
		return s.quoted
	case placeholder.Untyped:
		return s.untyped
	}
	if style, ok := s.category[tok.Category]; ok {
		return style
	}
	return s.untyped
}

// decorate renders text with every closed placeholder styled token by token.
func (s styles) decorate(text string) string {
	var sb strings.Builder
	pos := 0
	for _, d := range placeholder.BuildDecorations(text, placeholder.FullRange(text)) {
		sb.WriteString(text[pos:d.Start])
		at := d.Start
		for _, tok := range d.Tokens {
			// Whitespace between tokens is not a token of its own.
			sb.WriteString(text[at:tok.Start])
			sb.WriteString(s.token(tok).Render(text[tok.Start:tok.End]))
			at = tok.End
		}
		sb.WriteString(text[at:d.End])
		pos = d.End
	}
	sb.WriteString(text[pos:])
	return sb.String()
}

// suggestions renders the ranked list with the selected row highlighted.
func (s styles) suggestions(res *suggest.Result, selected int) string {
	if res.Len() == 0 {
		return s.dim.Render("  (no matches)")
	}
	var sb strings.Builder
	for i, item := range res.Candidates {
		value := item.Value
		if style, ok := s.category[item.Category]; ok {
			value = style.Render(value)
		}
		marker := "  "
		if i == selected {
			marker = s.selected.Render(">") + " "
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s%2d. %s %s", marker, i+1, value, s.dim.Render(item.Category))
	}
	return sb.String()
}
