// Copyright © 2026 ソニーレベル <C7kali3@gmail.com>
// Terminal styles for status lines

package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Glyphs prefixed to status lines
const (
	GlyphPending = "…"
	GlyphSuccess = "✓"
	GlyphFailure = "✗"
)

// Styles holds the lipgloss styles used by the reporter
type Styles struct {
	Success lipgloss.Style
	Failure lipgloss.Style
	Project lipgloss.Style
	Path    lipgloss.Style
	Command lipgloss.Style
	Names   lipgloss.Style
	Muted   lipgloss.Style
}

// NewStyles builds styles bound to a renderer for w, so colors are dropped
// automatically when w is not a terminal
func NewStyles(w io.Writer) *Styles {
	return newStyles(lipgloss.NewRenderer(w))
}

func newStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Success: r.NewStyle().Foreground(lipgloss.Color("2")),
		Failure: r.NewStyle().Foreground(lipgloss.Color("1")),
		Project: r.NewStyle().Italic(true),
		Path:    r.NewStyle().Underline(true),
		Command: r.NewStyle().Background(lipgloss.Color("6")),
		Names:   r.NewStyle().Foreground(lipgloss.Color("2")),
		Muted:   r.NewStyle().Faint(true),
	}
}
