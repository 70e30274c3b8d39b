// Package help styling definitions.
// This file defines the geometry and lipgloss decoration for help pages.

package help

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// Style controls help page geometry and decoration without changing content.
type Style struct {
	// MinWidth and MaxWidth bound the wrap width. When they are equal the
	// width is fixed; otherwise the terminal width is detected and clamped
	// into the range, falling back to MinWidth off a terminal.
	MinWidth int
	MaxWidth int

	// Colors decorates headings and the usage label. Nil renders plain text.
	Colors *Colors
}

// Colors holds the lipgloss styles applied to help page chrome. Only line
// prefixes and whole heading lines are decorated, so column alignment never
// depends on escape sequences.
type Colors struct {
	// Heading is the style for section headings like "Options:" (bold).
	Heading lipgloss.Style

	// Usage is the style for the "Usage:" label (bold).
	Usage lipgloss.Style
}

// Default returns the terminal-aware style used by FromEnv.
func Default() *Style {
	return &Style{MinWidth: 80, MaxWidth: 120}
}

// Fixed returns a deterministic plain 80-column style, the one golden output
// is written against.
func Fixed() *Style {
	return &Style{MinWidth: 80, MaxWidth: 80}
}

// DefaultColors returns the standard decoration: bold headings and a bold
// usage label.
func DefaultColors() *Colors {
	return &Colors{
		Heading: lipgloss.NewStyle().Bold(true),
		Usage:   lipgloss.NewStyle().Bold(true),
	}
}

// wrapWidth resolves the effective wrap width for one rendering.
func (s *Style) wrapWidth() int {
	if s.MaxWidth <= s.MinWidth {
		return s.MinWidth
	}

	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w <= 0 {
		return s.MinWidth
	}

	return min(max(w, s.MinWidth), s.MaxWidth)
}

func (s *Style) heading(text string) string {
	if s.Colors == nil {
		return text
	}

	return s.Colors.Heading.Render(text)
}

func (s *Style) usageLabel(text string) string {
	if s.Colors == nil {
		return text
	}

	return s.Colors.Usage.Render(text)
}
