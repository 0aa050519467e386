package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ScootGarcia/renetium/internal/model"
)

// Palette taken from the site stylesheet.
var (
	Ink     = lipgloss.Color("#1f2937")
	Paper   = lipgloss.Color("#f9fafb")
	Accent  = lipgloss.Color("#2563eb")
	Muted   = lipgloss.Color("#6b7280")
	Border  = lipgloss.Color("#d1d5db")
	Danger  = lipgloss.Color("#dc2626")
	Article = lipgloss.Color("#2563eb")
	Tip     = lipgloss.Color("#16a34a")
	Forum   = lipgloss.Color("#9333ea")
)

// Styles groups every style the browser draws with.
type Styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Filter    lipgloss.Style
	Active    lipgloss.Style
	Selected  lipgloss.Style
	Meta      lipgloss.Style
	Empty     lipgloss.Style
	Overlay   lipgloss.Style
	Help      lipgloss.Style
}

// DefaultStyles returns the browser's styles.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Tab:   lipgloss.NewStyle().Padding(0, 1).Foreground(Muted),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Foreground(Paper).Background(Accent),
		Filter:   lipgloss.NewStyle().Padding(0, 1).Foreground(Muted),
		Active:   lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(Accent),
		Meta:     lipgloss.NewStyle().Foreground(Muted),
		Empty:    lipgloss.NewStyle().Italic(true).Foreground(Muted).Padding(1, 2),
		Overlay: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).Padding(1, 2),
		Help: lipgloss.NewStyle().Foreground(Muted),
	}
}

// KindColor is the badge color of a content kind.
func KindColor(k model.Kind) lipgloss.Color {
	switch k {
	case model.KindArticle:
		return Article
	case model.KindTip:
		return Tip
	case model.KindForum:
		return Forum
	}
	return Muted
}

var glyphs = map[model.Kind]string{
	model.KindArticle: "▤",
	model.KindTip:     "✦",
	model.KindForum:   "✉",
}

func badge(k model.Kind) string {
	return lipgloss.NewStyle().Bold(true).Foreground(KindColor(k)).Render(glyphs[k] + " " + k.Label())
}
