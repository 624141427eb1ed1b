// Package ui holds the shared terminal palette and glyphs.
package ui

import "github.com/charmbracelet/lipgloss"

// ─── Palette ─────────────────────────────────────────────────────────────────

var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#0891b2", Dark: "#22d3ee"}
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#a78bfa"}
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#7a8291"}
	ColorText      = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#e5e9f0"}
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#16a34a", Dark: "#4ade80"}
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#ca8a04", Dark: "#facc15"}
	ColorError     = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
)

// ─── Glyphs ──────────────────────────────────────────────────────────────────

const (
	IconPipe    = "│"
	IconSuccess = "✓"
	IconError   = "✗"
	IconDiamond = "◆"
	IconDot     = "•"
)

// ─── Styles ──────────────────────────────────────────────────────────────────

// Title renders a bold section heading.
func Title(s string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).Render(s)
}

// Muted renders secondary text.
func Muted(s string) string {
	return lipgloss.NewStyle().Foreground(ColorMuted).Render(s)
}

// OnOff renders an ON/OFF badge.
func OnOff(on bool) string {
	if on {
		return lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess).Render("ON ")
	}
	return lipgloss.NewStyle().Foreground(ColorMuted).Render("OFF")
}
