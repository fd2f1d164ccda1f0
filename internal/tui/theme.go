package tui

import "github.com/charmbracelet/lipgloss"

// Palette shared by the configure forms and the status panel.
var (
	ColorPrimary   = lipgloss.Color("#0D9488") // teal
	ColorSecondary = lipgloss.Color("#6366F1") // indigo

	ColorSuccess = lipgloss.Color("#16A34A")
	ColorError   = lipgloss.Color("#DC2626")
	ColorWarning = lipgloss.Color("#D97706")

	ColorText   = lipgloss.Color("#F1F5F9")
	ColorMuted  = lipgloss.Color("#94A3B8")
	ColorSubtle = lipgloss.Color("#64748B")
	ColorBg     = lipgloss.Color("#0F172A")

	// badge while the microphone is open
	ColorLive = lipgloss.Color("#E11D48")
)
