package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	StyleHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary).MarginBottom(1)
	StyleLabel  = lipgloss.NewStyle().Bold(true).Foreground(ColorText)

	StyleError   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleSubtle  = lipgloss.NewStyle().Italic(true).Foreground(ColorSubtle)

	// StyleHighlight marks the elapsed time and the spinner.
	StyleHighlight = lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary)

	StyleBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSubtle).
			Padding(1, 2)

	styleBadge = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(ColorBg)
)

const logoASCII = `
                _                             _
__   _____ (_) ___ ___ _ __   __ _ _ __   ___| |
\ \ / / _ \| |/ __/ _ \ '_ \ / _' | '_ \ / _ \ |
 \ V / (_) | | (_|  __/ |_) | (_| | | | |  __/ |
  \_/ \___/|_|\___\___| .__/ \__,_|_| |_|\___|_|
                     |_|                       `

func Logo() string {
	return StyleHeader.Render(strings.Trim(logoASCII, "\n"))
}
