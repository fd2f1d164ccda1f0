package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/wardscribe/voicepanel/internal/bus"
	"github.com/wardscribe/voicepanel/internal/clock"
)

// phaseColor picks the badge color for a session phase.
func phaseColor(phase string) lipgloss.Color {
	switch phase {
	case "recording", "starting":
		return ColorLive
	case "paused", "stopping":
		return ColorWarning
	case "transcribing", "stopped":
		return ColorSecondary
	case "transcribed":
		return ColorSuccess
	case "transcription_failed":
		return ColorError
	}
	return ColorMuted
}

func phaseLabel(phase string) string {
	if phase == "" {
		phase = "idle"
	}
	return strings.ToUpper(strings.ReplaceAll(phase, "_", " "))
}

// RenderStatus draws a daemon status summary as a bordered panel.
func RenderStatus(s bus.Status) string {
	badge := styleBadge.Background(phaseColor(s.Phase)).Render(phaseLabel(s.Phase))

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		badge, "  ",
		StyleHighlight.Render(clock.FormatTime(s.Elapsed)),
	)

	lines := []string{header}
	if s.Format != "" {
		lines = append(lines, StyleMuted.Render("format "+s.Format))
	}

	if s.Transcript != "" {
		lines = append(lines, "", StyleLabel.Render("Transcript"), s.Transcript)
	}

	if s.Error != "" {
		lines = append(lines, "", StyleError.Render(s.Error))
		if s.Retry {
			lines = append(lines, StyleSubtle.Render("voicepanel retry to try again"))
		}
	}

	return StyleBox.Render(strings.Join(lines, "\n"))
}
