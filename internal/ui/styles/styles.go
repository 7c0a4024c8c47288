// Package styles provides shared lipgloss styles for doclint's terminal
// output: the progress bar, the confirm prompt and the run report.
package styles

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette colors. Overwritten by Apply.
var (
	Primary color.Color = lipgloss.Color("62")  // borders, progress gradient start
	Accent  color.Color = lipgloss.Color("212") // progress gradient end, prompts
	Success color.Color = lipgloss.Color("82")  // clean and fixed paths
	Warning color.Color = lipgloss.Color("214") // declined and skipped paths
	Error   color.Color = lipgloss.Color("196") // failed paths
	Muted   color.Color = lipgloss.Color("240") // secondary text
)

// Derived styles. Rebuilt by Apply.
var (
	Bold         lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	MutedStyle   lipgloss.Style
	AccentStyle  lipgloss.Style
)

func init() {
	rebuild()
}

func rebuild() {
	Bold = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(Success)
	WarningStyle = lipgloss.NewStyle().Foreground(Warning)
	ErrorStyle = lipgloss.NewStyle().Foreground(Error).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
	AccentStyle = lipgloss.NewStyle().Foreground(Accent).Bold(true)
}
