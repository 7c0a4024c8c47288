package styles

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"
)

// Theme is a named color palette.
type Theme struct {
	Primary color.Color
	Accent  color.Color
	Success color.Color
	Warning color.Color
	Error   color.Color
	Muted   color.Color
}

var presets = map[string]Theme{
	"default": {
		Primary: lipgloss.Color("62"),
		Accent:  lipgloss.Color("212"),
		Success: lipgloss.Color("82"),
		Warning: lipgloss.Color("214"),
		Error:   lipgloss.Color("196"),
		Muted:   lipgloss.Color("240"),
	},
	"dracula": {
		Primary: lipgloss.Color("#bd93f9"),
		Accent:  lipgloss.Color("#ff79c6"),
		Success: lipgloss.Color("#50fa7b"),
		Warning: lipgloss.Color("#ffb86c"),
		Error:   lipgloss.Color("#ff5555"),
		Muted:   lipgloss.Color("#6272a4"),
	},
	"nord": {
		Primary: lipgloss.Color("#88c0d0"),
		Accent:  lipgloss.Color("#b48ead"),
		Success: lipgloss.Color("#a3be8c"),
		Warning: lipgloss.Color("#ebcb8b"),
		Error:   lipgloss.Color("#bf616a"),
		Muted:   lipgloss.Color("#4c566a"),
	},
}

// ThemeNames returns the preset names, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Apply switches the package palette to the named preset.
// An empty name selects "default". Not safe to call concurrently with rendering.
func Apply(name string) error {
	if name == "" {
		name = "default"
	}
	t, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	Primary, Accent, Success, Warning, Error, Muted = t.Primary, t.Accent, t.Success, t.Warning, t.Error, t.Muted
	rebuild()
	return nil
}
