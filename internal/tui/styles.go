package tui

import "github.com/charmbracelet/lipgloss"

type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	accent    lipgloss.Color
	muted     lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	err       lipgloss.Color
	fg        lipgloss.Color
	subtle    lipgloss.Color
	highlight lipgloss.Color
}

var defaultPalette = palette{
	primary:   "#0A7EA4",
	secondary: "#2EC4B6",
	accent:    "#FF6B6B",
	muted:     "#6B7280",
	success:   "#22C55E",
	warning:   "#F59E0B",
	err:       "#EF4444",
	fg:        "#E5E7EB",
	subtle:    "#374151",
	highlight: "#38BDF8",
}

// Used when the high_contrast accessibility setting is on.
var highContrastPalette = palette{
	primary:   "#FFFF00",
	secondary: "#00FFFF",
	accent:    "#FF00FF",
	muted:     "#FFFFFF",
	success:   "#00FF00",
	warning:   "#FFA500",
	err:       "#FF0000",
	fg:        "#FFFFFF",
	subtle:    "#FFFFFF",
	highlight: "#00FFFF",
}

var (
	colorPrimary   lipgloss.Color
	colorSecondary lipgloss.Color
	colorSubtle    lipgloss.Color

	activeTabStyle    lipgloss.Style
	inactiveTabStyle  lipgloss.Style
	panelStyle        lipgloss.Style
	activePanelStyle  lipgloss.Style
	clockStyle        lipgloss.Style
	titleStyle        lipgloss.Style
	accentStyle       lipgloss.Style
	successStyle      lipgloss.Style
	warningStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	mutedStyle        lipgloss.Style
	highlightStyle    lipgloss.Style
	headerStyle       lipgloss.Style
	footerStyle       lipgloss.Style
	selectedItemStyle lipgloss.Style
	normalItemStyle   lipgloss.Style
)

func init() { applyPalette(defaultPalette) }

func setHighContrast(on bool) {
	if on {
		applyPalette(highContrastPalette)
		return
	}
	applyPalette(defaultPalette)
}

func applyPalette(p palette) {
	colorPrimary = p.primary
	colorSecondary = p.secondary
	colorSubtle = p.subtle

	activeTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.primary).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(p.primary).
		Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(p.muted).Padding(0, 2)

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.subtle).
		Padding(1, 2)
	activePanelStyle = panelStyle.BorderForeground(p.primary)

	clockStyle = lipgloss.NewStyle().Bold(true).Foreground(p.primary).Align(lipgloss.Center)

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(p.fg)
	accentStyle = lipgloss.NewStyle().Foreground(p.accent)
	successStyle = lipgloss.NewStyle().Foreground(p.success)
	warningStyle = lipgloss.NewStyle().Foreground(p.warning)
	errorStyle = lipgloss.NewStyle().Foreground(p.err)
	mutedStyle = lipgloss.NewStyle().Foreground(p.muted)
	highlightStyle = lipgloss.NewStyle().Foreground(p.highlight)

	headerStyle = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(p.muted).Padding(0, 1)

	selectedItemStyle = lipgloss.NewStyle().Foreground(p.primary).Bold(true)
	normalItemStyle = lipgloss.NewStyle().Foreground(p.fg)
}
