package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	primaryColor  = lipgloss.Color("#7C3AED")
	accentColor   = lipgloss.Color("#F59E0B")
	upColor       = lipgloss.Color("#10B981")
	downColor     = lipgloss.Color("#EF4444")
	infoColor     = lipgloss.Color("#38BDF8")
	borderColor   = lipgloss.Color("#374151")
	textColor     = lipgloss.Color("#F9FAFB")
	textDimColor  = lipgloss.Color("#9CA3AF")
	textMuteColor = lipgloss.Color("#6B7280")
	barBackground = lipgloss.Color("#1F2937")
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textDimColor)

	rowStyle = lipgloss.NewStyle().
			Foreground(textColor)

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(textColor).
				Background(borderColor)

	upStyle    = lipgloss.NewStyle().Foreground(upColor)
	downStyle  = lipgloss.NewStyle().Foreground(downColor)
	mutedStyle = lipgloss.NewStyle().Foreground(textMuteColor)

	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(upColor)
	idleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
)

// Log line colors by entry type.
var logStyles = map[string]lipgloss.Style{
	"system":   lipgloss.NewStyle().Foreground(textDimColor),
	"analysis": lipgloss.NewStyle().Foreground(infoColor),
	"trade":    lipgloss.NewStyle().Foreground(upColor),
	"error":    lipgloss.NewStyle().Foreground(downColor),
	"warning":  lipgloss.NewStyle().Foreground(accentColor),
}

// Status bar styles
var (
	statusBarStyle = lipgloss.NewStyle().
			Background(barBackground).
			Foreground(textDimColor).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(textDimColor)
)
