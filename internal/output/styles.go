package output

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
	ColorLime    = "154" // Primary accent (#AFFF00)
	ColorLimeDim = "106" // Detail labels
	ColorRed     = "196" // Errors
	ColorYellow  = "220" // Warnings
)

// Styles holds the styles applied to progress lines.
type Styles struct {
	Header  lipgloss.Style
	Detail  lipgloss.Style
	Success lipgloss.Style
	Notice  lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the colored styles used on terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Detail:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Success: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Notice:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle(),
		Detail:  lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
		Notice:  lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
	}
}

// GetStyles returns the styles for the given color preference.
func GetStyles(color bool) Styles {
	if color {
		return DefaultStyles()
	}
	return NoColorStyles()
}
