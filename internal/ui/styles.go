package ui

import "github.com/charmbracelet/lipgloss"

// Fixed status colours shared by every scheme.
const (
	ColorGray   = "245" // Secondary text, labels
	ColorRed    = "196" // Errors
	ColorYellow = "220" // Warnings
	ColorGreen  = "42"  // Success
)

// Styles holds all UI styles for terminal rendering.
type Styles struct {
	// Color is false for plain output; renderers add text markers instead.
	Color bool

	// Text styles
	Header  lipgloss.Style
	Title   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style

	// Sequence styles
	Match       lipgloss.Style
	Position    lipgloss.Style
	Nucleotides map[byte]lipgloss.Style

	// Panel/layout styles
	Panel     lipgloss.Style
	Sparkline lipgloss.Style
}

// SchemeStyles builds coloured styles from a scheme.
func SchemeStyles(s Scheme) Styles {
	nucleotides := make(map[byte]lipgloss.Style, len(s.Nucleotides))
	for base, color := range s.Nucleotides {
		nucleotides[base] = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	}

	return Styles{
		Color: true,

		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.Primary)),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(s.Secondary)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)).Faint(true),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Value:   lipgloss.NewStyle().Bold(true),

		Match: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(s.Accent)),
		Position:    lipgloss.NewStyle().Foreground(lipgloss.Color(s.Secondary)),
		Nucleotides: nucleotides,

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(s.Primary)).
			Padding(0, 1),
		Sparkline: lipgloss.NewStyle().Foreground(lipgloss.Color(s.Accent)),
	}
}

// DefaultStyles returns coloured styles for the default scheme.
func DefaultStyles() Styles {
	return SchemeStyles(GetScheme(DefaultSchemeID))
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{
		Header:      lipgloss.NewStyle(),
		Title:       lipgloss.NewStyle(),
		Success:     lipgloss.NewStyle(),
		Warning:     lipgloss.NewStyle(),
		Error:       lipgloss.NewStyle(),
		Dim:         lipgloss.NewStyle(),
		Label:       lipgloss.NewStyle(),
		Value:       lipgloss.NewStyle(),
		Match:       lipgloss.NewStyle(),
		Position:    lipgloss.NewStyle(),
		Nucleotides: map[byte]lipgloss.Style{},
		Panel:       lipgloss.NewStyle(),
		Sparkline:   lipgloss.NewStyle(),
	}
}

// GetStyles returns the appropriate styles based on colour preference.
func GetStyles(schemeID string, noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return SchemeStyles(GetScheme(schemeID))
}
