package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name      string
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Faint     lipgloss.Color
	Edge      lipgloss.Color
	EdgeDim   lipgloss.Color
	Node      lipgloss.Color
	Highlight lipgloss.Color
}

// Available themes
var (
	ThemeNothing = Theme{
		Name:      "nothing",
		Accent:    lipgloss.Color("#ff4141"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#777777"),
		Faint:     lipgloss.Color("#333333"),
		Edge:      lipgloss.Color("#5a5a5a"),
		EdgeDim:   lipgloss.Color("#262626"),
		Node:      lipgloss.Color("#ff4141"),
		Highlight: lipgloss.Color("#ffb3b3"),
	}

	ThemePhosphor = Theme{
		Name:      "phosphor",
		Accent:    lipgloss.Color("#00ff66"),
		Text:      lipgloss.Color("#ccffdd"),
		Muted:     lipgloss.Color("#2f8f4f"),
		Faint:     lipgloss.Color("#0f3319"),
		Edge:      lipgloss.Color("#1f6f3f"),
		EdgeDim:   lipgloss.Color("#0c2a16"),
		Node:      lipgloss.Color("#00ff66"),
		Highlight: lipgloss.Color("#ccffdd"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#dddddd"),
		Muted:     lipgloss.Color("#888888"),
		Faint:     lipgloss.Color("#333333"),
		Edge:      lipgloss.Color("#555555"),
		EdgeDim:   lipgloss.Color("#222222"),
		Node:      lipgloss.Color("#ffffff"),
		Highlight: lipgloss.Color("#ffffff"),
	}

	// All available themes
	Themes = []Theme{
		ThemeNothing,
		ThemePhosphor,
		ThemeMono,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNothing
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// Next returns the theme after t in Themes, wrapping around.
func (t Theme) Next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeNothing
}

// InkStyles maps canvas ink to foreground styles. Edges switch to the dim
// shade when edge opacity drops below half of its peak.
func (t Theme) InkStyles(edgeOpacity float64) map[Ink]lipgloss.Style {
	edge := t.Edge
	if edgeOpacity < 0.05 {
		edge = t.EdgeDim
	}
	return map[Ink]lipgloss.Style{
		InkEdge:      lipgloss.NewStyle().Foreground(edge),
		InkNode:      lipgloss.NewStyle().Foreground(t.Node),
		InkHighlight: lipgloss.NewStyle().Foreground(t.Highlight).Bold(true),
	}
}
