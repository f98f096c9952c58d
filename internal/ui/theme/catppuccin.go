package theme

import "github.com/charmbracelet/lipgloss"

var (
	Base     = lipgloss.Color("#1e1e2e")
	Mantle   = lipgloss.Color("#181825")
	Surface0 = lipgloss.Color("#313244")
	Surface1 = lipgloss.Color("#45475a")
	Text     = lipgloss.Color("#cdd6f4")
	Subtext0 = lipgloss.Color("#a6adc8")
	Lavender = lipgloss.Color("#b4befe")
	Sapphire = lipgloss.Color("#74c7ec")
	Green    = lipgloss.Color("#a6e3a1")
	Peach    = lipgloss.Color("#fab387")
	Yellow   = lipgloss.Color("#f9e2af")
	Red      = lipgloss.Color("#f38ba8")
	Mauve    = lipgloss.Color("#cba6f7")

	Pane = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Surface1).
		Background(Mantle).
		Foreground(Text).
		Padding(1)

	Title  = lipgloss.NewStyle().Foreground(Sapphire).Bold(true)
	Muted  = lipgloss.NewStyle().Foreground(Subtext0)
	Hot    = lipgloss.NewStyle().Foreground(Peach).Bold(true)
	Alert  = lipgloss.NewStyle().Foreground(Red).Bold(true)
	Marker = lipgloss.NewStyle().Foreground(Yellow).Bold(true)

	// Card cells are styled per run, so these carry no border or padding.
	Card       = lipgloss.NewStyle().Background(Surface0).Foreground(Text)
	CardEdge   = lipgloss.NewStyle().Foreground(Surface1)
	CardWinner = lipgloss.NewStyle().Background(Surface1).Foreground(Yellow).Bold(true)

	Overlay = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Yellow).
		Background(Mantle).
		Foreground(Text).
		Padding(1, 4).
		Align(lipgloss.Center)
)
