// internal/tui/styles.go
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// Styles groups the lipgloss styles used by the panel.
type Styles struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Message  lipgloss.Style
	Muted    lipgloss.Style
	Label    lipgloss.Style
	Error    lipgloss.Style
	Disabled lipgloss.Style
	Help     lipgloss.Style
}

var phaseColors = map[buyer.Phase]lipgloss.Color{
	buyer.PhaseIdle:       lipgloss.Color("245"),
	buyer.PhaseRunning:    lipgloss.Color("42"),
	buyer.PhasePaused:     lipgloss.Color("214"),
	buyer.PhaseStopped:    lipgloss.Color("196"),
	buyer.PhasePurchasing: lipgloss.Color("39"),
	buyer.PhaseError:      lipgloss.Color("201"),
}

func DefaultStyles() Styles {
	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
		Title:    lipgloss.NewStyle().Bold(true),
		Badge:    lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("0")),
		Message:  lipgloss.NewStyle(),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Label:    lipgloss.NewStyle().Width(9),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// PhaseBadge renders the phase name on its phase color.
func (s Styles) PhaseBadge(p buyer.Phase) string {
	color, ok := phaseColors[p]
	if !ok {
		color = lipgloss.Color("245")
	}
	return s.Badge.Background(color).Render(p.String())
}
