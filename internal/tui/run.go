// internal/tui/run.go
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xkilldash9x/snapbuy/internal/status"
)

// Run shows the panel until the operator quits or ctx is canceled.
func Run(ctx context.Context, ctrl Controller, panel *status.Panel, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(ctx, ctrl, panel), opts...)
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("status panel: %w", err)
	}
	return nil
}
