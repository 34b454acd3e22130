// Package tui renders the status panel and operator controls in the terminal.
package tui

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
	"github.com/xkilldash9x/snapbuy/internal/status"
)

// Controller is the subset of the buyer controller the panel drives.
type Controller interface {
	Toggle() buyer.State
	ApplyInput(scan, confirm string) error
	Stop()
	Snapshot() buyer.Snapshot
}

const (
	focusNone = iota - 1
	focusScan
	focusConfirm
)

// statusMsg signals that the panel store changed.
type statusMsg struct{}

// Model is the bubbletea model of the status panel.
type Model struct {
	ctx    context.Context
	ctrl   Controller
	panel  *status.Panel
	styles Styles

	inputs [2]textinput.Model
	focus  int

	state    status.PanelState
	snapshot buyer.Snapshot
	inputErr string
	quitting bool
}

// NewModel builds a panel whose interval inputs start at the controller's current values.
func NewModel(ctx context.Context, ctrl Controller, panel *status.Panel) Model {
	snap := ctrl.Snapshot()
	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		panel:    panel,
		styles:   DefaultStyles(),
		focus:    focusNone,
		state:    panel.State(),
		snapshot: snap,
	}
	values := [2]time.Duration{snap.Intervals.Scan, snap.Intervals.Confirm}
	for i := range m.inputs {
		in := textinput.New()
		in.CharLimit = 4
		in.Width = 6
		in.Prompt = ""
		in.Placeholder = strconv.Itoa(buyer.DefaultScanIntervalMs)
		in.SetValue(strconv.FormatInt(values[i].Milliseconds(), 10))
		m.inputs[i] = in
	}
	return m
}

// waitForUpdate blocks until the panel changes or ctx ends.
func waitForUpdate(ctx context.Context, panel *status.Panel) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-panel.Updates():
			return statusMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.ctx, m.panel)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.state = m.panel.State()
		m.snapshot = m.ctrl.Snapshot()
		return m, waitForUpdate(m.ctx, m.panel)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		if m.focus != focusNone {
			return m.updateFocused(msg)
		}
		return m.updateCommand(msg)
	}
	return m, nil
}

// updateCommand handles keys while no input has focus.
func (m Model) updateCommand(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "p", " ":
		if !m.state.Disabled {
			m.ctrl.Toggle()
			m.snapshot = m.ctrl.Snapshot()
		}
	case "s":
		if !m.state.Disabled {
			m.ctrl.Stop()
			m.snapshot = m.ctrl.Snapshot()
		}
	case "tab":
		return m.setFocus(focusScan), textinput.Blink
	case "enter":
		m.apply()
	}
	return m, nil
}

// updateFocused routes keys to the focused interval input.
func (m Model) updateFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		next := m.focus + 1
		if next > focusConfirm {
			next = focusNone
		}
		return m.setFocus(next), nil
	case tea.KeyShiftTab:
		return m.setFocus(m.focus - 1), nil
	case tea.KeyEsc:
		return m.setFocus(focusNone), nil
	case tea.KeyEnter:
		m.apply()
		return m.setFocus(focusNone), nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) setFocus(f int) Model {
	m.focus = f
	for i := range m.inputs {
		if i == f {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m *Model) apply() {
	err := m.ctrl.ApplyInput(m.inputs[focusScan].Value(), m.inputs[focusConfirm].Value())
	if err != nil {
		m.inputErr = err.Error()
	} else {
		m.inputErr = ""
	}
	m.snapshot = m.ctrl.Snapshot()
}

func (m Model) toggleLabel() string {
	switch {
	case m.state.Disabled || m.snapshot.State == buyer.StateStopped:
		return m.styles.Disabled.Render("stopped")
	case m.snapshot.State == buyer.StateRunning:
		return "[p] pause"
	default:
		return "[p] resume"
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("snapbuy"))
	b.WriteString("  ")
	b.WriteString(m.styles.PhaseBadge(m.state.Phase))
	b.WriteString("\n\n")

	msg := m.state.Message
	if msg == "" {
		msg = "waiting for first status"
	}
	b.WriteString(m.styles.Message.Render(msg))
	b.WriteString("\n")
	if !m.state.Time.IsZero() {
		b.WriteString(m.styles.Muted.Render("updated " + m.state.Time.Format("15:04:05.000")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	labels := [2]string{"scan ms", "confirm"}
	for i, in := range m.inputs {
		b.WriteString(m.styles.Label.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if m.inputErr != "" {
		b.WriteString(m.styles.Error.Render(m.inputErr))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.toggleLabel())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("tab edit intervals · enter apply · s stop · q quit"))

	return m.styles.Frame.Render(b.String())
}
