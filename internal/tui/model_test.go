// internal/tui/model_test.go
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
	"github.com/xkilldash9x/snapbuy/internal/mocks"
	"github.com/xkilldash9x/snapbuy/internal/status"
)

func runningSnapshot() buyer.Snapshot {
	return buyer.Snapshot{
		State:     buyer.StateRunning,
		ScanArmed: true,
		Intervals: buyer.Intervals{Scan: 100 * time.Millisecond, Confirm: 50 * time.Millisecond},
	}
}

func newTestModel(t *testing.T, ctrl *mocks.MockController) (Model, *status.Panel) {
	t.Helper()
	panel := status.NewPanel()
	m := NewModel(context.Background(), ctrl, panel)
	return m, panel
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_SeedsInputs(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())

	m, _ := newTestModel(t, ctrl)
	assert.Equal(t, "100", m.inputs[focusScan].Value())
	assert.Equal(t, "50", m.inputs[focusConfirm].Value())
	assert.Equal(t, focusNone, m.focus)
}

func TestModel_ToggleKeys(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())
	ctrl.On("Toggle").Return(buyer.StatePaused).Twice()

	m, _ := newTestModel(t, ctrl)
	m = press(t, m, runes("p"), tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	ctrl.AssertNumberOfCalls(t, "Toggle", 2)
}

func TestModel_StopKey(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())
	ctrl.On("Stop").Once()

	m, _ := newTestModel(t, ctrl)
	press(t, m, runes("s"))
	ctrl.AssertExpectations(t)
}

func TestModel_DisabledIgnoresToggle(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(buyer.Snapshot{State: buyer.StateStopped, ControlDisabled: true})

	m, panel := newTestModel(t, ctrl)
	panel.DisableControl()
	panel.Report(buyer.Event{Phase: buyer.PhaseStopped, Message: "sold out detected, stopping [control: 已抢光]"})

	next, cmd := m.Update(statusMsg{})
	m = next.(Model)
	require.NotNil(t, cmd, "the panel keeps listening for updates")

	m = press(t, m, runes("p"), runes("s"))
	ctrl.AssertNotCalled(t, "Toggle")
	ctrl.AssertNotCalled(t, "Stop")

	view := m.View()
	assert.Contains(t, view, "stopped")
	assert.Contains(t, view, "sold out detected")
	assert.NotContains(t, view, "[p] resume")
}

func TestModel_EditAndApplyIntervals(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())
	ctrl.On("ApplyInput", "1002", "50").Return(nil).Once()

	m, _ := newTestModel(t, ctrl)
	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyTab},
		runes("2"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	ctrl.AssertExpectations(t)
	assert.Equal(t, focusNone, m.focus, "enter leaves edit mode")
	assert.Empty(t, m.inputErr)
}

func TestModel_ApplyRejected(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())
	ctrl.On("ApplyInput", mock.Anything, mock.Anything).
		Return(errors.New("invalid interval: scan 5ms outside [10, 1000]")).Once()

	m, _ := newTestModel(t, ctrl)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, m.inputErr, "invalid interval")
	assert.Contains(t, m.View(), "invalid interval")
}

func TestModel_TabCyclesFocus(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())

	m, _ := newTestModel(t, ctrl)
	tab := tea.KeyMsg{Type: tea.KeyTab}

	m = press(t, m, tab)
	assert.Equal(t, focusScan, m.focus)
	assert.True(t, m.inputs[focusScan].Focused())

	m = press(t, m, tab)
	assert.Equal(t, focusConfirm, m.focus)
	assert.False(t, m.inputs[focusScan].Focused())

	m = press(t, m, tab)
	assert.Equal(t, focusNone, m.focus)

	m = press(t, m, tab, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusNone, m.focus)
}

func TestModel_LettersGoToFocusedInput(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())

	m, _ := newTestModel(t, ctrl)
	m = press(t, m, tea.KeyMsg{Type: tea.KeyTab}, runes("p"))

	ctrl.AssertNotCalled(t, "Toggle")
	assert.Equal(t, "100p", m.inputs[focusScan].Value())
}

func TestModel_Quit(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())

	m, _ := newTestModel(t, ctrl)
	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, next.(Model).View())
}

func TestModel_ViewShowsPhaseAndToggle(t *testing.T) {
	ctrl := new(mocks.MockController)
	ctrl.On("Snapshot").Return(runningSnapshot())

	m, panel := newTestModel(t, ctrl)
	assert.Contains(t, m.View(), "waiting for first status")

	panel.Report(buyer.Event{
		Phase:   buyer.PhasePurchasing,
		Message: "dialog detected, confirming purchase",
		Time:    time.Date(2026, 1, 1, 10, 0, 0, 0, time.Local),
	})
	next, _ := m.Update(statusMsg{})
	view := next.(Model).View()

	assert.Contains(t, view, "purchasing")
	assert.Contains(t, view, "dialog detected, confirming purchase")
	assert.Contains(t, view, "10:00:00.000")
	assert.Contains(t, view, "[p] pause")
}

func TestWaitForUpdate(t *testing.T) {
	panel := status.NewPanel()
	ctx, cancel := context.WithCancel(context.Background())

	panel.Report(buyer.Event{Phase: buyer.PhaseRunning})
	assert.Equal(t, statusMsg{}, waitForUpdate(ctx, panel)())

	cancel()
	assert.Nil(t, waitForUpdate(ctx, panel)())
}
