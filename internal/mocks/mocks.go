// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// -- Page Mock --

// MockPage mocks buyer.Page.
type MockPage struct {
	mock.Mock
}

func (m *MockPage) Query(ctx context.Context, selector string) ([]buyer.Element, error) {
	args := m.Called(ctx, selector)
	var elems []buyer.Element
	if v := args.Get(0); v != nil {
		elems = v.([]buyer.Element)
	}
	return elems, args.Error(1)
}

// -- Element Mock --

// MockElement mocks buyer.Element.
type MockElement struct {
	mock.Mock
}

func (m *MockElement) Text() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockElement) Invocable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockElement) Invoke(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// -- Reporter Mock --

// MockReporter mocks buyer.Reporter and keeps a copy of every event for inspection.
type MockReporter struct {
	mock.Mock

	mu     sync.Mutex
	events []buyer.Event
}

func (m *MockReporter) Report(ev buyer.Event) {
	m.mu.Lock()
	m.events = append(m.events, ev)
	m.mu.Unlock()
	m.Called(ev)
}

func (m *MockReporter) DisableControl() {
	m.Called()
}

// Events returns the events reported so far.
func (m *MockReporter) Events() []buyer.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]buyer.Event, len(m.events))
	copy(out, m.events)
	return out
}

// Last returns the most recent event, or the zero Event.
func (m *MockReporter) Last() buyer.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return buyer.Event{}
	}
	return m.events[len(m.events)-1]
}

// -- Controller Mock --

// MockController mocks the operator-facing controller surface used by the status panel.
type MockController struct {
	mock.Mock
}

func (m *MockController) Toggle() buyer.State {
	args := m.Called()
	return args.Get(0).(buyer.State)
}

func (m *MockController) ApplyInput(scan, confirm string) error {
	args := m.Called(scan, confirm)
	return args.Error(0)
}

func (m *MockController) Stop() {
	m.Called()
}

func (m *MockController) Snapshot() buyer.Snapshot {
	args := m.Called()
	return args.Get(0).(buyer.Snapshot)
}
