// internal/status/panel.go
package status

import (
	"sync"
	"time"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// PanelState is what an operator-facing panel shows.
type PanelState struct {
	Phase    buyer.Phase
	Message  string
	Time     time.Time
	RunID    string
	Disabled bool
}

// Panel is a last-write-wins status store. Readers wait on Updates and then
// read State; bursts of events collapse into a single notification.
type Panel struct {
	mu      sync.RWMutex
	state   PanelState
	updates chan struct{}
}

var _ buyer.Reporter = (*Panel)(nil)

func NewPanel() *Panel {
	return &Panel{updates: make(chan struct{}, 1)}
}

func (p *Panel) Report(ev buyer.Event) {
	p.mu.Lock()
	p.state.Phase = ev.Phase
	p.state.Message = ev.Message
	p.state.Time = ev.Time
	p.state.RunID = ev.RunID
	p.mu.Unlock()
	p.notify()
}

func (p *Panel) DisableControl() {
	p.mu.Lock()
	p.state.Disabled = true
	p.mu.Unlock()
	p.notify()
}

// State returns a copy of the latest state.
func (p *Panel) State() PanelState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Updates receives a value after one or more changes since the last receive.
func (p *Panel) Updates() <-chan struct{} { return p.updates }

func (p *Panel) notify() {
	select {
	case p.updates <- struct{}{}:
	default:
	}
}
