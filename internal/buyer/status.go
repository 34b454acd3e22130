// internal/buyer/status.go
package buyer

import "time"

// Phase is the operator-facing mode attached to every status event.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhasePaused
	PhaseStopped
	PhasePurchasing
	PhaseError
)

var phaseNames = [...]string{
	PhaseIdle:       "idle",
	PhaseRunning:    "running",
	PhasePaused:     "paused",
	PhaseStopped:    "stopped",
	PhasePurchasing: "purchasing",
	PhaseError:      "error",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Phases lists every phase in declaration order.
func Phases() []Phase {
	return []Phase{PhaseIdle, PhaseRunning, PhasePaused, PhaseStopped, PhasePurchasing, PhaseError}
}

// Event is a single status update. Events are transient and never stored by the controller.
type Event struct {
	Phase   Phase
	Message string
	Time    time.Time
	RunID   string
}

// Reporter is the status sink the controller writes to.
type Reporter interface {
	// Report publishes the latest status. Sinks keep only the most recent event.
	Report(ev Event)
	// DisableControl permanently disables the start/resume control for this session.
	DisableControl()
}
