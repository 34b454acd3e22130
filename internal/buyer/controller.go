// internal/buyer/controller.go
package buyer

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the run state owned by the Controller.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "idle"
	}
}

const defaultTickTimeout = 2 * time.Second

// Snapshot is a point-in-time copy of the controller's state.
type Snapshot struct {
	RunID           string
	State           State
	Purchasing      bool
	ScanArmed       bool
	ConfirmArmed    bool
	ControlDisabled bool
	Intervals       Intervals
}

// Option customizes a Controller.
type Option func(*Controller)

// WithScheduler replaces the ticker based scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.scheduler = s }
}

// WithIntervals sets the initial cadence. Invalid values are ignored in favor of the defaults.
func WithIntervals(iv Intervals) Option {
	return func(c *Controller) {
		if iv.Validate() == nil {
			c.intervals = iv
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithTickTimeout bounds the page queries made by a single tick.
func WithTickTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.tickTimeout = d
		}
	}
}

// Controller is the phase state machine. It owns the scan and confirm loops and
// guarantees they are never armed at the same time.
//
// Every tick and every operator call runs under mu, so tick bodies never overlap.
// Reporter implementations are called with mu held and must not call back into the
// Controller synchronously.
type Controller struct {
	ctx      context.Context
	page     Page
	reporter Reporter
	logger   *zap.Logger

	scanner   *Scanner
	confirmer *ConfirmClicker
	scheduler Scheduler
	now       func() time.Time

	tickTimeout time.Duration
	runID       string

	mu              sync.Mutex
	state           State
	purchasing      bool
	closed          bool
	controlDisabled bool
	intervals       Intervals
	scan            Handle
	confirm         Handle

	done     chan struct{}
	doneOnce sync.Once
}

// NewController wires a Controller. ctx bounds every page query made by the loops.
func NewController(ctx context.Context, page Page, reporter Reporter, logger *zap.Logger, opts ...Option) *Controller {
	runID := uuid.New().String()
	log := logger.Named("controller").With(zap.String("run_id", runID))

	c := &Controller{
		ctx:         ctx,
		page:        page,
		reporter:    reporter,
		logger:      log,
		scanner:     NewScanner(page, log),
		confirmer:   NewConfirmClicker(page, log),
		scheduler:   NewTickerScheduler(),
		now:         time.Now,
		tickTimeout: defaultTickTimeout,
		runID:       runID,
		intervals:   DefaultIntervals(),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunID identifies this controller in events and logs.
func (c *Controller) RunID() string { return c.runID }

// Done is closed once the controller is stopped or shut down.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Start arms the scan loop. It is a no-op once stopped, and does not arm anything while
// a loop is already armed.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.startLocked() {
		c.reportLocked(PhaseRunning, fmt.Sprintf("started (%s)", c.intervals))
	}
}

// Resume is Start with a resume message, used by the operator toggle.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.startLocked() {
		c.reportLocked(PhaseRunning, "resumed")
	}
}

// Pause tears down both loops and marks the run paused. Stopped is never left.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pauseLocked() {
		c.reportLocked(PhasePaused, "paused")
	}
}

// Toggle flips between running and paused and returns the resulting state.
func (c *Controller) Toggle() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateRunning:
		if c.pauseLocked() {
			c.reportLocked(PhasePaused, "paused")
		}
	case StateIdle, StatePaused:
		if c.startLocked() {
			c.reportLocked(PhaseRunning, "resumed")
		}
	}
	return c.state
}

// Stop tears down both loops and makes the stop permanent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopLocked() {
		c.reportLocked(PhaseStopped, "stopped")
	}
	c.disableLocked()
}

// Shutdown releases all timers when the host page goes away. Unlike Stop it does not
// disable the operator controls; the controller simply becomes inert.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardownLocked()
	c.purchasing = false
	c.closed = true
	c.doneOnce.Do(func() { close(c.done) })
	c.logger.Debug("Controller shut down.", zap.Stringer("state", c.state))
}

// Reconfigure replaces the cadence. While actively running the scan loop is re-armed in
// the same critical section, so no observer sees an unarmed running controller.
func (c *Controller) Reconfigure(iv Intervals) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := iv.Validate(); err != nil {
		c.reportLocked(PhaseError, fmt.Sprintf("invalid intervals: %v", err))
		return err
	}
	return c.applyLocked(iv)
}

// ApplyInput parses raw operator input and reconfigures.
func (c *Controller) ApplyInput(scan, confirm string) error {
	iv, err := ParseIntervals(scan, confirm)
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.reportLocked(PhaseError, fmt.Sprintf("invalid intervals: %v", err))
		return err
	}
	return c.applyLocked(iv)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		RunID:           c.runID,
		State:           c.state,
		Purchasing:      c.purchasing,
		ScanArmed:       c.scan != nil,
		ConfirmArmed:    c.confirm != nil,
		ControlDisabled: c.controlDisabled,
		Intervals:       c.intervals,
	}
}

func (c *Controller) applyLocked(iv Intervals) error {
	c.intervals = iv
	if c.state == StateRunning && !c.closed {
		c.teardownLocked()
		c.purchasing = false
		c.armScanLocked()
	}
	c.reportLocked(c.phaseLocked(), fmt.Sprintf("intervals updated (%s)", iv))
	return nil
}

// startLocked reports whether the controller moved into the running state.
func (c *Controller) startLocked() bool {
	if c.state == StateStopped || c.closed {
		return false
	}
	if c.scan == nil && c.confirm == nil {
		c.armScanLocked()
	}
	changed := c.state != StateRunning
	c.state = StateRunning
	return changed
}

// pauseLocked reports whether the state changed.
func (c *Controller) pauseLocked() bool {
	c.teardownLocked()
	c.purchasing = false
	if c.state == StateStopped || c.state == StatePaused {
		return false
	}
	c.state = StatePaused
	return true
}

// stopLocked reports whether the state changed.
func (c *Controller) stopLocked() bool {
	c.teardownLocked()
	c.purchasing = false
	if c.state == StateStopped {
		return false
	}
	c.state = StateStopped
	c.doneOnce.Do(func() { close(c.done) })
	return true
}

// disableLocked tells the reporter, once, that start/resume is no longer possible.
func (c *Controller) disableLocked() {
	if c.controlDisabled {
		return
	}
	c.controlDisabled = true
	c.reporter.DisableControl()
}

func (c *Controller) teardownLocked() {
	if c.scan != nil {
		c.scan.Stop()
		c.scan = nil
	}
	if c.confirm != nil {
		c.confirm.Stop()
		c.confirm = nil
	}
}

// The handle is kept in a slot that ticks read under mu, so a tick can tell whether it
// still belongs to the armed loop.
func (c *Controller) armScanLocked() {
	slot := new(Handle)
	*slot = c.scheduler.Every(c.intervals.Scan, func() { c.scanTick(slot) })
	c.scan = *slot
	c.logger.Debug("Scan loop armed.", zap.Duration("interval", c.intervals.Scan))
}

func (c *Controller) armConfirmLocked() {
	slot := new(Handle)
	*slot = c.scheduler.Every(c.intervals.Confirm, func() { c.confirmTick(slot) })
	c.confirm = *slot
	c.logger.Debug("Confirm loop armed.", zap.Duration("interval", c.intervals.Confirm))
}

// scanTick checks for the purchase dialog first and only scans for the trigger when it
// is absent.
func (c *Controller) scanTick(slot *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scan == nil || c.scan != *slot {
		return
	}
	defer c.recoverTick("scan")

	ctx, cancel := context.WithTimeout(c.ctx, c.tickTimeout)
	defer cancel()

	dialogs, err := c.page.Query(ctx, DialogSelector)
	if err != nil {
		c.tickFailedLocked("scan", fmt.Errorf("query dialog: %w", err))
		return
	}
	if len(dialogs) > 0 {
		c.scan.Stop()
		c.scan = nil
		if c.confirm == nil {
			c.armConfirmLocked()
		}
		c.purchasing = true
		c.reportLocked(PhasePurchasing, "dialog detected, confirming purchase")
		return
	}

	outcome, err := c.scanner.Scan(ctx)
	if err != nil {
		c.tickFailedLocked("scan", err)
		return
	}

	if outcome.Kind == OutcomeTerminal {
		c.stopLocked()
		c.reportLocked(PhaseStopped, outcome.Message)
		c.disableLocked()
		c.logger.Info("Sold out detected, run stopped.", zap.String("text", outcome.Text))
		return
	}
	c.reportLocked(PhaseRunning, outcome.Message)
}

// confirmTick never tears its own loop down; only Pause and Stop do.
func (c *Controller) confirmTick(slot *Handle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirm == nil || c.confirm != *slot {
		return
	}
	defer c.recoverTick("confirm")

	ctx, cancel := context.WithTimeout(c.ctx, c.tickTimeout)
	defer cancel()

	outcome, err := c.confirmer.Confirm(ctx)
	if err != nil {
		c.tickFailedLocked("confirm", err)
		return
	}
	c.reportLocked(PhasePurchasing, outcome.Message)
}

func (c *Controller) tickFailedLocked(loop string, err error) {
	if c.ctx.Err() != nil {
		// The run is going away; nothing to tell the operator.
		return
	}
	c.logger.Warn("Tick failed.", zap.String("loop", loop), zap.Error(err))
	c.reportLocked(PhaseError, fmt.Sprintf("%s failed: %v", loop, err))
}

// recoverTick converts a panic inside a tick into an Error status. Must be deferred
// while mu is held.
func (c *Controller) recoverTick(loop string) {
	if r := recover(); r != nil {
		c.logger.Error("Panic during tick.",
			zap.String("loop", loop),
			zap.Any("panic_reason", r),
			zap.String("stack", string(debug.Stack())))
		c.reportLocked(PhaseError, fmt.Sprintf("%s failed: %v", loop, r))
	}
}

func (c *Controller) phaseLocked() Phase {
	switch {
	case c.state == StateStopped:
		return PhaseStopped
	case c.purchasing:
		return PhasePurchasing
	case c.state == StateRunning:
		return PhaseRunning
	case c.state == StatePaused:
		return PhasePaused
	default:
		return PhaseIdle
	}
}

func (c *Controller) reportLocked(phase Phase, message string) {
	c.reporter.Report(Event{
		Phase:   phase,
		Message: message,
		Time:    c.now(),
		RunID:   c.runID,
	})
}
