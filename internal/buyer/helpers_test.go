// internal/buyer/helpers_test.go
package buyer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// -- Fake Scheduler --

type fakeHandle struct {
	sched    *fakeScheduler
	interval time.Duration
	fn       func()
	stopped  bool
}

func (h *fakeHandle) Stop() {
	h.sched.mu.Lock()
	h.stopped = true
	h.sched.mu.Unlock()
}

// fire delivers a tick even when the handle was stopped, which is how a tick that raced
// with teardown looks to the controller.
func (h *fakeHandle) fire() { h.fn() }

func (h *fakeHandle) isStopped() bool {
	h.sched.mu.Lock()
	defer h.sched.mu.Unlock()
	return h.stopped
}

type fakeScheduler struct {
	mu      sync.Mutex
	handles []*fakeHandle
}

func (s *fakeScheduler) Every(interval time.Duration, fn func()) buyer.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := &fakeHandle{sched: s, interval: interval, fn: fn}
	s.handles = append(s.handles, h)
	return h
}

func (s *fakeScheduler) all() []*fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*fakeHandle, len(s.handles))
	copy(out, s.handles)
	return out
}

func (s *fakeScheduler) active() []*fakeHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeHandle
	for _, h := range s.handles {
		if !h.stopped {
			out = append(out, h)
		}
	}
	return out
}

// latest returns the most recently armed handle.
func (s *fakeScheduler) latest(t *testing.T) *fakeHandle {
	t.Helper()
	all := s.all()
	if len(all) == 0 {
		t.Fatal("no handle was ever armed")
	}
	return all[len(all)-1]
}

// -- Fake Page --

type fakeElement struct {
	mu        sync.Mutex
	text      string
	invocable bool
	invokeErr error
	clicks    int
}

func newElement(text string) *fakeElement {
	return &fakeElement{text: text, invocable: true}
}

func (e *fakeElement) Text() string    { return e.text }
func (e *fakeElement) Invocable() bool { return e.invocable }

func (e *fakeElement) Invoke(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.invokeErr != nil {
		return e.invokeErr
	}
	e.clicks++
	return nil
}

func (e *fakeElement) clickCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.clicks
}

type fakePage struct {
	mu       sync.Mutex
	elements map[string][]buyer.Element
	errs     map[string]error
	panics   map[string]bool
	queries  map[string]int
}

func newFakePage() *fakePage {
	return &fakePage{
		elements: make(map[string][]buyer.Element),
		errs:     make(map[string]error),
		panics:   make(map[string]bool),
		queries:  make(map[string]int),
	}
}

func (p *fakePage) set(selector string, elems ...*fakeElement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	list := make([]buyer.Element, 0, len(elems))
	for _, e := range elems {
		list = append(list, e)
	}
	p.elements[selector] = list
}

func (p *fakePage) fail(selector string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[selector] = err
}

func (p *fakePage) panicOn(selector string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.panics[selector] = true
}

func (p *fakePage) queryCount(selector string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queries[selector]
}

func (p *fakePage) Query(ctx context.Context, selector string) ([]buyer.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.queries[selector]++
	if p.panics[selector] {
		panic("query exploded")
	}
	if err := p.errs[selector]; err != nil {
		return nil, err
	}
	return p.elements[selector], nil
}

// -- Recording Reporter --

type recorder struct {
	mu       sync.Mutex
	events   []buyer.Event
	disabled int
}

func (r *recorder) Report(ev buyer.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) DisableControl() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled++
}

func (r *recorder) all() []buyer.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]buyer.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) last(t *testing.T) buyer.Event {
	t.Helper()
	all := r.all()
	if len(all) == 0 {
		t.Fatal("no event was reported")
	}
	return all[len(all)-1]
}

func (r *recorder) disabledCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disabled
}

// -- Fixture --

func newTestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

var fixedNow = time.Date(2026, 10, 18, 9, 59, 59, 0, time.UTC)

type fixture struct {
	ctrl  *buyer.Controller
	sched *fakeScheduler
	page  *fakePage
	rep   *recorder
}

func newFixture(t *testing.T, opts ...buyer.Option) *fixture {
	t.Helper()
	f := &fixture{
		sched: &fakeScheduler{},
		page:  newFakePage(),
		rep:   &recorder{},
	}
	base := []buyer.Option{
		buyer.WithScheduler(f.sched),
		buyer.WithClock(func() time.Time { return fixedNow }),
	}
	f.ctrl = buyer.NewController(context.Background(), f.page, f.rep, newTestLogger(t), append(base, opts...)...)
	return f
}

// onlyActive returns the single armed loop, failing if zero or two are armed.
func (f *fixture) onlyActive(t *testing.T) *fakeHandle {
	t.Helper()
	active := f.sched.active()
	if len(active) != 1 {
		t.Fatalf("expected exactly one armed loop, got %d", len(active))
	}
	return active[0]
}
