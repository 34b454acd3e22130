// internal/buyer/scheduler.go
package buyer

import (
	"sync"
	"time"
)

// Handle is a repeating timer. Stop is idempotent and safe to call from within fn.
type Handle interface {
	Stop()
}

// Scheduler arms repeating timers.
type Scheduler interface {
	// Every calls fn every interval until the returned Handle is stopped.
	// fn must not be called before Every returns.
	Every(interval time.Duration, fn func()) Handle
}

// TickerScheduler runs each handle on its own goroutine driven by a time.Ticker.
// A tick that arrives while fn is still running is dropped rather than queued.
type TickerScheduler struct{}

// NewTickerScheduler returns the production Scheduler.
func NewTickerScheduler() *TickerScheduler {
	return &TickerScheduler{}
}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) Handle {
	h := &tickerHandle{
		ticker: time.NewTicker(interval),
		done:   make(chan struct{}),
	}
	go h.loop(fn)
	return h
}

type tickerHandle struct {
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func (h *tickerHandle) loop(fn func()) {
	defer h.ticker.Stop()
	for {
		select {
		case <-h.done:
			return
		case <-h.ticker.C:
			// Re-check so a tick racing with Stop is not delivered.
			select {
			case <-h.done:
				return
			default:
			}
			fn()
		}
	}
}

func (h *tickerHandle) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}
