// internal/status/log_reporter.go
package status

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// DefaultRepeatInterval bounds how often an unchanged status line is re-logged.
const DefaultRepeatInterval = 5 * time.Second

// LogReporter writes status events as structured log lines. At a 10ms scan
// cadence the same "no controls detected" message arrives a hundred times a
// second, so identical consecutive events are throttled; a changed message
// is always logged.
type LogReporter struct {
	logger *zap.Logger

	mu         sync.Mutex
	limiter    *rate.Limiter
	every      rate.Limit
	last       buyer.Event
	haveLast   bool
	suppressed int
}

var _ buyer.Reporter = (*LogReporter)(nil)

// NewLogReporter returns a reporter that re-logs a repeated event at most once per interval.
func NewLogReporter(logger *zap.Logger, interval time.Duration) *LogReporter {
	if interval <= 0 {
		interval = DefaultRepeatInterval
	}
	every := rate.Every(interval)
	return &LogReporter{
		logger:  logger.Named("status"),
		every:   every,
		limiter: rate.NewLimiter(every, 1),
	}
}

func (r *LogReporter) Report(ev buyer.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	repeat := r.haveLast && ev.Phase == r.last.Phase && ev.Message == r.last.Message
	if repeat && !r.limiter.AllowN(ev.Time, 1) {
		r.suppressed++
		return
	}
	if !repeat {
		// A fresh message gets a fresh budget so its first repeat is also rate limited.
		r.limiter = rate.NewLimiter(r.every, 1)
		r.limiter.AllowN(ev.Time, 1)
	}

	fields := []zap.Field{
		zap.String("phase", ev.Phase.String()),
		zap.String("run_id", ev.RunID),
	}
	if r.suppressed > 0 {
		fields = append(fields, zap.Int("suppressed", r.suppressed))
		r.suppressed = 0
	}

	switch {
	case ev.Phase == buyer.PhaseError:
		r.logger.Warn(ev.Message, fields...)
	case repeat:
		r.logger.Debug(ev.Message, fields...)
	default:
		r.logger.Info(ev.Message, fields...)
	}

	r.last = ev
	r.haveLast = true
}

func (r *LogReporter) DisableControl() {
	r.logger.Info("Start control disabled for this session.")
}
