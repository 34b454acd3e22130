// internal/buyer/intervals.go
package buyer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Cadence bounds, in milliseconds, accepted for both loops.
const (
	MinIntervalMs = 10
	MaxIntervalMs = 1000

	DefaultScanIntervalMs    = 100
	DefaultConfirmIntervalMs = 100
)

// ErrInvalidInterval is returned for operator input outside [MinIntervalMs, MaxIntervalMs].
var ErrInvalidInterval = errors.New("interval must be between 10 and 1000 milliseconds")

// Intervals holds the cadence of the scan and confirm loops.
type Intervals struct {
	Scan    time.Duration
	Confirm time.Duration
}

// DefaultIntervals returns the cadence used when nothing is configured.
func DefaultIntervals() Intervals {
	return Intervals{
		Scan:    DefaultScanIntervalMs * time.Millisecond,
		Confirm: DefaultConfirmIntervalMs * time.Millisecond,
	}
}

// NewIntervals validates both values and builds an Intervals.
func NewIntervals(scanMs, confirmMs int) (Intervals, error) {
	if err := checkMs("scan", scanMs); err != nil {
		return Intervals{}, err
	}
	if err := checkMs("confirm", confirmMs); err != nil {
		return Intervals{}, err
	}
	return Intervals{
		Scan:    time.Duration(scanMs) * time.Millisecond,
		Confirm: time.Duration(confirmMs) * time.Millisecond,
	}, nil
}

// ParseIntervals parses raw operator input, rejecting anything that is not a base-10 integer.
func ParseIntervals(scan, confirm string) (Intervals, error) {
	scanMs, err := strconv.Atoi(strings.TrimSpace(scan))
	if err != nil {
		return Intervals{}, fmt.Errorf("scan interval %q: %w", scan, ErrInvalidInterval)
	}
	confirmMs, err := strconv.Atoi(strings.TrimSpace(confirm))
	if err != nil {
		return Intervals{}, fmt.Errorf("confirm interval %q: %w", confirm, ErrInvalidInterval)
	}
	return NewIntervals(scanMs, confirmMs)
}

// Validate re-checks an Intervals that may have been built by hand.
func (iv Intervals) Validate() error {
	if iv.Scan%time.Millisecond != 0 || iv.Confirm%time.Millisecond != 0 {
		return fmt.Errorf("intervals must be whole milliseconds: %w", ErrInvalidInterval)
	}
	_, err := NewIntervals(int(iv.Scan.Milliseconds()), int(iv.Confirm.Milliseconds()))
	return err
}

func (iv Intervals) String() string {
	return fmt.Sprintf("scan %dms, confirm %dms", iv.Scan.Milliseconds(), iv.Confirm.Milliseconds())
}

func checkMs(name string, ms int) error {
	if ms < MinIntervalMs || ms > MaxIntervalMs {
		return fmt.Errorf("%s interval %dms: %w", name, ms, ErrInvalidInterval)
	}
	return nil
}
