// internal/buyer/scanner.go
package buyer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// triggerIndex is the position of the real purchase trigger among the matched controls.
// The page renders a decoy control first.
const triggerIndex = 1

// OutcomeKind identifies which branch a scan took.
type OutcomeKind int

const (
	OutcomeNotFound OutcomeKind = iota
	OutcomeClicked
	OutcomeIgnored
	OutcomeTerminal
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeClicked:
		return "clicked"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeTerminal:
		return "terminal"
	default:
		return "not_found"
	}
}

// ScanOutcome is the result of one trigger scan. Message is the operator-facing
// description of the branch taken.
type ScanOutcome struct {
	Kind    OutcomeKind
	Text    string
	Count   int
	Message string
}

// Scanner inspects the trigger controls and clicks the purchase trigger when it is actionable.
type Scanner struct {
	page     Page
	selector string
	logger   *zap.Logger
}

// NewScanner creates a Scanner bound to the trigger selector.
func NewScanner(page Page, logger *zap.Logger) *Scanner {
	return &Scanner{
		page:     page,
		selector: TriggerSelector,
		logger:   logger.Named("scanner"),
	}
}

// Scan runs one detection pass. A Terminal outcome is only reported here; stopping the
// run is the caller's job.
func (s *Scanner) Scan(ctx context.Context) (ScanOutcome, error) {
	controls, err := s.page.Query(ctx, s.selector)
	if err != nil {
		return ScanOutcome{}, fmt.Errorf("query trigger controls: %w", err)
	}

	if len(controls) <= triggerIndex {
		return ScanOutcome{
			Kind:    OutcomeNotFound,
			Count:   len(controls),
			Message: describeControls(controls),
		}, nil
	}

	candidate := controls[triggerIndex]
	if candidate == nil {
		return ScanOutcome{
			Kind:    OutcomeNotFound,
			Count:   len(controls),
			Message: "trigger control missing",
		}, nil
	}

	text := strings.TrimSpace(candidate.Text())
	verdict := Classify(text)
	s.logger.Debug("Classified trigger control.", zap.String("text", text), zap.Stringer("kind", verdict.Kind))

	switch verdict.Kind {
	case KindTerminal:
		return ScanOutcome{
			Kind:    OutcomeTerminal,
			Text:    text,
			Count:   len(controls),
			Message: fmt.Sprintf("sold out detected, stopping [control: %s]", text),
		}, nil
	case KindIgnorable:
		return ScanOutcome{
			Kind:    OutcomeIgnored,
			Text:    text,
			Count:   len(controls),
			Message: fmt.Sprintf("ignoring control: %s", text),
		}, nil
	}

	notClickable := ScanOutcome{
		Kind:    OutcomeNotFound,
		Text:    text,
		Count:   len(controls),
		Message: fmt.Sprintf("control not clickable: %s", text),
	}
	if !candidate.Invocable() {
		return notClickable, nil
	}
	if err := candidate.Invoke(ctx); err != nil {
		if errors.Is(err, ErrNotInvocable) {
			return notClickable, nil
		}
		return ScanOutcome{}, fmt.Errorf("click trigger control %q: %w", text, err)
	}

	return ScanOutcome{
		Kind:    OutcomeClicked,
		Text:    text,
		Count:   len(controls),
		Message: fmt.Sprintf("clicked control: %s", text),
	}, nil
}

// describeControls renders the controls found when there are too few to pick the trigger.
func describeControls(controls []Element) string {
	if len(controls) == 0 {
		return "no controls detected"
	}
	parts := make([]string, 0, len(controls))
	for i, c := range controls {
		text := ""
		if c != nil {
			text = strings.TrimSpace(c.Text())
		}
		if text == "" {
			text = "no text"
		}
		parts = append(parts, fmt.Sprintf("control %d: %q", i, text))
	}
	return fmt.Sprintf("detected %d control(s) [%s]", len(controls), strings.Join(parts, ", "))
}
