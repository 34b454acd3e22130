// internal/buyer/confirm.go
package buyer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ConfirmKind identifies the branch a confirm tick took.
type ConfirmKind int

const (
	ConfirmMissing ConfirmKind = iota
	ConfirmClicked
	ConfirmNotInvocable
)

// ConfirmOutcome is the result of one confirm pass.
type ConfirmOutcome struct {
	Kind    ConfirmKind
	Message string
}

// ConfirmClicker clicks the first confirmation control of an open dialog, unconditionally.
type ConfirmClicker struct {
	page     Page
	selector string
	logger   *zap.Logger
}

func NewConfirmClicker(page Page, logger *zap.Logger) *ConfirmClicker {
	return &ConfirmClicker{
		page:     page,
		selector: ConfirmSelector,
		logger:   logger.Named("confirm"),
	}
}

// Confirm runs one confirmation pass.
func (c *ConfirmClicker) Confirm(ctx context.Context) (ConfirmOutcome, error) {
	controls, err := c.page.Query(ctx, c.selector)
	if err != nil {
		return ConfirmOutcome{}, fmt.Errorf("query confirm controls: %w", err)
	}
	if len(controls) == 0 || controls[0] == nil {
		return ConfirmOutcome{Kind: ConfirmMissing, Message: "confirm control missing"}, nil
	}

	control := controls[0]
	notInvocable := ConfirmOutcome{Kind: ConfirmNotInvocable, Message: "confirm control not clickable"}
	if !control.Invocable() {
		return notInvocable, nil
	}
	if err := control.Invoke(ctx); err != nil {
		if errors.Is(err, ErrNotInvocable) {
			return notInvocable, nil
		}
		return ConfirmOutcome{}, fmt.Errorf("click confirm control: %w", err)
	}
	c.logger.Debug("Clicked confirm control.")
	return ConfirmOutcome{Kind: ConfirmClicked, Message: "confirmed purchase dialog"}, nil
}
