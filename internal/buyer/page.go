// internal/buyer/page.go
package buyer

import (
	"context"
	"errors"
)

// Selectors the page layout is contracted to.
const (
	TriggerSelector = ".uno-grid-row .uno-button-inner-wrap"
	DialogSelector  = ".uno-dialog-body"
	ConfirmSelector = ".uno-dialog-footer .uno-button-inner-wrap"
)

// ErrNotInvocable is returned when a control exists but cannot be clicked.
var ErrNotInvocable = errors.New("element is not invocable")

// Element is a snapshot of one matched control.
type Element interface {
	// Text returns the trimmed visible text captured at query time.
	Text() string
	// Invocable reports whether the control exposes a click action.
	Invocable() bool
	// Invoke clicks the control. It does not wait for any effect of the click.
	Invoke(ctx context.Context) error
}

// Page is the element-query capability of the host document.
// Query returns the controls currently matching selector, in document order.
// Results are never cached between calls.
type Page interface {
	Query(ctx context.Context, selector string) ([]Element, error)
}
