// internal/status/fanout.go
package status

import "github.com/xkilldash9x/snapbuy/internal/buyer"

// Fanout forwards every call to each of its reporters in order.
type Fanout []buyer.Reporter

var _ buyer.Reporter = Fanout(nil)

// NewFanout drops nil entries so optional sinks can be passed unconditionally.
func NewFanout(reporters ...buyer.Reporter) Fanout {
	out := make(Fanout, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

func (f Fanout) Report(ev buyer.Event) {
	for _, r := range f {
		r.Report(ev)
	}
}

func (f Fanout) DisableControl() {
	for _, r := range f {
		r.DisableControl()
	}
}
