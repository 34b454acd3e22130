// Package metrics exposes controller status as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xkilldash9x/snapbuy/internal/buyer"
)

// Recorder implements buyer.Reporter on a private registry, so several
// controllers in one process (or tests) never collide on registration.
type Recorder struct {
	registry *prometheus.Registry

	eventsTotal     *prometheus.CounterVec
	phase           *prometheus.GaugeVec
	controlDisabled prometheus.Gauge
	lastEvent       prometheus.Gauge
}

var _ buyer.Reporter = (*Recorder)(nil)

// NewRecorder creates a recorder whose registry also carries the Go and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	r := &Recorder{
		registry: reg,
		eventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "snapbuy_status_events_total",
				Help: "Total number of status events by phase",
			},
			[]string{"phase"},
		),
		phase: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "snapbuy_phase",
				Help: "1 for the phase of the most recent status event, 0 otherwise",
			},
			[]string{"phase"},
		),
		controlDisabled: factory.NewGauge(prometheus.GaugeOpts{
			Name: "snapbuy_control_disabled",
			Help: "1 once the start control has been disabled for this session",
		}),
		lastEvent: factory.NewGauge(prometheus.GaugeOpts{
			Name: "snapbuy_last_event_timestamp_seconds",
			Help: "Unix time of the most recent status event",
		}),
	}

	// Pre-create every series so dashboards see zeros before the first event.
	for _, p := range buyer.Phases() {
		r.eventsTotal.WithLabelValues(p.String())
		r.phase.WithLabelValues(p.String()).Set(0)
	}
	r.phase.WithLabelValues(buyer.PhaseIdle.String()).Set(1)
	return r
}

func (r *Recorder) Report(ev buyer.Event) {
	r.eventsTotal.WithLabelValues(ev.Phase.String()).Inc()
	for _, p := range buyer.Phases() {
		v := 0.0
		if p == ev.Phase {
			v = 1
		}
		r.phase.WithLabelValues(p.String()).Set(v)
	}
	if !ev.Time.IsZero() {
		r.lastEvent.Set(float64(ev.Time.UnixNano()) / 1e9)
	}
}

func (r *Recorder) DisableControl() {
	r.controlDisabled.Set(1)
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
