// Package metrics exports sweep statistics as Prometheus collectors.
package metrics

import (
	"github.com/0x0FACED/go-sweepline/pkg/sweep"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "sweepline"
	subsystem = "sweep"
)

type Metrics struct {
	sweeps        prometheus.Counter
	events        prometheus.Counter
	intersections prometheus.Counter
	restarts      prometheus.Counter
	faulty        prometheus.Counter
	degraded      prometheus.Counter
	statusSize    prometheus.Histogram
	duration      prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sweeps_total",
			Help:      "The total number of finished sweeps.",
		}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "events_total",
			Help:      "The total number of events processed.",
		}),
		intersections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "intersections_total",
			Help:      "The total number of intersection points reported.",
		}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "restarts_total",
			Help:      "The total number of status rebuilds after failed removals.",
		}),
		faulty: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "faulty_segments_total",
			Help:      "The total number of segments that could not be found for removal.",
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "degraded_total",
			Help:      "The total number of sweeps that lost a segment without a restart.",
		}),
		statusSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "max_status_size",
			Help:      "The largest number of segments on the sweep line during a sweep.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "The time a sweep took.",
			// 10us to ~40s
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 12),
		}),
	}
	reg.MustRegister(
		m.sweeps,
		m.events,
		m.intersections,
		m.restarts,
		m.faulty,
		m.degraded,
		m.statusSize,
		m.duration,
	)
	return m
}

// Observe records the statistics of one finished sweep.
func (m *Metrics) Observe(st sweep.Stats) {
	m.sweeps.Inc()
	m.events.Add(float64(st.Events))
	m.intersections.Add(float64(st.Intersections))
	m.restarts.Add(float64(st.Restarts))
	m.faulty.Add(float64(st.Faulty))
	if st.Degraded {
		m.degraded.Inc()
	}
	m.statusSize.Observe(float64(st.MaxStatus))
	m.duration.Observe(st.Duration.Seconds())
}
