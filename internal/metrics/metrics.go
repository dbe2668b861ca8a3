// Package metrics records probe results as Prometheus metrics
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aryankumar/probectl/internal/probe"
)

const namespace = "probectl"

// Sink decorates another sink and records every result it forwards
// Each Sink owns its registry, so runs in one process do not share counters
type Sink struct {
	next     probe.Sink
	registry *prometheus.Registry

	results  *prometheus.CounterVec
	retries  *prometheus.GaugeVec
	duration *prometheus.HistogramVec
	failed   prometheus.Gauge
	lastRun  prometheus.Gauge

	mu      sync.Mutex
	started map[string]time.Time
}

// NewSink wraps next; a nil next discards results after recording them
// The plan name is attached to every metric as a constant label
func NewSink(next probe.Sink, planName string) *Sink {
	if next == nil {
		next = probe.Discard
	}
	labels := prometheus.Labels{"plan": planName}

	s := &Sink{
		next:     next,
		registry: prometheus.NewRegistry(),
		started:  make(map[string]time.Time),

		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Name:        "probe_results_total",
				Help:        "Total number of probe results by status",
				ConstLabels: labels,
			},
			[]string{"status"},
		),
		retries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "probe_retries",
				Help:        "Retries used by each probe",
				ConstLabels: labels,
			},
			[]string{"probe"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   namespace,
				Name:        "probe_duration_seconds",
				Help:        "Time from the first result of a probe to its outcome",
				ConstLabels: labels,
				Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
			[]string{"status"},
		),
		failed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "probes_failed",
			Help:        "Number of probes that ended in ERROR or FATAL",
			ConstLabels: labels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "last_run_timestamp_seconds",
			Help:        "Unix time the metrics were last written",
			ConstLabels: labels,
		}),
	}

	s.registry.MustRegister(s.results, s.retries, s.duration, s.failed, s.lastRun)
	return s
}

// Publish records the result and forwards it
func (s *Sink) Publish(result probe.Result) {
	s.results.WithLabelValues(result.Status.String()).Inc()

	switch {
	case result.Status == probe.StatusRetry:
		s.retries.WithLabelValues(result.Name).Set(float64(result.Retries + 1))
	case result.Status.Terminal():
		s.retries.WithLabelValues(result.Name).Set(float64(result.Retries))
		if result.Status != probe.StatusOK {
			s.failed.Inc()
		}
	}

	s.observeDuration(result)
	s.next.Publish(result)
}

func (s *Sink) observeDuration(result probe.Result) {
	s.mu.Lock()
	start, seen := s.started[result.Name]
	if !seen {
		start = result.Time
		s.started[result.Name] = start
	}
	s.mu.Unlock()

	if result.Status.Terminal() {
		s.duration.WithLabelValues(result.Status.String()).Observe(result.Time.Sub(start).Seconds())
	}
}

// AllSuccessful delegates to the wrapped sink
func (s *Sink) AllSuccessful() bool { return s.next.AllSuccessful() }

// SuccessCount delegates to the wrapped sink
func (s *Sink) SuccessCount() int { return s.next.SuccessCount() }

// TotalCount delegates to the wrapped sink
func (s *Sink) TotalCount() int { return s.next.TotalCount() }

// Registry exposes the registry holding the probe metrics
func (s *Sink) Registry() *prometheus.Registry {
	return s.registry
}

// WriteTextfile writes the metrics in the text exposition format
// The file is written atomically, for the node exporter textfile collector
func (s *Sink) WriteTextfile(path string) error {
	s.lastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, s.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
