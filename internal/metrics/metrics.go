// Package metrics exposes Prometheus collectors for dropdown loads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-orderstatus/pkg/dropdowns"
)

// Config names the collectors.
type Config struct {
	Namespace string
	Subsystem string
	Buckets   []float64
}

// DefaultConfig returns the default collector naming.
func DefaultConfig() Config {
	return Config{
		Namespace: "orderstatus",
		Subsystem: "dropdowns",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}
}

// Recorder implements dropdowns.Recorder on Prometheus collectors.
type Recorder struct {
	loads    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ dropdowns.Recorder = (*Recorder)(nil)

// NewRecorder builds the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer, cfg Config) (*Recorder, error) {
	defaults := DefaultConfig()
	if cfg.Namespace == "" {
		cfg.Namespace = defaults.Namespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = defaults.Subsystem
	}
	if len(cfg.Buckets) == 0 {
		cfg.Buckets = defaults.Buckets
	}

	r := &Recorder{
		loads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "loads_total",
				Help:      "Dropdown loads by source and by whether the sheet or the fallback lists were used.",
			},
			[]string{"source", "origin"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_duration_seconds",
				Help:      "Time spent fetching and extracting dropdown lists.",
				Buckets:   cfg.Buckets,
			},
			[]string{"source"},
		),
	}

	if reg != nil {
		for _, collector := range []prometheus.Collector{r.loads, r.duration} {
			if err := reg.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// ObserveLoad records one finished load.
func (r *Recorder) ObserveLoad(source string, origin dropdowns.Origin, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(source, string(origin)).Inc()
	r.duration.WithLabelValues(source).Observe(elapsed.Seconds())
}
