// Package metrics exports schema load statistics to Prometheus.
//
//	obs := metrics.NewObserver(prometheus.DefaultRegisterer)
//	s := userType.New(goschema.WithObserver(obs))
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	goschema "github.com/reoring/goschema"
)

const namespace = "goschema"

// Observer implements goschema.Observer.
type Observer struct {
	LoadsTotal    *prometheus.CounterVec
	LoadFailures  *prometheus.CounterVec
	LoadDuration  *prometheus.HistogramVec
	Reloads       prometheus.Counter
	ReloadErrors  prometheus.Counter
	SchemasLoaded prometheus.Gauge
}

// NewObserver creates the collectors and registers them with reg.
func NewObserver(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	return &Observer{
		LoadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "loads_total",
				Help:      "Total number of Schema.Load calls",
			},
			[]string{"schema", "many"},
		),
		LoadFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "load_failures_total",
				Help:      "Failed loads by failure kind",
			},
			[]string{"schema", "kind"},
		),
		LoadDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "load_duration_seconds",
				Help:      "Schema.Load duration in seconds",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
			},
			[]string{"schema"},
		),
		Reloads: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definition_reloads_total",
				Help:      "Total number of definition file reloads",
			},
		),
		ReloadErrors: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "definition_reload_errors_total",
				Help:      "Total number of failed definition file reloads",
			},
		),
		SchemasLoaded: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "schemas_defined",
				Help:      "Number of schema types defined by the last successful reload",
			},
		),
	}
}

// ObserveLoad records one load. Failures that are not *goschema.Error are
// counted under kind "other".
func (o *Observer) ObserveLoad(schema string, many bool, elapsed time.Duration, err error) {
	o.LoadsTotal.WithLabelValues(schema, strconv.FormatBool(many)).Inc()
	o.LoadDuration.WithLabelValues(schema).Observe(elapsed.Seconds())
	if err == nil {
		return
	}
	kind := "other"
	if e, ok := goschema.AsError(err); ok {
		kind = e.Kind
	}
	o.LoadFailures.WithLabelValues(schema, kind).Inc()
}

// ObserveReload records a definition reload that defined n schema types.
func (o *Observer) ObserveReload(n int, err error) {
	o.Reloads.Inc()
	if err != nil {
		o.ReloadErrors.Inc()
		return
	}
	o.SchemasLoaded.Set(float64(n))
}

var _ goschema.Observer = (*Observer)(nil)
