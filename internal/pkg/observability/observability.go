package observability

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "tracediag"
)

// Metrics are the run metrics of a single tracediag invocation. They live in their own
// registry because the process exits right after the run: the registry is exported
// once as a textfile instead of being scraped.
type Metrics struct {
	Registry *prometheus.Registry

	RowsProcessed  prometheus.Counter
	GewekeFailures prometheus.Counter
	TraceSamples   prometheus.Gauge
	TraceVariables prometheus.Gauge
	RunDuration    prometheus.Gauge
	LastRunSuccess prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RowsProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(ServiceName, "diagnostics", "rows_processed_total"),
			Help: "Number of trace rows plotted and summarized",
		}),
		GewekeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: prometheus.BuildFQName(ServiceName, "diagnostics", "geweke_failures_total"),
			Help: "Number of trace rows whose Geweke diagnostic could not be computed or plotted",
		}),
		TraceSamples: factory.NewGauge(prometheus.GaugeOpts{
			Name: prometheus.BuildFQName(ServiceName, "trace", "samples"),
			Help: "Number of samples per variable in the loaded trace",
		}),
		TraceVariables: factory.NewGauge(prometheus.GaugeOpts{
			Name: prometheus.BuildFQName(ServiceName, "trace", "variables"),
			Help: "Number of variables in the loaded trace",
		}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: prometheus.BuildFQName(ServiceName, "run", "duration_seconds"),
			Help: "Duration of the last run in seconds",
		}),
		LastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: prometheus.BuildFQName(ServiceName, "run", "last_success"),
			Help: "Whether the last run finished without a fatal error (1) or not (0)",
		}),
	}
}

// WriteTextfile atomically writes the registry to path in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrap(err, "failed to write metrics textfile")
	}
	return nil
}
