package metrics

import "github.com/prometheus/client_golang/prometheus"

// Synthesis metrics. Registered explicitly (no init()) so library consumers
// of the builder do not pull them in.
var (
	SynthTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aossindex",
			Name:      "synth_total",
			Help:      "Total number of template synthesis attempts",
		},
		[]string{"outcome"},
	)

	SynthDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aossindex",
			Name:      "synth_duration_seconds",
			Help:      "Template synthesis duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	TemplateResources = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aossindex",
			Name:      "template_resources",
			Help:      "Number of resources per synthesized template",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		},
	)
)

// Synthesis outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// RegisterSynthMetrics registers synthesis metrics with the default registry.
func RegisterSynthMetrics() {
	prometheus.MustRegister(SynthTotal)
	prometheus.MustRegister(SynthDuration)
	prometheus.MustRegister(TemplateResources)
}
