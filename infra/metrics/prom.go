package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/pvsizing/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records sizing runs in Prometheus metrics.
type PromSink struct {
	runs       *prometheus.CounterVec
	iterations *prometheus.CounterVec
	bestCost   *prometheus.GaugeVec
	size       *prometheus.GaugeVec
	served     *prometheus.GaugeVec
	duration   prometheus.Histogram
	simulated  *prometheus.GaugeVec
}

// NewPromSink registers sizing metrics on the default Prometheus registerer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sizing_runs_total",
		Help: "Total number of sizing searches",
	}, []string{"method"})
	iterations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sizing_iterations_total",
		Help: "Total number of search iterations",
	}, []string{"improved"})
	bestCost := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sizing_best_cost",
		Help: "Best levelized cost found by the last search",
	}, []string{"load_cost"})
	size := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sizing_best_size",
		Help: "Best sizing found by the last search, relative to a 1 MW array",
	}, []string{"load_cost", "component"})
	served := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sizing_load_served_ratio",
		Help: "Fraction of load served at the best sizing",
	}, []string{"load_cost"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sizing_run_duration_seconds",
		Help:    "Wall time of a sizing search",
		Buckets: prometheus.DefBuckets,
	})
	simulated := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sizing_simulated_load_served_ratio",
		Help: "Fraction of load served by the last standalone simulation",
	}, []string{"array", "battery"})

	cols := []prometheus.Collector{runs, iterations, bestCost, size, served, duration, simulated}
	for i, c := range cols {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			cols[i] = are.ExistingCollector
		}
	}

	return &PromSink{
		runs:       cols[0].(*prometheus.CounterVec),
		iterations: cols[1].(*prometheus.CounterVec),
		bestCost:   cols[2].(*prometheus.GaugeVec),
		size:       cols[3].(*prometheus.GaugeVec),
		served:     cols[4].(*prometheus.GaugeVec),
		duration:   cols[5].(prometheus.Histogram),
		simulated:  cols[6].(*prometheus.GaugeVec),
	}, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// RecordRun updates the run counter and the best sizing gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	load := formatFloat(ev.Costs.Load)
	s.runs.WithLabelValues(ev.Method).Inc()
	s.bestCost.WithLabelValues(load).Set(ev.BestCost)
	s.size.WithLabelValues(load, "array").Set(ev.Sizing.Array)
	s.size.WithLabelValues(load, "battery").Set(ev.Sizing.Battery)
	s.served.WithLabelValues(load).Set(ev.LoadServed)
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordIteration counts search steps.
func (s *PromSink) RecordIteration(ev coremetrics.IterationEvent) error {
	s.iterations.WithLabelValues(strconv.FormatBool(ev.Improved)).Inc()
	return nil
}

// RecordSimulation sets the load served gauge for a fixed sizing.
func (s *PromSink) RecordSimulation(ev coremetrics.SimulationEvent) error {
	s.simulated.WithLabelValues(formatFloat(ev.Sizing.Array), formatFloat(ev.Sizing.Battery)).Set(ev.Report.LoadServed)
	return nil
}
