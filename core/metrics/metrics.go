package metrics

import (
	"time"

	"github.com/kilianp07/pvsizing/core/model"
)

// RunEvent summarizes a finished sizing search.
type RunEvent struct {
	RunID         string
	Method        string
	Costs         model.Costs
	Sizing        model.Sizing
	BestCost      float64
	LoadServed    float64
	BatteryUptime float64
	Iterations    int
	Duration      time.Duration
	Time          time.Time
}

// MetricsSink records sizing runs for observability purposes.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// IterationEvent is one step of the search.
type IterationEvent struct {
	RunID     string
	Iteration int
	Sizing    model.Sizing
	Cost      float64
	Improved  bool
}

// IterationRecorder is implemented by sinks able to record search steps.
type IterationRecorder interface {
	RecordIteration(ev IterationEvent) error
}

// SimulationEvent records a standalone simulation at a fixed sizing.
type SimulationEvent struct {
	Sizing model.Sizing
	Report model.UptimeReport
	Cost   float64
	Time   time.Time
}

// SimulationRecorder records standalone simulations.
type SimulationRecorder interface {
	RecordSimulation(ev SimulationEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error               { return nil }
func (NopSink) RecordIteration(IterationEvent) error   { return nil }
func (NopSink) RecordSimulation(SimulationEvent) error { return nil }
