package metrics

import (
	"errors"
	"io"
)

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks, returning the first error encountered.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordIteration forwards search steps to sinks that support them.
func (m *MultiSink) RecordIteration(ev IterationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(IterationRecorder); ok {
			if err := rec.RecordIteration(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordSimulation forwards simulations to sinks that support them.
func (m *MultiSink) RecordSimulation(ev SimulationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SimulationRecorder); ok {
			if err := rec.RecordSimulation(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources and joins their errors.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
