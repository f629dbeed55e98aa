package metrics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/pvsizing/core/factory"
)

var sinkRegistry = factory.NewRegistry[MetricsSink]()

// RegisterMetricsSink adds a metrics sink factory identified by name.
func RegisterMetricsSink(name string, f factory.Factory[MetricsSink]) error {
	return sinkRegistry.Register(name, f)
}

func createSink(cfg factory.ModuleConfig) (MetricsSink, error) {
	s, err := sinkRegistry.Create(cfg)
	if errors.Is(err, factory.ErrUnknownType) {
		return nil, fmt.Errorf("metrics sink: %w (available: %s)", err, strings.Join(sinkRegistry.Types(), ", "))
	}
	return s, err
}

// NewMetricsSink creates a MetricsSink from the provided configuration.
func NewMetricsSink(cfgs []factory.ModuleConfig) (MetricsSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return createSink(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := createSink(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
