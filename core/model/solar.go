package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// HoursPerYear is the length of the simulated period.
const HoursPerYear = 24.0 * 365.0

var (
	// ErrEmptySeries is returned when a solar series holds no samples.
	ErrEmptySeries = errors.New("empty solar series")
	// ErrNegativePower is returned for negative or non-finite power samples.
	ErrNegativePower = errors.New("invalid solar power sample")
)

// Sample is one interval of solar output normalized to a 1 MW array.
type Sample struct {
	Time    time.Time
	PowerMW float64 // fraction of nameplate, 1.0 means full rated output
}

// Series is an ordered year of solar samples at a fixed interval.
type Series []Sample

// Powers returns the power values in order.
func (s Series) Powers() []float64 {
	out := make([]float64, len(s))
	for i, smp := range s {
		out[i] = smp.PowerMW
	}
	return out
}

// IntervalHours returns the duration of a single sample in hours.
func (s Series) IntervalHours() float64 {
	if len(s) == 0 {
		return 0
	}
	return HoursPerYear / float64(len(s))
}

// Validate checks that the series is usable by the simulator.
func (s Series) Validate() error {
	return ValidatePowers(s.Powers())
}

// ValidatePowers checks a raw power sequence.
func ValidatePowers(p []float64) error {
	if len(p) == 0 {
		return ErrEmptySeries
	}
	for i, v := range p {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample %d (%v): %w", i, v, ErrNegativePower)
		}
	}
	return nil
}
