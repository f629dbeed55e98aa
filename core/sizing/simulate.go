package sizing

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/pvsizing/core/model"
)

// Trajectory holds the per-interval state of a simulated year.
type Trajectory struct {
	// Battery has one more entry than the solar series; Battery[0] is the
	// initial full charge.
	Battery []float64
	// Utilization is the fraction of load served in each interval.
	Utilization []float64
	// IntervalHours is the length of one interval.
	IntervalHours float64
}

// Simulate dispatches solar into a battery of the given capacity (MWh) to
// serve a constant load (MW). Surplus solar charges the battery up to its
// capacity, deficits are drawn from it until empty. No look-ahead.
func Simulate(capacity, load float64, solar []float64) Trajectory {
	n := len(solar)
	battery := make([]float64, n+1)
	utilization := make([]float64, n)
	battery[0] = capacity
	dt := model.HoursPerYear / float64(n)

	for i, sol := range solar {
		deficit := (load - sol) * dt
		switch {
		case sol > load:
			utilization[i] = 1
			battery[i+1] = math.Min(battery[i]+dt*(sol-load), capacity)
		case battery[i] > deficit:
			utilization[i] = 1
			battery[i+1] = battery[i] - deficit
		default:
			// drained: serve what solar and the remaining charge allow
			utilization[i] = math.Min((sol*dt+battery[i])/(load*dt), 1)
			battery[i+1] = 0
		}
	}
	return Trajectory{Battery: battery, Utilization: utilization, IntervalHours: dt}
}

// Report reduces the trajectory to the yearly uptime figures.
func (t Trajectory) Report(capacity, load float64) model.UptimeReport {
	n := len(t.Utilization)
	charged := 0
	for _, b := range t.Battery[:n] {
		if b > 0 {
			charged++
		}
	}
	return model.UptimeReport{
		Capacity:      capacity,
		Load:          load,
		BatteryUptime: float64(charged) / float64(n),
		LoadServed:    t.IntervalHours * floats.Sum(t.Utilization) / model.HoursPerYear,
	}
}

// Uptime simulates a year and reports the fraction of intervals the battery
// held charge and the time weighted fraction of load served.
func Uptime(capacity, load float64, solar []float64) model.UptimeReport {
	return Simulate(capacity, load, solar).Report(capacity, load)
}
