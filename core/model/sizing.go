package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCosts is returned when unit costs cannot drive an optimization.
var ErrInvalidCosts = errors.New("invalid costs")

// Costs holds unit costs for the array, the storage and the load.
type Costs struct {
	Solar   float64 `json:"solar"`
	Battery float64 `json:"battery"`
	Load    float64 `json:"load"`
}

// Validate ensures every cost is finite and non-negative. A zero load cost is
// valid: the search then minimizes the energy cost alone.
func (c Costs) Validate() error {
	for name, v := range map[string]float64{"solar": c.Solar, "battery": c.Battery, "load": c.Load} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s cost %v: %w", name, v, ErrInvalidCosts)
		}
	}
	return nil
}

// Sizing is a candidate system expressed relative to a 1 MW reference array
// serving a 1 MW load.
type Sizing struct {
	Array   float64 `json:"array"`
	Battery float64 `json:"battery"`
}

// UptimeReport summarizes a year of simulated dispatch.
type UptimeReport struct {
	Capacity      float64 `json:"capacity"`       // battery capacity per unit array (MWh)
	Load          float64 `json:"load"`           // load per unit array (MW)
	BatteryUptime float64 `json:"battery_uptime"` // fraction of intervals with a charged battery
	LoadServed    float64 `json:"load_served"`    // time weighted fraction of load served
}

// CostBreakdown splits the installed cost.
type CostBreakdown struct {
	Array   float64 `json:"array"`
	Storage float64 `json:"storage"`
	Load    float64 `json:"load"`
}

// Totals aggregates a CostBreakdown.
type Totals struct {
	Hardware      float64 `json:"hardware"`        // array + storage
	Total         float64 `json:"total"`           // hardware + load
	PerServedLoad float64 `json:"per_served_load"` // total / load served fraction
}

// OptimizationResult is the outcome of a sizing search.
type OptimizationResult struct {
	RunID      string        `json:"run_id"`
	Method     string        `json:"method"`
	Iterations int           `json:"iterations"`
	Costs      Costs         `json:"costs"`
	Sizing     Sizing        `json:"sizing"`
	BestCost   float64       `json:"best_cost"`
	Breakdown  CostBreakdown `json:"breakdown"`
	Totals     Totals        `json:"totals"`
	Report     UptimeReport  `json:"report"`
}

// NewBreakdown computes the final economics of a sizing. Load served is the
// fraction reported by the simulator for that sizing.
func NewBreakdown(c Costs, s Sizing, loadServed float64) (CostBreakdown, Totals) {
	b := CostBreakdown{
		Array:   c.Solar * s.Array,
		Storage: c.Battery * s.Battery,
		Load:    c.Load,
	}
	total := b.Array + b.Storage + b.Load
	return b, Totals{
		Hardware:      b.Array + b.Storage,
		Total:         total,
		PerServedLoad: total / loadServed,
	}
}
