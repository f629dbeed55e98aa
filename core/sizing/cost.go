package sizing

import "github.com/kilianp07/pvsizing/core/model"

// SystemCost returns the all-in cost per unit of load actually served for the
// given sizing. The solar and load costs enter as flat charges; only storage
// scales with the per-array capacity.
func SystemCost(c model.Costs, s model.Sizing, solar []float64) float64 {
	capacity := s.Battery / s.Array
	load := 1 / s.Array
	r := Uptime(capacity, load, solar)
	return (capacity*c.Battery + c.Solar + c.Load*load) / (load * r.LoadServed)
}
