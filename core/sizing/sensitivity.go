package sizing

import "github.com/kilianp07/pvsizing/core/model"

// Sensitivity is the cost at a sizing and its response to growing each
// dimension on its own.
type Sensitivity struct {
	Cost        float64
	CostBattery float64 // cost with the battery grown
	CostArray   float64 // cost with the array grown
	// Elasticities are (cost - grown) / cost. Positive means growing that
	// dimension lowers the cost.
	BatteryElasticity float64
	ArrayElasticity   float64
}

// grow applies the relative plus absolute perturbation step.
func grow(x float64) float64 { return 1.01*x + 0.01 }

// CostAndElasticity evaluates SystemCost at s and at s with the battery and
// the array grown in isolation.
func CostAndElasticity(c model.Costs, s model.Sizing, solar []float64) Sensitivity {
	cost := SystemCost(c, s, solar)
	costBattery := SystemCost(c, model.Sizing{Array: s.Array, Battery: grow(s.Battery)}, solar)
	costArray := SystemCost(c, model.Sizing{Array: grow(s.Array), Battery: s.Battery}, solar)
	return Sensitivity{
		Cost:              cost,
		CostBattery:       costBattery,
		CostArray:         costArray,
		BatteryElasticity: (cost - costBattery) / cost,
		ArrayElasticity:   (cost - costArray) / cost,
	}
}
