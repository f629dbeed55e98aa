package sizing

import (
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/kilianp07/pvsizing/core/model"
)

func clampSizing(x []float64) model.Sizing {
	return model.Sizing{Battery: atLeast(x[0], minBattery), Array: atLeast(x[1], minArray)}
}

// refine polishes a sizing with a Nelder-Mead simplex over the same cost
// surface. The candidate replaces the start only when strictly cheaper.
func (o *Optimizer) refine(c model.Costs, start model.Sizing, startCost float64, solar []float64) (model.Sizing, float64) {
	p := optimize.Problem{
		Func: func(x []float64) float64 {
			v := SystemCost(c, clampSizing(x), solar)
			if math.IsNaN(v) {
				return math.Inf(1)
			}
			return v
		},
	}
	settings := &optimize.Settings{MajorIterations: o.cfg.RefineIterations}
	res, err := optimize.Minimize(p, []float64{start.Battery, start.Array}, settings, &optimize.NelderMead{})
	if err != nil {
		o.log.Debugf("nelder-mead: %v", err)
	}
	if res == nil {
		return start, startCost
	}
	cand := clampSizing(res.X)
	cost := SystemCost(c, cand, solar)
	if cost < startCost {
		o.log.Debugw("nelder-mead improved", map[string]any{
			"battery": cand.Battery, "array": cand.Array, "cost": cost, "previous": startCost,
		})
		return cand, cost
	}
	return start, startCost
}
