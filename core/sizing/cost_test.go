package sizing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kilianp07/pvsizing/core/model"
)

var testCosts = model.Costs{Solar: 100, Battery: 10, Load: 1000}

func TestSystemCost(t *testing.T) {
	solar := constant(8760, 1)
	cases := []struct {
		name   string
		sizing model.Sizing
		want   float64
	}{
		{"unit array", model.Sizing{Array: 1}, 1100},
		{"with storage", model.Sizing{Array: 1, Battery: 2}, 1120},
		{"double array", model.Sizing{Array: 2}, 1200},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.InDelta(t, c.want, SystemCost(testCosts, c.sizing, solar), 1e-9)
		})
	}
}

func TestSystemCost_NothingServed(t *testing.T) {
	got := SystemCost(testCosts, model.Sizing{Array: 1}, constant(8760, 0))
	if !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf got %v", got)
	}
	got = SystemCost(model.Costs{}, model.Sizing{Array: 1}, constant(8760, 0))
	if !math.IsNaN(got) {
		t.Fatalf("expected NaN got %v", got)
	}
}

func TestCostAndElasticity(t *testing.T) {
	solar := constant(8760, 1)
	s := model.Sizing{Array: 1}
	sens := CostAndElasticity(testCosts, s, solar)

	assert.Equal(t, SystemCost(testCosts, s, solar), sens.Cost)
	assert.InDelta(t, 1100.1, sens.CostBattery, 1e-9)
	assert.InDelta(t, 1102, sens.CostArray, 1e-9)
	assert.InDelta(t, (1100-1100.1)/1100, sens.BatteryElasticity, 1e-12)
	assert.InDelta(t, -2.0/1100, sens.ArrayElasticity, 1e-12)
}

func TestCostAndElasticity_MatchesSystemCost(t *testing.T) {
	solar := diurnal()
	for _, s := range []model.Sizing{{Array: 0.5, Battery: 0}, {Array: 2, Battery: 4}, {Array: 5.3, Battery: 12.1}} {
		sens := CostAndElasticity(testCosts, s, solar)
		if sens.Cost != SystemCost(testCosts, s, solar) {
			t.Fatalf("baseline mismatch for %+v", s)
		}
	}
}
