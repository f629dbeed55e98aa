package sizing

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func alternating(n int, lo, hi float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		if i%2 == 0 {
			out[i] = lo
		} else {
			out[i] = hi
		}
	}
	return out
}

func TestUptime_SolarMatchesLoad(t *testing.T) {
	solar := constant(8760, 1)

	r := Uptime(0, 1, solar)
	assert.InDelta(t, 1.0, r.LoadServed, 1e-12)
	assert.Equal(t, 0.0, r.BatteryUptime)

	r = Uptime(5, 1, solar)
	assert.InDelta(t, 1.0, r.LoadServed, 1e-12)
	assert.Equal(t, 1.0, r.BatteryUptime)
	assert.Equal(t, 5.0, r.Capacity)
	assert.Equal(t, 1.0, r.Load)
}

func TestUptime_NoSunNoBattery(t *testing.T) {
	for _, load := range []float64{0.1, 1, 42} {
		r := Uptime(0, load, constant(8760, 0))
		if r.LoadServed != 0 {
			t.Fatalf("load %v: expected 0 served got %v", load, r.LoadServed)
		}
	}
}

func TestUptime_SurplusWithoutBattery(t *testing.T) {
	r := Uptime(0, 1, constant(8760, 1.2))
	assert.InDelta(t, 1.0, r.LoadServed, 1e-12)
	assert.Equal(t, 0.0, r.BatteryUptime)
}

func TestUptime_AlternatingBuffered(t *testing.T) {
	solar := alternating(8760, 0, 2)

	cases := []struct {
		capacity  float64
		served    float64
		batteryUp float64
	}{
		{capacity: 0, served: 0.5, batteryUp: 0},
		{capacity: 0.5, served: 0.75, batteryUp: 0.5},
		{capacity: 1, served: 1, batteryUp: 0.5},
		{capacity: 1e6, served: 1, batteryUp: 1},
	}
	prev := -1.0
	for _, c := range cases {
		r := Uptime(c.capacity, 1, solar)
		assert.InDelta(t, c.served, r.LoadServed, 1e-9, "capacity %v", c.capacity)
		assert.InDelta(t, c.batteryUp, r.BatteryUptime, 1e-9, "capacity %v", c.capacity)
		assert.GreaterOrEqual(t, r.LoadServed, prev)
		prev = r.LoadServed
	}
	assert.Less(t, Uptime(0, 1, solar).LoadServed, 1.0)
}

func TestSimulate_TrajectoryShape(t *testing.T) {
	solar := []float64{0, 0.5, 2, 0}
	tr := Simulate(3, 1, solar)
	if len(tr.Battery) != len(solar)+1 {
		t.Fatalf("battery length %d", len(tr.Battery))
	}
	if len(tr.Utilization) != len(solar) {
		t.Fatalf("utilization length %d", len(tr.Utilization))
	}
	if tr.Battery[0] != 3 {
		t.Fatalf("expected initial charge 3 got %v", tr.Battery[0])
	}
	if tr.IntervalHours != 2190 {
		t.Fatalf("expected 2190h interval got %v", tr.IntervalHours)
	}
}

func TestSimulate_Bounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := 0; trial < 200; trial++ {
		n := 1 + rng.IntN(500)
		solar := make([]float64, n)
		peak := 3 * rng.Float64()
		for i := range solar {
			if rng.Float64() < 0.3 {
				continue
			}
			solar[i] = peak * rng.Float64()
		}
		capacity := 0.0
		if rng.Float64() < 0.8 {
			capacity = 1000 * rng.Float64()
		}
		load := 0.01 + 2*rng.Float64()

		tr := Simulate(capacity, load, solar)
		for i, u := range tr.Utilization {
			if u < 0 || u > 1 {
				t.Fatalf("trial %d: utilization[%d]=%v out of [0,1]", trial, i, u)
			}
		}
		for i, b := range tr.Battery {
			if b < 0 || b > capacity {
				t.Fatalf("trial %d: battery[%d]=%v out of [0,%v]", trial, i, b, capacity)
			}
		}
		r := tr.Report(capacity, load)
		if r.LoadServed < 0 || r.LoadServed > 1+1e-12 {
			t.Fatalf("trial %d: load served %v", trial, r.LoadServed)
		}
		if r.BatteryUptime < 0 || r.BatteryUptime > 1 {
			t.Fatalf("trial %d: battery uptime %v", trial, r.BatteryUptime)
		}
	}
}
