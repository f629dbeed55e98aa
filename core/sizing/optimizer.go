package sizing

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/pvsizing/core/logger"
	"github.com/kilianp07/pvsizing/core/metrics"
	"github.com/kilianp07/pvsizing/core/model"
)

// ErrInvalidInput wraps validation failures of Optimizer.Run.
var ErrInvalidInput = errors.New("invalid optimizer input")

// initialBestCost gates which evaluated sizing can win. It is never reported.
const initialBestCost = 1e10

const (
	minBattery = 0.0
	minArray   = 0.01
)

// Optimizer searches for the cheapest sizing with a stochastic walk along
// the local cost elasticities.
type Optimizer struct {
	cfg     Config
	rng     *rand.Rand
	log     logger.Logger
	metrics metrics.MetricsSink
	now     func() time.Time
}

// NewOptimizer returns an optimizer. A nil rng is seeded from cfg.Seed, or
// randomly when no seed is configured. Nil log and sink disable logging and
// metrics.
func NewOptimizer(cfg Config, rng *rand.Rand, log logger.Logger, sink metrics.MetricsSink) (*Optimizer, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("optimizer config: %w", err)
	}
	if rng == nil {
		seed := rand.Uint64()
		if cfg.Seed != nil {
			seed = *cfg.Seed
		}
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Optimizer{cfg: cfg, rng: rng, log: log, metrics: sink, now: time.Now}, nil
}

// uniform draws from [0.1, 1).
func (o *Optimizer) uniform() float64 {
	return 0.1 + 0.9*o.rng.Float64()
}

// atLeast clamps x to lo. NaN collapses to lo.
func atLeast(x, lo float64) float64 {
	if x > lo {
		return x
	}
	return lo
}

// Run searches for the cheapest sizing for the given costs and solar series.
// It always runs the configured number of iterations; ctx is only checked
// between iterations.
func (o *Optimizer) Run(ctx context.Context, c model.Costs, solar []float64) (*model.OptimizationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := model.ValidatePowers(solar); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	start := o.now()
	runID := uuid.NewString()
	iterRec, _ := o.metrics.(metrics.IterationRecorder)

	var cur model.Sizing
	cur.Battery, cur.Array = o.cfg.Regime.InitialSizing(c.Load)
	amplitude := o.cfg.Regime.Amplitude(c.Load)
	best, bestCost := cur, initialBestCost
	found := false

	o.log.Debugw("sizing search start", map[string]any{
		"run_id":    runID,
		"battery":   cur.Battery,
		"array":     cur.Array,
		"amplitude": amplitude,
	})

	for i := 0; i < o.cfg.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sens := CostAndElasticity(c, cur, solar)
		improved := sens.Cost < bestCost
		if improved {
			best, bestCost, found = cur, sens.Cost, true
		}
		o.log.Debugw("sizing iteration", map[string]any{
			"run_id":      runID,
			"iteration":   i,
			"battery":     cur.Battery,
			"array":       cur.Array,
			"cost":        sens.Cost,
			"d_battery":   sens.BatteryElasticity,
			"d_array":     sens.ArrayElasticity,
			"best_cost":   bestCost,
			"improvement": improved,
		})
		if iterRec != nil {
			if err := iterRec.RecordIteration(metrics.IterationEvent{
				RunID: runID, Iteration: i, Sizing: cur, Cost: sens.Cost, Improved: improved,
			}); err != nil {
				o.log.Warnf("record iteration: %v", err)
			}
		}
		cur.Battery = atLeast(cur.Battery+amplitude*o.uniform()*sens.BatteryElasticity, minBattery)
		cur.Array = atLeast(cur.Array+amplitude*o.uniform()*sens.ArrayElasticity, minArray)
	}

	if !found {
		// nothing beat the gate: report the real cost of the start sizing
		bestCost = SystemCost(c, best, solar)
	}
	if o.cfg.Method == MethodNelderMead {
		best, bestCost = o.refine(c, best, bestCost, solar)
	}

	rep := Uptime(best.Battery/best.Array, 1/best.Array, solar)
	breakdown, totals := model.NewBreakdown(c, best, rep.LoadServed)
	res := &model.OptimizationResult{
		RunID:      runID,
		Method:     string(o.cfg.Method),
		Iterations: o.cfg.Iterations,
		Costs:      c,
		Sizing:     best,
		BestCost:   bestCost,
		Breakdown:  breakdown,
		Totals:     totals,
		Report:     rep,
	}

	o.log.Infof("run %s: array=%.4f battery=%.4f cost=%.2f load_served=%.4f",
		runID, best.Array, best.Battery, bestCost, rep.LoadServed)
	if err := o.metrics.RecordRun(metrics.RunEvent{
		RunID:         runID,
		Method:        res.Method,
		Costs:         c,
		Sizing:        best,
		BestCost:      bestCost,
		LoadServed:    rep.LoadServed,
		BatteryUptime: rep.BatteryUptime,
		Iterations:    res.Iterations,
		Duration:      o.now().Sub(start),
		Time:          start,
	}); err != nil {
		o.log.Warnf("record run: %v", err)
	}
	return res, nil
}

// Optimize runs a default search with the given random source.
func Optimize(ctx context.Context, c model.Costs, solar []float64, rng *rand.Rand) (*model.OptimizationResult, error) {
	opt, err := NewOptimizer(Config{}, rng, nil, nil)
	if err != nil {
		return nil, err
	}
	return opt.Run(ctx, c, solar)
}
