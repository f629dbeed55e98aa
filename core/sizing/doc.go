// Package sizing estimates the cheapest combination of solar array and
// battery storage able to serve a constant load over a year.
//
// Uptime simulates a greedy dispatch of a solar series into a battery,
// SystemCost turns a sizing into a levelized cost, CostAndElasticity probes
// the local cost surface and Optimizer walks that surface with a bounded
// stochastic search, keeping the best sizing seen.
//
// Sizes are relative to a 1 MW reference array serving a 1 MW load. The
// kernel functions do not validate their input: division by zero surfaces
// as Inf or NaN. Optimizer.Run validates before searching.
package sizing
