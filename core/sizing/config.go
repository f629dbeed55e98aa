package sizing

import "fmt"

// Method selects the search strategy.
type Method string

const (
	// MethodElasticity is the stochastic elasticity walk.
	MethodElasticity Method = "elasticity"
	// MethodNelderMead runs the elasticity walk then polishes the best
	// sizing with a Nelder-Mead simplex.
	MethodNelderMead Method = "nelder-mead"
)

// DefaultIterations is the fixed search budget.
const DefaultIterations = 100

// Regime holds the tuned constants that derive the starting point and the
// step amplitude of the search from the load cost.
type Regime struct {
	Scale          float64 `json:"scale"`
	MaxInitial     float64 `json:"max_initial"`
	BaseAmplitude  float64 `json:"base_amplitude"`
	AmplitudeSlope float64 `json:"amplitude_slope"`
	BoostMin       float64 `json:"boost_min"`
	BoostMax       float64 `json:"boost_max"`
	BoostFactor    float64 `json:"boost_factor"`
	DampAbove      float64 `json:"damp_above"`
	DampFactor     float64 `json:"damp_factor"`
}

// DefaultRegime returns the empirically tuned breakpoints.
func DefaultRegime() Regime {
	return Regime{
		Scale:          5e6,
		MaxInitial:     10,
		BaseAmplitude:  10,
		AmplitudeSlope: 70,
		BoostMin:       7e5,
		BoostMax:       13e5,
		BoostFactor:    3,
		DampAbove:      80e6,
		DampFactor:     0.5,
	}
}

// Config defines optimizer settings.
type Config struct {
	Iterations int `json:"iterations"`
	// Seed makes the search reproducible. Nil draws a random seed.
	Seed             *uint64 `json:"seed"`
	Method           Method  `json:"method"`
	RefineIterations int     `json:"refine_iterations"`
	Regime           Regime  `json:"regime"`
}

// SetDefaults applies the reference settings to unset fields. An all-zero
// Regime is replaced by DefaultRegime; a partially set Regime is kept as is,
// so zero thresholds stay configurable. config.Load starts from the defaults
// and only overrides the keys present in the file.
func (c *Config) SetDefaults() {
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}
	if c.Method == "" {
		c.Method = MethodElasticity
	}
	if c.RefineIterations == 0 {
		c.RefineIterations = 200
	}
	if c.Regime == (Regime{}) {
		c.Regime = DefaultRegime()
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be > 0, got %d", c.Iterations)
	}
	switch c.Method {
	case MethodElasticity, MethodNelderMead:
	default:
		return fmt.Errorf("unknown method %s", c.Method)
	}
	if c.RefineIterations < 0 {
		return fmt.Errorf("refine_iterations must be >= 0")
	}
	if c.Regime.Scale <= 0 {
		return fmt.Errorf("regime.scale must be > 0")
	}
	if c.Regime.BoostMin > c.Regime.BoostMax {
		return fmt.Errorf("regime.boost_min must not exceed regime.boost_max")
	}
	return nil
}

// InitialSizing returns the starting point of the search for a load cost.
func (r Regime) InitialSizing(loadCost float64) (battery, array float64) {
	v := min(r.MaxInitial, r.MaxInitial*loadCost/r.Scale)
	return v, v
}

// Amplitude returns the step amplitude of the search for a load cost.
func (r Regime) Amplitude(loadCost float64) float64 {
	a := r.BaseAmplitude + r.AmplitudeSlope*(loadCost/r.Scale)
	if r.BoostMin < loadCost && loadCost < r.BoostMax {
		a *= r.BoostFactor
	}
	if r.DampAbove < loadCost {
		a *= r.DampFactor
	}
	return a
}
