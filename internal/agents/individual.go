// Package agents provides the Individual state machine: attitudes, adoption
// thresholds, threat-appraisal propensities, and the discounted-memory
// identity that evolve each tick under social influence.
package agents

import (
	"fmt"

	"github.com/talgya/greensim/internal/entropy"
	"github.com/talgya/greensim/internal/params"
)

// Mode selects which of the two state-evolution paths an Individual follows.
// The mode is fixed at construction and never changes for the lifetime of
// the agent.
type Mode uint8

const (
	// ModeDefault drifts thresholds and maintains the scalar identity from
	// a discounted window of average-behaviour summaries.
	ModeDefault Mode = iota

	// ModeBehaviouralIndependence maintains a discounted per-behaviour
	// attitude vector (attitudes star) instead; thresholds stay fixed and
	// identity keeps its construction value.
	ModeBehaviouralIndependence
)

// ParseMode maps a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "default":
		return ModeDefault, nil
	case "behavioural_independence":
		return ModeBehaviouralIndependence, nil
	default:
		return 0, fmt.Errorf("unknown alpha_change mode %q", s)
	}
}

// Config carries the simulation-wide parameters shared by every Individual.
type Config struct {
	M                 int       // number of behaviours per individual
	T0                int       // tick the simulation starts at
	SaveTimeseries    bool      // record per-step history when true
	CompressionFactor int       // record every Nth tick (1 = every tick)
	Phi               []float64 // per-behaviour social susceptibility, in [0,1], length M
	Mode              Mode
}

// InitState holds the externally generated initial draws for one agent.
// All slices must have length Config.M. Range validity (attitudes within
// their intended domain, thresholds in [0,1]) is the generator's contract.
type InitState struct {
	Attitudes  []float64
	Thresholds []float64

	PU, PC, PR                               []float64
	ThresholdsPU, ThresholdsPC, ThresholdsPR []float64
}

// Individual is one social agent. It is mutated exactly once per tick via
// Step; between steps all exported accessors read committed state.
type Individual struct {
	ID int

	cfg Config
	t   int

	attitudes  []float64
	thresholds []float64
	values     []float64

	pU, pC, pR          []float64
	thrPU, thrPC, thrPR []float64

	discount []float64 // normalized quasi-hyperbolic weights, index 0 = most recent
	inertia  int       // memory window length

	avBehaviour float64
	avWindow    *scalarWindow

	// Behavioural-independence mode only.
	attWindow     *matrixWindow
	attitudesStar []float64

	identity float64

	emissionsFlow        float64
	behaviouralEmissions []float64

	rng     *entropy.Source
	history *History
}

// NewIndividual constructs an agent from shared parameters and its initial
// draws. It fails on any length mismatch with M or the memory window; range
// validity of the draws is not checked.
func NewIndividual(cfg Config, init InitState, discount []float64, inertia int, id int, rng *entropy.Source) (*Individual, error) {
	if len(cfg.Phi) != cfg.M {
		return nil, fmt.Errorf("agent %d: phi length %d, want %d", id, len(cfg.Phi), cfg.M)
	}
	for _, in := range []struct {
		name string
		s    []float64
	}{
		{"attitudes", init.Attitudes},
		{"thresholds", init.Thresholds},
		{"pU", init.PU},
		{"pC", init.PC},
		{"pR", init.PR},
		{"thresholds pU", init.ThresholdsPU},
		{"thresholds pC", init.ThresholdsPC},
		{"thresholds pR", init.ThresholdsPR},
	} {
		if len(in.s) != cfg.M {
			return nil, fmt.Errorf("agent %d: %s length %d, want %d", id, in.name, len(in.s), cfg.M)
		}
	}
	if inertia < 1 {
		return nil, fmt.Errorf("agent %d: cultural inertia %d, want >= 1", id, inertia)
	}
	if len(discount) != inertia {
		return nil, fmt.Errorf("agent %d: discount vector length %d, want %d", id, len(discount), inertia)
	}

	ind := &Individual{
		ID:         id,
		cfg:        cfg,
		t:          cfg.T0,
		attitudes:  cloneSlice(init.Attitudes),
		thresholds: cloneSlice(init.Thresholds),
		pU:         cloneSlice(init.PU),
		pC:         cloneSlice(init.PC),
		pR:         cloneSlice(init.PR),
		thrPU:      cloneSlice(init.ThresholdsPU),
		thrPC:      cloneSlice(init.ThresholdsPC),
		thrPR:      cloneSlice(init.ThresholdsPR),
		discount:   cloneSlice(discount),
		inertia:    inertia,
		rng:        rng,
	}

	if cfg.Mode == ModeBehaviouralIndependence {
		ind.attWindow = newMatrixWindow(inertia, ind.attitudes)
		ind.attitudesStar = make([]float64, cfg.M)
		ind.attWindow.Discounted(ind.discount, ind.attitudesStar)
	}

	// Initial values are the plain attitude-threshold gap; the threat
	// appraisal only enters from the first step onward.
	ind.values = make([]float64, cfg.M)
	for i := range ind.values {
		ind.values[i] = ind.attitudes[i] - ind.thresholds[i]
	}

	ind.avBehaviour = ind.calcAvBehaviour()
	ind.avWindow = newScalarWindow(inertia, ind.avBehaviour)
	ind.identity = ind.avWindow.Discounted(ind.discount)

	ind.behaviouralEmissions = make([]float64, cfg.M)
	ind.updateEmissions()

	if cfg.SaveTimeseries {
		ind.history = &History{}
		ind.history.record(ind)
	}

	return ind, nil
}

// Threat appraisal composites. Pure derived quantities — recomputed from the
// propensities on every call so they can never drift out of sync.

// TA returns the per-behaviour threat appraisal score.
func (ind *Individual) TA() []float64 {
	out := make([]float64, ind.cfg.M)
	for i := range out {
		out[i] = taScore(ind.pU[i], ind.pC[i], ind.pR[i])
	}
	return out
}

// ThresholdsTA returns the per-behaviour threat appraisal threshold.
func (ind *Individual) ThresholdsTA() []float64 {
	out := make([]float64, ind.cfg.M)
	for i := range out {
		out[i] = taScore(ind.thrPU[i], ind.thrPC[i], ind.thrPR[i])
	}
	return out
}

func taScore(u, c, r float64) float64 {
	return params.UtilityWeight*u - params.CostWeight*c - params.RiskWeight*r
}

// Read accessors used by the driver. Slices are returned by reference; the
// driver must not mutate them and must not read them while a Step for the
// same tick is in flight.

// Mode reports the state-evolution variant fixed at construction.
func (ind *Individual) Mode() Mode { return ind.cfg.Mode }

// Tick returns the most recently processed tick.
func (ind *Individual) Tick() int { return ind.t }

// Attitudes returns the current per-behaviour attitudes.
func (ind *Individual) Attitudes() []float64 { return ind.attitudes }

// Thresholds returns the current per-behaviour adoption thresholds.
func (ind *Individual) Thresholds() []float64 { return ind.thresholds }

// Values returns the current behavioural values; value > 0 means the green
// alternative is performed for that behaviour.
func (ind *Individual) Values() []float64 { return ind.values }

// PU returns the perceived-utility propensities.
func (ind *Individual) PU() []float64 { return ind.pU }

// PC returns the perceived-cost propensities.
func (ind *Individual) PC() []float64 { return ind.pC }

// PR returns the perceived-risk propensities.
func (ind *Individual) PR() []float64 { return ind.pR }

// Identity returns the discounted-memory identity scalar. In behavioural
// independence mode it keeps its construction value; consumers should read
// AttitudesStar instead.
func (ind *Individual) Identity() float64 { return ind.identity }

// AttitudesStar returns the discounted per-behaviour attitude vector.
// Nil outside behavioural independence mode.
func (ind *Individual) AttitudesStar() []float64 { return ind.attitudesStar }

// AvBehaviour returns the current average-behaviour summary mean((1-a)²).
func (ind *Individual) AvBehaviour() float64 { return ind.avBehaviour }

// EmissionsFlow returns the total carbon emissions flow this tick.
func (ind *Individual) EmissionsFlow() float64 { return ind.emissionsFlow }

// BehaviouralEmissions returns the per-behaviour carbon emissions.
func (ind *Individual) BehaviouralEmissions() []float64 { return ind.behaviouralEmissions }

// History returns the recorded timeseries, or nil when telemetry is off.
func (ind *Individual) History() *History { return ind.history }

func cloneSlice(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
