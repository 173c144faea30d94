// Step orchestration — the once-per-tick state transition of an Individual.
package agents

import (
	"fmt"

	"github.com/talgya/greensim/internal/params"
)

// Influence bundles the externally computed social signals for one tick.
// Each slice must have length M. The driver derives these from the previous
// tick's committed state of this agent's neighbours; no field may be built
// from any agent's current-tick state.
type Influence struct {
	Social []float64 // pulls attitudes
	PU     []float64 // pulls perceived utility
	PC     []float64 // pulls perceived cost
	PR     []float64 // pulls perceived risk
}

// Step advances the agent by one tick. The sequence is fixed: behavioural
// values are derived from the incoming state, then attitudes and the three
// threat-appraisal propensities take the social-learning update, then the
// mode branch runs, then emissions are recomputed. It fails only on a shape
// mismatch between the influence inputs and M.
func (ind *Individual) Step(t int, inf Influence) error {
	if err := ind.checkShapes(inf); err != nil {
		return err
	}

	ind.t = t

	ind.updateValues()

	blend(ind.attitudes, inf.Social, ind.cfg.Phi)
	blend(ind.pU, inf.PU, ind.cfg.Phi)
	blend(ind.pC, inf.PC, ind.cfg.Phi)
	blend(ind.pR, inf.PR, ind.cfg.Phi)

	switch ind.cfg.Mode {
	case ModeBehaviouralIndependence:
		ind.attWindow.Push(ind.attitudes)
		ind.attWindow.Discounted(ind.discount, ind.attitudesStar)
	default:
		ind.driftThresholds()
		ind.driftTAThresholds()
		ind.avBehaviour = ind.calcAvBehaviour()
		ind.avWindow.Push(ind.avBehaviour)
		ind.identity = ind.avWindow.Discounted(ind.discount)
	}

	ind.updateEmissions()

	if ind.history != nil && t%ind.cfg.CompressionFactor == 0 {
		ind.history.record(ind)
	}

	return nil
}

func (ind *Individual) checkShapes(inf Influence) error {
	for _, in := range []struct {
		name string
		s    []float64
	}{
		{"social component", inf.Social},
		{"TA component pU", inf.PU},
		{"TA component pC", inf.PC},
		{"TA component pR", inf.PR},
	} {
		if len(in.s) != ind.cfg.M {
			return fmt.Errorf("agent %d: %s length %d, want %d", ind.ID, in.name, len(in.s), ind.cfg.M)
		}
	}
	return nil
}

// updateValues blends the attitude-threshold gap with the threat-appraisal
// gap: v = 0.5(a - θ) + 0.5(TA - θ_TA).
func (ind *Individual) updateValues() {
	for i := range ind.values {
		ta := taScore(ind.pU[i], ind.pC[i], ind.pR[i])
		thrTA := taScore(ind.thrPU[i], ind.thrPC[i], ind.thrPR[i])
		ind.values[i] = params.ValueBlend*(ind.attitudes[i]-ind.thresholds[i]) +
			(1-params.ValueBlend)*(ta-thrTA)
	}
}

// blend applies the convex social-learning rule in place:
// state = (1 - φ)·state + φ·influence, elementwise.
func blend(state, influence, phi []float64) {
	for i := range state {
		state[i] = (1-phi[i])*state[i] + phi[i]*influence[i]
	}
}

// driftThresholds applies an independent Normal(0, σ) draw per behaviour,
// clamped to [0, 1].
func (ind *Individual) driftThresholds() {
	for i := range ind.thresholds {
		ind.thresholds[i] = clamp01(ind.thresholds[i] + ind.rng.Normal(0, params.ThresholdDriftSigma))
	}
}

// driftTAThresholds applies one shared draw per propensity family: a single
// Normal(0, σ) scalar shifts the whole thresholdspU vector, a second shifts
// thresholdspC, a third thresholdspR. Each element is clamped to [0, 1].
func (ind *Individual) driftTAThresholds() {
	dU := ind.rng.Normal(0, params.ThresholdDriftSigma)
	dC := ind.rng.Normal(0, params.ThresholdDriftSigma)
	dR := ind.rng.Normal(0, params.ThresholdDriftSigma)
	for i := 0; i < ind.cfg.M; i++ {
		ind.thrPU[i] = clamp01(ind.thrPU[i] + dU)
		ind.thrPC[i] = clamp01(ind.thrPC[i] + dC)
		ind.thrPR[i] = clamp01(ind.thrPR[i] + dR)
	}
}

// calcAvBehaviour returns mean((1 - a)²) over the M behaviours.
func (ind *Individual) calcAvBehaviour() float64 {
	sum := 0.0
	for _, a := range ind.attitudes {
		d := 1 - a
		sum += d * d
	}
	return sum / float64(ind.cfg.M)
}

// updateEmissions maps each behavioural value onto [0, 1] emissions:
// e = (1 - v)/2, so v = 1 (fully green) emits nothing and v = -1 emits 1.
func (ind *Individual) updateEmissions() {
	total := 0.0
	for i, v := range ind.values {
		e := (1 - v) / 2
		ind.behaviouralEmissions[i] = e
		total += e
	}
	ind.emissionsFlow = total
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
