// In-memory telemetry for one agent. Appends happen inside Step (no I/O);
// persistence of the recorded series is the driver's concern after the run.
package agents

// History is the append-only log of an agent's state, one entry per retained
// tick. Entry 0 is the construction (tick-0) state.
type History struct {
	Ticks                []int
	Values               [][]float64
	Attitudes            [][]float64
	Thresholds           [][]float64
	TA                   [][]float64
	ThresholdsTA         [][]float64
	AvBehaviour          []float64
	Identity             []float64
	EmissionsFlow        []float64
	BehaviouralEmissions [][]float64
}

// Len returns the number of retained entries.
func (h *History) Len() int { return len(h.Ticks) }

func (h *History) record(ind *Individual) {
	h.Ticks = append(h.Ticks, ind.t)
	h.Values = append(h.Values, cloneSlice(ind.values))
	h.Attitudes = append(h.Attitudes, cloneSlice(ind.attitudes))
	h.Thresholds = append(h.Thresholds, cloneSlice(ind.thresholds))
	h.TA = append(h.TA, ind.TA())
	h.ThresholdsTA = append(h.ThresholdsTA, ind.ThresholdsTA())
	h.AvBehaviour = append(h.AvBehaviour, ind.avBehaviour)
	h.Identity = append(h.Identity, ind.identity)
	h.EmissionsFlow = append(h.EmissionsFlow, ind.emissionsFlow)
	h.BehaviouralEmissions = append(h.BehaviouralEmissions, cloneSlice(ind.behaviouralEmissions))
}
