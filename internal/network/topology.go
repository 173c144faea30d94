// Small-world topology and initial population draws.
package network

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/greensim/internal/agents"
	"github.com/talgya/greensim/internal/config"
	"github.com/talgya/greensim/internal/entropy"
)

// Topology is an undirected graph over agent indices. Neighbours[i] lists
// the agents whose previous-tick state influences agent i.
type Topology struct {
	Neighbours [][]int
}

// SmallWorld builds a Watts–Strogatz graph: a ring lattice where each node
// connects to its k nearest neighbours (k/2 on each side), then each lattice
// edge is rewired to a uniform random target with the given probability.
// Self-loops and duplicate edges are never created.
func SmallWorld(n, k int, rewire float64, rng *entropy.Source) *Topology {
	adj := make([]map[int]bool, n)
	for i := range adj {
		adj[i] = make(map[int]bool, k)
	}

	addEdge := func(a, b int) {
		adj[a][b] = true
		adj[b][a] = true
	}
	removeEdge := func(a, b int) {
		delete(adj[a], b)
		delete(adj[b], a)
	}

	for i := 0; i < n; i++ {
		for j := 1; j <= k/2; j++ {
			addEdge(i, (i+j)%n)
		}
	}

	// Rewire pass over the original lattice edges, in ring order.
	for i := 0; i < n; i++ {
		for j := 1; j <= k/2; j++ {
			if rng.Float64() >= rewire {
				continue
			}
			old := (i + j) % n
			// Pick a fresh target; give up after a bounded number of tries
			// on dense graphs rather than loop forever.
			for attempt := 0; attempt < 2*n; attempt++ {
				t := rng.Intn(n)
				if t == i || adj[i][t] {
					continue
				}
				removeEdge(i, old)
				addEdge(i, t)
				break
			}
		}
	}

	top := &Topology{Neighbours: make([][]int, n)}
	for i, set := range adj {
		// Deterministic ordering: ascending index.
		list := make([]int, 0, len(set))
		for j := 0; j < n; j++ {
			if set[j] {
				list = append(list, j)
			}
		}
		top.Neighbours[i] = list
	}
	return top
}

// initialStates draws each agent's starting attitudes, thresholds, and
// threat-appraisal propensities. Attitudes and thresholds come from Beta
// distributions on [0,1]; attitudes additionally pick up a smooth
// opensimplex field sampled around the ring, so nearby agents start with
// correlated opinions. Each agent draws from its own derived stream, so the
// draws depend only on (seed, agent id).
func initialStates(cfg config.Config, streams []*entropy.Source) []agents.InitState {
	noise := opensimplex.New(int64(cfg.Seed))

	states := make([]agents.InitState, cfg.Agents)
	for i := range states {
		rng := streams[i]
		m := cfg.Behaviours

		// Ring position mapped onto a circle in noise space keeps the
		// field periodic: agent N-1 and agent 0 are neighbours.
		theta := 2 * math.Pi * float64(i) / float64(cfg.Agents)
		field := noise.Eval2(cfg.SpatialScale*math.Cos(theta), cfg.SpatialScale*math.Sin(theta))

		st := agents.InitState{
			Attitudes:    make([]float64, m),
			Thresholds:   make([]float64, m),
			PU:           make([]float64, m),
			PC:           make([]float64, m),
			PR:           make([]float64, m),
			ThresholdsPU: make([]float64, m),
			ThresholdsPC: make([]float64, m),
			ThresholdsPR: make([]float64, m),
		}
		for j := 0; j < m; j++ {
			a := rng.Beta(cfg.AttitudeAlpha, cfg.AttitudeBeta) + cfg.SpatialAmplitude*field
			st.Attitudes[j] = clamp01(a)
			st.Thresholds[j] = rng.Beta(cfg.ThresholdAlpha, cfg.ThresholdBeta)
			st.PU[j] = rng.Beta(cfg.AttitudeAlpha, cfg.AttitudeBeta)
			st.PC[j] = rng.Beta(cfg.AttitudeAlpha, cfg.AttitudeBeta)
			st.PR[j] = rng.Beta(cfg.AttitudeAlpha, cfg.AttitudeBeta)
			st.ThresholdsPU[j] = rng.Beta(cfg.ThresholdAlpha, cfg.ThresholdBeta)
			st.ThresholdsPC[j] = rng.Beta(cfg.ThresholdAlpha, cfg.ThresholdBeta)
			st.ThresholdsPR[j] = rng.Beta(cfg.ThresholdAlpha, cfg.ThresholdBeta)
		}
		states[i] = st
	}
	return states
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
