// Package network drives the population of Individuals: it owns the
// small-world topology, computes each tick's influence signals from the
// previous tick's committed state, and steps every agent behind a barrier.
package network

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/greensim/internal/agents"
	"github.com/talgya/greensim/internal/config"
	"github.com/talgya/greensim/internal/entropy"
	"github.com/talgya/greensim/internal/params"
)

// Network holds the full simulation state.
type Network struct {
	cfg      config.Config
	Agents   []*agents.Individual
	Topology *Topology

	tick  int
	Stats []TickStats
}

// TickStats aggregates the population state after one tick.
type TickStats struct {
	Tick           int     `json:"tick" db:"tick"`
	MeanIdentity   float64 `json:"mean_identity" db:"mean_identity"`
	TotalEmissions float64 `json:"total_emissions" db:"total_emissions"`
	GreenFraction  float64 `json:"green_fraction" db:"green_fraction"`
}

// New builds a network from the run configuration: topology, initial draws,
// and one Individual per node, each with its own derived entropy stream.
func New(cfg config.Config) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	mode, err := agents.ParseMode(cfg.AlphaChange)
	if err != nil {
		return nil, err
	}

	root := entropy.NewSource(cfg.Seed)

	// Dedicated stream for graph construction, separate from agent streams.
	top := SmallWorld(cfg.Agents, cfg.Neighbours, cfg.RewireProbability, root.Derive(0))

	streams := make([]*entropy.Source, cfg.Agents)
	for i := range streams {
		// Offset by one so agent 0 does not share the topology stream.
		streams[i] = root.Derive(uint64(i) + 1)
	}

	states := initialStates(cfg, streams)
	discount := cfg.DiscountVector()

	agentCfg := agents.Config{
		M:                 cfg.Behaviours,
		T0:                0,
		SaveTimeseries:    cfg.SaveTimeseries,
		CompressionFactor: cfg.CompressionFactor,
		Phi:               cfg.PhiArray(),
		Mode:              mode,
	}

	population := make([]*agents.Individual, cfg.Agents)
	for i := range population {
		ind, err := agents.NewIndividual(agentCfg, states[i], discount, cfg.CulturalInertia, i, streams[i])
		if err != nil {
			return nil, err
		}
		population[i] = ind
	}

	n := &Network{
		cfg:      cfg,
		Agents:   population,
		Topology: top,
	}
	n.Stats = append(n.Stats, n.snapshot(0))
	return n, nil
}

// Config returns the run configuration the network was built from.
func (n *Network) Config() config.Config { return n.cfg }

// Tick advances every agent by one step. All influence inputs are computed
// from the pre-tick snapshot first; agents then step concurrently, and the
// barrier guarantees tick t is fully committed before tick t+1 reads it.
func (n *Network) Tick() error {
	n.tick++
	t := n.tick

	infs := n.computeInfluence()

	errs := make([]error, len(n.Agents))
	var wg sync.WaitGroup
	for i, ind := range n.Agents {
		wg.Add(1)
		go func(i int, ind *agents.Individual) {
			defer wg.Done()
			errs[i] = ind.Step(t, infs[i])
		}(i, ind)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return fmt.Errorf("tick %d: %w", t, err)
		}
	}

	n.Stats = append(n.Stats, n.snapshot(t))
	return nil
}

// Run advances the simulation by the configured number of steps, stopping
// early when the context is cancelled. State recorded before cancellation
// remains valid.
func (n *Network) Run(ctx context.Context) error {
	for s := 0; s < n.cfg.Steps; s++ {
		if err := ctx.Err(); err != nil {
			slog.Info("run cancelled", "tick", n.tick)
			return err
		}

		if err := n.Tick(); err != nil {
			return err
		}

		if n.cfg.LogEvery > 0 && n.tick%n.cfg.LogEvery == 0 {
			st := n.Stats[len(n.Stats)-1]
			slog.Info("tick report",
				"tick", st.Tick,
				"mean_identity", fmt.Sprintf("%.4f", st.MeanIdentity),
				"total_emissions", fmt.Sprintf("%.2f", st.TotalEmissions),
				"green_fraction", fmt.Sprintf("%.3f", st.GreenFraction),
			)
		}
	}
	return nil
}

// CurrentTick returns the most recently committed tick.
func (n *Network) CurrentTick() int { return n.tick }

func (n *Network) snapshot(tick int) TickStats {
	totalIdentity := 0.0
	totalEmissions := 0.0
	green, cells := 0, 0

	for _, ind := range n.Agents {
		totalIdentity += n.perceivedIdentity(ind)
		totalEmissions += ind.EmissionsFlow()
		for _, v := range ind.Values() {
			cells++
			if v > params.GreenCutoff {
				green++
			}
		}
	}

	return TickStats{
		Tick:           tick,
		MeanIdentity:   totalIdentity / float64(len(n.Agents)),
		TotalEmissions: totalEmissions,
		GreenFraction:  float64(green) / float64(cells),
	}
}
