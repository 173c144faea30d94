// Influence computation — the read-previous/write-current half of a tick.
// Every Influence bundle is assembled from committed previous-tick state
// before any agent steps, so no agent ever observes a mid-tick neighbour.
package network

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/talgya/greensim/internal/agents"
)

// computeInfluence builds the social and threat-appraisal signals for every
// agent from the current (pre-step) network state.
//
// The social component is the homophily-weighted mean of the neighbours'
// attitude vectors: a neighbour whose perceived identity is close to the
// agent's own counts for more, with weight exp(-confirmationBias·|gap|).
// The three TA components are the plain neighbour means of pU, pC, pR.
func (n *Network) computeInfluence() []agents.Influence {
	m := n.cfg.Behaviours

	perception := make([]float64, len(n.Agents))
	for i, ind := range n.Agents {
		perception[i] = n.perceivedIdentity(ind)
	}

	infs := make([]agents.Influence, len(n.Agents))
	for i, ind := range n.Agents {
		inf := agents.Influence{
			Social: make([]float64, m),
			PU:     make([]float64, m),
			PC:     make([]float64, m),
			PR:     make([]float64, m),
		}

		neighbours := n.Topology.Neighbours[i]
		if len(neighbours) == 0 {
			// Isolated node: fully self-persistent signals.
			copy(inf.Social, ind.Attitudes())
			copy(inf.PU, ind.PU())
			copy(inf.PC, ind.PC())
			copy(inf.PR, ind.PR())
			infs[i] = inf
			continue
		}

		wSum := 0.0
		for _, j := range neighbours {
			peer := n.Agents[j]
			w := math.Exp(-n.cfg.ConfirmationBias * math.Abs(perception[i]-perception[j]))
			floats.AddScaled(inf.Social, w, peer.Attitudes())
			wSum += w

			floats.Add(inf.PU, peer.PU())
			floats.Add(inf.PC, peer.PC())
			floats.Add(inf.PR, peer.PR())
		}

		floats.Scale(1/wSum, inf.Social)
		inv := 1 / float64(len(neighbours))
		floats.Scale(inv, inf.PU)
		floats.Scale(inv, inf.PC)
		floats.Scale(inv, inf.PR)

		infs[i] = inf
	}
	return infs
}

// perceivedIdentity is the scalar other agents weight this agent by. In
// default mode it is the discounted identity; in behavioural independence
// mode identity is frozen at construction, so the mean of the discounted
// attitude vector stands in for it.
func (n *Network) perceivedIdentity(ind *agents.Individual) float64 {
	if ind.Mode() == agents.ModeBehaviouralIndependence {
		star := ind.AttitudesStar()
		return floats.Sum(star) / float64(len(star))
	}
	return ind.Identity()
}
