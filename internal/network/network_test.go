package network

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/greensim/internal/config"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Agents = 20
	cfg.Behaviours = 2
	cfg.Steps = 10
	cfg.Neighbours = 4
	cfg.CulturalInertia = 3
	cfg.LogEvery = 0
	return cfg
}

func TestNewBuildsPopulation(t *testing.T) {
	net, err := New(testConfig())
	require.NoError(t, err)

	assert.Len(t, net.Agents, 20)
	assert.Len(t, net.Topology.Neighbours, 20)
	require.Len(t, net.Stats, 1)
	assert.Equal(t, 0, net.Stats[0].Tick)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Agents = 1
	_, err := New(cfg)
	assert.Error(t, err)
}

func TestRunRecordsStatsPerTick(t *testing.T) {
	net, err := New(testConfig())
	require.NoError(t, err)

	require.NoError(t, net.Run(context.Background()))

	assert.Equal(t, 10, net.CurrentTick())
	require.Len(t, net.Stats, 11) // tick 0 snapshot plus one per step
	for _, st := range net.Stats {
		assert.GreaterOrEqual(t, st.GreenFraction, 0.0)
		assert.LessOrEqual(t, st.GreenFraction, 1.0)
		assert.GreaterOrEqual(t, st.TotalEmissions, 0.0)
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := testConfig()

	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	b, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, b.Run(context.Background()))

	require.Equal(t, len(a.Agents), len(b.Agents))
	for i := range a.Agents {
		assert.Equal(t, a.Agents[i].Identity(), b.Agents[i].Identity(), "agent %d", i)
		assert.Equal(t, a.Agents[i].Attitudes(), b.Agents[i].Attitudes(), "agent %d", i)
	}
	assert.Equal(t, a.Stats, b.Stats)
}

func TestSeedChangesOutcome(t *testing.T) {
	cfg := testConfig()
	a, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, a.Run(context.Background()))

	cfg.Seed = 1234
	b, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, b.Run(context.Background()))

	assert.NotEqual(t, a.Stats[len(a.Stats)-1], b.Stats[len(b.Stats)-1])
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	net, err := New(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, net.Run(ctx), context.Canceled)
	assert.Equal(t, 0, net.CurrentTick())
}

func TestBehaviouralIndependenceRun(t *testing.T) {
	cfg := testConfig()
	cfg.AlphaChange = "behavioural_independence"

	net, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, net.Run(context.Background()))

	for _, ind := range net.Agents {
		require.Len(t, ind.AttitudesStar(), cfg.Behaviours)
	}
}

func TestHistoryRecordedForAllAgents(t *testing.T) {
	cfg := testConfig()
	cfg.CompressionFactor = 2

	net, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, net.Run(context.Background()))

	for _, ind := range net.Agents {
		h := ind.History()
		require.NotNil(t, h)
		// Construction entry plus ticks 2, 4, 6, 8, 10.
		assert.Equal(t, 6, h.Len())
	}
}
