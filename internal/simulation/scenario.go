package simulation

import (
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name string

	// Network overrides the generated network's shape. Nil uses defaults.
	Network *network.GenerateConfig

	// Run overrides the propagation parameters. Nil uses defaults.
	Run *spreading.Config

	// NetworkSeed drives network generation. Runs draw their own stream
	// from Run.Seed, so the same network can host different runs.
	NetworkSeed int64

	// BeforeRun, when non-nil, is called with the engine before the run
	// starts. Use this to inspect roles or register extra observers.
	BeforeRun func(e *spreading.Engine)
}

// SimulationResult captures a completed run round by round, together with
// the store rows it produced.
type SimulationResult struct {
	Graph    *network.Graph
	Trust    *network.TrustMatrix
	Engine   *spreading.Engine
	SeedNode int
	Roles    []spreading.Role

	// Rounds holds one snapshot per completed round, in order.
	Rounds []spreading.Snapshot
	Stats  *spreading.RunStatistics

	NetworkID int64
	RunID     int64
}

// NodeCount returns the size of the simulated network.
func (r SimulationResult) NodeCount() int {
	return r.Graph.NodeCount()
}

// OpinionatedFraction returns the share of nodes holding an opinion after
// the given 0-based round index.
func (r SimulationResult) OpinionatedFraction(round int) float64 {
	held := 0
	for _, ok := range r.Rounds[round].HasOpinion {
		if ok {
			held++
		}
	}
	return float64(held) / float64(r.NodeCount())
}
