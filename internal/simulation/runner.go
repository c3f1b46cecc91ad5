package simulation

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/store"
)

// Runner orchestrates simulation experiments against a real engine and an
// isolated SQLite store.
type Runner struct {
	t     *testing.T
	store *store.Store
}

// NewRunner creates a simulation runner backed by a store in a temp
// directory.
func NewRunner(t *testing.T) *Runner {
	t.Helper()

	s, err := store.Open(filepath.Join(t.TempDir(), "simulation.db"))
	if err != nil {
		t.Fatalf("NewRunner: failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return &Runner{t: t, store: s}
}

// Store exposes the runner's store for persistence assertions.
func (r *Runner) Store() *store.Store {
	return r.store
}

// Run executes the scenario end to end: generate the network, persist it,
// run the engine while recording every round, and persist the statistics.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()
	ctx := context.Background()

	netCfg := network.DefaultGenerateConfig()
	if scenario.Network != nil {
		netCfg = *scenario.Network
	}
	runCfg := spreading.DefaultConfig()
	if scenario.Run != nil {
		runCfg = *scenario.Run
	}

	g, trust, err := network.Generate(netCfg, rand.New(rand.NewSource(scenario.NetworkSeed)))
	if err != nil {
		r.t.Fatalf("%s: Generate: %v", scenario.Name, err)
	}

	networkID, err := r.store.SaveNetwork(ctx, g, trust, netCfg, scenario.NetworkSeed)
	if err != nil {
		r.t.Fatalf("%s: SaveNetwork: %v", scenario.Name, err)
	}
	runID, err := r.store.CreateRun(ctx, networkID, runCfg)
	if err != nil {
		r.t.Fatalf("%s: CreateRun: %v", scenario.Name, err)
	}

	engine, err := spreading.NewEngine(g, trust, runCfg, nil)
	if err != nil {
		r.t.Fatalf("%s: NewEngine: %v", scenario.Name, err)
	}

	var rounds []spreading.Snapshot
	engine.OnRound(func(snap spreading.Snapshot) {
		rounds = append(rounds, snap)
	})
	if scenario.BeforeRun != nil {
		scenario.BeforeRun(engine)
	}

	stats, err := engine.Run(ctx)
	if err != nil {
		r.t.Fatalf("%s: Run: %v", scenario.Name, err)
	}

	if err := r.store.SaveStatistics(ctx, runID, stats); err != nil {
		r.t.Fatalf("%s: SaveStatistics: %v", scenario.Name, err)
	}
	if err := r.store.FinishRun(ctx, runID, store.RunStatusDone); err != nil {
		r.t.Fatalf("%s: FinishRun: %v", scenario.Name, err)
	}

	return SimulationResult{
		Graph:     g,
		Trust:     trust,
		Engine:    engine,
		SeedNode:  engine.SeedNode(),
		Roles:     engine.Roles(),
		Rounds:    rounds,
		Stats:     stats,
		NetworkID: networkID,
		RunID:     runID,
	}
}
