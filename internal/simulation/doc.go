// Package simulation provides a test harness for validating emergent
// dynamics of rumor propagation runs.
//
// The simulation exercises the real network generator, Engine, and SQLite
// store, with no mocks. Scenarios are Go builders that configure a network
// and a run, capturing per-round snapshots for property-based assertions.
//
// Each test gets an isolated SQLite database via t.TempDir(), and every run
// is persisted through the same store paths the CLI uses.
//
// Usage:
//
//	func TestTruthSpreads(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:        "truth-spreads",
//	        NetworkSeed: 42,
//	    })
//	    simulation.AssertSpread(t, result, 0.5, 50)
//	}
package simulation
