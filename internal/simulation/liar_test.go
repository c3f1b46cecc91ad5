package simulation_test

import (
	"testing"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/simulation"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// reachableFrom marks every node reachable from an initially opinionated
// node: the seed node plus all liars and truth-tellers.
func reachableFrom(result simulation.SimulationResult) []bool {
	reachable := make([]bool, result.NodeCount())
	queue := []int{result.SeedNode}
	for i, role := range result.Roles {
		if role != spreading.RoleOrdinary {
			queue = append(queue, i)
		}
	}
	for _, s := range queue {
		reachable[s] = true
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, j := range result.Graph.Neighbors(cur) {
			if !reachable[j] {
				reachable[j] = true
				queue = append(queue, j)
			}
		}
	}
	return reachable
}

// TestLiarInfluence uses flat trust and no mutation, so propagation is
// fully deterministic: every broadcast is accepted and beliefs never
// change in flight.
func TestLiarInfluence(t *testing.T) {
	r := simulation.NewRunner(t)

	runCfg := simulation.NoMutation(simulation.QuickRun(50, 9))
	runCfg.Liars = 1
	runCfg.TruthTellers = 1
	runCfg.SeedNode = 0

	result := r.Run(simulation.Scenario{
		Name:        "liar-influence",
		Network:     simulation.FlatTrust(45),
		Run:         runCfg,
		NetworkSeed: 5,
	})

	simulation.AssertRolesFixed(t, result)
	simulation.AssertOpinionsPersist(t, result)

	// With flat trust the rumor advances one hop along every edge each
	// round, and 50 rounds cover any hop distance in a 50-node network,
	// so a node ends up opinionated exactly when it is reachable from an
	// initially opinionated node.
	reachable := reachableFrom(result)
	finalSnap := result.Rounds[simulation.FinalRound(result)]
	for i, want := range reachable {
		if finalSnap.HasOpinion[i] != want {
			t.Errorf("node %d opinionated = %v, want %v", i, finalSnap.HasOpinion[i], want)
		}
	}

	liar := -1
	for i, role := range result.Roles {
		if role == spreading.RoleLiar {
			liar = i
		}
	}
	if liar < 0 {
		t.Fatal("no liar assigned")
	}

	// The liar pushes the lie to its neighbors every round; each ordinary
	// neighbor must still hold at least one copy.
	for _, j := range result.Graph.Neighbors(liar) {
		if result.Roles[j] != spreading.RoleOrdinary {
			continue
		}
		if result.Engine.Memory(j).Count(rumor.Lie) == 0 {
			t.Errorf("ordinary neighbor %d of liar %d holds no copy of the lie", j, liar)
		}
	}

	// The liar itself never takes anything in.
	if got := result.Engine.Memory(liar).Count(rumor.Truth); got != 0 {
		t.Errorf("liar %d holds %d copies of the truth", liar, got)
	}

	// Without mutation only the two fixed codes circulate.
	final := simulation.FinalRound(result)
	holding := simulation.CountHolding(result, final, rumor.Truth) + simulation.CountHolding(result, final, rumor.Lie)
	opinionated := 0
	for _, ok := range result.Rounds[final].HasOpinion {
		if ok {
			opinionated++
		}
	}
	if holding != opinionated {
		t.Errorf("%d nodes hold truth or lie, but %d are opinionated", holding, opinionated)
	}
}
