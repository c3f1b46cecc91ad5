// Package spreading implements the rumor propagation engine. Each round,
// every node holding at least one rumor selects a belief from its memory,
// may drift it by one bit under an entropy-gated mutation probability, and
// offers it to its neighbors, who accept with the trust probability the
// network assigns to the pair. Accepted rumors are applied synchronously at
// the end of the round, so every node broadcasts from the same consistent
// view of the network.
package spreading

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/logging"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/memory"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
)

// Engine drives the synchronous round loop over a fixed network. All
// mutable state is the per-node memories and entropy slots; the graph and
// trust matrix are read-only for the engine's lifetime. An Engine is bound
// to a single random stream and is not safe for concurrent use.
type Engine struct {
	graph  *network.Graph
	trust  *network.TrustMatrix
	config Config
	logger *slog.Logger
	rng    *rand.Rand

	seedNode  int
	roles     []Role
	memories  []*memory.Memory
	entropies []float64

	// majorities and hasOpinion hold each node's belief as of the end of
	// the last completed round, refreshed once per round so that stats
	// and snapshots share the same view.
	majorities []rumor.Code
	hasOpinion []bool

	round     int
	observers []func(Snapshot)
}

// Snapshot is a read-only view of the network handed to round observers.
// Slices are copies and safe to retain.
type Snapshot struct {
	// Round is the 1-based number of the completed round.
	Round int

	// Majorities holds each node's majority belief; only meaningful
	// where HasOpinion is true.
	Majorities []rumor.Code
	HasOpinion []bool

	// Entropies holds each node's last computed belief entropy.
	Entropies  []float64
	AvgEntropy float64

	// Per-round activity counters.
	Broadcasts int
	Mutations  int
	Accepts    int
}

// roundCounts tallies activity within a single round.
type roundCounts struct {
	broadcasts int
	mutations  int
	accepts    int
}

// NewEngine builds an engine over the given network. The seed node is
// loaded with the true rumor, liars and truth-tellers are drawn from the
// remaining nodes, and everyone else starts with an empty memory. A nil
// logger disables logging.
func NewEngine(g *network.Graph, trust *network.TrustMatrix, cfg Config, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run config: %w", err)
	}
	n := g.NodeCount()
	if trust.NodeCount() != n {
		return nil, fmt.Errorf("trust matrix covers %d nodes, graph has %d", trust.NodeCount(), n)
	}
	if cfg.SeedNode >= n {
		return nil, fmt.Errorf("seed node %d out of range for %d nodes", cfg.SeedNode, n)
	}
	if cfg.Liars+cfg.TruthTellers+1 > n {
		return nil, fmt.Errorf("%d liars and %d truth-tellers leave no room in %d nodes",
			cfg.Liars, cfg.TruthTellers, n)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		graph:      g,
		trust:      trust,
		config:     cfg,
		logger:     logger,
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		roles:      make([]Role, n),
		memories:   make([]*memory.Memory, n),
		entropies:  make([]float64, n),
		majorities: make([]rumor.Code, n),
		hasOpinion: make([]bool, n),
	}

	e.seedNode = cfg.SeedNode
	if e.seedNode < 0 {
		e.seedNode = e.rng.Intn(n)
	}
	e.assignRoles()

	for i := 0; i < n; i++ {
		e.memories[i] = memory.New(cfg.MemoryCapacity)
	}
	e.memories[e.seedNode].Insert(rumor.Truth)
	for i, role := range e.roles {
		switch role {
		case RoleLiar:
			e.memories[i].Insert(rumor.Lie)
		case RoleTruthTeller:
			e.memories[i].Insert(rumor.Truth)
		}
	}

	return e, nil
}

// assignRoles draws the liar and truth-teller sets uniformly from all nodes
// except the seed node. The two sets are disjoint.
func (e *Engine) assignRoles() {
	candidates := make([]int, 0, len(e.roles)-1)
	for i := range e.roles {
		if i != e.seedNode {
			candidates = append(candidates, i)
		}
	}
	draw := func() int {
		idx := e.rng.Intn(len(candidates))
		node := candidates[idx]
		candidates = append(candidates[:idx], candidates[idx+1:]...)
		return node
	}
	for i := 0; i < e.config.Liars; i++ {
		e.roles[draw()] = RoleLiar
	}
	for i := 0; i < e.config.TruthTellers; i++ {
		e.roles[draw()] = RoleTruthTeller
	}
}

// SeedNode returns the node that started with the true rumor.
func (e *Engine) SeedNode() int {
	return e.seedNode
}

// Role returns the role of node i.
func (e *Engine) Role(i int) Role {
	return e.roles[i]
}

// Roles returns a copy of every node's role.
func (e *Engine) Roles() []Role {
	roles := make([]Role, len(e.roles))
	copy(roles, e.roles)
	return roles
}

// Memory returns node i's memory. The caller must not mutate it.
func (e *Engine) Memory(i int) *memory.Memory {
	return e.memories[i]
}

// OnRound registers fn to observe each completed round. Observers run on
// the engine's goroutine after statistics are recorded and must not mutate
// engine state.
func (e *Engine) OnRound(fn func(Snapshot)) {
	e.observers = append(e.observers, fn)
}

// Run executes the configured number of rounds and returns the accumulated
// statistics. The context is only checked between rounds; on cancellation
// the statistics of completed rounds are returned alongside the error.
func (e *Engine) Run(ctx context.Context) (*RunStatistics, error) {
	e.logger.Info("starting run",
		"nodes", e.graph.NodeCount(),
		"rounds", e.config.Rounds,
		"mode", e.config.Mode,
		"seed_node", e.seedNode,
		"liars", e.config.Liars,
		"truth_tellers", e.config.TruthTellers)

	stats := newRunStatistics(e.config.Rounds)
	for r := 0; r < e.config.Rounds; r++ {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("run aborted after %d rounds: %w", r, err)
		}

		counts := e.step(ctx)
		avg := stats.record(e.entropies, e.majorities, e.hasOpinion)

		e.logger.Debug("round complete",
			"round", e.round,
			"avg_entropy", avg,
			"broadcasts", counts.broadcasts,
			"accepts", counts.accepts,
			"mutations", counts.mutations)

		if len(e.observers) > 0 {
			snap := e.snapshot(avg, counts)
			for _, fn := range e.observers {
				fn(snap)
			}
		}
	}

	e.logger.Info("run complete", "rounds", stats.Rounds())
	return stats, nil
}

// step advances the network by one synchronous round.
func (e *Engine) step(ctx context.Context) roundCounts {
	e.round++
	n := e.graph.NodeCount()
	var counts roundCounts

	// Step 1: every node holding a rumor selects what to broadcast.
	// Ordinary nodes refresh their entropy slot and may drift the
	// selected rumor by one bit before transmitting. Acceptance draws
	// are queued so that no memory changes until all nodes have
	// broadcast from the same pre-round state.
	queued := make([][]rumor.Code, n)
	for i := 0; i < n; i++ {
		mem := e.memories[i]
		if mem.Len() == 0 {
			continue
		}

		code := e.selectRumor(i, mem)
		if e.roles[i] == RoleOrdinary {
			h := mem.Entropy()
			e.entropies[i] = h
			p := mutationProbability(h, e.config.MaxEntropy, e.config.Conservation)
			if e.rng.Float64() < p {
				mutated := code.Flip(e.rng.Intn(rumor.Bits))
				mem.MutateHeld(code, mutated)
				e.logger.Log(ctx, logging.LevelTrace, "rumor mutated",
					"round", e.round, "node", i, "from", code, "to", mutated)
				code = mutated
				counts.mutations++
			}
		}
		counts.broadcasts++

		// Step 2: each neighbor decides acceptance. Liars and
		// truth-tellers always reject without consuming a draw.
		for _, j := range e.graph.Neighbors(i) {
			if e.roles[j] != RoleOrdinary {
				continue
			}
			eta, ok := e.trust.At(j, i)
			if !ok {
				continue
			}
			if e.rng.Float64() < eta {
				queued[j] = append(queued[j], code)
				counts.accepts++
			}
		}
	}

	// Step 3: apply the queued insertions. Broadcasters were walked in
	// ascending id order, so each queue is already ordered by source.
	for j := 0; j < n; j++ {
		for _, code := range queued[j] {
			e.memories[j].Insert(code)
		}
	}

	// Step 4: refresh post-round majority beliefs for stats, rendering,
	// and observers. Computed once so tie-break draws stay on the
	// engine's single stream.
	for i := 0; i < n; i++ {
		if maj, ok := e.memories[i].Majority(e.rng); ok {
			e.majorities[i] = maj
			e.hasOpinion[i] = true
		} else {
			e.hasOpinion[i] = false
		}
	}

	return counts
}

// selectRumor picks the code node i transmits this round.
func (e *Engine) selectRumor(i int, mem *memory.Memory) rumor.Code {
	switch e.roles[i] {
	case RoleLiar:
		return rumor.Lie
	case RoleTruthTeller:
		return rumor.Truth
	}
	if e.config.Mode == ModeWeighted {
		code, _ := mem.WeightedSample(e.rng)
		return code
	}
	code, _ := mem.Majority(e.rng)
	return code
}

// snapshot copies the current round's view for observers.
func (e *Engine) snapshot(avg float64, counts roundCounts) Snapshot {
	snap := Snapshot{
		Round:      e.round,
		Majorities: make([]rumor.Code, len(e.majorities)),
		HasOpinion: make([]bool, len(e.hasOpinion)),
		Entropies:  make([]float64, len(e.entropies)),
		AvgEntropy: avg,
		Broadcasts: counts.broadcasts,
		Mutations:  counts.mutations,
		Accepts:    counts.accepts,
	}
	copy(snap.Majorities, e.majorities)
	copy(snap.HasOpinion, e.hasOpinion)
	copy(snap.Entropies, e.entropies)
	return snap
}

// mutationProbability is the logistic gate deciding whether a broadcast
// drifts. It rises toward 0.5 as entropy h approaches hmax and falls
// toward 0 as a node's beliefs settle.
func mutationProbability(h, hmax, k float64) float64 {
	return 1 / (math.Exp((hmax-h)*k/hmax) + 1)
}
