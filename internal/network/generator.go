// Package network builds the scale-free social graph the rumor spreads over
// and the trust matrix derived from it. Generation follows preferential
// attachment: a small randomly wired seed graph grows one node at a time,
// each newcomer linking to existing nodes with probability proportional to
// their degree, which yields the heavy-tailed degree distribution of real
// social networks.
package network

import (
	"errors"
	"fmt"
	"math/rand"
)

// seedEdgeProbability is the chance that any given pair of seed nodes is
// linked in a candidate seed graph.
const seedEdgeProbability = 0.5

// ErrSeedRetriesExhausted is returned when every candidate seed graph within
// the attempt budget contained an isolated node.
var ErrSeedRetriesExhausted = errors.New("seed graph retries exhausted")

// GenerateConfig holds tunable parameters for graph generation.
type GenerateConfig struct {
	// Beta is the trust exponent applied to broadcaster degrees. Default: 1.
	Beta float64

	// GrowthSteps is the number of nodes attached after the seed phase.
	// Default: 295.
	GrowthSteps int

	// SeedSize is the number of nodes wired randomly before growth starts.
	// Default: 5.
	SeedSize int

	// AttachCount is the number of distinct existing nodes each newcomer
	// links to. Default: 2.
	AttachCount int

	// MaxSeedAttempts bounds the rejection sampling of the seed graph.
	// Default: 10000.
	MaxSeedAttempts int
}

// DefaultGenerateConfig returns the default generation configuration.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Beta:            1,
		GrowthSteps:     295,
		SeedSize:        5,
		AttachCount:     2,
		MaxSeedAttempts: 10000,
	}
}

// Validate checks the configuration for values generation cannot work with.
func (c GenerateConfig) Validate() error {
	if c.SeedSize < 2 {
		return fmt.Errorf("seed size must be at least 2, got %d", c.SeedSize)
	}
	if c.GrowthSteps < 0 {
		return fmt.Errorf("growth steps must be non-negative, got %d", c.GrowthSteps)
	}
	if c.AttachCount < 1 {
		return fmt.Errorf("attach count must be at least 1, got %d", c.AttachCount)
	}
	if c.AttachCount >= c.SeedSize {
		return fmt.Errorf("attach count %d must be below seed size %d", c.AttachCount, c.SeedSize)
	}
	if c.MaxSeedAttempts < 1 {
		return fmt.Errorf("max seed attempts must be at least 1, got %d", c.MaxSeedAttempts)
	}
	return nil
}

// Generate builds a scale-free graph and its trust matrix using rng as the
// sole randomness source, so equal seeds yield equal graphs.
func Generate(cfg GenerateConfig, rng *rand.Rand) (*Graph, *TrustMatrix, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid generation config: %w", err)
	}

	g, err := seedGraph(cfg, rng)
	if err != nil {
		return nil, nil, err
	}

	for step := 0; step < cfg.GrowthSteps; step++ {
		node := g.addNode()
		for _, target := range attachTargets(g, node, cfg.AttachCount, rng) {
			g.addEdge(node, target)
		}
	}

	return g, NewTrust(g, cfg.Beta), nil
}

// seedGraph rejection-samples a random symmetric wiring of the seed nodes
// until every node has at least one neighbor.
func seedGraph(cfg GenerateConfig, rng *rand.Rand) (*Graph, error) {
	for attempt := 0; attempt < cfg.MaxSeedAttempts; attempt++ {
		g := newGraph(cfg.SeedSize)
		for i := 0; i < cfg.SeedSize; i++ {
			for j := i + 1; j < cfg.SeedSize; j++ {
				if rng.Float64() < seedEdgeProbability {
					g.addEdge(i, j)
				}
			}
		}
		isolated := false
		for i := 0; i < cfg.SeedSize; i++ {
			if g.Degree(i) == 0 {
				isolated = true
				break
			}
		}
		if !isolated {
			return g, nil
		}
	}
	return nil, fmt.Errorf("no isolation-free seed graph of %d nodes within %d attempts: %w",
		cfg.SeedSize, cfg.MaxSeedAttempts, ErrSeedRetriesExhausted)
}

// attachTargets picks count distinct existing nodes with probability
// proportional to their degree, sampling without replacement. Candidates are
// walked in ascending id order so the draw sequence is reproducible.
func attachTargets(g *Graph, newNode, count int, rng *rand.Rand) []int {
	candidates := make([]int, newNode)
	weights := make([]int, newNode)
	total := 0
	for i := 0; i < newNode; i++ {
		candidates[i] = i
		weights[i] = g.Degree(i)
		total += weights[i]
	}

	targets := make([]int, 0, count)
	for len(targets) < count {
		pick := rng.Intn(total)
		acc := 0
		for idx, w := range weights {
			acc += w
			if pick < acc {
				targets = append(targets, candidates[idx])
				total -= w
				candidates = append(candidates[:idx], candidates[idx+1:]...)
				weights = append(weights[:idx], weights[idx+1:]...)
				break
			}
		}
	}
	return targets
}
