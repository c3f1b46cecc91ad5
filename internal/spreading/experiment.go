package spreading

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
)

// ExperimentConfig describes a paired comparison: for each trial a fresh
// network is generated and both arms run over the same graph and seed node,
// so any divergence comes from the arms' parameters rather than the wiring.
// The arms' Seed and SeedNode fields are overridden per trial.
type ExperimentConfig struct {
	// Trials is the number of independent networks to average over.
	// Default: 10.
	Trials int

	// Network parameterizes the graph generated for each trial.
	Network network.GenerateConfig

	// Control is the baseline arm, by default free of fixed-belief nodes.
	Control Config

	// Experimental is the arm under study, by default with one liar and
	// one truth-teller.
	Experimental Config

	// Seed spaces the per-trial random streams.
	Seed int64
}

// DefaultExperimentConfig returns the default experiment: ten trials of a
// plain run against a run with one liar and one truth-teller.
func DefaultExperimentConfig() ExperimentConfig {
	experimental := DefaultConfig()
	experimental.Liars = 1
	experimental.TruthTellers = 1
	return ExperimentConfig{
		Trials:       10,
		Network:      network.DefaultGenerateConfig(),
		Control:      DefaultConfig(),
		Experimental: experimental,
		Seed:         1,
	}
}

// Validate checks the experiment and both arm configurations.
func (c ExperimentConfig) Validate() error {
	if c.Trials < 1 {
		return fmt.Errorf("trials must be at least 1, got %d", c.Trials)
	}
	if err := c.Network.Validate(); err != nil {
		return fmt.Errorf("network config: %w", err)
	}
	if err := c.Control.Validate(); err != nil {
		return fmt.Errorf("control config: %w", err)
	}
	if err := c.Experimental.Validate(); err != nil {
		return fmt.Errorf("experimental config: %w", err)
	}
	if c.Control.Rounds != c.Experimental.Rounds {
		return fmt.Errorf("arms disagree on rounds: control %d, experimental %d",
			c.Control.Rounds, c.Experimental.Rounds)
	}
	return nil
}

// ExperimentResult holds the trial-averaged statistics of both arms.
type ExperimentResult struct {
	Control      *RunStatistics `json:"control"`
	Experimental *RunStatistics `json:"experimental"`
	Trials       int            `json:"trials"`
}

// RunExperiment executes all trials and averages each arm's statistics.
// The context is checked between runs; cancellation aborts the experiment.
func RunExperiment(ctx context.Context, cfg ExperimentConfig, logger *slog.Logger) (*ExperimentResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	controls := make([]*RunStatistics, 0, cfg.Trials)
	experimentals := make([]*RunStatistics, 0, cfg.Trials)

	for trial := 0; trial < cfg.Trials; trial++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("experiment aborted after %d trials: %w", trial, err)
		}

		// Each trial owns a spaced-out slice of the seed space so its
		// network and both engine streams are independent.
		base := cfg.Seed + int64(trial)*1000
		rng := rand.New(rand.NewSource(base))
		g, trust, err := network.Generate(cfg.Network, rng)
		if err != nil {
			return nil, fmt.Errorf("trial %d: generate network: %w", trial, err)
		}

		seedNode := cfg.Control.SeedNode
		if seedNode < 0 {
			seedNode = rng.Intn(g.NodeCount())
		}
		logger.Info("trial network ready",
			"trial", trial, "nodes", g.NodeCount(), "seed_node", seedNode)

		control := cfg.Control
		control.Seed, control.SeedNode = base+1, seedNode
		controlStats, err := runArm(ctx, g, trust, control, logger)
		if err != nil {
			return nil, fmt.Errorf("trial %d: control arm: %w", trial, err)
		}
		controls = append(controls, controlStats)

		experimental := cfg.Experimental
		experimental.Seed, experimental.SeedNode = base+2, seedNode
		experimentalStats, err := runArm(ctx, g, trust, experimental, logger)
		if err != nil {
			return nil, fmt.Errorf("trial %d: experimental arm: %w", trial, err)
		}
		experimentals = append(experimentals, experimentalStats)
	}

	controlAvg, err := Average(controls)
	if err != nil {
		return nil, fmt.Errorf("average control arm: %w", err)
	}
	experimentalAvg, err := Average(experimentals)
	if err != nil {
		return nil, fmt.Errorf("average experimental arm: %w", err)
	}

	return &ExperimentResult{
		Control:      controlAvg,
		Experimental: experimentalAvg,
		Trials:       cfg.Trials,
	}, nil
}

func runArm(ctx context.Context, g *network.Graph, trust *network.TrustMatrix, cfg Config, logger *slog.Logger) (*RunStatistics, error) {
	engine, err := NewEngine(g, trust, cfg, logger)
	if err != nil {
		return nil, err
	}
	return engine.Run(ctx)
}
