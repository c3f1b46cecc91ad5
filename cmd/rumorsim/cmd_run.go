package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/config"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/logging"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/store"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a rumor propagation simulation",
		Long: `Run a synchronous rumor propagation simulation and store its
round-by-round statistics in the database.

By default a fresh network is generated and saved first; --network reuses
a stored one. At log level debug or trace, per-round events are appended
to rounds.jsonl next to the database.

Examples:
  rumorsim run --rounds 200
  rumorsim run --network 3 --liars 1 --truth-tellers 1
  rumorsim run --mode weighted --seed 7 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}

			logger := newSimLogger(cfg)

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			// Handle SIGINT/SIGTERM so an interrupted run still records
			// the rounds it completed.
			sigCh := make(chan os.Signal, 1)
			notifySignals(sigCh)
			defer signal.Stop(sigCh)
			go func() {
				select {
				case <-sigCh:
					cancel()
				case <-ctx.Done():
				}
			}()

			networkID, _ := cmd.Flags().GetInt64("network")
			g, trust, networkID, err := resolveNetwork(ctx, s, cfg, networkID)
			if err != nil {
				return err
			}

			runCfg := cfg.RunConfig()
			runID, err := s.CreateRun(ctx, networkID, runCfg)
			if err != nil {
				return fmt.Errorf("create run: %w", err)
			}

			engine, err := spreading.NewEngine(g, trust, runCfg, logger)
			if err != nil {
				return fmt.Errorf("configure engine: %w", err)
			}

			rl := logging.NewRoundLogger(filepath.Dir(cfg.Storage.Path), cfg.Logging.Level)
			defer rl.Close()
			engine.OnRound(func(snap spreading.Snapshot) {
				rl.Log(map[string]any{
					"run":         runID,
					"round":       snap.Round,
					"avg_entropy": snap.AvgEntropy,
					"broadcasts":  snap.Broadcasts,
					"accepts":     snap.Accepts,
					"mutations":   snap.Mutations,
				})
			})

			stats, runErr := engine.Run(ctx)
			if runErr != nil {
				// Completed rounds are still worth keeping for inspection.
				// The run context may already be canceled, so persistence
				// uses a fresh one.
				if stats != nil && stats.Rounds() > 0 {
					if err := s.SaveStatistics(context.Background(), runID, stats); err != nil {
						logger.Error("save partial statistics", "run", runID, "error", err)
					}
				}
				if err := s.FinishRun(context.Background(), runID, store.RunStatusFailed); err != nil {
					logger.Error("mark run failed", "run", runID, "error", err)
				}
				return fmt.Errorf("run %d: %w", runID, runErr)
			}

			if err := s.SaveStatistics(ctx, runID, stats); err != nil {
				return fmt.Errorf("save statistics: %w", err)
			}
			if err := s.FinishRun(ctx, runID, store.RunStatusDone); err != nil {
				return fmt.Errorf("finish run: %w", err)
			}

			return printRunSummary(cmd, runID, networkID, stats)
		},
	}

	cmd.Flags().Int64("network", 0, "Stored network ID to reuse (0 generates a fresh one)")
	cmd.Flags().Int("rounds", 0, "Number of rounds")
	cmd.Flags().String("mode", "", "Broadcast selection mode: majority or weighted")
	cmd.Flags().Int("liars", 0, "Nodes permanently spreading the distorted code")
	cmd.Flags().Int("truth-tellers", 0, "Nodes permanently spreading the truth")
	cmd.Flags().Int("seed-node", 0, "Node starting with the rumor (-1 picks at random)")
	cmd.Flags().Int("memory", 0, "Rumors each node retains")
	cmd.Flags().Int64("seed", 0, "Random seed for the run")

	return cmd
}

// applyRunFlags overlays run parameter flags onto the loaded configuration
// and re-validates. Flags a command does not register are left alone.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("rounds") {
		cfg.Run.Rounds, _ = cmd.Flags().GetInt("rounds")
	}
	if cmd.Flags().Changed("mode") {
		cfg.Run.Mode, _ = cmd.Flags().GetString("mode")
	}
	if cmd.Flags().Changed("liars") {
		cfg.Run.Liars, _ = cmd.Flags().GetInt("liars")
	}
	if cmd.Flags().Changed("truth-tellers") {
		cfg.Run.TruthTellers, _ = cmd.Flags().GetInt("truth-tellers")
	}
	if cmd.Flags().Changed("seed-node") {
		cfg.Run.SeedNode, _ = cmd.Flags().GetInt("seed-node")
	}
	if cmd.Flags().Changed("memory") {
		cfg.Run.MemoryCapacity, _ = cmd.Flags().GetInt("memory")
	}
	if cmd.Flags().Changed("seed") {
		cfg.Run.Seed, _ = cmd.Flags().GetInt64("seed")
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// resolveNetwork loads the network a run should use, generating and saving a
// fresh one when id is zero so every run row references a stored network.
func resolveNetwork(ctx context.Context, s *store.Store, cfg *config.Config, id int64) (*network.Graph, *network.TrustMatrix, int64, error) {
	if id > 0 {
		g, trust, _, err := s.LoadNetwork(ctx, id)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("load network %d: %w", id, err)
		}
		return g, trust, id, nil
	}

	gen := cfg.GenerateConfig()
	rng := rand.New(rand.NewSource(cfg.Run.Seed))
	g, trust, err := network.Generate(gen, rng)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("generate network: %w", err)
	}
	id, err = s.SaveNetwork(ctx, g, trust, gen, cfg.Run.Seed)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("save network: %w", err)
	}
	return g, trust, id, nil
}

// printRunSummary reports how a finished run ended, in text or JSON.
func printRunSummary(cmd *cobra.Command, runID, networkID int64, stats *spreading.RunStatistics) error {
	jsonOut, _ := cmd.Flags().GetBool("json")
	if stats.Rounds() == 0 {
		if jsonOut {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
				"run":     runID,
				"network": networkID,
				"rounds":  0,
				"status":  store.RunStatusDone,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run %d finished: 0 rounds on network %d\n", runID, networkID)
		return nil
	}

	final := stats.Rounds() - 1
	truth := stats.Fragmentation[rumor.Truth][final]
	lie := stats.Fragmentation[rumor.Lie][final]
	opinionated := 0.0
	for code := 0; code < rumor.Alphabet; code++ {
		opinionated += stats.Fragmentation[code][final]
	}

	if jsonOut {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
			"run":               runID,
			"network":           networkID,
			"rounds":            stats.Rounds(),
			"status":            store.RunStatusDone,
			"final_avg_entropy": stats.AvgEntropy[final],
			"truth_fraction":    truth,
			"lie_fraction":      lie,
			"silent_fraction":   1 - opinionated,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %d finished: %d rounds on network %d\n", runID, stats.Rounds(), networkID)
	fmt.Fprintf(out, "  Final avg entropy: %.3f bits (min %.3f, max %.3f)\n",
		stats.AvgEntropy[final], stats.MinEntropy[final], stats.MaxEntropy[final])
	fmt.Fprintf(out, "  Final beliefs: %.1f%% truth, %.1f%% lie, %.1f%% other, %.1f%% silent\n",
		100*truth, 100*lie, 100*(opinionated-truth-lie), 100*(1-opinionated))
	return nil
}
