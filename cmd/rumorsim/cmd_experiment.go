package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

func newExperimentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Compare runs with and without fixed-belief nodes",
		Long: `Run a paired experiment: each trial generates a fresh network and runs
both arms over it, a control arm without fixed-belief nodes and an
experimental arm with the configured liars and truth-tellers.
Statistics are averaged across trials.

Here --liars and --truth-tellers set the experimental arm; the control
arm always follows the run section of the config.

Examples:
  rumorsim experiment
  rumorsim experiment --trials 20 --liars 2
  rumorsim experiment --rounds 100 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("rounds") {
				cfg.Run.Rounds, _ = cmd.Flags().GetInt("rounds")
			}
			if cmd.Flags().Changed("seed") {
				cfg.Run.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("trials") {
				cfg.Experiment.Trials, _ = cmd.Flags().GetInt("trials")
			}
			if cmd.Flags().Changed("liars") {
				cfg.Experiment.Liars, _ = cmd.Flags().GetInt("liars")
			}
			if cmd.Flags().Changed("truth-tellers") {
				cfg.Experiment.TruthTellers, _ = cmd.Flags().GetInt("truth-tellers")
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			logger := newSimLogger(cfg)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

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

			result, err := spreading.RunExperiment(ctx, cfg.ExperimentConfig(), logger)
			if err != nil {
				return fmt.Errorf("experiment: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
			}

			out := cmd.OutOrStdout()
			if result.Control.Rounds() == 0 {
				fmt.Fprintf(out, "Experiment complete: %d trials of 0 rounds\n", result.Trials)
				return nil
			}
			final := result.Control.Rounds() - 1
			fmt.Fprintf(out, "Experiment complete: %d trials of %d rounds\n\n",
				result.Trials, result.Control.Rounds())
			fmt.Fprintln(out, "Final round, averaged over trials:")
			printArm(out, "Control", result.Control)
			printArm(out, "Experimental", result.Experimental)

			delta := result.Experimental.AvgEntropy[final] - result.Control.AvgEntropy[final]
			fmt.Fprintf(out, "\nEntropy shift from %d liars and %d truth-tellers: %+.3f bits\n",
				cfg.Experiment.Liars, cfg.Experiment.TruthTellers, delta)

			return nil
		},
	}

	cmd.Flags().Int("trials", 0, "Independent networks to average over")
	cmd.Flags().Int("rounds", 0, "Number of rounds per run")
	cmd.Flags().Int("liars", 0, "Liars in the experimental arm")
	cmd.Flags().Int("truth-tellers", 0, "Truth-tellers in the experimental arm")
	cmd.Flags().Int64("seed", 0, "Random seed spacing the trials")

	return cmd
}

func printArm(out io.Writer, name string, stats *spreading.RunStatistics) {
	final := stats.Rounds() - 1
	truth := stats.Fragmentation[rumor.Truth][final]
	lie := stats.Fragmentation[rumor.Lie][final]
	fmt.Fprintf(out, "  %-13s avg entropy %.3f bits, truth %.1f%%, lie %.1f%%\n",
		name+":", stats.AvgEntropy[final], 100*truth, 100*lie)
}
