package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for a stored run",
		Long: `Display the round-by-round statistics recorded for a run.

By default the final round is summarized; --round selects another one.
JSON output includes every round.

Examples:
  rumorsim stats --run 3
  rumorsim stats --run 3 --round 50
  rumorsim stats --run 3 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			runID, _ := cmd.Flags().GetInt64("run")
			round, _ := cmd.Flags().GetInt("round")

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := context.Background()
			rec, err := s.GetRun(ctx, runID)
			if err != nil {
				return fmt.Errorf("load run %d: %w", runID, err)
			}
			stats, err := s.LoadStatistics(ctx, runID)
			if err != nil {
				return fmt.Errorf("load statistics for run %d: %w", runID, err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"run":        rec,
					"statistics": stats,
				})
			}

			if stats.Rounds() == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Run %d [%s]: no recorded rounds on network %d\n",
					rec.ID, rec.Status, rec.NetworkID)
				return nil
			}
			if round < 0 {
				round = stats.Rounds()
			}
			if round < 1 || round > stats.Rounds() {
				return fmt.Errorf("round must be between 1 and %d, got %d", stats.Rounds(), round)
			}
			idx := round - 1

			truth := stats.Fragmentation[rumor.Truth][idx]
			lie := stats.Fragmentation[rumor.Lie][idx]
			opinionated := 0.0
			for code := 0; code < rumor.Alphabet; code++ {
				opinionated += stats.Fragmentation[code][idx]
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %d [%s]: %d rounds on network %d (%s mode, seed %d)\n",
				rec.ID, rec.Status, stats.Rounds(), rec.NetworkID, rec.Mode, rec.Seed)
			fmt.Fprintf(out, "\nRound %d:\n", round)
			fmt.Fprintf(out, "  Avg entropy: %.3f bits (var %.3f)\n",
				stats.AvgEntropy[idx], stats.VarEntropy[idx])
			fmt.Fprintf(out, "  Entropy range: %.3f to %.3f\n",
				stats.MinEntropy[idx], stats.MaxEntropy[idx])
			fmt.Fprintf(out, "  Beliefs: %.1f%% truth, %.1f%% lie, %.1f%% other, %.1f%% silent\n",
				100*truth, 100*lie, 100*(opinionated-truth-lie), 100*(1-opinionated))

			printTopCodes(out, stats.Fragmentation, idx)

			return nil
		},
	}

	cmd.Flags().Int64("run", 0, "Run ID to inspect")
	cmd.Flags().Int("round", -1, "Round to summarize (default: final)")
	cmd.MarkFlagRequired("run")

	return cmd
}

// printTopCodes lists the most widely believed codes at one round.
func printTopCodes(out io.Writer, fragmentation [][]float64, idx int) {
	type share struct {
		code rumor.Code
		frac float64
	}
	shares := make([]share, 0, rumor.Alphabet)
	for code := 0; code < rumor.Alphabet; code++ {
		if f := fragmentation[code][idx]; f > 0 {
			shares = append(shares, share{rumor.Code(code), f})
		}
	}
	if len(shares) == 0 {
		return
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].frac != shares[j].frac {
			return shares[i].frac > shares[j].frac
		}
		return shares[i].code < shares[j].code
	})
	if len(shares) > 5 {
		shares = shares[:5]
	}

	fmt.Fprintf(out, "\nTop codes:\n")
	for _, sh := range shares {
		fmt.Fprintf(out, "  %s (weight %d): %.1f%%\n", sh.code, sh.code.HammingWeight(), 100*sh.frac)
	}
}
