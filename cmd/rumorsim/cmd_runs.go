package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.ListRuns(context.Background())
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"runs":  records,
					"count": len(records),
				})
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs stored yet. Run 'rumorsim run' first.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored runs (%d):\n\n", len(records))
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. [%s] %d rounds on network %d (%s mode, seed %d)\n",
					rec.ID, rec.Status, rec.Rounds, rec.NetworkID, rec.Mode, rec.Seed)
				if rec.Liars > 0 || rec.TruthTellers > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "   Roles: %d liars, %d truth-tellers\n",
						rec.Liars, rec.TruthTellers)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "   Created: %s\n", rec.CreatedAt.Format(time.RFC3339))
			}

			return nil
		},
	}
}
