package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List stored networks",
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

			records, err := s.ListNetworks(context.Background())
			if err != nil {
				return fmt.Errorf("list networks: %w", err)
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"networks": records,
					"count":    len(records),
				})
			}

			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No networks stored yet. Run 'rumorsim generate' first.")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored networks (%d):\n\n", len(records))
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %d nodes (seed size %d, attach %d, beta %g)\n",
					rec.ID, rec.NodeCount, rec.SeedSize, rec.AttachCount, rec.Beta)
				fmt.Fprintf(cmd.OutOrStdout(), "   Seed: %d  Created: %s\n",
					rec.Seed, rec.CreatedAt.Format(time.RFC3339))
			}

			return nil
		},
	}
}
