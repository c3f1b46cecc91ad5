package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/store"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/telemetry"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/visualization"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a simulation with a live browser view",
		Long: `Run a rumor propagation simulation while serving a live view of the
network in the browser. Each completed round is pushed to connected
viewers over a WebSocket; --interval paces the rounds so they can be
followed by eye.

The run is stored like 'rumorsim run'. Prometheus metrics are exposed
at /metrics. The server keeps serving the final state after the run
completes; stop it with Ctrl-C.

Examples:
  rumorsim serve
  rumorsim serve --network 3 --liars 1 --interval 250ms
  rumorsim serve --addr 127.0.0.1:9999 --no-open`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
			}
			if cmd.Flags().Changed("interval") {
				cfg.Server.Interval, _ = cmd.Flags().GetDuration("interval")
			}
			noOpen, _ := cmd.Flags().GetBool("no-open")

			logger := newSimLogger(cfg)

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

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
			roles := engine.Roles()

			hub := visualization.NewHub(logger)
			go hub.Run(ctx)

			collector := telemetry.NewCollector()
			collector.SetBuildInfo(version, commit)

			srv := visualization.NewServer(hub, collector.Handler(), logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(ctx, cfg.Server.Addr) }()

			// Wait for the listener to come up.
			deadline := time.Now().Add(3 * time.Second)
			for time.Now().Before(deadline) {
				if srv.Addr() != "" {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}
			addr := srv.Addr()
			if addr == "" {
				if err := <-errCh; err != nil {
					return fmt.Errorf("server failed to start: %w", err)
				}
				return fmt.Errorf("server failed to start")
			}

			url := "http://" + addr
			fmt.Fprintf(cmd.OutOrStdout(), "Live view running at %s\n", url)
			fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl-C to stop.\n")

			if !noOpen {
				if err := visualization.OpenBrowser(url); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Could not open browser: %v\nOpen %s manually.\n", err, url)
				}
			}

			// Push each completed round to viewers and pace the loop so
			// browsers can follow along.
			interval := cfg.Server.Interval
			last := time.Now()
			engine.OnRound(func(snap spreading.Snapshot) {
				elapsed := time.Since(last)

				frame := visualization.NewFrame(g, roles, snap)
				payload, err := json.Marshal(frame)
				if err != nil {
					logger.Error("encode frame", "round", snap.Round, "error", err)
				} else {
					hub.Publish(payload)
				}
				collector.ObserveRound(snap, elapsed)

				if interval > 0 {
					select {
					case <-time.After(interval):
					case <-ctx.Done():
					}
				}
				last = time.Now()
			})

			stats, runErr := engine.Run(ctx)
			if runErr != nil {
				if stats != nil && stats.Rounds() > 0 {
					if err := s.SaveStatistics(context.Background(), runID, stats); err != nil {
						logger.Error("save partial statistics", "run", runID, "error", err)
					}
				}
				if err := s.FinishRun(context.Background(), runID, store.RunStatusFailed); err != nil {
					logger.Error("mark run failed", "run", runID, "error", err)
				}
				logger.Warn("run aborted", "run", runID, "error", runErr)
			} else {
				if err := s.SaveStatistics(ctx, runID, stats); err != nil {
					return fmt.Errorf("save statistics: %w", err)
				}
				if err := s.FinishRun(ctx, runID, store.RunStatusDone); err != nil {
					return fmt.Errorf("finish run: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Run %d finished after %d rounds; final state stays up until Ctrl-C.\n",
					runID, stats.Rounds())
			}

			// Block until the server exits.
			if err := <-errCh; err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int64("network", 0, "Stored network ID to reuse (0 generates a fresh one)")
	cmd.Flags().Int("rounds", 0, "Number of rounds")
	cmd.Flags().String("mode", "", "Broadcast selection mode: majority or weighted")
	cmd.Flags().Int("liars", 0, "Nodes permanently spreading the distorted code")
	cmd.Flags().Int("truth-tellers", 0, "Nodes permanently spreading the truth")
	cmd.Flags().Int64("seed", 0, "Random seed for the run")
	cmd.Flags().String("addr", "", "Listen address (overrides config)")
	cmd.Flags().Duration("interval", 0, "Delay between rounds (overrides config)")
	cmd.Flags().Bool("no-open", false, "Don't open the browser")

	return cmd
}
