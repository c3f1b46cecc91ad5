package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/store"
)

func TestStatsCmd(t *testing.T) {
	configPath := completeTestRun(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newStatsCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", "--config", configPath, "--run", "1"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Run 1 [done]: 10 rounds on network 1") {
		t.Errorf("output = %q, want run header", output)
	}
	if !strings.Contains(output, "Round 10:") {
		t.Errorf("output = %q, want final round section", output)
	}
	if !strings.Contains(output, "Avg entropy:") {
		t.Errorf("output = %q, want entropy line", output)
	}
	if !strings.Contains(output, "Top codes:") {
		t.Errorf("output = %q, want top codes section", output)
	}
}

func TestStatsCmdSelectsRound(t *testing.T) {
	configPath := completeTestRun(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newStatsCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", "--config", configPath, "--run", "1", "--round", "3"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !strings.Contains(out.String(), "Round 3:") {
		t.Errorf("output = %q, want round 3 section", out.String())
	}
}

func TestStatsCmdRoundOutOfRange(t *testing.T) {
	configPath := completeTestRun(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"stats", "--config", configPath, "--run", "1", "--round", "99"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Execute() = nil, want error for out-of-range round")
	}
	if !strings.Contains(err.Error(), "round must be between 1 and 10") {
		t.Errorf("error = %v, want round range message", err)
	}
}

func TestStatsCmdMissingRun(t *testing.T) {
	configPath := completeTestRun(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"stats", "--config", configPath, "--run", "99"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Execute() = nil, want error for missing run")
	}
	if !strings.Contains(err.Error(), "run 99") {
		t.Errorf("error = %v, want mention of run 99", err)
	}
}

func TestStatsCmdJSON(t *testing.T) {
	configPath := completeTestRun(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newStatsCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", "--config", configPath, "--run", "1", "--json"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	var result struct {
		Run        store.RunRecord         `json:"run"`
		Statistics spreading.RunStatistics `json:"statistics"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if result.Run.ID != 1 {
		t.Errorf("run.id = %d, want 1", result.Run.ID)
	}
	if result.Run.Status != store.RunStatusDone {
		t.Errorf("run.status = %q, want %q", result.Run.Status, store.RunStatusDone)
	}
	if result.Statistics.Rounds() != 10 {
		t.Errorf("statistics rounds = %d, want 10", result.Statistics.Rounds())
	}
	if len(result.Statistics.Fragmentation) != 32 {
		t.Errorf("fragmentation rows = %d, want 32", len(result.Statistics.Fragmentation))
	}
}
