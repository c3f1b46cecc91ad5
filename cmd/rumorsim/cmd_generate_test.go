package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/store"
)

func TestGenerateCmd(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "rumorsim.db")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGenerateCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"generate", "--db", dbPath, "--nodes", "30", "--seed", "42"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !strings.Contains(out.String(), "Network 1: 30 nodes") {
		t.Errorf("output = %q, want mention of 'Network 1: 30 nodes'", out.String())
	}

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	records, err := s.ListNetworks(context.Background())
	if err != nil {
		t.Fatalf("ListNetworks() = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListNetworks() returned %d records, want 1", len(records))
	}
	if records[0].NodeCount != 30 {
		t.Errorf("NodeCount = %d, want 30", records[0].NodeCount)
	}
	if records[0].Seed != 42 {
		t.Errorf("Seed = %d, want 42", records[0].Seed)
	}
}

func TestGenerateCmdJSON(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "rumorsim.db")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGenerateCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"generate", "--db", dbPath, "--nodes", "20", "--json"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	var result struct {
		ID    int64   `json:"id"`
		Nodes int     `json:"nodes"`
		Edges int     `json:"edges"`
		Beta  float64 `json:"beta"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal(%q) = %v", out.String(), err)
	}
	if result.ID != 1 {
		t.Errorf("id = %d, want 1", result.ID)
	}
	if result.Nodes != 20 {
		t.Errorf("nodes = %d, want 20", result.Nodes)
	}
	// 15 growth nodes contribute exactly 2 edges each; the 5 seed nodes
	// contribute between 3 and 10.
	if result.Edges < 33 || result.Edges > 40 {
		t.Errorf("edges = %d, want between 33 and 40", result.Edges)
	}
}

func TestGenerateCmdGrowthFlags(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "rumorsim.db")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGenerateCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"generate", "--db", dbPath,
		"--seed-size", "4", "--attach-count", "3", "--growth-steps", "6",
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !strings.Contains(out.String(), "Network 1: 10 nodes") {
		t.Errorf("output = %q, want a 10-node network", out.String())
	}

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("Open() = %v", err)
	}
	defer s.Close()

	records, err := s.ListNetworks(context.Background())
	if err != nil {
		t.Fatalf("ListNetworks() = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("ListNetworks() returned %d records, want 1", len(records))
	}
	if records[0].SeedSize != 4 || records[0].AttachCount != 3 {
		t.Errorf("stored seed size %d attach %d, want 4 and 3",
			records[0].SeedSize, records[0].AttachCount)
	}
}

func TestGenerateCmdRejectsBadAttachCount(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "rumorsim.db")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"generate", "--db", dbPath, "--seed-size", "3", "--attach-count", "3"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Execute() = nil, want error for attach count at seed size")
	}
	if !strings.Contains(err.Error(), "attach count") {
		t.Errorf("error = %v, want mention of attach count", err)
	}
}

func TestGenerateCmdRejectsTinyNodeCount(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "rumorsim.db")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"generate", "--db", dbPath, "--nodes", "3"})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Execute() = nil, want error for node count below seed size")
	}
	if !strings.Contains(err.Error(), "seed size") {
		t.Errorf("error = %v, want mention of seed size", err)
	}
}
