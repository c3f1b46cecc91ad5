package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/store"
)

func TestNetworksCmdEmpty(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "rumorsim.db")

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newNetworksCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"networks", "--db", dbPath})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !strings.Contains(out.String(), "No networks stored yet.") {
		t.Errorf("output = %q, want empty-store message", out.String())
	}
}

func TestNetworksCmdLists(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "rumorsim.db")

	for _, seed := range []string{"1", "2"} {
		generate := newTestRootCmd()
		generate.AddCommand(newGenerateCmd())
		generate.SetOut(&bytes.Buffer{})
		generate.SetArgs([]string{"generate", "--db", dbPath, "--nodes", "20", "--seed", seed})
		if err := generate.Execute(); err != nil {
			t.Fatalf("generate seed %s: Execute() = %v", seed, err)
		}
	}

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newNetworksCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"networks", "--db", dbPath})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	if !strings.Contains(out.String(), "Stored networks (2):") {
		t.Errorf("output = %q, want two stored networks", out.String())
	}
	if !strings.Contains(out.String(), "20 nodes") {
		t.Errorf("output = %q, want node counts", out.String())
	}
}

func TestNetworksCmdJSON(t *testing.T) {
	isolateHome(t)
	dbPath := filepath.Join(t.TempDir(), "rumorsim.db")

	generate := newTestRootCmd()
	generate.AddCommand(newGenerateCmd())
	generate.SetOut(&bytes.Buffer{})
	generate.SetArgs([]string{"generate", "--db", dbPath, "--nodes", "20"})
	if err := generate.Execute(); err != nil {
		t.Fatalf("generate: Execute() = %v", err)
	}

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newNetworksCmd())
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"networks", "--db", dbPath, "--json"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() = %v", err)
	}

	var result struct {
		Networks []store.NetworkRecord `json:"networks"`
		Count    int                   `json:"count"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("Unmarshal() = %v", err)
	}
	if result.Count != 1 {
		t.Errorf("count = %d, want 1", result.Count)
	}
	if len(result.Networks) != 1 || result.Networks[0].NodeCount != 20 {
		t.Errorf("networks = %+v, want one 20-node record", result.Networks)
	}
}
