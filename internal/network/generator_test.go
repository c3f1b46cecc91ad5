package network

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"
)

// fixedSource is a rand.Source whose every draw maps to Float64() == 0.5,
// which keeps the seed phase from ever wiring an edge.
type fixedSource struct{}

func (fixedSource) Int63() int64 { return 1 << 62 }
func (fixedSource) Seed(int64)   {}

// generate builds a small graph or fails the test.
func generate(t *testing.T, cfg GenerateConfig, seed int64) (*Graph, *TrustMatrix) {
	t.Helper()
	g, trust, err := Generate(cfg, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("Generate(): %v", err)
	}
	return g, trust
}

// pathGraph builds a line of n nodes: 0-1-2-...-(n-1).
func pathGraph(t *testing.T, n int) *Graph {
	t.Helper()
	adj := make([][]bool, n)
	for i := range adj {
		adj[i] = make([]bool, n)
	}
	for i := 0; i < n-1; i++ {
		adj[i][i+1] = true
		adj[i+1][i] = true
	}
	g, err := NewGraphFromAdjacency(adj)
	if err != nil {
		t.Fatalf("NewGraphFromAdjacency(): %v", err)
	}
	return g
}

func TestGenerateProperties(t *testing.T) {
	cfg := DefaultGenerateConfig()
	cfg.GrowthSteps = 45

	for _, seed := range []int64{1, 7, 42} {
		g, _ := generate(t, cfg, seed)

		if got, want := g.NodeCount(), cfg.SeedSize+cfg.GrowthSteps; got != want {
			t.Fatalf("seed %d: NodeCount() = %d, want %d", seed, got, want)
		}
		for i := 0; i < g.NodeCount(); i++ {
			if g.Degree(i) == 0 {
				t.Errorf("seed %d: node %d is isolated", seed, i)
			}
			if g.HasEdge(i, i) {
				t.Errorf("seed %d: node %d has a self-loop", seed, i)
			}
			neighbors := g.Neighbors(i)
			if !sort.IntsAreSorted(neighbors) {
				t.Errorf("seed %d: Neighbors(%d) = %v, want ascending order", seed, i, neighbors)
			}
			for _, j := range neighbors {
				if !g.HasEdge(j, i) {
					t.Errorf("seed %d: edge (%d,%d) is not symmetric", seed, i, j)
				}
			}
		}
	}
}

func TestGenerateDeterminism(t *testing.T) {
	cfg := DefaultGenerateConfig()
	cfg.GrowthSteps = 45

	g1, t1 := generate(t, cfg, 99)
	g2, t2 := generate(t, cfg, 99)

	a1, a2 := g1.Dense(), g2.Dense()
	for i := range a1 {
		for j := range a1[i] {
			if a1[i][j] != a2[i][j] {
				t.Fatalf("adjacency differs at (%d,%d) for equal seeds", i, j)
			}
		}
	}
	r1, r2 := t1.Rows(), t2.Rows()
	for i := range r1 {
		for j := range r1[i] {
			if r1[i][j] != r2[i][j] {
				t.Fatalf("trust differs at (%d,%d) for equal seeds", i, j)
			}
		}
	}
}

func TestTrustProperties(t *testing.T) {
	cfg := DefaultGenerateConfig()
	cfg.GrowthSteps = 45

	for _, beta := range []float64{0.5, 1, 2} {
		cfg.Beta = beta
		g, trust := generate(t, cfg, 3)

		for i := 0; i < g.NodeCount(); i++ {
			maxTrust := 0.0
			for _, j := range g.Neighbors(i) {
				v, ok := trust.At(i, j)
				if !ok {
					t.Fatalf("beta %v: At(%d,%d) undefined for linked pair", beta, i, j)
				}
				if v <= 0 || v > 1 {
					t.Errorf("beta %v: At(%d,%d) = %v, want in (0,1]", beta, i, j, v)
				}
				if v > maxTrust {
					maxTrust = v
				}
			}
			if math.Abs(maxTrust-1) > 1e-12 {
				t.Errorf("beta %v: node %d trusts no neighbor fully (max %v)", beta, i, maxTrust)
			}
			if _, ok := trust.At(i, i); ok {
				t.Errorf("beta %v: At(%d,%d) defined for unlinked pair", beta, i, i)
			}
		}
	}
}

func TestTrustIsDirectional(t *testing.T) {
	// On a path 0-1-2-3 the endpoints have degree 1 and the middle nodes
	// degree 2, so an endpoint trusts its neighbor fully while the middle
	// node only half-trusts the endpoint back.
	g := pathGraph(t, 4)
	trust := NewTrust(g, 1)

	forward, ok := trust.At(0, 1)
	if !ok || forward != 1 {
		t.Errorf("At(0,1) = %v, %v, want 1, true", forward, ok)
	}
	back, ok := trust.At(1, 0)
	if !ok || back != 0.5 {
		t.Errorf("At(1,0) = %v, %v, want 0.5, true", back, ok)
	}
}

func TestGenerateSeedRetriesExhausted(t *testing.T) {
	cfg := DefaultGenerateConfig()
	cfg.MaxSeedAttempts = 25

	_, _, err := Generate(cfg, rand.New(fixedSource{}))
	if !errors.Is(err, ErrSeedRetriesExhausted) {
		t.Fatalf("Generate() error = %v, want ErrSeedRetriesExhausted", err)
	}
}

func TestGenerateConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GenerateConfig)
	}{
		{
			name:   "seed size too small",
			mutate: func(c *GenerateConfig) { c.SeedSize = 1 },
		},
		{
			name:   "negative growth steps",
			mutate: func(c *GenerateConfig) { c.GrowthSteps = -1 },
		},
		{
			name:   "zero attach count",
			mutate: func(c *GenerateConfig) { c.AttachCount = 0 },
		},
		{
			name:   "attach count not below seed size",
			mutate: func(c *GenerateConfig) { c.SeedSize = 3; c.AttachCount = 3 },
		},
		{
			name:   "zero seed attempts",
			mutate: func(c *GenerateConfig) { c.MaxSeedAttempts = 0 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultGenerateConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	if err := DefaultGenerateConfig().Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}

func TestNewGraphFromAdjacency(t *testing.T) {
	tests := []struct {
		name string
		adj  [][]bool
	}{
		{
			name: "ragged rows",
			adj:  [][]bool{{false, true}, {true}},
		},
		{
			name: "self-loop",
			adj:  [][]bool{{true, true}, {true, false}},
		},
		{
			name: "asymmetric",
			adj:  [][]bool{{false, true}, {false, false}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGraphFromAdjacency(tt.adj); err == nil {
				t.Error("NewGraphFromAdjacency() = nil error, want error")
			}
		})
	}
}

func TestDenseRoundTrip(t *testing.T) {
	cfg := DefaultGenerateConfig()
	cfg.GrowthSteps = 20

	g, _ := generate(t, cfg, 5)
	back, err := NewGraphFromAdjacency(g.Dense())
	if err != nil {
		t.Fatalf("NewGraphFromAdjacency(Dense()): %v", err)
	}
	if back.NodeCount() != g.NodeCount() {
		t.Fatalf("round trip NodeCount() = %d, want %d", back.NodeCount(), g.NodeCount())
	}
	for i := 0; i < g.NodeCount(); i++ {
		if back.Degree(i) != g.Degree(i) {
			t.Errorf("round trip Degree(%d) = %d, want %d", i, back.Degree(i), g.Degree(i))
		}
	}
}
