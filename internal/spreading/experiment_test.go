package spreading

import (
	"context"
	"reflect"
	"testing"
)

// smallExperiment returns a configuration sized for fast tests.
func smallExperiment() ExperimentConfig {
	cfg := DefaultExperimentConfig()
	cfg.Trials = 2
	cfg.Seed = 5
	cfg.Network.GrowthSteps = 10
	cfg.Control.Rounds = 5
	cfg.Experimental.Rounds = 5
	return cfg
}

func TestRunExperiment(t *testing.T) {
	result, err := RunExperiment(context.Background(), smallExperiment(), nil)
	if err != nil {
		t.Fatalf("RunExperiment(): %v", err)
	}
	if result.Trials != 2 {
		t.Errorf("Trials = %d, want 2", result.Trials)
	}
	if result.Control.Rounds() != 5 {
		t.Errorf("control Rounds() = %d, want 5", result.Control.Rounds())
	}
	if result.Experimental.Rounds() != 5 {
		t.Errorf("experimental Rounds() = %d, want 5", result.Experimental.Rounds())
	}
}

func TestRunExperimentDeterminism(t *testing.T) {
	first, err := RunExperiment(context.Background(), smallExperiment(), nil)
	if err != nil {
		t.Fatalf("first RunExperiment(): %v", err)
	}
	second, err := RunExperiment(context.Background(), smallExperiment(), nil)
	if err != nil {
		t.Fatalf("second RunExperiment(): %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("equal seeds produced different experiment results")
	}
}

func TestRunExperimentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := RunExperiment(ctx, smallExperiment(), nil); err == nil {
		t.Error("RunExperiment() with cancelled context = nil error, want error")
	}
}

func TestExperimentConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ExperimentConfig)
	}{
		{
			name:   "zero trials",
			mutate: func(c *ExperimentConfig) { c.Trials = 0 },
		},
		{
			name:   "bad network config",
			mutate: func(c *ExperimentConfig) { c.Network.AttachCount = 0 },
		},
		{
			name:   "bad control config",
			mutate: func(c *ExperimentConfig) { c.Control.MemoryCapacity = 0 },
		},
		{
			name:   "bad experimental config",
			mutate: func(c *ExperimentConfig) { c.Experimental.Rounds = -1 },
		},
		{
			name:   "arms disagree on rounds",
			mutate: func(c *ExperimentConfig) { c.Experimental.Rounds = c.Control.Rounds + 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultExperimentConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	if err := DefaultExperimentConfig().Validate(); err != nil {
		t.Errorf("Validate() on defaults = %v, want nil", err)
	}
}
