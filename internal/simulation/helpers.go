package simulation

import (
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// SmallNetwork returns a generate config for a compact network of roughly
// 5+growthSteps nodes.
func SmallNetwork(growthSteps int) *network.GenerateConfig {
	cfg := network.DefaultGenerateConfig()
	cfg.GrowthSteps = growthSteps
	return &cfg
}

// FlatTrust returns a generate config whose trust matrix is uniformly 1, so
// every broadcast is accepted. Scenarios that need fully deterministic
// propagation build on this.
func FlatTrust(growthSteps int) *network.GenerateConfig {
	cfg := SmallNetwork(growthSteps)
	cfg.Beta = 0
	return cfg
}

// QuickRun returns a run config for short runs with a fixed seed.
func QuickRun(rounds int, seed int64) *spreading.Config {
	cfg := spreading.DefaultConfig()
	cfg.Rounds = rounds
	cfg.Seed = seed
	return &cfg
}

// NoMutation raises the conservation factor until the flip probability is
// exactly zero, so beliefs spread unchanged.
func NoMutation(cfg *spreading.Config) *spreading.Config {
	cfg.Conservation = 1000
	return cfg
}
