// Package config provides unified configuration loading for rumorsim.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// Config contains all rumorsim configuration settings.
type Config struct {
	// Network contains settings for graph generation.
	Network NetworkConfig `json:"network" yaml:"network"`

	// Run contains settings for a single propagation run.
	Run RunConfig `json:"run" yaml:"run"`

	// Experiment contains settings for paired control/experimental runs.
	Experiment ExperimentConfig `json:"experiment" yaml:"experiment"`

	// Storage contains settings for the result database.
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Server contains settings for the live visualization server.
	Server ServerConfig `json:"server" yaml:"server"`

	// Logging contains settings for operational and round logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// NetworkConfig configures scale-free graph generation.
type NetworkConfig struct {
	// Beta is the trust exponent applied to broadcaster degrees.
	Beta float64 `json:"beta" yaml:"beta"`

	// GrowthSteps is the number of nodes attached after the seed phase.
	GrowthSteps int `json:"growth_steps" yaml:"growth_steps"`

	// SeedSize is the number of randomly wired starting nodes.
	SeedSize int `json:"seed_size" yaml:"seed_size"`

	// AttachCount is the number of links each new node receives.
	AttachCount int `json:"attach_count" yaml:"attach_count"`

	// MaxSeedAttempts bounds the rejection sampling of the seed graph.
	MaxSeedAttempts int `json:"max_seed_attempts" yaml:"max_seed_attempts"`
}

// RunConfig configures the propagation engine.
type RunConfig struct {
	// MemoryCapacity is the number of rumors a node retains.
	MemoryCapacity int `json:"memory_capacity" yaml:"memory_capacity"`

	// MaxEntropy is the entropy ceiling the mutation gate is normalized
	// against.
	MaxEntropy float64 `json:"max_entropy" yaml:"max_entropy"`

	// Conservation scales how strongly low entropy suppresses mutation.
	Conservation float64 `json:"conservation" yaml:"conservation"`

	// Mode selects how broadcasters pick a rumor: "majority" or "weighted".
	Mode string `json:"mode" yaml:"mode"`

	// Rounds is the number of synchronous rounds per run.
	Rounds int `json:"rounds" yaml:"rounds"`

	// Liars is the number of nodes permanently spreading the distorted code.
	Liars int `json:"liars" yaml:"liars"`

	// TruthTellers is the number of nodes permanently spreading the truth.
	TruthTellers int `json:"truth_tellers" yaml:"truth_tellers"`

	// SeedNode is the node starting with the true rumor; -1 picks at random.
	SeedNode int `json:"seed_node" yaml:"seed_node"`

	// Seed initializes the random stream.
	Seed int64 `json:"seed" yaml:"seed"`
}

// ExperimentConfig configures the experimental arm of paired runs. The
// control arm reuses the run settings unchanged.
type ExperimentConfig struct {
	// Trials is the number of independent networks to average over.
	Trials int `json:"trials" yaml:"trials"`

	// Liars is the liar count of the experimental arm.
	Liars int `json:"liars" yaml:"liars"`

	// TruthTellers is the truth-teller count of the experimental arm.
	TruthTellers int `json:"truth_tellers" yaml:"truth_tellers"`
}

// StorageConfig configures the result database.
type StorageConfig struct {
	// Path is the SQLite database file. Supports ${VAR} syntax for env vars.
	Path string `json:"path" yaml:"path"`
}

// ServerConfig configures the live visualization server.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr" yaml:"addr"`

	// Interval paces the round loop so browsers can follow along.
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// UnmarshalYAML decodes the server section, accepting Go duration strings
// such as "250ms" for the interval. Absent keys keep their current values.
func (s *ServerConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Addr     string `yaml:"addr"`
		Interval string `yaml:"interval"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Addr != "" {
		s.Addr = raw.Addr
	}
	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("parse server interval: %w", err)
		}
		s.Interval = d
	}
	return nil
}

// LoggingConfig configures rumorsim's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables round logging to rounds.jsonl.
	// "trace" additionally includes per-mutation events.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			Beta:            1,
			GrowthSteps:     295,
			SeedSize:        5,
			AttachCount:     2,
			MaxSeedAttempts: 10000,
		},
		Run: RunConfig{
			MemoryCapacity: 320,
			MaxEntropy:     5,
			Conservation:   1,
			Mode:           string(spreading.ModeMajority),
			Rounds:         200,
			Liars:          0,
			TruthTellers:   0,
			SeedNode:       -1,
			Seed:           1,
		},
		Experiment: ExperimentConfig{
			Trials:       10,
			Liars:        1,
			TruthTellers: 1,
		},
		Storage: StorageConfig{
			Path: "rumorsim.db",
		},
		Server: ServerConfig{
			Addr:     "127.0.0.1:8080",
			Interval: 100 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.rumorsim/config.yaml -> environment variables
func Load() (*Config, error) {
	config := Default()

	// Try to load from default config file
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".rumorsim", "config.yaml")
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Expand environment variables in the database path
	config.Storage.Path = expandEnvVars(config.Storage.Path)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.GenerateConfig().Validate(); err != nil {
		return fmt.Errorf("network: %w", err)
	}
	if err := c.RunConfig().Validate(); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if c.Experiment.Trials < 1 {
		return fmt.Errorf("experiment trials must be at least 1, got %d", c.Experiment.Trials)
	}
	if c.Experiment.Liars < 0 || c.Experiment.TruthTellers < 0 {
		return fmt.Errorf("experiment role counts must be non-negative, got %d liars and %d truth-tellers",
			c.Experiment.Liars, c.Experiment.TruthTellers)
	}

	if c.Storage.Path == "" {
		return fmt.Errorf("storage path must not be empty")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Server.Interval < 0 {
		return fmt.Errorf("server interval must be non-negative, got %v", c.Server.Interval)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// GenerateConfig converts the network section into generation parameters.
func (c *Config) GenerateConfig() network.GenerateConfig {
	return network.GenerateConfig{
		Beta:            c.Network.Beta,
		GrowthSteps:     c.Network.GrowthSteps,
		SeedSize:        c.Network.SeedSize,
		AttachCount:     c.Network.AttachCount,
		MaxSeedAttempts: c.Network.MaxSeedAttempts,
	}
}

// RunConfig converts the run section into engine parameters.
func (c *Config) RunConfig() spreading.Config {
	return spreading.Config{
		MemoryCapacity: c.Run.MemoryCapacity,
		MaxEntropy:     c.Run.MaxEntropy,
		Conservation:   c.Run.Conservation,
		Mode:           spreading.Mode(c.Run.Mode),
		Rounds:         c.Run.Rounds,
		Liars:          c.Run.Liars,
		TruthTellers:   c.Run.TruthTellers,
		SeedNode:       c.Run.SeedNode,
		Seed:           c.Run.Seed,
	}
}

// ExperimentConfig converts the experiment section into paired-run
// parameters. The control arm mirrors the run section; the experimental arm
// adds the configured fixed-belief nodes.
func (c *Config) ExperimentConfig() spreading.ExperimentConfig {
	control := c.RunConfig()
	experimental := control
	experimental.Liars = c.Experiment.Liars
	experimental.TruthTellers = c.Experiment.TruthTellers
	return spreading.ExperimentConfig{
		Trials:       c.Experiment.Trials,
		Network:      c.GenerateConfig(),
		Control:      control,
		Experimental: experimental,
		Seed:         c.Run.Seed,
	}
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("RUMORSIM_DB"); v != "" {
		config.Storage.Path = v
	}

	if v := os.Getenv("RUMORSIM_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}

	if v := os.Getenv("RUMORSIM_SERVER_ADDR"); v != "" {
		config.Server.Addr = v
	}

	if v := os.Getenv("RUMORSIM_MODE"); v != "" {
		config.Run.Mode = v
	}

	if v := os.Getenv("RUMORSIM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Run.Seed = n
		}
	}

	if v := os.Getenv("RUMORSIM_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Run.Rounds = n
		}
	}

	if v := os.Getenv("RUMORSIM_TRIALS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Experiment.Trials = n
		}
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
