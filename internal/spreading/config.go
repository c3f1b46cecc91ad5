package spreading

import "fmt"

// Mode selects how a broadcasting node picks the rumor it transmits.
type Mode string

const (
	// ModeMajority broadcasts the most frequent code in memory.
	ModeMajority Mode = "majority"

	// ModeWeighted broadcasts a code drawn proportionally to its count.
	ModeWeighted Mode = "weighted"
)

// ParseMode maps a string to a broadcast mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMajority, ModeWeighted:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid broadcast mode: %s (valid: majority, weighted)", s)
	}
}

// Config holds tunable parameters for a propagation run.
type Config struct {
	// MemoryCapacity is the number of rumors a node retains (L); older
	// entries are evicted first. Default: 320.
	MemoryCapacity int

	// MaxEntropy is the entropy ceiling (Hmax) the mutation gate is
	// normalized against. Default: 5, the entropy of a uniform spread
	// over the 32 codes.
	MaxEntropy float64

	// Conservation is the factor (K) scaling how strongly low entropy
	// suppresses mutation. 0 mutates half the time regardless of
	// entropy; larger values pin settled nodes down. Default: 1.
	Conservation float64

	// Mode selects majority or weighted broadcasting. Default: majority.
	Mode Mode

	// Rounds is the number of synchronous rounds to run. Default: 200.
	Rounds int

	// Liars is the number of nodes permanently broadcasting the fully
	// distorted code. Default: 0.
	Liars int

	// TruthTellers is the number of nodes permanently broadcasting the
	// true code. Default: 0.
	TruthTellers int

	// SeedNode is the node initially holding the true rumor, or -1 to
	// pick one uniformly at random. Default: -1.
	SeedNode int

	// Seed initializes the run's random stream. Equal seeds over equal
	// networks reproduce runs exactly. Default: 1.
	Seed int64
}

// DefaultConfig returns the default propagation configuration.
func DefaultConfig() Config {
	return Config{
		MemoryCapacity: 320,
		MaxEntropy:     5,
		Conservation:   1,
		Mode:           ModeMajority,
		Rounds:         200,
		Liars:          0,
		TruthTellers:   0,
		SeedNode:       -1,
		Seed:           1,
	}
}

// Validate checks the configuration for values a run cannot work with.
// Constraints involving the network size are checked by NewEngine.
func (c Config) Validate() error {
	if c.MemoryCapacity < 1 {
		return fmt.Errorf("memory capacity must be at least 1, got %d", c.MemoryCapacity)
	}
	if c.MaxEntropy <= 0 {
		return fmt.Errorf("max entropy must be positive, got %v", c.MaxEntropy)
	}
	if c.Conservation < 0 {
		return fmt.Errorf("conservation factor must be non-negative, got %v", c.Conservation)
	}
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.Rounds < 0 {
		return fmt.Errorf("rounds must be non-negative, got %d", c.Rounds)
	}
	if c.Liars < 0 {
		return fmt.Errorf("liar count must be non-negative, got %d", c.Liars)
	}
	if c.TruthTellers < 0 {
		return fmt.Errorf("truth-teller count must be non-negative, got %d", c.TruthTellers)
	}
	if c.SeedNode < -1 {
		return fmt.Errorf("seed node must be a node id or -1 for random, got %d", c.SeedNode)
	}
	return nil
}
