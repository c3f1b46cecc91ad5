// Package store persists generated networks and run results in SQLite so
// networks can be reused across runs and statistics inspected later.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested network or run does not exist.
var ErrNotFound = errors.New("not found")

// Run lifecycle states.
const (
	RunStatusRunning = "running"
	RunStatusDone    = "done"
	RunStatusFailed  = "failed"
)

// NetworkRecord describes a stored network. The adjacency and trust
// matrices themselves are loaded separately via LoadNetwork.
type NetworkRecord struct {
	ID          int64     `json:"id"`
	NodeCount   int       `json:"node_count"`
	SeedSize    int       `json:"seed_size"`
	AttachCount int       `json:"attach_count"`
	Beta        float64   `json:"beta"`
	Seed        int64     `json:"seed"`
	CreatedAt   time.Time `json:"created_at"`
}

// RunRecord describes a stored run and the parameters it was started with.
type RunRecord struct {
	ID             int64     `json:"id"`
	NetworkID      int64     `json:"network_id"`
	Mode           string    `json:"mode"`
	Rounds         int       `json:"rounds"`
	MemoryCapacity int       `json:"memory_capacity"`
	MaxEntropy     float64   `json:"max_entropy"`
	Conservation   float64   `json:"conservation"`
	Liars          int       `json:"liars"`
	TruthTellers   int       `json:"truth_tellers"`
	SeedNode       int       `json:"seed_node"`
	Seed           int64     `json:"seed"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
