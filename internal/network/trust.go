package network

import (
	"fmt"
	"math"
)

// TrustMatrix holds the directional acceptance probabilities of the graph.
// Entry (receiver, broadcaster) is the probability that receiver accepts a
// rumor heard from broadcaster, and is defined only when the two are linked.
// Trust is not symmetric: a low-degree node trusts its well-connected
// neighbor more than the reverse.
type TrustMatrix struct {
	rows [][]float64
}

// NewTrust derives the trust matrix from g. A receiver's trust in a linked
// broadcaster is the broadcaster's degree raised to beta, normalized by the
// largest such value among the receiver's neighbors, so every receiver
// trusts at least one neighbor fully.
func NewTrust(g *Graph, beta float64) *TrustMatrix {
	n := g.NodeCount()
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = make([]float64, n)
		maxPow := 0.0
		for _, j := range g.Neighbors(i) {
			if p := math.Pow(float64(g.Degree(j)), beta); p > maxPow {
				maxPow = p
			}
		}
		if maxPow == 0 {
			continue
		}
		for _, j := range g.Neighbors(i) {
			rows[i][j] = math.Pow(float64(g.Degree(j)), beta) / maxPow
		}
	}
	return &TrustMatrix{rows: rows}
}

// NewTrustFromDense wraps a previously serialized trust matrix. The grid
// must be square.
func NewTrustFromDense(rows [][]float64) (*TrustMatrix, error) {
	for i := range rows {
		if len(rows[i]) != len(rows) {
			return nil, fmt.Errorf("trust row %d has %d columns, want %d", i, len(rows[i]), len(rows))
		}
	}
	return &TrustMatrix{rows: rows}, nil
}

// At returns the probability that receiver accepts a rumor from broadcaster.
// The second return is false when the pair is not linked.
func (t *TrustMatrix) At(receiver, broadcaster int) (float64, bool) {
	v := t.rows[receiver][broadcaster]
	return v, v > 0
}

// NodeCount returns the number of nodes the matrix covers.
func (t *TrustMatrix) NodeCount() int {
	return len(t.rows)
}

// Rows returns a copy of the matrix as a dense grid, suitable for
// serialization. Unlinked pairs hold zero.
func (t *TrustMatrix) Rows() [][]float64 {
	out := make([][]float64, len(t.rows))
	for i := range t.rows {
		out[i] = make([]float64, len(t.rows[i]))
		copy(out[i], t.rows[i])
	}
	return out
}
