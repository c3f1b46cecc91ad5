// Package visualization renders simulation rounds as DOT graphs, JSON
// frames, and a live browser view fed over websockets.
package visualization

import (
	"fmt"

	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/network"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/rumor"
	"github.com/j-s-hensley/EE-376a-Rumor-Spreading/internal/spreading"
)

// Format specifies the output format for frame rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name from a flag or query parameter.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatDOT, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (want dot or json)", s)
	}
}

// weightColors maps a belief's Hamming weight to its display color, shading
// from truth at weight 0 up to the full lie at weight 5.
var weightColors = [rumor.Bits + 1]string{
	"#33ccff",
	"#e6ccff",
	"#cc99ff",
	"#ff99ff",
	"#ff3399",
	"#ff0000",
}

// noOpinionColor marks nodes whose memory is still empty.
const noOpinionColor = "#ffffff"

// ColorFor returns the display color for a node's majority belief.
func ColorFor(code rumor.Code, hasOpinion bool) string {
	if !hasOpinion {
		return noOpinionColor
	}
	return weightColors[code.HammingWeight()]
}

// Frame captures everything needed to draw one completed round.
type Frame struct {
	Round      int         `json:"round"`
	AvgEntropy float64     `json:"avg_entropy"`
	Nodes      []FrameNode `json:"nodes"`
	Edges      [][2]int    `json:"edges"`
}

// FrameNode describes one node's state in a frame.
type FrameNode struct {
	ID      int     `json:"id"`
	Role    string  `json:"role"`
	Code    string  `json:"code,omitempty"`
	Weight  int     `json:"weight"`
	Color   string  `json:"color"`
	Entropy float64 `json:"entropy"`
	Opinion bool    `json:"opinion"`
}

// NewFrame assembles a frame from a round snapshot. Edges are listed once
// with the lower node id first.
func NewFrame(g *network.Graph, roles []spreading.Role, snap spreading.Snapshot) Frame {
	n := g.NodeCount()
	frame := Frame{
		Round:      snap.Round,
		AvgEntropy: snap.AvgEntropy,
		Nodes:      make([]FrameNode, n),
	}

	for i := 0; i < n; i++ {
		node := FrameNode{
			ID:      i,
			Role:    roles[i].String(),
			Weight:  -1,
			Color:   noOpinionColor,
			Entropy: snap.Entropies[i],
		}
		if snap.HasOpinion[i] {
			code := snap.Majorities[i]
			node.Code = code.String()
			node.Weight = code.HammingWeight()
			node.Color = weightColors[node.Weight]
			node.Opinion = true
		}
		frame.Nodes[i] = node

		for _, j := range g.Neighbors(i) {
			if i < j {
				frame.Edges = append(frame.Edges, [2]int{i, j})
			}
		}
	}
	return frame
}
