package network

import "fmt"

// Graph is an undirected social graph over nodes 0..NodeCount-1. Neighbor
// lists are kept sorted in ascending id order so that iteration order is
// reproducible. Graph is immutable once built and safe for concurrent reads.
type Graph struct {
	neighbors [][]int
	edges     []map[int]bool
}

func newGraph(n int) *Graph {
	g := &Graph{
		neighbors: make([][]int, n),
		edges:     make([]map[int]bool, n),
	}
	for i := 0; i < n; i++ {
		g.edges[i] = make(map[int]bool)
	}
	return g
}

// NewGraphFromAdjacency builds a graph from a dense adjacency matrix. The
// matrix must be square and symmetric with a false diagonal.
func NewGraphFromAdjacency(adj [][]bool) (*Graph, error) {
	n := len(adj)
	g := newGraph(n)
	for i := 0; i < n; i++ {
		if len(adj[i]) != n {
			return nil, fmt.Errorf("adjacency row %d has %d columns, want %d", i, len(adj[i]), n)
		}
		if adj[i][i] {
			return nil, fmt.Errorf("adjacency has self-loop at node %d", i)
		}
		for j := i + 1; j < n; j++ {
			if adj[i][j] != adj[j][i] {
				return nil, fmt.Errorf("adjacency is asymmetric at (%d,%d)", i, j)
			}
			if adj[i][j] {
				g.addEdge(i, j)
			}
		}
	}
	return g, nil
}

// addNode appends an isolated node and returns its id.
func (g *Graph) addNode() int {
	g.neighbors = append(g.neighbors, nil)
	g.edges = append(g.edges, make(map[int]bool))
	return len(g.neighbors) - 1
}

// addEdge links i and j, keeping both neighbor lists sorted.
func (g *Graph) addEdge(i, j int) {
	g.neighbors[i] = insertSorted(g.neighbors[i], j)
	g.neighbors[j] = insertSorted(g.neighbors[j], i)
	g.edges[i][j] = true
	g.edges[j][i] = true
}

func insertSorted(s []int, v int) []int {
	i := len(s)
	for i > 0 && s[i-1] > v {
		i--
	}
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.neighbors)
}

// Degree returns the number of neighbors of node i.
func (g *Graph) Degree(i int) int {
	return len(g.neighbors[i])
}

// Neighbors returns the neighbors of node i in ascending id order. The
// returned slice is shared and must not be modified.
func (g *Graph) Neighbors(i int) []int {
	return g.neighbors[i]
}

// HasEdge reports whether i and j are linked.
func (g *Graph) HasEdge(i, j int) bool {
	return g.edges[i][j]
}

// Dense returns the adjacency matrix as a square boolean grid, suitable for
// serialization.
func (g *Graph) Dense() [][]bool {
	n := g.NodeCount()
	adj := make([][]bool, n)
	for i := 0; i < n; i++ {
		adj[i] = make([]bool, n)
		for _, j := range g.neighbors[i] {
			adj[i][j] = true
		}
	}
	return adj
}
