package molecule

import (
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// Topology summarizes the bond graph of a structure.
type Topology struct {
	Atoms      int `json:"atoms"`
	Bonds      int `json:"bonds"`      // unique undirected edges
	Components int `json:"components"` // connected components
	Rings      int `json:"rings"`      // circuit rank
}

// Graph builds an undirected graph with one node per atom (ID = atom index)
// and one edge per distinct atom pair. Self-bonds are skipped.
func (s Structure) Graph() *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()
	for i := range s.Atoms {
		g.AddNode(simple.Node(int64(i)))
	}
	for _, b := range s.Bonds {
		if b.From == b.To {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(int64(b.From)), T: simple.Node(int64(b.To))})
	}
	return g
}

// Analyze computes the topology of s.
func Analyze(s Structure) Topology {
	g := s.Graph()
	edges := len(graph.EdgesOf(g.Edges()))
	components := len(topo.ConnectedComponents(g))
	return Topology{
		Atoms:      len(s.Atoms),
		Bonds:      edges,
		Components: components,
		Rings:      edges - len(s.Atoms) + components,
	}
}

// Connected reports whether every atom is reachable from atom 0.
// An empty structure is trivially connected.
func (t Topology) Connected() bool { return t.Components <= 1 }
