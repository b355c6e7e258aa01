// Package flowgraph builds the transient directed graph of shape identifiers
// used for rank assignment and neighbor placement.
//
// A graph is built fresh from a model at the start of every resolve and is
// never persisted. Connectors whose endpoints do not exist in the model are
// dropped with a logged warning; they are never fatal.
package flowgraph

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/flowline-dev/flowline/pkg/model"
)

// Graph is a directed graph over shape IDs. It tolerates cycles; rank
// assignment is bounded rather than dependent on acyclicity.
//
// The zero value is not usable - use Build to create one from a model.
type Graph struct {
	nodes    map[string]bool
	edges    [][2]string
	outgoing map[string][]string // shape ID -> successor IDs
	incoming map[string][]string // shape ID -> predecessor IDs
}

// Build constructs a graph with one node per shape and one edge per flow
// connector whose both endpoints exist. Boundary shapes are included as
// nodes so their flow edges (if any) participate in ranking; association
// connectors are skipped entirely.
//
// logger may be nil, in which case warnings are discarded.
func Build(m *model.Model, logger *log.Logger) *Graph {
	logger = orDiscard(logger)

	g := &Graph{
		nodes:    make(map[string]bool, len(m.Shapes)),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
	for _, s := range m.Shapes {
		g.nodes[s.ID] = true
	}
	for _, c := range m.Connectors {
		if !c.IsFlow() {
			continue
		}
		if !g.nodes[c.SourceID] || !g.nodes[c.TargetID] {
			logger.Warn("dropping connector with unknown endpoint",
				"connector", c.ID, "source", c.SourceID, "target", c.TargetID)
			continue
		}
		g.edges = append(g.edges, [2]string{c.SourceID, c.TargetID})
		g.outgoing[c.SourceID] = append(g.outgoing[c.SourceID], c.TargetID)
		g.incoming[c.TargetID] = append(g.incoming[c.TargetID], c.SourceID)
	}
	return g
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of validated edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Has reports whether the given shape ID is a node of the graph.
func (g *Graph) Has(id string) bool { return g.nodes[id] }

// Connected reports whether the shape has at least one flow edge.
// Shapes without any edge are laid out separately from the main flow.
func (g *Graph) Connected(id string) bool {
	return len(g.outgoing[id]) > 0 || len(g.incoming[id]) > 0
}

// Successors returns the IDs this node has edges to.
// The returned slice is a read-only view; do not modify it.
func (g *Graph) Successors(id string) []string { return g.outgoing[id] }

// Predecessors returns the IDs that have edges to this node.
// The returned slice is a read-only view; do not modify it.
func (g *Graph) Predecessors(id string) []string { return g.incoming[id] }

// Sources returns the IDs of nodes with no incoming edges, in the order the
// corresponding shapes appear in the given ID list. Returns nil if every node
// has a predecessor (fully cyclic graph).
func (g *Graph) Sources(order []string) []string {
	var sources []string
	for _, id := range order {
		if g.nodes[id] && len(g.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.New(io.Discard)
	}
	return logger
}
