package flowgraph

import "github.com/charmbracelet/log"

// rankUnset marks a node whose rank has not been decided yet. It compares
// lower than any candidate, so the first visit always assigns.
const rankUnset = -1

// queueItem pairs a node with a candidate rank during propagation.
type queueItem struct {
	id   string
	rank int
}

// Ranks assigns each node an integer topological rank: the length of the
// longest path from a source. Nodes with no incoming edge start at rank 0.
// If the graph has no sources at all (fully cyclic), every node is treated
// as a candidate source.
//
// Propagation is an explicit FIFO work queue over a mutable rank map: a
// popped (node, candidate) pair updates the node only if the candidate
// exceeds its recorded rank, then re-enqueues its successors at
// min(candidate+1, n-1). The rank cap bounds growth under cycles and the
// iteration cap of n² guarantees termination; hitting it logs a warning but
// the best ranks found so far are still returned.
//
// order supplies a deterministic node iteration order (normally the model's
// shape order). Nodes absent from the queue when it drains, including
// disconnected nodes, end at rank 0.
func (g *Graph) Ranks(order []string, logger *log.Logger) map[string]int {
	logger = orDiscard(logger)

	n := len(g.nodes)
	ranks := make(map[string]int, n)
	if n == 0 {
		return ranks
	}
	for id := range g.nodes {
		ranks[id] = rankUnset
	}

	seeds := g.Sources(order)
	if seeds == nil {
		// Fully cyclic: every node is a candidate source.
		seeds = make([]string, 0, n)
		for _, id := range order {
			if g.nodes[id] {
				seeds = append(seeds, id)
			}
		}
	}

	queue := make([]queueItem, 0, n)
	for _, id := range seeds {
		queue = append(queue, queueItem{id: id, rank: 0})
	}

	maxRank := n - 1
	limit := n * n
	iterations := 0
	for len(queue) > 0 && iterations < limit {
		iterations++
		item := queue[0]
		queue = queue[1:]

		if item.rank <= ranks[item.id] {
			continue
		}
		ranks[item.id] = item.rank

		next := min(item.rank+1, maxRank)
		for _, succ := range g.outgoing[item.id] {
			queue = append(queue, queueItem{id: succ, rank: next})
		}
	}
	if len(queue) > 0 {
		logger.Warn("rank propagation hit iteration cap",
			"nodes", n, "iterations", iterations)
	}

	for id, r := range ranks {
		if r == rankUnset {
			ranks[id] = 0
		}
	}
	return ranks
}

// MaxRank returns the highest value in a rank map, or 0 when it is empty.
func MaxRank(ranks map[string]int) int {
	maxSeen := 0
	for _, r := range ranks {
		if r > maxSeen {
			maxSeen = r
		}
	}
	return maxSeen
}
