// Package dag provides the dependency-graph index used by the scheduler and
// the critical path analyzer. It supports topological sorting, cycle
// enumeration, reachability queries and workstream partitioning.
//
// Edges point from a predecessor to its successor: if B cannot start until
// A is done, there is an edge A → B. Unlike a strict DAG, the graph accepts
// edges that close a cycle so callers can report cycles instead of failing
// on the first one; TopologicalSort refuses cyclic graphs.
package dag

import (
	"errors"
	"fmt"
)

// ErrCycle is returned when an operation requires an acyclic graph.
var ErrCycle = errors.New("cycle detected")

// ErrNodeNotFound is returned when an operation references a non-existent node.
var ErrNodeNotFound = errors.New("node not found")

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// ErrSelfEdge is returned when an edge would create a self-loop.
var ErrSelfEdge = errors.New("self-referencing edge")

// Graph is a directed graph over string node IDs. Node and edge iteration
// follows insertion order so every traversal is deterministic.
type Graph struct {
	order []string       // node IDs in insertion order
	index map[string]int // node ID → position in order
	// out maps nodeID → successor IDs in edge insertion order.
	out map[string][]string
	// in maps nodeID → predecessor IDs in edge insertion order.
	in    map[string][]string
	edges map[[2]string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
		edges: make(map[[2]string]bool),
	}
}

// AddNode adds a node. Returns ErrDuplicateNode if it already exists.
func (g *Graph) AddNode(id string) error {
	if _, exists := g.index[id]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	g.index[id] = len(g.order)
	g.order = append(g.order, id)
	return nil
}

// AddEdge adds the edge from → to. Both nodes must exist. Repeated edges
// are ignored. Edges that close a cycle are accepted.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("%w: %s", ErrSelfEdge, from)
	}
	if _, ok := g.index[from]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if _, ok := g.index[to]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	key := [2]string{from, to}
	if g.edges[key] {
		return nil
	}
	g.edges[key] = true
	g.out[from] = append(g.out[from], to)
	g.in[to] = append(g.in[to], from)
	return nil
}

// Has reports whether the node exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Subgraph returns a new graph holding the nodes for which keep returns
// true and the edges between them. Insertion order is preserved.
func (g *Graph) Subgraph(keep func(id string) bool) *Graph {
	sub := New()
	for _, id := range g.order {
		if keep(id) {
			_ = sub.AddNode(id)
		}
	}
	for _, from := range g.order {
		if !sub.Has(from) {
			continue
		}
		for _, to := range g.out[from] {
			if sub.Has(to) {
				_ = sub.AddEdge(from, to)
			}
		}
	}
	return sub
}

// TopologicalSort returns node IDs with every predecessor before its
// successors. Among nodes that become ready together, insertion order
// wins. Returns ErrCycle if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	for _, id := range g.order {
		inDegree[id] = len(g.in[id])
	}

	var queue []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sorted := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		sorted = append(sorted, id)

		var freed []string
		for _, succ := range g.out[id] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				freed = append(freed, succ)
			}
		}
		queue = g.mergeByOrder(queue, freed)
	}

	if len(sorted) != len(g.order) {
		return nil, fmt.Errorf("%w: not all nodes could be ordered (%d of %d)",
			ErrCycle, len(sorted), len(g.order))
	}
	return sorted, nil
}

// Descendants returns every node reachable from id, in breadth-first
// discovery order. id itself is never included, even when a cycle leads
// back to it. Returns nil if the node does not exist.
func (g *Graph) Descendants(id string) []string {
	if !g.Has(id) {
		return nil
	}
	visited := map[string]bool{id: true}
	var result []string
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range g.out[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			result = append(result, next)
			queue = append(queue, next)
		}
	}
	return result
}

// mergeByOrder appends freed to queue, keeping the combined queue sorted
// by insertion order so ties resolve the same way on every run.
func (g *Graph) mergeByOrder(queue, freed []string) []string {
	if len(freed) == 0 {
		return queue
	}
	merged := make([]string, 0, len(queue)+len(freed))
	merged = append(merged, queue...)
	for _, id := range freed {
		pos := len(merged)
		for i, q := range merged {
			if g.index[id] < g.index[q] {
				pos = i
				break
			}
		}
		merged = append(merged, "")
		copy(merged[pos+1:], merged[pos:])
		merged[pos] = id
	}
	return merged
}
