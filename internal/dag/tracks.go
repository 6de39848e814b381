package dag

import "sort"

// Track is an independent workstream: a weakly connected component of the
// graph. Tasks in different tracks share no dependency in either
// direction, so rescheduling one track never moves another.
type Track struct {
	// ID is the track's position in the result, starting at 0.
	ID int

	// NodeIDs lists the track's nodes in topological order when the
	// component is acyclic, insertion order otherwise.
	NodeIDs []string
}

// ComputeTracks partitions the graph into weakly connected components with
// a union-find over node positions. Tracks are ordered by size (largest
// first), then by the insertion position of their first node.
func (g *Graph) ComputeTracks() []Track {
	if len(g.order) == 0 {
		return nil
	}

	parent := make([]int, len(g.order))
	rank := make([]int, len(g.order))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		switch {
		case ra == rb:
		case rank[ra] < rank[rb]:
			parent[ra] = rb
		case rank[ra] > rank[rb]:
			parent[rb] = ra
		default:
			parent[rb] = ra
			rank[ra]++
		}
	}
	for from, succs := range g.out {
		for _, to := range succs {
			union(g.index[from], g.index[to])
		}
	}

	position := make(map[string]int, len(g.order))
	if topo, err := g.TopologicalSort(); err == nil {
		for i, id := range topo {
			position[id] = i
		}
	} else {
		for i, id := range g.order {
			position[id] = i
		}
	}

	groups := make(map[int][]string)
	var roots []int
	for i, id := range g.order {
		r := find(i)
		if _, seen := groups[r]; !seen {
			roots = append(roots, r)
		}
		groups[r] = append(groups[r], id)
	}

	tracks := make([]Track, 0, len(roots))
	for _, r := range roots {
		members := groups[r]
		sort.SliceStable(members, func(i, j int) bool {
			return position[members[i]] < position[members[j]]
		})
		tracks = append(tracks, Track{NodeIDs: members})
	}

	// roots is already in first-member insertion order; a stable sort by
	// size keeps that as the tiebreaker.
	sort.SliceStable(tracks, func(i, j int) bool {
		return len(tracks[i].NodeIDs) > len(tracks[j].NodeIDs)
	})
	for i := range tracks {
		tracks[i].ID = i
	}
	return tracks
}
