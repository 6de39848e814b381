package cpm

import (
	"github.com/papapumpkin/almanac/internal/dag"
	"github.com/papapumpkin/almanac/internal/project"
)

// CriticalTaskIDs returns the IDs of the critical entries in entry order.
func CriticalTaskIDs(entries []Entry) []project.ID {
	var ids []project.ID
	for _, e := range entries {
		if e.IsCritical {
			ids = append(ids, e.TaskID)
		}
	}
	return ids
}

// IsOnCriticalPath reports whether id has a critical entry.
func IsOnCriticalPath(id project.ID, entries []Entry) bool {
	for _, e := range entries {
		if e.TaskID == id {
			return e.IsCritical
		}
	}
	return false
}

// Chain orders the critical tasks along the links between them, so that
// every critical predecessor precedes its critical successors. Critical
// tasks that no link orders keep entry order. When the links among
// critical tasks form a cycle, entry order is returned unchanged.
func Chain(entries []Entry, links []project.Link) []project.ID {
	critical := CriticalTaskIDs(entries)
	g := dag.New()
	for _, id := range critical {
		_ = g.AddNode(string(id))
	}
	for _, l := range links {
		_ = g.AddEdge(string(l.Source), string(l.Target)) // non-critical endpoints are rejected
	}
	sorted, err := g.TopologicalSort()
	if err != nil {
		return critical
	}
	out := make([]project.ID, len(sorted))
	for i, id := range sorted {
		out[i] = project.ID(id)
	}
	return out
}
