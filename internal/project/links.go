package project

import "github.com/papapumpkin/almanac/internal/dag"

// RemoveInvalidLinks splits links into those that may take part in
// scheduling and those that must not. A link is removed when it points a
// task at itself, references a task that does not exist, or connects a
// task to its own parent or child: hierarchy is not a dependency, and
// summary tasks take their dates from their children instead. Input order
// is preserved in both results. This never fails; callers audit removed.
func RemoveInvalidLinks(tasks []Task, links []Link) (valid []Link, removed []RemovedLink) {
	parents := make(map[ID]ID, len(tasks))
	known := make(map[ID]bool, len(tasks))
	for _, t := range tasks {
		known[t.ID] = true
		if t.Parent != "" {
			parents[t.ID] = t.Parent
		}
	}

	for _, l := range links {
		reason := RemovalReason("")
		switch {
		case l.Source == l.Target:
			reason = RemovedSelfReference
		case !known[l.Source]:
			reason = RemovedUnknownSource
		case !known[l.Target]:
			reason = RemovedUnknownTarget
		case parents[l.Source] == l.Target || parents[l.Target] == l.Source:
			reason = RemovedParentChild
		}
		if reason != "" {
			removed = append(removed, RemovedLink{Link: l, Reason: reason})
			continue
		}
		valid = append(valid, l)
	}
	return valid, removed
}

// DetectCircularDependencies returns every dependency cycle among tasks as
// an ordered list of task IDs. Invalid links are ignored. An acyclic
// network, including diamonds that reconverge on one task, yields nil.
func DetectCircularDependencies(tasks []Task, links []Link) [][]ID {
	valid, _ := RemoveInvalidLinks(tasks, links)
	g := BuildGraph(tasks, valid)

	var cycles [][]ID
	for _, c := range g.Cycles() {
		ids := make([]ID, len(c))
		for i, id := range c {
			ids[i] = ID(id)
		}
		cycles = append(cycles, ids)
	}
	return cycles
}

// BuildGraph indexes tasks and links as a dag.Graph: one node per task in
// input order and one edge per link in input order. Links that cannot be
// represented (self links, unknown endpoints) are skipped; run
// RemoveInvalidLinks first to learn about them.
func BuildGraph(tasks []Task, links []Link) *dag.Graph {
	g := dag.New()
	for _, t := range tasks {
		_ = g.AddNode(string(t.ID)) // duplicates keep their first position
	}
	for _, l := range links {
		_ = g.AddEdge(string(l.Source), string(l.Target))
	}
	return g
}
