package schedule

import (
	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/dag"
	"github.com/papapumpkin/almanac/internal/project"
)

// network is the indexed form of one scheduling input. Tasks live in an
// arena addressed by input position; links are stored once and referenced
// by index from both endpoints.
type network struct {
	tasks    []project.Task
	index    map[project.ID]int
	links    []project.Link
	incoming [][]int
	graph    *dag.Graph
	cycles   [][]project.ID
	cyclic   []bool
	removed  []project.RemovedLink
}

// newNetwork drops invalid links, indexes the rest and finds cycles.
// Later tasks reusing an ID are ignored.
func newNetwork(tasks []project.Task, links []project.Link) *network {
	n := &network{index: make(map[project.ID]int, len(tasks))}
	for _, t := range tasks {
		if _, dup := n.index[t.ID]; dup {
			continue
		}
		n.index[t.ID] = len(n.tasks)
		n.tasks = append(n.tasks, t)
	}

	n.links, n.removed = project.RemoveInvalidLinks(n.tasks, links)
	n.incoming = make([][]int, len(n.tasks))
	for li, l := range n.links {
		ti := n.index[l.Target]
		n.incoming[ti] = append(n.incoming[ti], li)
	}

	n.graph = project.BuildGraph(n.tasks, n.links)
	members := n.graph.CycleMembers()
	n.cyclic = make([]bool, len(n.tasks))
	for i, t := range n.tasks {
		n.cyclic[i] = members[string(t.ID)]
	}
	for _, c := range n.graph.Cycles() {
		ids := make([]project.ID, len(c))
		for i, id := range c {
			ids[i] = project.ID(id)
		}
		n.cycles = append(n.cycles, ids)
	}
	return n
}

// order returns the acyclic part of the network in dependency order,
// restricted to the tasks keep accepts. Ties follow input order.
func (n *network) order(keep func(i int) bool) []int {
	sub := n.graph.Subgraph(func(id string) bool {
		i := n.index[project.ID(id)]
		return !n.cyclic[i] && keep(i)
	})
	ids, err := sub.TopologicalSort()
	if err != nil {
		// Unreachable: every cycle member was excluded above.
		return nil
	}
	out := make([]int, len(ids))
	for k, id := range ids {
		out[k] = n.index[project.ID(id)]
	}
	return out
}

// initial returns the input dates of every task.
func (n *network) initial() []Dates {
	dates := make([]Dates, len(n.tasks))
	for i, t := range n.tasks {
		dates[i] = Dates{Start: t.Start, End: t.End}
	}
	return dates
}

// result assembles a Result from the working dates.
func (n *network) result(dates []Dates, order []int, conflicts []Conflict) Result {
	r := Result{
		Tasks:     make(map[project.ID]Dates, len(n.tasks)),
		Order:     make([]project.ID, len(order)),
		Conflicts: conflicts,
		Removed:   n.removed,
	}
	for i, t := range n.tasks {
		if !dates[i].Start.IsZero() {
			r.Tasks[t.ID] = dates[i]
		}
	}
	for k, i := range order {
		r.Order[k] = n.tasks[i].ID
	}
	return r
}

func (n *network) cycleConflicts() []Conflict {
	var out []Conflict
	for _, c := range n.cycles {
		out = append(out, cycleConflict(c))
	}
	return out
}

// workdays is the number of workdays task i occupies: its explicit
// duration, else the span of its own dates, else one.
func workdays(t project.Task, cal calendar.Calendar) int {
	if t.Duration > 0 {
		return t.Duration
	}
	if t.Scheduled() {
		if d := cal.CountWorkdays(t.Start, t.End); d > 0 {
			return d
		}
	}
	return 1
}

func sameDates(a, b Dates) bool {
	return a.Start.Equal(b.Start) && a.End.Equal(b.End)
}
