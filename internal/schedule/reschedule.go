package schedule

import (
	"fmt"

	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/dag"
	"github.com/papapumpkin/almanac/internal/project"
)

// AffectedSuccessors returns every task reachable from id by following
// links forward, in breadth-first discovery order. id itself is excluded
// and each task appears once, even when the links contain cycles.
func AffectedSuccessors(id project.ID, links []project.Link) []project.ID {
	g := dag.New()
	for _, l := range links {
		_ = g.AddNode(string(l.Source))
		_ = g.AddNode(string(l.Target))
		_ = g.AddEdge(string(l.Source), string(l.Target))
	}
	if !g.Has(string(id)) {
		return nil
	}
	desc := g.Descendants(string(id))
	out := make([]project.ID, len(desc))
	for i, d := range desc {
		out[i] = project.ID(d)
	}
	return out
}

// Reschedule recomputes the dates of task id and everything downstream of
// it, leaving all other tasks at their input dates. The dates of id in
// tasks are its new dates; its recomputed start never moves earlier than
// them. The placement rules are those of Schedule. Result.Affected lists
// the recomputed tasks in processing order.
func Reschedule(id project.ID, tasks []project.Task, links []project.Link, opts Options) (Result, error) {
	n := newNetwork(tasks, links)
	origin, ok := n.index[id]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTask, id)
	}

	affected := make([]bool, len(n.tasks))
	affected[origin] = true
	for _, s := range AffectedSuccessors(id, n.links) {
		affected[n.index[s]] = true
	}

	p := placer{net: n, opts: opts, cal: opts.calendar(), dates: n.initial()}
	order := n.order(func(i int) bool { return affected[i] })

	var conflicts []Conflict
	for _, c := range n.cycles {
		for _, member := range c {
			if affected[n.index[member]] {
				conflicts = append(conflicts, cycleConflict(c))
				break
			}
		}
	}
	for _, i := range order {
		var floor calendar.Date
		if i == origin {
			floor = n.tasks[i].Start
		}
		if c, ok := p.place(i, floor); ok {
			conflicts = append(conflicts, c)
		}
	}

	r := n.result(p.dates, order, conflicts)
	r.Affected = append([]project.ID(nil), r.Order...)
	return r, nil
}
