package cpm

import (
	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/project"
)

// timing holds one task's pass results as day offsets from the origin.
type timing struct {
	es, ef, ls, lf int
	duration       int
}

// network is the indexed, acyclic form of the input.
type network struct {
	tasks    []project.Task
	index    map[project.ID]int
	links    []project.Link
	incoming [][]int
	outgoing [][]int
	order    []int
	linked   []bool
}

// Calculate runs the critical path method and returns one entry per task
// in input order. Invalid links are ignored and cycles are broken by
// dropping their closing links, so the analysis always completes. A task's
// duration is its Duration, else the calendar-day span of its own dates,
// else one day. A task whose duration cannot be determined and that has no
// valid links gets zero slack and is critical.
//
// Offsets are anchored at ProjectStart, else the earliest task start. When
// neither exists but ProjectEnd is set, the latest early finish lands on
// ProjectEnd.
func Calculate(tasks []project.Task, links []project.Link, opts Options) []Entry {
	n := newNetwork(tasks, links)
	if len(n.tasks) == 0 {
		return nil
	}

	origin := opts.ProjectStart
	if origin.IsZero() {
		for _, t := range n.tasks {
			origin = calendar.MinDate(origin, t.Start)
		}
	}

	times := make([]timing, len(n.tasks))
	undetermined := make([]bool, len(n.tasks))
	for i, t := range n.tasks {
		d, ok := duration(t)
		times[i].duration = d
		undetermined[i] = !ok
	}
	n.forward(times, origin, opts.ProjectStart)
	if origin.IsZero() && !opts.ProjectEnd.IsZero() {
		origin = opts.ProjectEnd.AddDays(-latestFinish(times))
	}
	n.backward(times, origin, opts.ProjectEnd)

	entries := make([]Entry, len(n.tasks))
	for i, t := range n.tasks {
		tm := times[i]
		slack := tm.ls - tm.es
		if slack < 0 {
			slack = 0
		}
		entries[i] = Entry{
			TaskID:      t.ID,
			Duration:    tm.duration,
			EarlyStart:  origin.AddDays(tm.es),
			EarlyFinish: origin.AddDays(tm.ef),
			LateStart:   origin.AddDays(tm.ls),
			LateFinish:  origin.AddDays(tm.lf),
			Slack:       slack,
		}
	}

	if opts.Mode == ModeFlexible {
		for _, i := range n.greedyChain(entries) {
			entries[i].IsCritical = true
		}
	} else {
		for i := range entries {
			entries[i].IsCritical = entries[i].Slack == 0
		}
	}
	for i := range entries {
		if undetermined[i] && !n.linked[i] {
			entries[i].Slack = 0
			entries[i].IsCritical = true
		}
	}
	return entries
}

func newNetwork(tasks []project.Task, links []project.Link) *network {
	n := &network{index: make(map[project.ID]int, len(tasks))}
	for _, t := range tasks {
		if _, dup := n.index[t.ID]; dup {
			continue
		}
		n.index[t.ID] = len(n.tasks)
		n.tasks = append(n.tasks, t)
	}

	valid, _ := project.RemoveInvalidLinks(n.tasks, links)
	g := project.BuildGraph(n.tasks, valid)

	// Each cycle's closing link is a back edge of the traversal that found
	// it; without back edges the graph is acyclic.
	closing := make(map[[2]project.ID]bool)
	for _, c := range g.Cycles() {
		closing[[2]project.ID{project.ID(c[len(c)-1]), project.ID(c[0])}] = true
	}

	n.incoming = make([][]int, len(n.tasks))
	n.outgoing = make([][]int, len(n.tasks))
	n.linked = make([]bool, len(n.tasks))
	for _, l := range valid {
		n.linked[n.index[l.Source]] = true
		n.linked[n.index[l.Target]] = true
		if closing[[2]project.ID{l.Source, l.Target}] {
			continue
		}
		li := len(n.links)
		n.links = append(n.links, l)
		n.outgoing[n.index[l.Source]] = append(n.outgoing[n.index[l.Source]], li)
		n.incoming[n.index[l.Target]] = append(n.incoming[n.index[l.Target]], li)
	}

	ids, err := project.BuildGraph(n.tasks, n.links).TopologicalSort()
	if err != nil {
		// Unreachable once back edges are gone; fall back to input order.
		ids = nil
		for _, t := range n.tasks {
			ids = append(ids, string(t.ID))
		}
	}
	for _, id := range ids {
		n.order = append(n.order, n.index[project.ID(id)])
	}
	return n
}

// forward computes early start and finish. A task with no predecessors
// starts at projectStart when set, else on its own start, else at the
// origin.
func (n *network) forward(times []timing, origin, projectStart calendar.Date) {
	for _, i := range n.order {
		tm := &times[i]
		if len(n.incoming[i]) == 0 {
			switch {
			case !projectStart.IsZero():
				tm.es = origin.DaysUntil(projectStart)
			case !n.tasks[i].Start.IsZero():
				tm.es = origin.DaysUntil(n.tasks[i].Start)
			default:
				tm.es = 0
			}
		} else {
			first := true
			for _, li := range n.incoming[i] {
				l := n.links[li]
				src := times[n.index[l.Source]]
				boundary := src.es
				if l.Type.FromFinish() {
					boundary = src.ef
				}
				if c := boundary + 1 + l.Lag; first || c > tm.es {
					tm.es = c
					first = false
				}
			}
			if !projectStart.IsZero() {
				tm.es = max(tm.es, origin.DaysUntil(projectStart))
			}
		}
		tm.ef = tm.es + tm.duration - 1
	}
}

// backward computes late start and finish. Tasks without successors finish
// at projectEnd when set, else at the latest early finish.
func (n *network) backward(times []timing, origin, projectEnd calendar.Date) {
	finish := latestFinish(times)
	if !projectEnd.IsZero() && !origin.IsZero() {
		finish = origin.DaysUntil(projectEnd)
	}

	for k := len(n.order) - 1; k >= 0; k-- {
		i := n.order[k]
		tm := &times[i]
		tm.lf = finish
		for _, li := range n.outgoing[i] {
			l := n.links[li]
			succ := times[n.index[l.Target]]
			c := succ.ls - 1 - l.Lag
			if !l.Type.FromFinish() {
				// The link constrains our start; translate to a finish.
				c += tm.duration - 1
			}
			tm.lf = min(tm.lf, c)
		}
		tm.ls = tm.lf - tm.duration + 1
	}
}

// greedyChain walks one zero-slack chain. It starts at the zero-slack task
// without predecessors that has the largest duration, then repeatedly
// follows the outgoing link to the zero-slack successor with the smallest
// slack, then the largest duration. Remaining ties go to input order.
func (n *network) greedyChain(entries []Entry) []int {
	start := -1
	for i := range n.tasks {
		if len(n.incoming[i]) > 0 || entries[i].Slack != 0 {
			continue
		}
		if start < 0 || entries[i].Duration > entries[start].Duration {
			start = i
		}
	}
	if start < 0 {
		return nil
	}

	chain := []int{start}
	seen := map[int]bool{start: true}
	for cur := start; ; {
		next := -1
		for _, li := range n.outgoing[cur] {
			s := n.index[n.links[li].Target]
			if seen[s] || entries[s].Slack != 0 {
				continue
			}
			if next < 0 || better(entries[s], entries[next]) {
				next = s
			}
		}
		if next < 0 {
			return chain
		}
		chain = append(chain, next)
		seen[next] = true
		cur = next
	}
}

func latestFinish(times []timing) int {
	finish := times[0].ef
	for _, tm := range times {
		finish = max(finish, tm.ef)
	}
	return finish
}

func better(a, b Entry) bool {
	if a.Slack != b.Slack {
		return a.Slack < b.Slack
	}
	return a.Duration > b.Duration
}

// duration returns the task's length in days and whether it could be
// determined. Undetermined durations count as one day.
func duration(t project.Task) (int, bool) {
	if t.Duration > 0 {
		return t.Duration, true
	}
	if t.Scheduled() {
		if d := t.Start.DaysUntil(t.End) + 1; d > 0 {
			return d, true
		}
	}
	return 1, false
}
