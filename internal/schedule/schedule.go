package schedule

import (
	"fmt"

	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/project"
)

// Schedule computes start and end dates for every task reachable from an
// anchor. Invalid links are dropped and reported in Result.Removed. Tasks
// on a dependency cycle keep their input dates and are reported as
// conflicts. Every other task is placed in dependency order:
//
//   - a task without scheduled predecessors keeps its own dates, or starts
//     on ProjectStart when it has none;
//   - a task with predecessors starts on the first workday at or after the
//     latest of (predecessor boundary + 1 + lag) over its incoming links,
//     where the boundary is the predecessor's end for finish-to-* links and
//     its start for start-to-* links;
//   - the end lies Duration-1 workdays after the start.
//
// Starts never precede ProjectStart; ends past ProjectEnd are clamped and
// reported. The inputs are not modified.
func Schedule(tasks []project.Task, links []project.Link, opts Options) Result {
	n := newNetwork(tasks, links)
	p := placer{net: n, opts: opts, cal: opts.calendar(), dates: n.initial()}

	order := n.order(func(int) bool { return true })
	conflicts := n.cycleConflicts()
	for _, i := range order {
		if c, ok := p.place(i, calendar.Date{}); ok {
			conflicts = append(conflicts, c)
		}
	}
	return n.result(p.dates, order, conflicts)
}

// placer carries the working state of one run.
type placer struct {
	net   *network
	opts  Options
	cal   calendar.Calendar
	dates []Dates
}

// place recomputes the dates of task i from its predecessors' current
// dates. floor, when set, is an extra lower bound on the start. It returns
// a conflict when the end had to be clamped to ProjectEnd.
func (p *placer) place(i int, floor calendar.Date) (Conflict, bool) {
	t := p.net.tasks[i]
	prev := p.dates[i]

	next, anchored := p.compute(i, floor)
	if !anchored {
		return Conflict{}, false
	}

	var conflict Conflict
	clamped := false
	if end := p.opts.ProjectEnd; !end.IsZero() && next.End.After(end) {
		conflict = Conflict{
			Kind:    ConflictProjectEndExceeded,
			TaskIDs: []project.ID{t.ID},
			Message: fmt.Sprintf("task %s ends %s after project end %s", t.ID, next.End, end),
		}
		next.End = calendar.MaxDate(next.Start, end)
		clamped = true
	}

	p.dates[i] = next
	if !sameDates(prev, next) && p.opts.OnScheduleTask != nil {
		p.opts.OnScheduleTask(t.ID)
	}
	return conflict, clamped
}

// compute returns the unclamped dates of task i. It reports false when
// the task has no predecessor boundary, no dates of its own and no
// project start to fall back on.
func (p *placer) compute(i int, floor calendar.Date) (Dates, bool) {
	t := p.net.tasks[i]
	d := workdays(t, p.cal)

	var target calendar.Date
	for _, li := range p.net.incoming[i] {
		l := p.net.links[li]
		src := p.dates[p.net.index[l.Source]]
		boundary := src.Start
		if l.Type.FromFinish() {
			boundary = src.End
		}
		if boundary.IsZero() {
			continue
		}
		target = calendar.MaxDate(target, boundary.AddDays(1+l.Lag))
	}

	if target.IsZero() {
		return p.anchor(t, d, floor)
	}

	start := calendar.MaxDate(target, p.opts.ProjectStart)
	start = p.cal.SnapForward(calendar.MaxDate(start, floor))
	return Dates{Start: start, End: p.cal.AddWorkdays(start, d-1)}, true
}

// anchor places a task that nothing upstream constrains.
func (p *placer) anchor(t project.Task, d int, floor calendar.Date) (Dates, bool) {
	own := p.dates[p.net.index[t.ID]]
	if own.Start.IsZero() {
		start := calendar.MaxDate(p.opts.ProjectStart, floor)
		if start.IsZero() {
			return Dates{}, false
		}
		start = p.cal.SnapForward(start)
		return Dates{Start: start, End: p.cal.AddWorkdays(start, d-1)}, true
	}

	bound := calendar.MaxDate(p.opts.ProjectStart, floor)
	if !own.End.IsZero() && (bound.IsZero() || !own.Start.Before(bound)) {
		return own, true
	}
	start := calendar.MaxDate(own.Start, bound)
	if start.Equal(own.Start) {
		// Own start with no end: derive the end, keep the start as given.
		return Dates{Start: start, End: p.cal.AddWorkdays(p.cal.SnapForward(start), d-1)}, true
	}
	start = p.cal.SnapForward(start)
	return Dates{Start: start, End: p.cal.AddWorkdays(start, d-1)}, true
}
