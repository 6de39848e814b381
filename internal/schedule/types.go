// Package schedule propagates dates through a task network: a full
// forward pass over every task, and an incremental pass that only touches
// the tasks downstream of one that moved. Both are pure functions of their
// inputs and return fresh results on every call.
package schedule

import (
	"errors"
	"strings"

	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/project"
)

// ErrUnknownTask is returned when an incremental run names a task that is
// not in the input.
var ErrUnknownTask = errors.New("unknown task")

// Options configures a scheduling run. The zero value schedules on the
// default Monday-to-Friday calendar with no project bounds.
type Options struct {
	// Calendar decides which days are workdays. Nil means calendar.Default().
	Calendar *calendar.Calendar
	// ProjectStart, when set, is the earliest day any task may start.
	ProjectStart calendar.Date
	// ProjectEnd, when set, is the latest day any task may end. Later ends
	// are clamped and reported as conflicts.
	ProjectEnd calendar.Date
	// OnScheduleTask is called synchronously, in processing order, once
	// for each task whose dates were set or changed.
	OnScheduleTask func(id project.ID)
}

func (o Options) calendar() calendar.Calendar {
	if o.Calendar != nil {
		return *o.Calendar
	}
	return calendar.Default()
}

// Dates is the computed span of a task. Both ends are inclusive.
type Dates struct {
	Start calendar.Date `json:"start"`
	End   calendar.Date `json:"end"`
}

// ConflictKind classifies a scheduling conflict.
type ConflictKind string

const (
	// ConflictCircularDependency marks tasks on a dependency cycle. They
	// keep their input dates and are not propagated.
	ConflictCircularDependency ConflictKind = "circular_dependency"
	// ConflictProjectEndExceeded marks a task whose end was clamped to the
	// project end.
	ConflictProjectEndExceeded ConflictKind = "project_end_exceeded"
)

// Conflict is a graph-level irregularity found while scheduling. Conflicts
// are diagnostics, not errors: the rest of the network is still scheduled.
type Conflict struct {
	Kind    ConflictKind `json:"kind"`
	TaskIDs []project.ID `json:"task_ids"`
	Message string       `json:"message"`
}

// Result is the outcome of a scheduling run.
type Result struct {
	// Tasks maps every task that has a start to its dates. Tasks that could
	// not be anchored anywhere are absent.
	Tasks map[project.ID]Dates `json:"tasks"`
	// Order lists task IDs in the order they were processed.
	Order []project.ID `json:"order"`
	// Conflicts lists cycles and clamped ends.
	Conflicts []Conflict `json:"conflicts,omitempty"`
	// Affected lists the tasks an incremental run recomputed, in
	// processing order. It is nil for full runs.
	Affected []project.ID `json:"affected,omitempty"`
	// Removed lists links dropped before scheduling.
	Removed []project.RemovedLink `json:"removed,omitempty"`
}

// Dates returns the computed dates for id.
func (r Result) Dates(id project.ID) (Dates, bool) {
	d, ok := r.Tasks[id]
	return d, ok
}

// ConflictsOf returns the conflicts of the given kind.
func (r Result) ConflictsOf(kind ConflictKind) []Conflict {
	var out []Conflict
	for _, c := range r.Conflicts {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// IsAffected reports whether an incremental run recomputed id.
func (r Result) IsAffected(id project.ID) bool {
	for _, a := range r.Affected {
		if a == id {
			return true
		}
	}
	return false
}

func cycleConflict(cycle []project.ID) Conflict {
	parts := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		parts = append(parts, string(id))
	}
	if len(cycle) > 0 {
		parts = append(parts, string(cycle[0]))
	}
	return Conflict{
		Kind:    ConflictCircularDependency,
		TaskIDs: cycle,
		Message: "circular dependency: " + strings.Join(parts, " -> "),
	}
}
