// Package project holds almanac's domain model (tasks and dependency links),
// the structural checks that guard the dependency graph, and the project
// file format that feeds the CLI.
package project

import (
	"fmt"

	"github.com/papapumpkin/almanac/internal/calendar"
)

// ID is an opaque task identifier. Numeric identifiers are carried in their
// decimal string form.
type ID string

// Task is a schedulable unit of work.
type Task struct {
	ID   ID
	Name string
	// Start and End are inclusive calendar days. Zero means unscheduled.
	Start calendar.Date
	End   calendar.Date
	// Duration is the number of workdays the task occupies. Zero means
	// unspecified.
	Duration int
	// Parent is the enclosing summary task, empty for top-level tasks.
	Parent ID
}

// Scheduled reports whether the task has both a start and an end.
func (t Task) Scheduled() bool {
	return !t.Start.IsZero() && !t.End.IsZero()
}

// Validate checks the task's own invariants.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: id", ErrMissingField)
	}
	if t.Duration < 0 {
		return fmt.Errorf("%w: task %s duration %d", ErrNegativeDuration, t.ID, t.Duration)
	}
	if t.Scheduled() && t.End.Before(t.Start) {
		return fmt.Errorf("%w: task %s ends %s before it starts %s", ErrEndBeforeStart, t.ID, t.End, t.Start)
	}
	return nil
}

// LinkType identifies which boundaries of the two tasks a link relates.
type LinkType string

// Link types. The zero value behaves as FinishToStart.
const (
	FinishToStart  LinkType = "finish_to_start"
	StartToStart   LinkType = "start_to_start"
	FinishToFinish LinkType = "finish_to_finish"
	StartToFinish  LinkType = "start_to_finish"
)

// ParseLinkType parses a link type name. Short forms ("fs", "ss", "ff",
// "sf") are accepted; an empty string means FinishToStart.
func ParseLinkType(s string) (LinkType, error) {
	switch s {
	case "", "fs", "FS", string(FinishToStart):
		return FinishToStart, nil
	case "ss", "SS", string(StartToStart):
		return StartToStart, nil
	case "ff", "FF", string(FinishToFinish):
		return FinishToFinish, nil
	case "sf", "SF", string(StartToFinish):
		return StartToFinish, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLinkType, s)
}

// FromFinish reports whether the source task's finish is the boundary the
// link depends on. Start-to-start and start-to-finish links depend on the
// source's start.
func (lt LinkType) FromFinish() bool {
	return lt != StartToStart && lt != StartToFinish
}

// Link is a directed dependency from Source to Target.
type Link struct {
	Source ID
	Target ID
	Type   LinkType
	// Lag is a signed day offset. Positive values delay the target;
	// negative values let it overlap its source.
	Lag int
}

// String renders the link as "source -> target".
func (l Link) String() string {
	return fmt.Sprintf("%s -> %s", l.Source, l.Target)
}

// RemovalReason explains why a link was filtered out before scheduling.
type RemovalReason string

// Removal reasons reported by RemoveInvalidLinks.
const (
	RemovedSelfReference RemovalReason = "self_reference"
	RemovedUnknownSource RemovalReason = "unknown_source"
	RemovedUnknownTarget RemovalReason = "unknown_target"
	RemovedParentChild   RemovalReason = "parent_child"
)

// RemovedLink records a link dropped by RemoveInvalidLinks and why.
type RemovedLink struct {
	Link   Link
	Reason RemovalReason
}
