package project

import (
	"fmt"

	"github.com/papapumpkin/almanac/internal/calendar"
)

// Segment is one contiguous working stretch of a split task.
type Segment struct {
	Start calendar.Date
	End   calendar.Date
}

// Workdays returns the number of workdays the segment covers.
func (s Segment) Workdays(cal calendar.Calendar) int {
	return cal.CountWorkdays(s.Start, s.End)
}

// SplitAt cuts a scheduled task into two segments around at. The first
// segment ends on the last workday before at and the second starts on at
// (or the first workday after it). at must lie strictly after the task's
// start and no later than its end. Splitting is a caller-side operation on
// one task, so misuse is an error rather than a diagnostic.
func SplitAt(t Task, at calendar.Date, cal calendar.Calendar) ([]Segment, error) {
	if !t.Scheduled() {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotScheduled, t.ID)
	}
	if !at.After(t.Start) || at.After(t.End) {
		return nil, fmt.Errorf("%w: %s not in (%s, %s]", ErrSplitOutOfRange, at, t.Start, t.End)
	}

	firstEnd := cal.PreviousWorkday(at)
	if firstEnd.Before(t.Start) {
		firstEnd = t.Start
	}
	secondStart := cal.SnapForward(at)
	if secondStart.After(t.End) {
		secondStart = t.End
	}
	return []Segment{
		{Start: t.Start, End: firstEnd},
		{Start: secondStart, End: t.End},
	}, nil
}

// MergeSegments collapses segments back into the single span they cover,
// from the earliest start to the latest end.
func MergeSegments(segs []Segment) (Segment, error) {
	if len(segs) == 0 {
		return Segment{}, ErrNoSegments
	}
	out := segs[0]
	for _, s := range segs[1:] {
		out.Start = calendar.MinDate(out.Start, s.Start)
		out.End = calendar.MaxDate(out.End, s.End)
	}
	return out, nil
}
