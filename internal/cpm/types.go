// Package cpm implements the critical path method over a task network: a
// forward pass for earliest dates, a backward pass for latest dates, and
// the slack between them.
package cpm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/project"
)

// ErrUnknownMode is returned by ParseMode for an unrecognised mode name.
var ErrUnknownMode = errors.New("unknown critical path mode")

// Mode selects how critical tasks are marked.
type Mode string

const (
	// ModeStrict marks every task with zero slack. Parallel zero-slack
	// branches are all critical.
	ModeStrict Mode = "strict"
	// ModeFlexible marks a single chain of zero-slack tasks, chosen
	// greedily from the longest zero-slack source.
	ModeFlexible Mode = "flexible"
)

// ParseMode converts a mode name. The empty string means ModeStrict.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModeFlexible:
		return ModeFlexible, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Options configures an analysis. The zero value runs in strict mode with
// no project bounds.
type Options struct {
	// ProjectStart, when set, is the early start of every task without
	// predecessors and a lower bound for all others.
	ProjectStart calendar.Date
	// ProjectEnd, when set, is the late finish of every task without
	// successors.
	ProjectEnd calendar.Date
	// Mode defaults to ModeStrict.
	Mode Mode
}

// Entry is the analysis of one task. Dates are inclusive calendar days.
type Entry struct {
	TaskID      project.ID    `json:"task_id"`
	Duration    int           `json:"duration"`
	EarlyStart  calendar.Date `json:"early_start"`
	EarlyFinish calendar.Date `json:"early_finish"`
	LateStart   calendar.Date `json:"late_start"`
	LateFinish  calendar.Date `json:"late_finish"`
	// Slack is the number of days the task can slip without moving the
	// project finish. Never negative.
	Slack      int  `json:"slack"`
	IsCritical bool `json:"is_critical"`
}
