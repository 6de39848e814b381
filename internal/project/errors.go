package project

import "errors"

// Sentinel errors for project files and single-task operations.
var (
	// ErrMissingField indicates a required field (e.g. a task id) is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrDuplicateID indicates two or more tasks share the same ID.
	ErrDuplicateID = errors.New("duplicate task ID")
	// ErrInvalidLinkType indicates an unrecognized link type name.
	ErrInvalidLinkType = errors.New("invalid link type")
	// ErrInvalidID indicates a task or link id that is neither a string nor an integer.
	ErrInvalidID = errors.New("invalid task ID")
	// ErrNegativeDuration indicates a task declares a negative duration.
	ErrNegativeDuration = errors.New("negative duration")
	// ErrEndBeforeStart indicates a task ends before it starts.
	ErrEndBeforeStart = errors.New("end before start")
	// ErrTaskNotScheduled indicates an operation needs a task with both start and end.
	ErrTaskNotScheduled = errors.New("task has no start or end")
	// ErrSplitOutOfRange indicates a split date outside the task's own range.
	ErrSplitOutOfRange = errors.New("split date outside task range")
	// ErrNoSegments indicates a merge was asked to combine zero segments.
	ErrNoSegments = errors.New("no segments to merge")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	// ValCatMissingField indicates a required field is empty.
	ValCatMissingField ValidationCategory = "missing_field"
	// ValCatDuplicateID indicates two or more tasks share the same ID.
	ValCatDuplicateID ValidationCategory = "duplicate_id"
	// ValCatInvalidDate indicates a task's dates contradict each other.
	ValCatInvalidDate ValidationCategory = "invalid_date"
	// ValCatInvalidLinkType indicates an unrecognized link type.
	ValCatInvalidLinkType ValidationCategory = "invalid_link_type"
	// ValCatUnknownParent indicates a task names a parent that does not exist.
	ValCatUnknownParent ValidationCategory = "unknown_parent"
	// ValCatBoundsViolation indicates a numeric field or calendar setting is out of range.
	ValCatBoundsViolation ValidationCategory = "bounds_violation"
)

// ValidationError records a project file problem with task context.
type ValidationError struct {
	Category ValidationCategory // Machine-readable category for programmatic handling
	TaskID   ID
	Field    string
	Err      error
}

// Error returns a human-readable string including task context.
func (e *ValidationError) Error() string {
	if e.TaskID != "" {
		return "task " + string(e.TaskID) + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
