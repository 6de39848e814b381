package project

import (
	"fmt"

	"github.com/papapumpkin/almanac/internal/calendar"
)

// Validate checks a project file for structural correctness: ids present
// and unique, dates parseable and ordered, link types known, parents
// present, calendar usable. Dangling or self-referencing links are not
// errors here; the scheduler filters them and reports them separately.
func Validate(f *File) []ValidationError {
	var errs []ValidationError

	start, err := parseDateValue(f.Project.Start)
	if err != nil {
		errs = append(errs, ValidationError{Category: ValCatInvalidDate, Field: "project.start", Err: err})
	}
	end, err := parseDateValue(f.Project.End)
	if err != nil {
		errs = append(errs, ValidationError{Category: ValCatInvalidDate, Field: "project.end", Err: err})
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		errs = append(errs, ValidationError{
			Category: ValCatInvalidDate,
			Field:    "project.end",
			Err:      fmt.Errorf("%w: project ends %s before it starts %s", ErrEndBeforeStart, end, start),
		})
	}

	if _, err := f.calendar(calendar.Default()); err != nil {
		errs = append(errs, ValidationError{Category: ValCatBoundsViolation, Field: "calendar", Err: err})
	} else if len(f.Calendar.Workdays) > 0 {
		wds, _ := calendar.ParseWeekdays(f.Calendar.Workdays)
		if err := calendar.New(wds).Validate(); err != nil {
			errs = append(errs, ValidationError{Category: ValCatBoundsViolation, Field: "calendar.workdays", Err: err})
		}
	}

	seen := make(map[ID]bool, len(f.Tasks))
	var tasks []Task
	for i, ts := range f.Tasks {
		t, err := ts.task()
		if err != nil {
			errs = append(errs, ValidationError{
				Category: ValCatInvalidDate,
				Field:    fmt.Sprintf("tasks[%d]", i),
				Err:      err,
			})
			continue
		}
		if t.ID == "" {
			errs = append(errs, ValidationError{
				Category: ValCatMissingField,
				Field:    fmt.Sprintf("tasks[%d].id", i),
				Err:      fmt.Errorf("%w: id", ErrMissingField),
			})
			continue
		}
		if seen[t.ID] {
			errs = append(errs, ValidationError{
				Category: ValCatDuplicateID,
				TaskID:   t.ID,
				Field:    "id",
				Err:      fmt.Errorf("%w: %q", ErrDuplicateID, t.ID),
			})
			continue
		}
		seen[t.ID] = true

		if err := t.Validate(); err != nil {
			cat := ValCatInvalidDate
			if t.Duration < 0 {
				cat = ValCatBoundsViolation
			}
			errs = append(errs, ValidationError{Category: cat, TaskID: t.ID, Err: err})
		}
		tasks = append(tasks, t)
	}

	for _, t := range tasks {
		if t.Parent != "" && !seen[t.Parent] {
			errs = append(errs, ValidationError{
				Category: ValCatUnknownParent,
				TaskID:   t.ID,
				Field:    "parent",
				Err:      fmt.Errorf("%w: parent %q", ErrMissingField, t.Parent),
			})
		}
	}

	for i, ls := range f.Links {
		l, err := ls.link()
		switch {
		case err != nil:
			errs = append(errs, ValidationError{
				Category: ValCatInvalidLinkType,
				Field:    fmt.Sprintf("links[%d]", i),
				Err:      err,
			})
		case l.Source == "" || l.Target == "":
			errs = append(errs, ValidationError{
				Category: ValCatMissingField,
				Field:    fmt.Sprintf("links[%d]", i),
				Err:      fmt.Errorf("%w: source and target", ErrMissingField),
			})
		}
	}

	return errs
}
