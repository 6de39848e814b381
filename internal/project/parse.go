package project

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/almanac/internal/calendar"
)

// File is the raw form of a project file. Identifiers and dates are kept
// loosely typed so a file may use TOML integers or strings for ids and
// native TOML dates or quoted strings for dates; Validate and Build
// normalize them.
type File struct {
	Path     string       `toml:"-"`
	Project  Header       `toml:"project"`
	Calendar CalendarSpec `toml:"calendar"`
	Tasks    []TaskSpec   `toml:"tasks"`
	Links    []LinkSpec   `toml:"links"`
}

// Header holds project-wide settings.
type Header struct {
	Name  string `toml:"name"`
	Start any    `toml:"start"` // optional hard lower bound for every task
	End   any    `toml:"end"`   // optional hard upper bound
}

// CalendarSpec overrides the configured work calendar.
type CalendarSpec struct {
	Workdays []string `toml:"workdays"` // empty = keep the configured pattern
	Holidays []any    `toml:"holidays"` // added to the configured holidays
}

// TaskSpec is one [[tasks]] entry.
type TaskSpec struct {
	ID       any    `toml:"id"`
	Name     string `toml:"name"`
	Start    any    `toml:"start"`
	End      any    `toml:"end"`
	Duration int    `toml:"duration"`
	Parent   any    `toml:"parent"`
}

// LinkSpec is one [[links]] entry.
type LinkSpec struct {
	Source any    `toml:"source"`
	Target any    `toml:"target"`
	Type   string `toml:"type"`
	Lag    int    `toml:"lag"`
}

// Project is a fully typed, validated project ready for scheduling.
type Project struct {
	Name     string
	Start    calendar.Date
	End      calendar.Date
	Calendar calendar.Calendar
	Tasks    []Task
	Links    []Link
}

// Load reads and decodes the project file at path. Unknown keys are
// rejected so typos surface instead of silently dropping settings.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse decodes a project file from TOML bytes.
func Parse(data []byte) (*File, error) {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var f File
	if err := dec.Decode(&f); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return nil, err
	}
	return &f, nil
}

// Build validates f and converts it into a Project. base supplies the
// workday pattern and holidays the file does not override. All validation
// problems are joined into the returned error.
func (f *File) Build(base calendar.Calendar) (*Project, error) {
	if errs := Validate(f); len(errs) > 0 {
		joined := make([]error, len(errs))
		for i := range errs {
			joined[i] = &errs[i]
		}
		return nil, errors.Join(joined...)
	}

	p := &Project{Name: f.Project.Name}
	p.Start, _ = parseDateValue(f.Project.Start)
	p.End, _ = parseDateValue(f.Project.End)
	p.Calendar, _ = f.calendar(base)

	for _, ts := range f.Tasks {
		t, _ := ts.task()
		p.Tasks = append(p.Tasks, t)
	}
	for _, ls := range f.Links {
		l, _ := ls.link()
		p.Links = append(p.Links, l)
	}
	return p, nil
}

// calendar applies the file's overrides on top of base.
func (f *File) calendar(base calendar.Calendar) (calendar.Calendar, error) {
	cal := base
	if len(f.Calendar.Workdays) > 0 {
		wds, err := calendar.ParseWeekdays(f.Calendar.Workdays)
		if err != nil {
			return base, err
		}
		cal = calendar.New(wds, base.Holidays()...)
	}
	for _, raw := range f.Calendar.Holidays {
		d, err := parseDateValue(raw)
		if err != nil {
			return base, err
		}
		cal = cal.AddHoliday(d)
	}
	return cal, nil
}

func (ts TaskSpec) task() (Task, error) {
	id, err := parseID(ts.ID)
	if err != nil {
		return Task{}, err
	}
	parent, err := parseID(ts.Parent)
	if err != nil {
		return Task{}, fmt.Errorf("parent: %w", err)
	}
	start, err := parseDateValue(ts.Start)
	if err != nil {
		return Task{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseDateValue(ts.End)
	if err != nil {
		return Task{}, fmt.Errorf("end: %w", err)
	}
	return Task{
		ID:       id,
		Name:     ts.Name,
		Start:    start,
		End:      end,
		Duration: ts.Duration,
		Parent:   parent,
	}, nil
}

func (ls LinkSpec) link() (Link, error) {
	src, err := parseID(ls.Source)
	if err != nil {
		return Link{}, fmt.Errorf("source: %w", err)
	}
	dst, err := parseID(ls.Target)
	if err != nil {
		return Link{}, fmt.Errorf("target: %w", err)
	}
	lt, err := ParseLinkType(ls.Type)
	if err != nil {
		return Link{}, err
	}
	return Link{Source: src, Target: dst, Type: lt, Lag: ls.Lag}, nil
}

// parseID normalizes a TOML id value. Integers become their decimal form;
// nil becomes the empty ID.
func parseID(v any) (ID, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return ID(x), nil
	case int64:
		return ID(strconv.FormatInt(x, 10)), nil
	case int:
		return ID(strconv.Itoa(x)), nil
	}
	return "", fmt.Errorf("%w: %v (%T)", ErrInvalidID, v, v)
}

// parseDateValue accepts a native TOML local date or datetime, an offset
// datetime, or a YYYY-MM-DD string.
func parseDateValue(v any) (calendar.Date, error) {
	switch x := v.(type) {
	case nil:
		return calendar.Date{}, nil
	case toml.LocalDate:
		return calendar.NewDate(x.Year, time.Month(x.Month), x.Day), nil
	case toml.LocalDateTime:
		return calendar.NewDate(x.Year, time.Month(x.Month), x.Day), nil
	case time.Time:
		return calendar.DateOf(x), nil
	case string:
		return calendar.ParseDate(x)
	}
	return calendar.Date{}, fmt.Errorf("%w: %v (%T)", calendar.ErrInvalidDate, v, v)
}
