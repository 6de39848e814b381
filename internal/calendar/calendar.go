package calendar

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrNoWorkdays is returned when a calendar has no working weekday.
var ErrNoWorkdays = errors.New("calendar has no workdays")

// ErrUnknownWeekday is returned when a weekday name cannot be parsed.
var ErrUnknownWeekday = errors.New("unknown weekday")

// maxScan bounds how far workday searches walk before giving up. It only
// matters for calendars whose holidays cover every workday in a long run.
const maxScan = 366 * 20

// Calendar decides which days are working days: a weekly pattern of
// working weekdays minus an explicit set of holidays. A Calendar is a value;
// methods never modify the receiver.
type Calendar struct {
	workdays [7]bool
	holidays map[Date]struct{}
}

// Default returns a Monday-to-Friday calendar with no holidays.
func Default() Calendar {
	return New([]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday})
}

// New returns a calendar working on the given weekdays and closed on the
// given holidays. Duplicate holidays collapse.
func New(workdays []time.Weekday, holidays ...Date) Calendar {
	var c Calendar
	for _, wd := range workdays {
		if wd >= time.Sunday && wd <= time.Saturday {
			c.workdays[wd] = true
		}
	}
	c.holidays = make(map[Date]struct{}, len(holidays))
	for _, h := range holidays {
		if !h.IsZero() {
			c.holidays[h] = struct{}{}
		}
	}
	return c
}

// Validate reports whether the calendar can be used for scheduling.
func (c Calendar) Validate() error {
	for _, ok := range c.workdays {
		if ok {
			return nil
		}
	}
	return ErrNoWorkdays
}

// Workdays returns the working weekdays in Sunday-first order.
func (c Calendar) Workdays() []time.Weekday {
	var out []time.Weekday
	for i, ok := range c.workdays {
		if ok {
			out = append(out, time.Weekday(i))
		}
	}
	return out
}

// Holidays returns the holidays in ascending order.
func (c Calendar) Holidays() []Date {
	out := make([]Date, 0, len(c.holidays))
	for h := range c.holidays {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// IsHoliday reports whether d is an explicit holiday.
func (c Calendar) IsHoliday(d Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// IsWorkday reports whether d falls on a working weekday and is not a
// holiday.
func (c Calendar) IsWorkday(d Date) bool {
	if d.IsZero() {
		return false
	}
	return c.workdays[d.Weekday()] && !c.IsHoliday(d)
}

// CountWorkdays returns the number of workdays in the inclusive range
// [start, end]. It returns 0 when end is before start or either is zero.
func (c Calendar) CountWorkdays(start, end Date) int {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return 0
	}
	span := start.DaysUntil(end) + 1

	// Whole weeks contribute a fixed count; walk only the remainder.
	perWeek := len(c.Workdays())
	count := (span / 7) * perWeek
	cur := start.AddDays((span / 7) * 7)
	for i := 0; i < span%7; i++ {
		if c.workdays[cur.Weekday()] {
			count++
		}
		cur = cur.AddDays(1)
	}

	for h := range c.holidays {
		if !h.Before(start) && !h.After(end) && c.workdays[h.Weekday()] {
			count--
		}
	}
	return count
}

// AddWorkdays moves n workdays forward from d, or backward when n is
// negative, skipping non-workdays. With n == 0 it returns d if d is a
// workday, otherwise the next workday. The result is always a workday
// unless the calendar has none, in which case d is returned unchanged.
func (c Calendar) AddWorkdays(d Date, n int) Date {
	if d.IsZero() || c.Validate() != nil {
		return d
	}
	if n == 0 {
		if c.IsWorkday(d) {
			return d
		}
		return c.NextWorkday(d)
	}

	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	cur := d
	if !c.IsWorkday(cur) {
		// Landing on the first workday in the direction of travel counts as
		// one step, so snap to the workday behind us first.
		if step > 0 {
			cur = c.PreviousWorkday(cur)
		} else {
			cur = c.NextWorkday(cur)
		}
	}
	for i := 0; i < n; i++ {
		if step > 0 {
			cur = c.NextWorkday(cur)
		} else {
			cur = c.PreviousWorkday(cur)
		}
	}
	return cur
}

// NextWorkday returns the first workday strictly after d.
func (c Calendar) NextWorkday(d Date) Date {
	return c.scan(d, 1)
}

// PreviousWorkday returns the last workday strictly before d.
func (c Calendar) PreviousWorkday(d Date) Date {
	return c.scan(d, -1)
}

// SnapForward returns d when it is a workday, otherwise the next workday.
func (c Calendar) SnapForward(d Date) Date {
	return c.AddWorkdays(d, 0)
}

func (c Calendar) scan(d Date, step int) Date {
	if d.IsZero() || c.Validate() != nil {
		return d
	}
	cur := d
	for i := 0; i < maxScan; i++ {
		cur = cur.AddDays(step)
		if c.IsWorkday(cur) {
			return cur
		}
	}
	return d.AddDays(step)
}

// AddHoliday returns a copy of c with d added to the holidays. Adding an
// existing holiday returns an equivalent calendar.
func (c Calendar) AddHoliday(d Date) Calendar {
	out := c.clone()
	if !d.IsZero() {
		out.holidays[d] = struct{}{}
	}
	return out
}

// RemoveHoliday returns a copy of c without d in its holidays.
func (c Calendar) RemoveHoliday(d Date) Calendar {
	out := c.clone()
	delete(out.holidays, d)
	return out
}

func (c Calendar) clone() Calendar {
	out := Calendar{workdays: c.workdays}
	out.holidays = make(map[Date]struct{}, len(c.holidays)+1)
	for h := range c.holidays {
		out.holidays[h] = struct{}{}
	}
	return out
}

// ParseWeekday parses a weekday name ("mon", "Monday") or a number 0-6
// with Sunday as 0.
func ParseWeekday(s string) (time.Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if len(key) == 1 && key[0] >= '0' && key[0] <= '6' {
		return time.Weekday(key[0] - '0'), nil
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if key == name || (len(key) >= 3 && strings.HasPrefix(name, key)) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// ParseWeekdays parses a list of weekday names, see ParseWeekday.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	out := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		wd, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		out = append(out, wd)
	}
	return out, nil
}
