package project

import (
	"errors"
	"testing"

	"github.com/papapumpkin/almanac/internal/calendar"
)

func TestSplitAt(t *testing.T) {
	t.Parallel()

	cal := calendar.Default()
	task := Task{
		ID:    "t",
		Start: calendar.MustParseDate("2024-01-08"), // Monday
		End:   calendar.MustParseDate("2024-01-19"), // Friday next week
	}

	t.Run("split across weekend", func(t *testing.T) {
		t.Parallel()
		segs, err := SplitAt(task, calendar.MustParseDate("2024-01-13"), cal)
		if err != nil {
			t.Fatalf("SplitAt: %v", err)
		}
		if len(segs) != 2 {
			t.Fatalf("got %d segments, want 2", len(segs))
		}
		if segs[0].End.String() != "2024-01-12" {
			t.Errorf("first segment ends %s, want 2024-01-12", segs[0].End)
		}
		if segs[1].Start.String() != "2024-01-15" {
			t.Errorf("second segment starts %s, want 2024-01-15", segs[1].Start)
		}
		if got := segs[0].Workdays(cal) + segs[1].Workdays(cal); got != 10 {
			t.Errorf("segments cover %d workdays, want 10", got)
		}
	})

	t.Run("unscheduled task", func(t *testing.T) {
		t.Parallel()
		_, err := SplitAt(Task{ID: "x", Duration: 3}, calendar.MustParseDate("2024-01-10"), cal)
		if !errors.Is(err, ErrTaskNotScheduled) {
			t.Errorf("got %v, want ErrTaskNotScheduled", err)
		}
	})

	t.Run("date outside range", func(t *testing.T) {
		t.Parallel()
		for _, at := range []string{"2024-01-08", "2024-01-01", "2024-01-20"} {
			_, err := SplitAt(task, calendar.MustParseDate(at), cal)
			if !errors.Is(err, ErrSplitOutOfRange) {
				t.Errorf("SplitAt(%s) = %v, want ErrSplitOutOfRange", at, err)
			}
		}
	})
}

func TestMergeSegments(t *testing.T) {
	t.Parallel()

	if _, err := MergeSegments(nil); !errors.Is(err, ErrNoSegments) {
		t.Errorf("MergeSegments(nil) = %v, want ErrNoSegments", err)
	}

	merged, err := MergeSegments([]Segment{
		{Start: calendar.MustParseDate("2024-01-15"), End: calendar.MustParseDate("2024-01-19")},
		{Start: calendar.MustParseDate("2024-01-08"), End: calendar.MustParseDate("2024-01-12")},
	})
	if err != nil {
		t.Fatalf("MergeSegments: %v", err)
	}
	if merged.Start.String() != "2024-01-08" || merged.End.String() != "2024-01-19" {
		t.Errorf("merged = %s..%s, want 2024-01-08..2024-01-19", merged.Start, merged.End)
	}
}
