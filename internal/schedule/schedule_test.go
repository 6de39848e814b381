package schedule

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/almanac/internal/calendar"
	"github.com/papapumpkin/almanac/internal/project"
)

var dateComparer = cmp.Comparer(func(a, b calendar.Date) bool { return a.Equal(b) })

func date(s string) calendar.Date { return calendar.MustParseDate(s) }

// task builds a task starting on start ("" for none) lasting d workdays.
func task(id project.ID, start string, d int) project.Task {
	t := project.Task{ID: id, Duration: d}
	if start != "" {
		t.Start = date(start)
	}
	return t
}

func fs(src, tgt project.ID, lag int) project.Link {
	return project.Link{Source: src, Target: tgt, Type: project.FinishToStart, Lag: lag}
}

func assertDates(t *testing.T, r Result, id project.ID, start, end string) {
	t.Helper()
	got, ok := r.Dates(id)
	if !ok {
		t.Fatalf("task %s not scheduled", id)
	}
	if got.Start.String() != start || got.End.String() != end {
		t.Errorf("task %s = %s..%s, want %s..%s", id, got.Start, got.End, start, end)
	}
}

func TestSchedule_FinishToStartAcrossWeekend(t *testing.T) {
	t.Parallel()

	r := Schedule(
		[]project.Task{task("a", "2024-01-08", 5), task("b", "", 2)},
		[]project.Link{fs("a", "b", 0)},
		Options{},
	)
	assertDates(t, r, "a", "2024-01-08", "2024-01-12")
	assertDates(t, r, "b", "2024-01-15", "2024-01-16")
}

func TestSchedule_Lag(t *testing.T) {
	t.Parallel()

	r := Schedule(
		[]project.Task{task("a", "2024-01-08", 1), task("b", "", 1)},
		[]project.Link{fs("a", "b", 2)},
		Options{},
	)
	assertDates(t, r, "b", "2024-01-11", "2024-01-11")

	a, _ := r.Dates("a")
	b, _ := r.Dates("b")
	if b.Start.Before(a.End.AddDays(1 + 2)) {
		t.Errorf("successor starts %s, before predecessor end + 1 + lag", b.Start)
	}
}

func TestSchedule_StartToStart(t *testing.T) {
	t.Parallel()

	r := Schedule(
		[]project.Task{task("a", "2024-01-08", 5), task("b", "", 1)},
		[]project.Link{{Source: "a", Target: "b", Type: project.StartToStart}},
		Options{},
	)
	assertDates(t, r, "b", "2024-01-09", "2024-01-09")
}

func TestSchedule_Diamond(t *testing.T) {
	t.Parallel()

	r := Schedule(
		[]project.Task{task("a", "2024-01-08", 1), task("b", "", 3), task("c", "", 1), task("d", "", 1)},
		[]project.Link{fs("a", "b", 0), fs("a", "c", 0), fs("b", "d", 0), fs("c", "d", 0)},
		Options{},
	)
	assertDates(t, r, "b", "2024-01-09", "2024-01-11")
	assertDates(t, r, "c", "2024-01-09", "2024-01-09")
	assertDates(t, r, "d", "2024-01-12", "2024-01-12")
	if len(r.Conflicts) != 0 {
		t.Errorf("diamond should not conflict, got %v", r.Conflicts)
	}
}

func TestSchedule_CycleIsReportedNotPropagated(t *testing.T) {
	t.Parallel()

	tasks := []project.Task{
		{ID: "a", Start: date("2024-01-08"), End: date("2024-01-08")},
		task("b", "", 1), task("c", "", 1),
		task("d", "2024-01-08", 2), task("e", "", 1),
	}
	links := []project.Link{fs("a", "b", 0), fs("b", "c", 0), fs("c", "a", 0), fs("d", "e", 0)}
	r := Schedule(tasks, links, Options{})

	cycles := r.ConflictsOf(ConflictCircularDependency)
	if len(cycles) != 1 {
		t.Fatalf("got %d cycle conflicts, want 1", len(cycles))
	}
	if diff := cmp.Diff([]project.ID{"a", "b", "c"}, cycles[0].TaskIDs); diff != "" {
		t.Errorf("cycle members (-want +got):\n%s", diff)
	}
	assertDates(t, r, "a", "2024-01-08", "2024-01-08")
	if _, ok := r.Dates("b"); ok {
		t.Error("cycle member b should not be scheduled")
	}
	assertDates(t, r, "e", "2024-01-10", "2024-01-10")
}

func TestNewNetwork_MarksEveryCycleMember(t *testing.T) {
	t.Parallel()

	tasks := []project.Task{task("a", "", 1), task("b", "", 1), task("c", "", 1), task("d", "", 1)}
	links := []project.Link{fs("a", "b", 0), fs("b", "a", 0), fs("b", "c", 0), fs("c", "b", 0), fs("c", "d", 0)}
	n := newNetwork(tasks, links)

	if diff := cmp.Diff([]bool{true, true, true, false}, n.cyclic); diff != "" {
		t.Errorf("cyclic mismatch (-want +got):\n%s", diff)
	}
	if len(n.cycles) != 2 {
		t.Errorf("got %d cycles, want 2: %v", len(n.cycles), n.cycles)
	}
}

func TestSchedule_ProjectStartClampsNegativeLag(t *testing.T) {
	t.Parallel()

	r := Schedule(
		[]project.Task{task("a", "2024-01-08", 5), task("b", "", 1)},
		[]project.Link{fs("a", "b", -10)},
		Options{ProjectStart: date("2024-01-08")},
	)
	assertDates(t, r, "b", "2024-01-08", "2024-01-08")
}

func TestSchedule_ProjectEndExceeded(t *testing.T) {
	t.Parallel()

	r := Schedule(
		[]project.Task{task("a", "2024-01-08", 10)},
		nil,
		Options{ProjectEnd: date("2024-01-12")},
	)
	conflicts := r.ConflictsOf(ConflictProjectEndExceeded)
	if len(conflicts) != 1 || conflicts[0].TaskIDs[0] != "a" {
		t.Fatalf("conflicts = %v, want one project_end_exceeded for a", r.Conflicts)
	}
	assertDates(t, r, "a", "2024-01-08", "2024-01-12")
}

func TestSchedule_UnanchoredTasksAreOmitted(t *testing.T) {
	t.Parallel()

	r := Schedule([]project.Task{task("a", "", 2), task("b", "", 1)}, []project.Link{fs("a", "b", 0)}, Options{})
	if len(r.Tasks) != 0 {
		t.Errorf("expected no scheduled tasks, got %v", r.Tasks)
	}

	r = Schedule([]project.Task{task("a", "", 2)}, nil, Options{ProjectStart: date("2024-01-06")})
	assertDates(t, r, "a", "2024-01-08", "2024-01-09")
}

func TestSchedule_HolidayShiftsEnd(t *testing.T) {
	t.Parallel()

	cal := calendar.Default().AddHoliday(date("2024-01-10"))
	r := Schedule([]project.Task{task("a", "2024-01-08", 3)}, nil, Options{Calendar: &cal})
	assertDates(t, r, "a", "2024-01-08", "2024-01-11")
}

func TestSchedule_RemovesInvalidLinks(t *testing.T) {
	t.Parallel()

	r := Schedule(
		[]project.Task{task("a", "2024-01-08", 1), task("b", "", 1)},
		[]project.Link{fs("a", "a", 0), fs("a", "ghost", 0), fs("a", "b", 0)},
		Options{},
	)
	want := []project.RemovalReason{project.RemovedSelfReference, project.RemovedUnknownTarget}
	if len(r.Removed) != len(want) {
		t.Fatalf("removed = %v, want %d entries", r.Removed, len(want))
	}
	for i, rl := range r.Removed {
		if rl.Reason != want[i] {
			t.Errorf("removed[%d] reason = %s, want %s", i, rl.Reason, want[i])
		}
	}
	assertDates(t, r, "b", "2024-01-09", "2024-01-09")
}

func TestSchedule_CallbackOrder(t *testing.T) {
	t.Parallel()

	var seen []project.ID
	tasks := []project.Task{
		{ID: "a", Start: date("2024-01-08"), End: date("2024-01-08")},
		task("b", "", 1),
		task("c", "", 1),
	}
	Schedule(tasks, []project.Link{fs("a", "b", 0), fs("b", "c", 0)}, Options{
		OnScheduleTask: func(id project.ID) { seen = append(seen, id) },
	})

	// a already had its dates and is not reported.
	if diff := cmp.Diff([]project.ID{"b", "c"}, seen); diff != "" {
		t.Errorf("callback order (-want +got):\n%s", diff)
	}
}

func TestSchedule_Idempotent(t *testing.T) {
	t.Parallel()

	tasks := []project.Task{task("a", "2024-01-08", 2), task("b", "", 3), task("c", "", 1)}
	links := []project.Link{fs("a", "b", 1), fs("a", "c", 0), fs("b", "c", 0)}
	first := Schedule(tasks, links, Options{})
	second := Schedule(tasks, links, Options{})
	if diff := cmp.Diff(first, second, dateComparer); diff != "" {
		t.Errorf("repeated runs differ (-first +second):\n%s", diff)
	}

	// Feeding the output back in changes nothing.
	again := make([]project.Task, len(tasks))
	for i, tk := range tasks {
		d := first.Tasks[tk.ID]
		tk.Start, tk.End = d.Start, d.End
		again[i] = tk
	}
	third := Schedule(again, links, Options{})
	if diff := cmp.Diff(first.Tasks, third.Tasks, dateComparer); diff != "" {
		t.Errorf("rescheduling the output moved tasks (-want +got):\n%s", diff)
	}
}

func TestSchedule_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	tasks := []project.Task{task("a", "2024-01-08", 2), task("b", "", 1)}
	Schedule(tasks, []project.Link{fs("a", "b", 0)}, Options{})
	if !tasks[1].Start.IsZero() {
		t.Error("Schedule wrote into its input")
	}
}

func TestAffectedSuccessors(t *testing.T) {
	t.Parallel()

	links := []project.Link{fs("a", "b", 0), fs("a", "c", 0), fs("b", "d", 0), fs("c", "d", 0), fs("d", "a", 0)}
	if diff := cmp.Diff([]project.ID{"b", "c", "d"}, AffectedSuccessors("a", links)); diff != "" {
		t.Errorf("successors (-want +got):\n%s", diff)
	}
	if got := AffectedSuccessors("zzz", links); got != nil {
		t.Errorf("unknown task successors = %v, want nil", got)
	}
}

func TestReschedule_OnlyTouchesDownstream(t *testing.T) {
	t.Parallel()

	tasks := []project.Task{
		{ID: "1", Start: date("2024-01-15"), End: date("2024-01-15")},
		{ID: "2", Start: date("2024-01-09"), End: date("2024-01-09")},
		{ID: "3", Start: date("2024-01-10"), End: date("2024-01-10")},
		{ID: "4", Start: date("2024-01-08"), End: date("2024-01-08")},
	}
	links := []project.Link{fs("1", "2", 0), fs("2", "3", 0)}

	r, err := Reschedule("1", tasks, links, Options{})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	if diff := cmp.Diff([]project.ID{"1", "2", "3"}, r.Affected); diff != "" {
		t.Errorf("affected (-want +got):\n%s", diff)
	}
	if r.IsAffected("4") {
		t.Error("unrelated task 4 was recomputed")
	}
	assertDates(t, r, "2", "2024-01-16", "2024-01-16")
	assertDates(t, r, "3", "2024-01-17", "2024-01-17")
	assertDates(t, r, "4", "2024-01-08", "2024-01-08")
}

func TestReschedule_MovedTaskKeepsLaterStart(t *testing.T) {
	t.Parallel()

	tasks := []project.Task{
		{ID: "p", Start: date("2024-01-08"), End: date("2024-01-08")},
		{ID: "x", Start: date("2024-01-15"), End: date("2024-01-15")},
	}
	links := []project.Link{fs("p", "x", 0)}

	r, err := Reschedule("x", tasks, links, Options{})
	if err != nil {
		t.Fatalf("Reschedule: %v", err)
	}
	assertDates(t, r, "x", "2024-01-15", "2024-01-15")

	full := Schedule(tasks, links, Options{})
	assertDates(t, full, "x", "2024-01-09", "2024-01-09")
}

func TestReschedule_UnknownTask(t *testing.T) {
	t.Parallel()

	_, err := Reschedule("nope", []project.Task{task("a", "2024-01-08", 1)}, nil, Options{})
	if !errors.Is(err, ErrUnknownTask) {
		t.Errorf("got %v, want ErrUnknownTask", err)
	}
}
