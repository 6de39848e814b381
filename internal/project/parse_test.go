package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/almanac/internal/calendar"
)

const sampleProject = `
[project]
name = "Relaunch"
start = 2024-01-08
end = "2024-03-29"

[calendar]
workdays = ["mon", "tue", "wed", "thu", "fri"]
holidays = [2024-01-15, "2024-01-16"]

[[tasks]]
id = 1
name = "Design"
start = 2024-01-08
duration = 5

[[tasks]]
id = "build"
name = "Build"
duration = 3
parent = 1

[[links]]
source = 1
target = "build"
type = "fs"
lag = 2
`

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "project.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing project file: %v", err)
	}
	return path
}

func TestLoadAndBuild(t *testing.T) {
	t.Parallel()

	path := writeProject(t, sampleProject)
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Path != path {
		t.Errorf("Path = %q, want %q", f.Path, path)
	}

	p, err := f.Build(calendar.Default())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if p.Name != "Relaunch" {
		t.Errorf("Name = %q", p.Name)
	}
	if p.Start.String() != "2024-01-08" || p.End.String() != "2024-03-29" {
		t.Errorf("bounds = %s..%s", p.Start, p.End)
	}
	if got := len(p.Calendar.Holidays()); got != 2 {
		t.Errorf("holidays = %d, want 2", got)
	}

	wantTasks := []Task{
		{ID: "1", Name: "Design", Start: calendar.MustParseDate("2024-01-08"), Duration: 5},
		{ID: "build", Name: "Build", Duration: 3, Parent: "1"},
	}
	if diff := cmp.Diff(wantTasks, p.Tasks, cmp.Comparer(func(a, b calendar.Date) bool { return a.Equal(b) })); diff != "" {
		t.Errorf("tasks mismatch (-want +got):\n%s", diff)
	}

	wantLinks := []Link{{Source: "1", Target: "build", Type: FinishToStart, Lag: 2}}
	if diff := cmp.Diff(wantLinks, p.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_WorkdayOverride(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(`
[calendar]
workdays = ["sun", "mon", "tue", "wed", "thu"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	base := calendar.Default().AddHoliday(calendar.MustParseDate("2024-12-25"))
	p, err := f.Build(base)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p.Calendar.IsWorkday(calendar.MustParseDate("2024-01-12")) {
		t.Error("friday should not be a workday")
	}
	if !p.Calendar.IsWorkday(calendar.MustParseDate("2024-01-14")) {
		t.Error("sunday should be a workday")
	}
	if !p.Calendar.IsHoliday(calendar.MustParseDate("2024-12-25")) {
		t.Error("base holiday lost after workday override")
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("[[tasks]]\nid = 1\nduraton = 3\n"))
	if err == nil {
		t.Fatal("Parse accepted a misspelled key")
	}
}

func TestParse_SyntaxErrorHasPosition(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("[project]\nname = \n"))
	if err == nil {
		t.Fatal("Parse accepted invalid TOML")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q should mention line 2", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) = %v, want os.ErrNotExist", err)
	}
}

func TestBuild_InvalidFileJoinsErrors(t *testing.T) {
	t.Parallel()

	f, err := Parse([]byte(`
[[tasks]]
id = "a"
[[tasks]]
id = "a"
[[links]]
source = "a"
target = "a"
type = "diagonal"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	_, err = f.Build(calendar.Default())
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Build error %v should wrap ErrDuplicateID", err)
	}
	if !errors.Is(err, ErrInvalidLinkType) {
		t.Errorf("Build error %v should wrap ErrInvalidLinkType", err)
	}
}
