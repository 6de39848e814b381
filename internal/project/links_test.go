package project

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tasksOf(ids ...ID) []Task {
	out := make([]Task, len(ids))
	for i, id := range ids {
		out[i] = Task{ID: id}
	}
	return out
}

func TestRemoveInvalidLinks(t *testing.T) {
	t.Parallel()

	tasks := []Task{
		{ID: "summary"},
		{ID: "child", Parent: "summary"},
		{ID: "a"},
		{ID: "b"},
	}
	links := []Link{
		{Source: "a", Target: "b"},
		{Source: "a", Target: "a"},
		{Source: "ghost", Target: "b"},
		{Source: "a", Target: "ghost"},
		{Source: "summary", Target: "child"},
		{Source: "child", Target: "summary"},
		{Source: "child", Target: "a"},
	}

	valid, removed := RemoveInvalidLinks(tasks, links)

	wantValid := []Link{
		{Source: "a", Target: "b"},
		{Source: "child", Target: "a"},
	}
	if diff := cmp.Diff(wantValid, valid); diff != "" {
		t.Errorf("valid mismatch (-want +got):\n%s", diff)
	}

	wantRemoved := []RemovedLink{
		{Link: Link{Source: "a", Target: "a"}, Reason: RemovedSelfReference},
		{Link: Link{Source: "ghost", Target: "b"}, Reason: RemovedUnknownSource},
		{Link: Link{Source: "a", Target: "ghost"}, Reason: RemovedUnknownTarget},
		{Link: Link{Source: "summary", Target: "child"}, Reason: RemovedParentChild},
		{Link: Link{Source: "child", Target: "summary"}, Reason: RemovedParentChild},
	}
	if diff := cmp.Diff(wantRemoved, removed); diff != "" {
		t.Errorf("removed mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveInvalidLinks_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	links := []Link{{Source: "a", Target: "a"}, {Source: "a", Target: "b"}}
	before := append([]Link(nil), links...)
	RemoveInvalidLinks(tasksOf("a", "b"), links)
	if diff := cmp.Diff(before, links); diff != "" {
		t.Errorf("input links changed (-before +after):\n%s", diff)
	}
}

func TestDetectCircularDependencies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		tasks []Task
		links []Link
		want  [][]ID
	}{
		{
			name:  "diamond",
			tasks: tasksOf("A", "B", "C", "D"),
			links: []Link{
				{Source: "A", Target: "B"}, {Source: "A", Target: "C"},
				{Source: "B", Target: "D"}, {Source: "C", Target: "D"},
			},
			want: nil,
		},
		{
			name:  "three cycle",
			tasks: tasksOf("A", "B", "C"),
			links: []Link{
				{Source: "A", Target: "B"}, {Source: "B", Target: "C"}, {Source: "C", Target: "A"},
			},
			want: [][]ID{{"A", "B", "C"}},
		},
		{
			name:  "self link is not a cycle",
			tasks: tasksOf("A"),
			links: []Link{{Source: "A", Target: "A"}},
			want:  nil,
		},
		{
			name:  "two separate cycles",
			tasks: tasksOf("A", "B", "C", "D"),
			links: []Link{
				{Source: "A", Target: "B"}, {Source: "B", Target: "A"},
				{Source: "C", Target: "D"}, {Source: "D", Target: "C"},
			},
			want: [][]ID{{"A", "B"}, {"C", "D"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DetectCircularDependencies(tt.tasks, tt.links)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("cycles mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinkType(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		in         string
		want       LinkType
		fromFinish bool
	}{
		{"", FinishToStart, true},
		{"fs", FinishToStart, true},
		{"start_to_start", StartToStart, false},
		{"FF", FinishToFinish, true},
		{"sf", StartToFinish, false},
	} {
		got, err := ParseLinkType(tt.in)
		if err != nil {
			t.Errorf("ParseLinkType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want || got.FromFinish() != tt.fromFinish {
			t.Errorf("ParseLinkType(%q) = %q (FromFinish %v), want %q (%v)",
				tt.in, got, got.FromFinish(), tt.want, tt.fromFinish)
		}
	}

	if _, err := ParseLinkType("sideways"); err == nil {
		t.Error("ParseLinkType(sideways) succeeded, want error")
	}
}
