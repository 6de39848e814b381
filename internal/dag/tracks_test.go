package dag

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComputeTracks_Empty(t *testing.T) {
	t.Parallel()
	if got := New().ComputeTracks(); got != nil {
		t.Errorf("ComputeTracks() on empty graph = %v, want nil", got)
	}
}

func TestComputeTracks_IndependentChains(t *testing.T) {
	t.Parallel()

	// Two chains plus an isolated node:
	//	a → b → c
	//	d → e
	//	f
	g := buildGraph(t,
		[]string{"f", "d", "a", "b", "e", "c"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"d", "e"}},
	)

	want := []Track{
		{ID: 0, NodeIDs: []string{"a", "b", "c"}},
		{ID: 1, NodeIDs: []string{"d", "e"}},
		{ID: 2, NodeIDs: []string{"f"}},
	}
	if diff := cmp.Diff(want, g.ComputeTracks()); diff != "" {
		t.Errorf("ComputeTracks mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeTracks_DiamondIsOneTrack(t *testing.T) {
	t.Parallel()

	tracks := diamond(t).ComputeTracks()
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if diff := cmp.Diff([]string{"A", "B", "C", "D"}, tracks[0].NodeIDs); diff != "" {
		t.Errorf("track members mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeTracks_SameSizeKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	g := buildGraph(t,
		[]string{"x", "p", "y", "q"},
		[][2]string{{"p", "q"}, {"x", "y"}},
	)
	tracks := g.ComputeTracks()
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if tracks[0].NodeIDs[0] != "x" {
		t.Errorf("first track starts with %q, want x", tracks[0].NodeIDs[0])
	}
}

func TestComputeTracks_CyclicComponent(t *testing.T) {
	t.Parallel()

	g := buildGraph(t,
		[]string{"a", "b", "c"},
		[][2]string{{"a", "b"}, {"b", "a"}},
	)
	tracks := g.ComputeTracks()
	if len(tracks) != 2 {
		t.Fatalf("got %d tracks, want 2", len(tracks))
	}
	if diff := cmp.Diff([]string{"a", "b"}, tracks[0].NodeIDs); diff != "" {
		t.Errorf("cyclic track mismatch (-want +got):\n%s", diff)
	}
}
