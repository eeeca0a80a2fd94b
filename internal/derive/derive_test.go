package derive

import (
	"testing"

	"github.com/buildsignal/statusstore/internal/types"
)

func TestBuildsFromStatuses_SingleObservation(t *testing.T) {
	builds := BuildsFromStatuses("c1", []StatusObservation{
		{Context: "A", State: StatusPending, CreatedAt: 1000},
	})
	if len(builds) != 1 {
		t.Fatalf("expected 1 build, got %d", len(builds))
	}
	b := builds[0]
	if b.Timestamp != 1000 || b.DurationMs != 0 || b.Successful || b.Failed {
		t.Errorf("unexpected build: %+v", b)
	}
}

func TestBuildsFromStatuses_SimpleLifecycle(t *testing.T) {
	// Scenario 1 from spec.md §8.
	builds := BuildsFromStatuses("c1", []StatusObservation{
		{Context: "A", State: StatusPending, CreatedAt: 1000},
		{Context: "A", State: StatusSuccess, CreatedAt: 1500},
	})
	if len(builds) != 1 {
		t.Fatalf("expected 1 build, got %d", len(builds))
	}
	want := types.Build{
		Commit: "c1", Name: "A", Source: types.SourceStatus,
		Timestamp: 1000, DurationMs: 500, Successful: true,
	}
	if builds[0] != want {
		t.Errorf("got %+v, want %+v", builds[0], want)
	}
}

func TestBuildsFromStatuses_RetryProducesTwoBuilds(t *testing.T) {
	// Scenario 2 from spec.md §8.
	builds := BuildsFromStatuses("c1", []StatusObservation{
		{Context: "A", State: StatusPending, CreatedAt: 1},
		{Context: "A", State: StatusFailure, CreatedAt: 2},
		{Context: "A", State: StatusPending, CreatedAt: 3},
		{Context: "A", State: StatusSuccess, CreatedAt: 4},
	})
	if len(builds) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(builds))
	}
	if builds[0].Timestamp != 1 || builds[0].DurationMs != 1 || !builds[0].Failed {
		t.Errorf("first build wrong: %+v", builds[0])
	}
	if builds[1].Timestamp != 3 || builds[1].DurationMs != 1 || !builds[1].Successful {
		t.Errorf("second build wrong: %+v", builds[1])
	}
}

func TestBuildsFromStatuses_UnsortedInputIsSorted(t *testing.T) {
	builds := BuildsFromStatuses("c1", []StatusObservation{
		{Context: "A", State: StatusSuccess, CreatedAt: 1500},
		{Context: "A", State: StatusPending, CreatedAt: 1000},
	})
	if len(builds) != 1 || builds[0].Timestamp != 1000 || builds[0].DurationMs != 500 {
		t.Fatalf("expected sorted-then-derived build, got %+v", builds)
	}
}

func TestBuildsFromStatuses_PartitionsByContext(t *testing.T) {
	builds := BuildsFromStatuses("c1", []StatusObservation{
		{Context: "A", State: StatusSuccess, CreatedAt: 10},
		{Context: "B", State: StatusFailure, CreatedAt: 20},
	})
	if len(builds) != 2 {
		t.Fatalf("expected 2 builds, got %d", len(builds))
	}
	names := map[string]bool{builds[0].Name: true, builds[1].Name: true}
	if !names["A"] || !names["B"] {
		t.Errorf("expected both contexts represented, got %+v", builds)
	}
}

func TestBuildsFromStatuses_EqualTimestampsKeepInputOrder(t *testing.T) {
	// Stable sort keeps input order for equal keys, so Pending then Success
	// at the same instant closes one build with duration 0.
	builds := BuildsFromStatuses("c1", []StatusObservation{
		{Context: "A", State: StatusPending, CreatedAt: 100},
		{Context: "A", State: StatusSuccess, CreatedAt: 100},
	})
	if len(builds) != 1 || builds[0].DurationMs != 0 {
		t.Fatalf("unexpected result: %+v", builds)
	}
}

func TestBuildFromCheckRun_MissingCompletion(t *testing.T) {
	// Scenario 3 from spec.md §8.
	b := BuildFromCheckRun(CheckRun{
		Name:      "B",
		HeadSHA:   "c2",
		StartedAt: 10,
	})
	want := types.Build{
		Commit: "c2", Name: "B", Source: types.SourceCheckRun,
		Timestamp: 10,
	}
	if b != want {
		t.Errorf("got %+v, want %+v", b, want)
	}
}

func TestBuildFromCheckRun_DurationAndOutcome(t *testing.T) {
	completed := int64(80)
	b := BuildFromCheckRun(CheckRun{
		Name: "C", HeadSHA: "c3", StartedAt: 50, CompletedAt: &completed,
		Conclusion: ConclusionTimedOut,
	})
	if b.DurationMs != 30 || !b.Failed || b.Successful {
		t.Errorf("unexpected build: %+v", b)
	}
}

func TestCommitsFromBuilds_GroupsByNameAndSource(t *testing.T) {
	builds := []types.Build{
		{Commit: "c1", Name: "A", Source: types.SourceStatus, Successful: true},
		{Commit: "c1", Name: "A", Source: types.SourceStatus, Failed: true},
		{Commit: "c1", Name: "A", Source: types.SourceCheckRun, Successful: true},
	}
	commits := CommitsFromBuilds(builds, 42)
	if len(commits) != 2 {
		t.Fatalf("expected 2 commit rollups, got %d", len(commits))
	}
	for _, c := range commits {
		if c.Timestamp != 42 {
			t.Errorf("expected timestamp 42, got %d", c.Timestamp)
		}
		if c.BuildsSuccessful+c.BuildsFailed > c.Builds {
			t.Errorf("invariant violated: %+v", c)
		}
	}
	if commits[0].BuildSource == types.SourceStatus && commits[0].Builds != 2 {
		t.Errorf("expected status group of 2, got %+v", commits[0])
	}
}
