// Package derive turns raw, out-of-order CI status observations and
// check-run records into the normalized Build and Commit records the store
// persists. It has no I/O and no dependency on the storage or RPC layers.
package derive

import (
	"sort"

	"github.com/buildsignal/statusstore/internal/types"
)

// StatusState is the state of a single raw commit-status observation.
type StatusState int

const (
	StatusPending StatusState = iota
	StatusSuccess
	StatusFailure
	StatusError
)

// StatusObservation is one raw commit-status event from the hosting service.
type StatusObservation struct {
	State     StatusState
	Context   string // the check name
	CreatedAt int64  // ms
}

// CheckRunConclusion is the terminal outcome of a check-run, if it has one.
type CheckRunConclusion int

const (
	ConclusionNone CheckRunConclusion = iota
	ConclusionSuccess
	ConclusionFailure
	ConclusionTimedOut
	ConclusionOther
)

// CheckRun is one raw check-run record from the hosting service.
type CheckRun struct {
	Name        string
	HeadSHA     string
	StartedAt   int64  // ms
	CompletedAt *int64 // ms, nil if not yet completed
	Conclusion  CheckRunConclusion
}

// saturatingSub returns max(0, b-a), saturated to fit a uint32, matching the
// "must not panic on absurd timestamps" requirement in spec.md §9.
func saturatingSub(b, a int64) uint32 {
	d := b - a
	if d < 0 {
		return 0
	}
	if d > int64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(d)
}

// BuildsFromStatuses derives the Build list for one commit from its raw
// status observations, following spec.md §4.1:
//
//  1. sort by CreatedAt ascending (stable, since ties must preserve the
//     order the hosting service reported them in),
//  2. stable-partition by Context,
//  3. within each context, greedily close a lifecycle: start at the next
//     observation, keep extending while the last-appended observation is
//     Pending, close on the first non-pending observation (inclusive) or
//     when the stream ends.
func BuildsFromStatuses(commit string, observations []StatusObservation) []types.Build {
	sorted := make([]StatusObservation, len(observations))
	copy(sorted, observations)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt < sorted[j].CreatedAt
	})

	var order []string
	byContext := make(map[string][]StatusObservation)
	for _, obs := range sorted {
		if _, ok := byContext[obs.Context]; !ok {
			order = append(order, obs.Context)
		}
		byContext[obs.Context] = append(byContext[obs.Context], obs)
	}

	var builds []types.Build
	for _, ctx := range order {
		builds = append(builds, closeLifecycles(commit, byContext[ctx])...)
	}
	return builds
}

// closeLifecycles partitions one context's (already sorted) observations
// into closed builds.
func closeLifecycles(commit string, observations []StatusObservation) []types.Build {
	var builds []types.Build
	i := 0
	for i < len(observations) {
		first := observations[i]
		last := first
		j := i
		for last.State == StatusPending && j+1 < len(observations) {
			j++
			last = observations[j]
		}

		builds = append(builds, types.Build{
			Commit:     commit,
			Name:       first.Context,
			Source:     types.SourceStatus,
			Timestamp:  first.CreatedAt,
			DurationMs: saturatingSub(last.CreatedAt, first.CreatedAt),
			Successful: last.State == StatusSuccess,
			Failed:     last.State == StatusError || last.State == StatusFailure,
		})
		i = j + 1
	}
	return builds
}

// BuildFromCheckRun derives a single Build from a check-run, a 1:1 mapping
// per spec.md §4.1. CompletedAt absent yields duration 0; Conclusion absent
// yields neither successful nor failed.
func BuildFromCheckRun(cr CheckRun) types.Build {
	b := types.Build{
		Commit:    cr.HeadSHA,
		Name:      cr.Name,
		Source:    types.SourceCheckRun,
		Timestamp: cr.StartedAt,
	}
	if cr.CompletedAt != nil {
		b.DurationMs = saturatingSub(*cr.CompletedAt, cr.StartedAt)
	}
	switch cr.Conclusion {
	case ConclusionSuccess:
		b.Successful = true
	case ConclusionFailure, ConclusionTimedOut:
		b.Failed = true
	}
	return b
}

// BuildsFromCheckRuns maps each check-run 1:1 to a Build.
func BuildsFromCheckRuns(checkRuns []CheckRun) []types.Build {
	builds := make([]types.Build, 0, len(checkRuns))
	for _, cr := range checkRuns {
		builds = append(builds, BuildFromCheckRun(cr))
	}
	return builds
}

// CommitsFromBuilds groups builds sharing one commit by (Name, Source) and
// emits one Commit rollup per group, per spec.md §4.1. committedAt is the
// commit-authored time (ms) shared by every rollup produced from this call.
// Builds must all share the same Commit field; callers typically invoke this
// once per commit after deriving that commit's builds.
func CommitsFromBuilds(builds []types.Build, committedAt int64) []types.Commit {
	type groupKey struct {
		name   string
		source types.Source
	}

	var order []groupKey
	groups := make(map[groupKey][]types.Build)
	for _, b := range builds {
		k := groupKey{name: b.Name, source: b.Source}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], b)
	}

	commits := make([]types.Commit, 0, len(order))
	for _, k := range order {
		group := groups[k]
		var successful, failed int64
		for _, gb := range group {
			if gb.Successful {
				successful++
			}
			if gb.Failed {
				failed++
			}
		}
		commits = append(commits, types.Commit{
			Commit:           group[0].Commit,
			BuildName:        k.name,
			BuildSource:      k.source,
			Builds:           int64(len(group)),
			BuildsSuccessful: successful,
			BuildsFailed:     failed,
			Timestamp:        committedAt,
		})
	}
	return commits
}
