// Package types holds the data model shared by derivation, storage, and the
// RPC layer: builds, commit rollups, hooks, and the small enums used to
// describe them.
package types

// Source identifies where a Build observation came from.
type Source int32

const (
	SourceStatus   Source = 0
	SourceCheckRun Source = 1
)

func (s Source) String() string {
	switch s {
	case SourceStatus:
		return "status"
	case SourceCheckRun:
		return "check_run"
	default:
		return "unknown"
	}
}

// AggFunc is the aggregate function applied to a projected column.
type AggFunc int32

const (
	AggAvg   AggFunc = 0
	AggCount AggFunc = 1
)

// IntervalType selects the bucket width for IntervalAggregates.
type IntervalType int32

const (
	IntervalSparse   IntervalType = 0
	IntervalDetailed IntervalType = 1
)

// sparseBuckets and detailedBuckets are the fixed bucket counts from spec §4.5.
const (
	sparseBuckets   = 120
	detailedBuckets = 720
)

// Buckets returns the number of buckets this interval type divides a time
// range into.
func (t IntervalType) Buckets() int64 {
	if t == IntervalDetailed {
		return detailedBuckets
	}
	return sparseBuckets
}

// Build is one execution lifecycle of a named CI check on one commit from
// one observation source. Identity is (Commit, Name, Source, Timestamp).
type Build struct {
	Commit     string
	Name       string
	Source     Source
	Timestamp  int64 // ms, earliest observation for this lifecycle
	Successful bool
	Failed     bool
	DurationMs uint32
}

// Commit is a per-(commit, name, source) rollup of builds. Identity is
// (Commit, BuildName, BuildSource).
type Commit struct {
	Commit           string
	BuildName        string
	BuildSource      Source
	Builds           int64
	BuildsSuccessful int64
	BuildsFailed     int64
	Timestamp        int64 // ms, commit authored time
}

// Hook is a single webhook-derived signal, append-only, identity
// (Timestamp, Type).
type Hook struct {
	Timestamp int64
	Type      Source
	Commit    string
}

// HookedCommit is the result row of GetHookedCommitsSinceLastImport: a
// distinct commit and the set of hook types recorded for it in the window.
type HookedCommit struct {
	Commit string
	Types  []Source
}

// Column is one projected, aggregated column in an aggregate request.
type Column struct {
	Name    string
	AggFunc AggFunc
}

// AggregateRow is one result row from TotalAggregates or IntervalAggregates.
// Values holds the aggregate results in request order; a nil entry means
// the underlying SQL aggregate returned NULL (only possible for Avg).
// Groups holds the group-by key values, encoded as text, in request order.
// IntervalStart is only populated for IntervalAggregates rows.
type AggregateRow struct {
	Values        []*float64
	Groups        []string
	IntervalStart int64
}
