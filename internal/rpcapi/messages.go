// Package rpcapi holds the wire message shapes for the status-store RPC
// service (spec.md §6). Without a protoc toolchain available at build time,
// these are plain Go structs rather than generated protobuf types; they are
// transported over real gRPC framing using the JSON codec registered by
// internal/rpc, so the wire shape below IS the wire contract.
package rpcapi

// Build mirrors spec.md §6's Build message. Source is 0=Status, 1=CheckRun.
type Build struct {
	Commit     string `json:"commit"`
	Name       string `json:"name"`
	Source     int32  `json:"source"`
	Timestamp  int64  `json:"timestamp"`
	Successful bool   `json:"successful"`
	Failed     bool   `json:"failed"`
	DurationMs uint32 `json:"duration_ms"`
}

// Commit mirrors spec.md §6's Commit message.
type Commit struct {
	Commit           string `json:"commit"`
	BuildName        string `json:"build_name"`
	BuildSource      int32  `json:"build_source"`
	Builds           int64  `json:"builds"`
	BuildsSuccessful int64  `json:"builds_successful"`
	BuildsFailed     int64  `json:"builds_failed"`
	Timestamp        int64  `json:"timestamp"`
}

// Hook mirrors spec.md §6's Hook message. Type uses the same 0/1 encoding
// as Build.Source.
type Hook struct {
	Type      int32  `json:"type"`
	Commit    string `json:"commit"`
	Timestamp int64  `json:"timestamp"`
}

// HookedCommit is one entry of a HookedCommitsReply.
type HookedCommit struct {
	Commit string  `json:"commit"`
	Types  []int32 `json:"types"`
}

// Column identifies an aggregate projection column. AggFunc is 0=Avg,
// 1=Count.
type Column struct {
	Name    string `json:"name"`
	AggFunc int32  `json:"agg_func"`
}

// AggregateRow is one row of a TotalAggregatesReply/IntervalAggregatesReply.
// Values holds nulls as nil pointers so Avg-over-empty-group is
// distinguishable from Avg-of-zero. Timestamp is unused (zero) outside
// IntervalAggregatesReply.
type AggregateRow struct {
	Values    []*float64 `json:"values"`
	Groups    []string   `json:"groups"`
	Timestamp int64      `json:"timestamp,omitempty"`
}

type ImportRequest struct {
	RepositoryID string   `json:"repository_id"`
	Builds       []Build  `json:"builds"`
	Commits      []Commit `json:"commits"`
	Timestamp    int64    `json:"timestamp"`
}

type ImportReply struct{}

type RecordHookRequest struct {
	RepositoryID string `json:"repository_id"`
	Hook         *Hook  `json:"hook"`
	Build        *Build `json:"build,omitempty"`
}

type RecordHookReply struct{}

type HookedCommitsRequest struct {
	RepositoryID string `json:"repository_id"`
	Until        int64  `json:"until"`
}

type HookedCommitsReply struct {
	Commits []HookedCommit `json:"commits"`
}

type TotalAggregatesRequest struct {
	RepositoryID string   `json:"repository_id"`
	Table        string   `json:"table"`
	Columns      []Column `json:"columns"`
	Since        int64    `json:"since"`
	Until        int64    `json:"until"`
	GroupBy      []string `json:"group_by"`
}

type TotalAggregatesReply struct {
	Rows []AggregateRow `json:"rows"`
}

// IntervalAggregatesRequest is TotalAggregatesRequest plus Interval: 0=Sparse,
// 1=Detailed.
type IntervalAggregatesRequest struct {
	RepositoryID string   `json:"repository_id"`
	Table        string   `json:"table"`
	Columns      []Column `json:"columns"`
	Since        int64    `json:"since"`
	Until        int64    `json:"until"`
	GroupBy      []string `json:"group_by"`
	Interval     int32    `json:"interval"`
}

type IntervalAggregatesReply struct {
	Rows []AggregateRow `json:"rows"`
}
