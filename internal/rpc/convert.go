package rpc

import (
	"github.com/buildsignal/statusstore/internal/rpcapi"
	"github.com/buildsignal/statusstore/internal/types"
)

func buildFromWire(b rpcapi.Build) types.Build {
	return types.Build{
		Commit:     b.Commit,
		Name:       b.Name,
		Source:     types.Source(b.Source),
		Timestamp:  b.Timestamp,
		Successful: b.Successful,
		Failed:     b.Failed,
		DurationMs: b.DurationMs,
	}
}

func buildsFromWire(bs []rpcapi.Build) []types.Build {
	out := make([]types.Build, len(bs))
	for i, b := range bs {
		out[i] = buildFromWire(b)
	}
	return out
}

func commitFromWire(c rpcapi.Commit) types.Commit {
	return types.Commit{
		Commit:           c.Commit,
		BuildName:        c.BuildName,
		BuildSource:      types.Source(c.BuildSource),
		Builds:           c.Builds,
		BuildsSuccessful: c.BuildsSuccessful,
		BuildsFailed:     c.BuildsFailed,
		Timestamp:        c.Timestamp,
	}
}

func commitsFromWire(cs []rpcapi.Commit) []types.Commit {
	out := make([]types.Commit, len(cs))
	for i, c := range cs {
		out[i] = commitFromWire(c)
	}
	return out
}

func hookFromWire(h rpcapi.Hook) types.Hook {
	return types.Hook{
		Timestamp: h.Timestamp,
		Type:      types.Source(h.Type),
		Commit:    h.Commit,
	}
}

func columnsFromWire(cs []rpcapi.Column) []types.Column {
	out := make([]types.Column, len(cs))
	for i, c := range cs {
		out[i] = types.Column{Name: c.Name, AggFunc: types.AggFunc(c.AggFunc)}
	}
	return out
}

func hookedCommitsToWire(hcs []types.HookedCommit) []rpcapi.HookedCommit {
	out := make([]rpcapi.HookedCommit, len(hcs))
	for i, hc := range hcs {
		wireTypes := make([]int32, len(hc.Types))
		for j, t := range hc.Types {
			wireTypes[j] = int32(t)
		}
		out[i] = rpcapi.HookedCommit{Commit: hc.Commit, Types: wireTypes}
	}
	return out
}

func aggregateRowsToWire(rows []types.AggregateRow, withInterval bool) []rpcapi.AggregateRow {
	out := make([]rpcapi.AggregateRow, len(rows))
	for i, r := range rows {
		wr := rpcapi.AggregateRow{Values: r.Values, Groups: r.Groups}
		if withInterval {
			wr.Timestamp = r.IntervalStart
		}
		out[i] = wr
	}
	return out
}
