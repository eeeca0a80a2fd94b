package rpc

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/buildsignal/statusstore/internal/rpcapi"
	"github.com/buildsignal/statusstore/internal/sqlitestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	pool := sqlitestore.NewPool(t.TempDir())
	return NewServer(pool, zap.NewNop())
}

func TestServer_ImportThenTotalAggregates(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	_, err := s.Import(ctx, &rpcapi.ImportRequest{
		RepositoryID: "repo-a",
		Builds: []rpcapi.Build{
			{Commit: "c1", Name: "ci", Source: 0, Timestamp: 100, Successful: true, DurationMs: 50},
		},
		Timestamp: 1000,
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	reply, err := s.TotalAggregates(ctx, &rpcapi.TotalAggregatesRequest{
		RepositoryID: "repo-a",
		Table:        "builds",
		Columns:      []rpcapi.Column{{Name: "duration_ms", AggFunc: 0}},
		Since:        0,
		Until:        2000,
	})
	if err != nil {
		t.Fatalf("total aggregates: %v", err)
	}
	if len(reply.Rows) != 1 || reply.Rows[0].Values[0] == nil || *reply.Rows[0].Values[0] != 50 {
		t.Fatalf("got %+v, want a single row averaging 50", reply.Rows)
	}
}

func TestServer_RecordHookWithoutHook_IsInvalidArgument(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	_, err := s.RecordHook(ctx, &rpcapi.RecordHookRequest{RepositoryID: "repo-a"})
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("got %v, want a status error", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Errorf("got code %v, want InvalidArgument", st.Code())
	}
}

func TestServer_RecordHookDuplicate_IsBenign(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	req := &rpcapi.RecordHookRequest{
		RepositoryID: "repo-a",
		Hook:         &rpcapi.Hook{Type: 1, Commit: "c1", Timestamp: 500},
	}
	if _, err := s.RecordHook(ctx, req); err != nil {
		t.Fatalf("first record: %v", err)
	}
	if _, err := s.RecordHook(ctx, req); err != nil {
		t.Fatalf("duplicate record should be swallowed, got: %v", err)
	}
}

func TestServer_GetHookedCommitsSinceLastImport_NoImport_IsFailedPrecondition(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	// Force the repository's database into existence without an import marker.
	_, err := s.RecordHook(ctx, &rpcapi.RecordHookRequest{
		RepositoryID: "repo-a",
		Hook:         &rpcapi.Hook{Type: 0, Commit: "c1", Timestamp: 10},
	})
	if err != nil {
		t.Fatalf("seed hook: %v", err)
	}

	_, err = s.GetHookedCommitsSinceLastImport(ctx, &rpcapi.HookedCommitsRequest{
		RepositoryID: "repo-a",
		Until:        1000,
	})
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("got %v, want a status error", err)
	}
	if st.Code() != codes.FailedPrecondition {
		t.Errorf("got code %v, want FailedPrecondition", st.Code())
	}
}

func TestServer_TotalAggregates_InvalidIdentifier_IsInvalidArgument(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	_, err := s.TotalAggregates(ctx, &rpcapi.TotalAggregatesRequest{
		RepositoryID: "repo-a",
		Table:        "builds; DROP TABLE builds",
		Columns:      []rpcapi.Column{{Name: "duration_ms", AggFunc: 0}},
		Since:        0,
		Until:        1000,
	})
	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("got %v, want a status error", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Errorf("got code %v, want InvalidArgument", st.Code())
	}
}
