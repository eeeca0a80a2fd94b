package rpc

import (
	"context"

	"go.uber.org/zap"

	"github.com/buildsignal/statusstore/internal/rpcapi"
	"github.com/buildsignal/statusstore/internal/sqlitestore"
	"github.com/buildsignal/statusstore/internal/types"
)

// Server implements StatusStoreServer against a sqlitestore.Pool. It holds
// no per-repository state of its own: the pool owns every open handle.
type Server struct {
	pool *sqlitestore.Pool
	log  *zap.Logger
}

// NewServer returns a Server backed by pool, logging handler-level errors
// through log.
func NewServer(pool *sqlitestore.Pool, log *zap.Logger) *Server {
	return &Server{pool: pool, log: log}
}

func (s *Server) Import(ctx context.Context, req *rpcapi.ImportRequest) (*rpcapi.ImportReply, error) {
	builds := buildsFromWire(req.Builds)
	commits := commitsFromWire(req.Commits)

	err := s.pool.WithTransaction(ctx, req.RepositoryID, func(tx *sqlitestore.Tx) error {
		if err := tx.UpsertBuilds(ctx, builds); err != nil {
			return err
		}
		if err := tx.UpsertCommits(ctx, commits); err != nil {
			return err
		}
		return tx.AppendImport(ctx, req.Timestamp)
	})
	if err != nil {
		s.log.Error("import failed", zap.String("repository_id", req.RepositoryID), zap.Error(err))
		return nil, toStatus(err)
	}
	return &rpcapi.ImportReply{}, nil
}

func (s *Server) RecordHook(ctx context.Context, req *rpcapi.RecordHookRequest) (*rpcapi.RecordHookReply, error) {
	if req.Hook == nil {
		return nil, errMissingHook
	}
	hook := hookFromWire(*req.Hook)

	err := s.pool.WithTransaction(ctx, req.RepositoryID, func(tx *sqlitestore.Tx) error {
		if err := tx.AppendHook(ctx, hook); err != nil {
			return err
		}
		if req.Build != nil {
			return tx.UpsertBuilds(ctx, []types.Build{buildFromWire(*req.Build)})
		}
		return nil
	})
	if err != nil {
		if storeErr, ok := err.(*sqlitestore.Error); ok && storeErr.Kind == sqlitestore.KindDuplicate {
			s.log.Debug("duplicate hook ignored", zap.String("repository_id", req.RepositoryID))
			return &rpcapi.RecordHookReply{}, nil
		}
		s.log.Error("record hook failed", zap.String("repository_id", req.RepositoryID), zap.Error(err))
		return nil, toStatus(err)
	}
	return &rpcapi.RecordHookReply{}, nil
}

func (s *Server) GetHookedCommitsSinceLastImport(ctx context.Context, req *rpcapi.HookedCommitsRequest) (*rpcapi.HookedCommitsReply, error) {
	hooked, err := s.pool.GetHookedCommitsSinceLastImport(ctx, req.RepositoryID, req.Until)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpcapi.HookedCommitsReply{Commits: hookedCommitsToWire(hooked)}, nil
}

func (s *Server) TotalAggregates(ctx context.Context, req *rpcapi.TotalAggregatesRequest) (*rpcapi.TotalAggregatesReply, error) {
	rows, err := s.pool.TotalAggregates(ctx, req.RepositoryID, req.Table,
		columnsFromWire(req.Columns), req.Since, req.Until, req.GroupBy)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpcapi.TotalAggregatesReply{Rows: aggregateRowsToWire(rows, false)}, nil
}

func (s *Server) IntervalAggregates(ctx context.Context, req *rpcapi.IntervalAggregatesRequest) (*rpcapi.IntervalAggregatesReply, error) {
	rows, err := s.pool.IntervalAggregates(ctx, req.RepositoryID, req.Table,
		columnsFromWire(req.Columns), req.Since, req.Until, req.GroupBy, types.IntervalType(req.Interval))
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpcapi.IntervalAggregatesReply{Rows: aggregateRowsToWire(rows, true)}, nil
}
