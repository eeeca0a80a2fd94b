package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/buildsignal/statusstore/internal/rpcapi"
)

// StatusStoreServer is the handler interface backing the hand-written
// StatusStore_ServiceDesc below. There is no protoc-gen-go-grpc step in
// this build: the method set, full-method names, and decode/dispatch
// glue that a generator would normally produce are authored directly,
// following the shape protoc-gen-go-grpc emits (compare the generated
// AccountHandler service in the ledger component this was grounded on).
type StatusStoreServer interface {
	Import(ctx context.Context, req *rpcapi.ImportRequest) (*rpcapi.ImportReply, error)
	RecordHook(ctx context.Context, req *rpcapi.RecordHookRequest) (*rpcapi.RecordHookReply, error)
	GetHookedCommitsSinceLastImport(ctx context.Context, req *rpcapi.HookedCommitsRequest) (*rpcapi.HookedCommitsReply, error)
	TotalAggregates(ctx context.Context, req *rpcapi.TotalAggregatesRequest) (*rpcapi.TotalAggregatesReply, error)
	IntervalAggregates(ctx context.Context, req *rpcapi.IntervalAggregatesRequest) (*rpcapi.IntervalAggregatesReply, error)
}

const (
	statusStoreImportFullMethod             = "/statusstore.StatusStore/Import"
	statusStoreRecordHookFullMethod          = "/statusstore.StatusStore/RecordHook"
	statusStoreHookedCommitsFullMethod       = "/statusstore.StatusStore/GetHookedCommitsSinceLastImport"
	statusStoreTotalAggregatesFullMethod     = "/statusstore.StatusStore/TotalAggregates"
	statusStoreIntervalAggregatesFullMethod  = "/statusstore.StatusStore/IntervalAggregates"
)

// RegisterStatusStoreServer wires srv into the grpc.Server under the
// service descriptor below.
func RegisterStatusStoreServer(s grpc.ServiceRegistrar, srv StatusStoreServer) {
	s.RegisterService(&StatusStore_ServiceDesc, srv)
}

func _StatusStore_Import_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.ImportRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatusStoreServer).Import(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusStoreImportFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatusStoreServer).Import(ctx, req.(*rpcapi.ImportRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StatusStore_RecordHook_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.RecordHookRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatusStoreServer).RecordHook(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusStoreRecordHookFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatusStoreServer).RecordHook(ctx, req.(*rpcapi.RecordHookRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StatusStore_HookedCommits_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.HookedCommitsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatusStoreServer).GetHookedCommitsSinceLastImport(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusStoreHookedCommitsFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatusStoreServer).GetHookedCommitsSinceLastImport(ctx, req.(*rpcapi.HookedCommitsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StatusStore_TotalAggregates_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.TotalAggregatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatusStoreServer).TotalAggregates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusStoreTotalAggregatesFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatusStoreServer).TotalAggregates(ctx, req.(*rpcapi.TotalAggregatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _StatusStore_IntervalAggregates_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(rpcapi.IntervalAggregatesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StatusStoreServer).IntervalAggregates(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statusStoreIntervalAggregatesFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StatusStoreServer).IntervalAggregates(ctx, req.(*rpcapi.IntervalAggregatesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// StatusStore_ServiceDesc is the grpc.ServiceDesc for the StatusStore
// service. Only intended for grpc.RegisterService, not to be introspected
// or modified, per the convention protoc-gen-go-grpc documents on its own
// generated descriptors.
var StatusStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "statusstore.StatusStore",
	HandlerType: (*StatusStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Import", Handler: _StatusStore_Import_Handler},
		{MethodName: "RecordHook", Handler: _StatusStore_RecordHook_Handler},
		{MethodName: "GetHookedCommitsSinceLastImport", Handler: _StatusStore_HookedCommits_Handler},
		{MethodName: "TotalAggregates", Handler: _StatusStore_TotalAggregates_Handler},
		{MethodName: "IntervalAggregates", Handler: _StatusStore_IntervalAggregates_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "statusstore.proto",
}
