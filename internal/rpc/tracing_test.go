package rpc

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func newObservedInterceptor() (grpc.UnaryServerInterceptor, *observer.ObservedLogs) {
	core, logs := observer.New(zap.InfoLevel)
	return tracingUnaryInterceptor(zap.New(core)), logs
}

func TestSplitFullMethod(t *testing.T) {
	attrs := splitFullMethod("/statusstore.StatusStore/Import")
	if attrs.service != "statusstore.StatusStore" || attrs.method != "Import" {
		t.Fatalf("got %+v", attrs)
	}
}

func TestTracingUnaryInterceptor_AttachesAttributesOnSuccess(t *testing.T) {
	interceptor, logs := newObservedInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/statusstore.StatusStore/Import"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	if _, err := interceptor(context.Background(), nil, info, handler); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["rpc.system"] != "grpc" || fields["rpc.service"] != "statusstore.StatusStore" || fields["rpc.method"] != "Import" {
		t.Fatalf("unexpected attributes: %+v", fields)
	}
}

func TestTracingUnaryInterceptor_LogsMappedErrorCodeWithoutExtraEntry(t *testing.T) {
	interceptor, logs := newObservedInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/statusstore.StatusStore/RecordHook"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.InvalidArgument, "bad request")
	}

	if _, err := interceptor(context.Background(), nil, info, handler); err == nil {
		t.Fatal("expected error to pass through")
	}
	if len(logs.All()) != 1 {
		t.Fatalf("expected exactly 1 log entry for a mapped status error, got %d", len(logs.All()))
	}
}

func TestTracingUnaryInterceptor_LogsUnmappedErrorSeparately(t *testing.T) {
	interceptor, logs := newObservedInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/statusstore.StatusStore/Import"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	}

	if _, err := interceptor(context.Background(), nil, info, handler); err == nil {
		t.Fatal("expected error to pass through")
	}
	if len(logs.All()) != 2 {
		t.Fatalf("expected the rpc summary plus an unmapped-error entry, got %d", len(logs.All()))
	}
}
