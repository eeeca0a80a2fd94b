package rpc

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// spanAttributes holds the request-scoped fields attached to every RPC,
// grounded on the original Rust store's WithTelemetry tower::Service, which
// tags each call with rpc.system/rpc.service/rpc.method and records its
// outcome once it returns.
type spanAttributes struct {
	service string
	method  string
}

// splitFullMethod breaks a grpc FullMethod ("/statusstore.StatusStore/Import")
// into its service and method parts, matching the req.uri().path() slicing
// WithTelemetry does against the HTTP/2 request path.
func splitFullMethod(fullMethod string) spanAttributes {
	trimmed := strings.TrimPrefix(fullMethod, "/")
	service, method, ok := strings.Cut(trimmed, "/")
	if !ok {
		return spanAttributes{service: trimmed}
	}
	return spanAttributes{service: service, method: method}
}

// tracingUnaryInterceptor attaches rpc.system/rpc.service/rpc.method span
// attributes to every unary call and logs its outcome and latency, the Go
// equivalent of the original Rust store's WithTelemetry wrapper: there
// is no tower middleware stack here, so the attributes are carried on the
// zap logger instead of an OpenTelemetry span, but the attribute set and
// the "one wrapper around every RPC" placement match.
func tracingUnaryInterceptor(log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		attrs := splitFullMethod(info.FullMethod)
		start := time.Now()

		resp, err := handler(ctx, req)

		log.Info("rpc",
			zap.String("rpc.system", "grpc"),
			zap.String("rpc.service", attrs.service),
			zap.String("rpc.method", attrs.method),
			zap.String("rpc.code", status.Code(err).String()),
			zap.Duration("rpc.duration", time.Since(start)),
		)
		if err != nil && status.Code(err) == codes.Unknown {
			log.Error("rpc handler returned unmapped error",
				zap.String("rpc.service", attrs.service),
				zap.String("rpc.method", attrs.method),
				zap.Error(err),
			)
		}
		return resp, err
	}
}
