package rpc

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/buildsignal/statusstore/internal/sqlitestore"
)

// GRPCServer bundles the listener and grpc.Server for the status-store
// service, grounded on the ledger component's ServerGRPC wrapper: a thin
// owner of the listening socket and the *grpc.Server instance, with no
// logic of its own beyond wiring the two together.
type GRPCServer struct {
	listener net.Listener
	server   *grpc.Server
	addr     string
}

// NewGRPCServer binds addr and registers the status-store service (backed
// by pool) plus the standard gRPC health service, which always reports
// SERVING for this service name — the store has no dependency it could
// report as unhealthy beyond the embedded database, which each RPC already
// surfaces failures for directly.
func NewGRPCServer(addr string, pool *sqlitestore.Pool, log *zap.Logger) (*GRPCServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("rpc: listen on %s: %w", addr, err)
	}

	server := grpc.NewServer(grpc.UnaryInterceptor(tracingUnaryInterceptor(log)))
	RegisterStatusStoreServer(server, NewServer(pool, log))

	healthSrv := health.NewServer()
	healthSrv.SetServingStatus("statusstore.StatusStore", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthSrv)

	return &GRPCServer{listener: listener, server: server, addr: addr}, nil
}

// Addr returns the bound listen address (useful when addr was ":0").
func (g *GRPCServer) Addr() string {
	return g.listener.Addr().String()
}

// Serve blocks, accepting connections until Stop is called.
func (g *GRPCServer) Serve() error {
	return g.server.Serve(g.listener)
}

// Stop gracefully drains in-flight RPCs, falling back to a hard stop if
// draining doesn't finish within timeout so an in-flight RPC can never
// hang daemon shutdown indefinitely.
func (g *GRPCServer) Stop(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		g.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		g.server.Stop()
	}
}
