package grpc

import (
	"context"
	"errors"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServer serves grpc.health.v1 for orchestrator health checks.
type HealthServer struct {
	server *gogrpc.Server
	health *health.Server
}

// NewHealthServer returns a server that reports NOT_SERVING until
// SetServing is called.
func NewHealthServer(opts ...gogrpc.ServerOption) *HealthServer {
	opts = append([]gogrpc.ServerOption{gogrpc.StatsHandler(otelgrpc.NewServerHandler())}, opts...)
	server := gogrpc.NewServer(opts...)
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	reflection.Register(server)
	return &HealthServer{server: server, health: healthServer}
}

// SetServing updates the status reported for service; "" is the overall
// server status.
func (s *HealthServer) SetServing(service string, serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(service, status)
}

// Serve accepts connections on listener until ctx ends, then drains
// in-flight calls.
func (s *HealthServer) Serve(ctx context.Context, listener net.Listener) error {
	if listener == nil {
		return errors.New("gRPC listener is required")
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.server.GracefulStop()
		<-serveErr
		return nil
	case err := <-serveErr:
		if errors.Is(err, gogrpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}
