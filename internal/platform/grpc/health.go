// Package grpc hosts the standard gRPC health service and the client helpers
// used to check it.
package grpc

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gogrpc "google.golang.org/grpc"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	healthCheckTimeout = time.Second
	healthBackoffStart = 200 * time.Millisecond
	healthBackoffMax   = time.Second
)

// WaitForHealth polls the health service until service reports SERVING or
// ctx ends. An empty service checks the server as a whole.
func WaitForHealth(ctx context.Context, conn *gogrpc.ClientConn, service string, logger zerolog.Logger) error {
	if conn == nil {
		return fmt.Errorf("gRPC connection is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := grpc_health_v1.NewHealthClient(conn)
	wait := healthBackoffStart
	for attempt := 1; ; attempt++ {
		status, err := checkHealth(ctx, client, service)
		if err == nil && status == grpc_health_v1.HealthCheckResponse_SERVING {
			logger.Debug().Str("service", service).Int("attempt", attempt).Msg("grpc health serving")
			return nil
		}
		event := logger.Debug().Str("service", service).Int("attempt", attempt)
		if err != nil {
			event = event.Err(err)
		} else {
			event = event.Stringer("status", status)
		}
		event.Msg("waiting for grpc health")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("wait for gRPC health: %w", ctx.Err())
		case <-timer.C:
		}
		wait = min(2*wait, healthBackoffMax)
	}
}

func checkHealth(ctx context.Context, client grpc_health_v1.HealthClient, service string) (grpc_health_v1.HealthCheckResponse_ServingStatus, error) {
	callCtx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	response, err := client.Check(callCtx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN, err
	}
	return response.GetStatus(), nil
}
