package grpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// DefaultClientDialOptions returns standard dial options for in-process clients.
// Includes OTel gRPC instrumentation so that every outbound call propagates trace
// context automatically when a TracerProvider is registered.
func DefaultClientDialOptions() []gogrpc.DialOption {
	return []gogrpc.DialOption{
		gogrpc.WithTransportCredentials(insecure.NewCredentials()),
		gogrpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	}
}

// CheckHealth connects to addr and waits until its health service reports SERVING.
func CheckHealth(ctx context.Context, addr string, logger zerolog.Logger, opts ...gogrpc.DialOption) error {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return fmt.Errorf("gRPC address is required")
	}
	conn, err := gogrpc.NewClient(addr, append(DefaultClientDialOptions(), opts...)...)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()
	return WaitForHealth(ctx, conn, "", logger)
}
