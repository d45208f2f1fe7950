// Package studio parses studio command flags and runs the HTTP and gRPC
// health servers.
package studio

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	entrypoint "github.com/louisbranch/printstudio/internal/platform/cmd"
	platformgrpc "github.com/louisbranch/printstudio/internal/platform/grpc"
	"github.com/louisbranch/printstudio/internal/platform/i18n"
	"github.com/louisbranch/printstudio/internal/platform/logging"
	"github.com/louisbranch/printstudio/internal/platform/otel"
	"github.com/louisbranch/printstudio/internal/platform/timeouts"
	"github.com/louisbranch/printstudio/internal/services/studio/app"
	"github.com/louisbranch/printstudio/internal/services/studio/commerce"
	"github.com/louisbranch/printstudio/internal/services/studio/identity"
	"github.com/louisbranch/printstudio/internal/services/studio/roleroute"
	"github.com/louisbranch/printstudio/internal/services/studio/storage/sqlite"
)

// Config holds studio command configuration.
type Config struct {
	HTTPAddr      string  `env:"HTTP_ADDR" envDefault:":8080"`
	GRPCAddr      string  `env:"GRPC_ADDR" envDefault:"127.0.0.1:8081"`
	DBPath        string  `env:"DB_PATH" envDefault:"data/studio.db"`
	SessionSecret string  `env:"SESSION_SECRET"`
	Issuer        string  `env:"SESSION_ISSUER" envDefault:"printstudio"`
	RoleInfoURL   string  `env:"ROLE_INFO_URL"`
	SecureCookies bool    `env:"SECURE_COOKIES" envDefault:"true"`
	LogLevel      string  `env:"LOG_LEVEL" envDefault:"info"`
	LogConsole    bool    `env:"LOG_CONSOLE"`
	OTelEndpoint  string  `env:"OTEL_ENDPOINT"`
	OTelSample    float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`

	// CheckHealth checks the gRPC health of a running studio and exits.
	CheckHealth bool
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "gRPC health listen address (empty disables)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	fs.StringVar(&cfg.RoleInfoURL, "role-info-url", cfg.RoleInfoURL, "Role-info service base URL (empty uses the local store)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.BoolVar(&cfg.LogConsole, "log-console", cfg.LogConsole, "Human-readable log output")
	fs.BoolVar(&cfg.SecureCookies, "secure-cookies", cfg.SecureCookies, "Mark cookies Secure")
	fs.BoolVar(&cfg.CheckHealth, "check-health", false, "Check gRPC health of a running studio and exit")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the studio service and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	logger := logging.New(logging.Config{
		Service: entrypoint.ServiceStudio,
		Level:   cfg.LogLevel,
		Console: cfg.LogConsole,
	})
	if cfg.CheckHealth {
		checkCtx, cancel := context.WithTimeout(ctx, timeouts.ReadHeader)
		defer cancel()
		return platformgrpc.CheckHealth(checkCtx, cfg.GRPCAddr, logger)
	}
	options := entrypoint.RunOptions{
		ShutdownTimeout: timeouts.Shutdown,
		Logger:          logger,
		Telemetry: otel.Config{
			Endpoint:    cfg.OTelEndpoint,
			SampleRatio: cfg.OTelSample,
		},
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceStudio, options, func(ctx context.Context) error {
		return serve(ctx, cfg, logger)
	})
}

func serve(ctx context.Context, cfg Config, logger zerolog.Logger) error {
	if err := i18n.Init(); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}
	handler, closeStore, err := buildHandler(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn().Err(err).Msg("close store")
		}
	}()

	httpListener, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", cfg.HTTPAddr, err)
	}
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: timeouts.ReadHeader,
	}

	var health *platformgrpc.HealthServer
	var grpcListener net.Listener
	if addr := strings.TrimSpace(cfg.GRPCAddr); addr != "" {
		grpcListener, err = net.Listen("tcp", addr)
		if err != nil {
			_ = httpListener.Close()
			return fmt.Errorf("listen grpc %s: %w", addr, err)
		}
		health = platformgrpc.NewHealthServer()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info().Str("addr", httpListener.Addr().String()).Msg("http listening")
		if err := httpServer.Serve(httpListener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})
	if health != nil {
		group.Go(func() error {
			logger.Info().Str("addr", grpcListener.Addr().String()).Msg("grpc health listening")
			return health.Serve(groupCtx, grpcListener)
		})
		health.SetServing("", true)
	}
	logger.Info().Msg("studio started")

	err = group.Wait()
	logger.Info().Msg("studio stopped")
	return err
}

// buildHandler opens the store and assembles the HTTP handler. The returned
// func closes the store.
func buildHandler(cfg Config, logger zerolog.Logger) (http.Handler, func() error, error) {
	secret := strings.TrimSpace(cfg.SessionSecret)
	verifier, err := identity.NewVerifier(cfg.Issuer, []byte(secret))
	if err != nil {
		return nil, nil, fmt.Errorf("session verifier: %w", err)
	}
	var roleInfo roleroute.RoleInfo
	if raw := strings.TrimSpace(cfg.RoleInfoURL); raw != "" {
		client, err := identity.NewHTTPRoleInfo(raw, &http.Client{Timeout: 2 * timeouts.RoleInfo})
		if err != nil {
			return nil, nil, err
		}
		roleInfo = client
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	service, err := commerce.New(commerce.Config{
		Stores: commerce.Stores{
			Tenants:  store,
			Users:    store,
			Designs:  store,
			Products: store,
		},
		Logger: logger,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	studio, err := app.New(app.Config{
		Store:         store,
		Commerce:      service,
		Verifier:      verifier,
		RoleInfo:      roleInfo,
		Logger:        logger,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return studio.Handler(), store.Close, nil
}
