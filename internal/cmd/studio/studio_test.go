package studio

import (
	"context"
	"flag"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("PRINTSTUDIO_SESSION_SECRET", testSecret)

	cfg, err := ParseConfig(flag.NewFlagSet("studio", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("http addr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Issuer != "printstudio" {
		t.Fatalf("issuer = %q, want printstudio", cfg.Issuer)
	}
	if cfg.SessionSecret != testSecret {
		t.Fatalf("session secret not read from env")
	}
	if !cfg.SecureCookies {
		t.Fatal("expected secure cookies by default")
	}
	if cfg.CheckHealth {
		t.Fatal("check health should default to false")
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("PRINTSTUDIO_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("PRINTSTUDIO_DB_PATH", "env.db")

	cfg, err := ParseConfig(flag.NewFlagSet("studio", flag.ContinueOnError), []string{
		"-http-addr", "127.0.0.1:9001",
		"-grpc-addr", "",
		"-secure-cookies=false",
		"-check-health",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9001" {
		t.Fatalf("http addr = %q", cfg.HTTPAddr)
	}
	if cfg.DBPath != "env.db" {
		t.Fatalf("db path = %q, want env.db", cfg.DBPath)
	}
	if cfg.GRPCAddr != "" {
		t.Fatalf("grpc addr = %q, want empty", cfg.GRPCAddr)
	}
	if cfg.SecureCookies || !cfg.CheckHealth {
		t.Fatalf("boolean flags not applied: %+v", cfg)
	}
}

func TestParseConfigRejectsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("studio", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := ParseConfig(fs, []string{"-nope"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}

func TestBuildHandlerRequiresSecret(t *testing.T) {
	t.Parallel()

	cfg := Config{Issuer: "printstudio", SessionSecret: "short", DBPath: filepath.Join(t.TempDir(), "studio.db")}
	if _, _, err := buildHandler(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for short session secret")
	}
}

func TestBuildHandlerRejectsBadRoleInfoURL(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Issuer:        "printstudio",
		SessionSecret: testSecret,
		DBPath:        filepath.Join(t.TempDir(), "studio.db"),
		RoleInfoURL:   "not a url",
	}
	if _, _, err := buildHandler(cfg, zerolog.Nop()); err == nil {
		t.Fatal("expected error for invalid role info url")
	}
}

func TestBuildHandlerServesHealth(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Issuer:        "printstudio",
		SessionSecret: testSecret,
		DBPath:        filepath.Join(t.TempDir(), "nested", "studio.db"),
	}
	handler, closeStore, err := buildHandler(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	t.Cleanup(func() { _ = closeStore() })

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cfg := Config{
		HTTPAddr:      "127.0.0.1:0",
		GRPCAddr:      "127.0.0.1:0",
		Issuer:        "printstudio",
		SessionSecret: testSecret,
		DBPath:        filepath.Join(t.TempDir(), "studio.db"),
		LogLevel:      "error",
	}
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not stop after cancel")
	}
}

func TestRunReportsListenFailure(t *testing.T) {
	t.Parallel()

	cfg := Config{
		HTTPAddr:      "256.0.0.1:bad",
		Issuer:        "printstudio",
		SessionSecret: testSecret,
		DBPath:        filepath.Join(t.TempDir(), "studio.db"),
		LogLevel:      "error",
	}
	err := Run(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "listen http") {
		t.Fatalf("err = %v, want listen http failure", err)
	}
}
