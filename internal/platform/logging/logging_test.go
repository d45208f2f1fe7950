package logging

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewTagsServiceAndFiltersLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Service: "studio", Level: "warn", Output: &buf})

	logger.Info().Msg("hidden")
	logger.Warn().Str("tenant_id", "t-1").Msg("visible")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %s", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal(lines[0], &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["service"] != "studio" {
		t.Fatalf("service = %v, want studio", entry["service"])
	}
	if entry["message"] != "visible" {
		t.Fatalf("message = %v, want visible", entry["message"])
	}
	if entry["tenant_id"] != "t-1" {
		t.Fatalf("tenant_id = %v, want t-1", entry["tenant_id"])
	}
}

func TestNewDefaultsToInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Level: "loud", Output: &buf})
	logger.Debug().Msg("debug")
	logger.Info().Msg("info")

	if bytes.Contains(buf.Bytes(), []byte(`"debug"`)) && bytes.Contains(buf.Bytes(), []byte(`"message":"debug"`)) {
		t.Fatalf("debug message should be filtered: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"message":"info"`)) {
		t.Fatalf("expected info message: %s", buf.String())
	}
}
