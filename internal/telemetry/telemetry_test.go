package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/szaher/mapskey/internal/defines"
	"github.com/szaher/mapskey/internal/secrets"
)

func TestNewLogger_JSONRedacted(t *testing.T) {
	var buf bytes.Buffer
	logger, filter := NewLogger(&buf, slog.LevelInfo, "json")
	filter.AddSecret("AIzaSecretValue")

	ctx := WithRunID(context.Background(), "01HZRUN")
	RunLogger(ctx, logger, "MAPS_API_KEY").Info("resolved", "key", "AIzaSecretValue")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["key"] != secrets.Redacted {
		t.Errorf("key = %v, want %s", entry["key"], secrets.Redacted)
	}
	if entry["run_id"] != "01HZRUN" || entry["variable"] != "MAPS_API_KEY" {
		t.Errorf("missing run attributes: %v", entry)
	}
}

func TestNewLogger_TextLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := NewLogger(&buf, slog.LevelWarn, "text")
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "msg=shown") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "": slog.LevelInfo, "WARN": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestWithRunID_Generates(t *testing.T) {
	ctx := WithRunID(context.Background(), "")
	if len(RunID(ctx)) != 26 {
		t.Errorf("expected a 26 character ULID, got %q", RunID(ctx))
	}
	if RunID(context.Background()) != "" {
		t.Error("expected empty run id on bare context")
	}
}

func TestMetrics_RecordResolution(t *testing.T) {
	m := NewMetrics()
	m.now = func() time.Time { return time.Unix(1700000000, 0) }

	m.RecordResolution(secrets.Resolution{Value: "k", Source: secrets.SourceEnv}, nil)
	m.RecordResolution(secrets.Resolution{
		Source:  secrets.SourcePlaceholder,
		Skipped: []defines.Skipped{{Index: 0}, {Index: 2}},
	}, &secrets.MissingConfigurationError{Variable: "MAPS_API_KEY"})
	m.RecordResolution(secrets.Resolution{}, errors.New("decoding dart defines: bad token"))

	if got := promtest.ToFloat64(m.resolutions.WithLabelValues("env", OutcomeOK)); got != 1 {
		t.Errorf("env/ok = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.resolutions.WithLabelValues("placeholder", OutcomeMissing)); got != 1 {
		t.Errorf("placeholder/missing = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.resolutions.WithLabelValues("none", OutcomeError)); got != 1 {
		t.Errorf("none/error = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.skippedDefines); got != 2 {
		t.Errorf("skipped = %v, want 2", got)
	}
	if got := promtest.ToFloat64(m.lastResolution); got != 1700000000 {
		t.Errorf("last resolution = %v", got)
	}
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RecordResolution(secrets.Resolution{Value: "k", Source: secrets.SourceDefines}, nil)

	path := filepath.Join(t.TempDir(), "mapskey.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `mapskey_resolutions_total{outcome="ok",source="defines"} 1`) {
		t.Errorf("unexpected textfile contents:\n%s", data)
	}
}
