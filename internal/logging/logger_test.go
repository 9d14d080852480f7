package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/forPelevin/vismanifest/internal/config"
	"github.com/forPelevin/vismanifest/internal/logging"
)

func TestConsoleLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.With("component", "parser").Info("manifest parsed", "characters", 3, "title", "Lock Out")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line should be filtered: %q", out)
	}
	if !strings.Contains(out, "INFO  parser: manifest parsed characters=3 title=\"Lock Out\"") {
		t.Fatalf("unexpected console line: %q", out)
	}
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("unresolved character", "name", "GHOST")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid json line %q: %v", buf.String(), err)
	}
	if rec["level"] != "warn" || rec["msg"] != "unresolved character" || rec["name"] != "GHOST" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if _, ok := rec["ts"]; !ok {
		t.Fatalf("expected ts key: %v", rec)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	var buf bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("skipped")
	logger.Warn("kept")
	if out := buf.String(); strings.Contains(out, "skipped") || !strings.Contains(out, "kept") {
		t.Fatalf("level from config not applied: %q", out)
	}
}
