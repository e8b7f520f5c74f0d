package logger

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Adda-Baaj/chargily-pay/internal/config"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestZapLoggerWritesStructuredField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := New(zap.New(core))

	log.InfoObj("event received", "event_meta", map[string]any{"event_id": "evt_1"})
	log.DebugObj("debug", "k", 1)
	log.WarnObj("warn", "k", 2)
	log.ErrorObj("error", "k", 3)

	if logs.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "event received" {
		t.Fatalf("message = %q", entry.Message)
	}
	if _, ok := entry.ContextMap()["event_meta"]; !ok {
		t.Fatalf("missing event_meta field: %v", entry.ContextMap())
	}
}

func TestInitWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receiver.log")
	log, err := Init(&config.Config{AppName: "test", LogLevel: "info", LogFile: path})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { S = nil })

	log.InfoObj("hello", "k", "v")
	_ = Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("log file is empty")
	}
}

func TestPackageHelpersAreSafeBeforeInit(t *testing.T) {
	S = nil
	InfoObj("x", "k", 1)
	ErrorObj("x", "k", 1)
	if err := Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
