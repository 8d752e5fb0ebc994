package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLoggerNotNil(t *testing.T) {
	logger := NewLogger(Config{Output: &bytes.Buffer{}})
	if logger == nil {
		t.Fatal("expected logger to be non-nil")
	}
}

func TestNewLoggerTextFormatWithInfoLevel(t *testing.T) {
	logger := NewLogger(Config{Format: "text", Level: "info", Output: &bytes.Buffer{}})

	if enabled := logger.Enabled(context.Background(), slog.LevelInfo); !enabled {
		t.Fatal("expected info level to be enabled")
	}
	if enabled := logger.Enabled(context.Background(), slog.LevelDebug); enabled {
		t.Fatal("expected debug level to be disabled")
	}
}

func TestNewLoggerDebugLevel(t *testing.T) {
	logger := NewLogger(Config{Level: "DEBUG", Output: &bytes.Buffer{}})
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug level to be enabled")
	}
}

func TestNewLoggerJSONIncludesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Service: "scoreboard", Version: "v1", Output: &buf})

	logger.Info("cycle complete", slog.Int(FieldCount, 3))

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "cycle complete" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry[FieldService] != "scoreboard" || entry[FieldVersion] != "v1" {
		t.Fatalf("expected service/version fields, got %v", entry)
	}
	if entry[FieldCount] != float64(3) {
		t.Fatalf("expected count field, got %v", entry[FieldCount])
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{
		"":        "info",
		"warning": "warn",
		"warn":    "warn",
		"error":   "error",
		"bogus":   "info",
	}
	for in, want := range cases {
		if got := parseLevel(in).String(); got != want {
			t.Fatalf("parseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestContextLogger(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if got := FromContext(context.Background(), fallback); got != fallback {
		t.Fatal("expected fallback logger")
	}

	var buf bytes.Buffer
	scoped := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := WithLogger(context.Background(), scoped)
	FromContext(ctx, fallback).Info("scoped")
	if !strings.Contains(buf.String(), "scoped") {
		t.Fatalf("expected scoped logger to be used, got %q", buf.String())
	}

	if WithLogger(ctx, nil) != ctx {
		t.Fatal("expected nil logger to leave context unchanged")
	}
}
