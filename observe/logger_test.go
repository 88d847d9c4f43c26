package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		out = append(out, entry)
	}
	return out
}

func TestLogger_IncludesOperationFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf).WithOperation(OpMeta{
		Kind:       KindQuery,
		Name:       "users",
		ResultType: "[]main.User",
		FilterType: "string",
	})

	logger.Info(context.Background(), "query execution completed", Field{Key: "duration_ms", Value: 12.5})

	entries := decodeLines(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]

	want := map[string]any{
		"op.id":          "query.users",
		"op.kind":        "query",
		"op.name":        "users",
		"op.result_type": "[]main.User",
		"op.filter_type": "string",
		"level":          "info",
		"msg":            "query execution completed",
		"duration_ms":    12.5,
	}
	for k, v := range want {
		if e[k] != v {
			t.Errorf("%s = %v, want %v", k, e[k], v)
		}
	}
	if _, ok := e["timestamp"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestLogger_ExecutionIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)

	ctx := WithExecutionID(context.Background(), "exec-1")
	logger.Debug(ctx, "lookup")

	entries := decodeLines(t, &buf)
	if entries[0]["execution_id"] != "exec-1" {
		t.Fatalf("expected execution_id exec-1, got %v", entries[0]["execution_id"])
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "msg",
		Field{Key: "filter", Value: map[string]any{"email": "a@b.c"}},
		Field{Key: "input", Value: "secret input"},
		Field{Key: "token", Value: "abc"},
		Field{Key: "safe", Value: "visible"},
	)

	e := decodeLines(t, &buf)[0]
	for _, k := range []string{"filter", "input", "token"} {
		if e[k] != "[REDACTED]" {
			t.Errorf("%s should be redacted, got %v", k, e[k])
		}
	}
	if e["safe"] != "visible" {
		t.Errorf("safe = %v, want visible", e["safe"])
	}
}

func TestLogger_ErrorValuesAreStrings(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter("info", &buf).Error(context.Background(), "failed", Field{Key: "error", Value: errors.New("boom")})

	if got := decodeLines(t, &buf)[0]["error"]; got != "boom" {
		t.Fatalf("error = %v, want boom", got)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{level: "debug", want: []string{"debug", "info", "warn", "error"}},
		{level: "info", want: []string{"info", "warn", "error"}},
		{level: "warn", want: []string{"warn", "error"}},
		{level: "error", want: []string{"error"}},
		{level: "bogus", want: []string{"info", "warn", "error"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLoggerWithWriter(tt.level, &buf)
			ctx := context.Background()
			logger.Debug(ctx, "d")
			logger.Info(ctx, "i")
			logger.Warn(ctx, "w")
			logger.Error(ctx, "e")

			entries := decodeLines(t, &buf)
			if len(entries) != len(tt.want) {
				t.Fatalf("expected %d entries, got %d", len(tt.want), len(entries))
			}
			for i, lvl := range tt.want {
				if entries[i]["level"] != lvl {
					t.Errorf("entry %d level = %v, want %s", i, entries[i]["level"], lvl)
				}
			}
		})
	}
}

func TestLogger_DerivedLoggersShareWriter(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter("info", &buf).(*structuredLogger)
	base.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	a := base.WithOperation(OpMeta{Kind: KindQuery, Name: "a"})
	b := base.WithOperation(OpMeta{Kind: KindMutation, Name: "b"})
	a.Info(context.Background(), "from a")
	b.Info(context.Background(), "from b")

	entries := decodeLines(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1]["op.kind"] != "mutation" {
		t.Errorf("op.kind = %v, want mutation", entries[1]["op.kind"])
	}
	if entries[0]["timestamp"] != "2026-01-02T03:04:05Z" {
		t.Errorf("timestamp = %v", entries[0]["timestamp"])
	}
	if _, leaked := entries[0]["op.result_type"]; leaked {
		t.Error("empty result type should not be logged")
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error"} {
		if got := ParseLogLevel(s).String(); got != s {
			t.Errorf("ParseLogLevel(%q).String() = %q", s, got)
		}
	}
}
