package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFunc_Levels(t *testing.T) {
	type entry struct {
		level Level
		msg   string
		ctx   map[string]any
	}
	var got []entry
	logger := Func(func(level Level, msg string, ctx map[string]any) {
		got = append(got, entry{level, msg, ctx})
	})

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w", Int("failed", 2))
	logger.Error("e", Err(errors.New("boom")), String("stream", "s"))

	wantLevels := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
	if len(got) != len(wantLevels) {
		t.Fatalf("got %d entries, want %d", len(got), len(wantLevels))
	}
	for i, want := range wantLevels {
		if got[i].level != want {
			t.Errorf("entry %d level = %s, want %s", i, got[i].level, want)
		}
	}
	if got[2].ctx["failed"] != 2 {
		t.Errorf("warn ctx = %v, want failed=2", got[2].ctx)
	}
	if got[3].ctx["error"] != "boom" {
		t.Errorf("error ctx error = %v, want boom", got[3].ctx["error"])
	}
	if got[3].ctx["stream"] != "s" {
		t.Errorf("error ctx stream = %v, want s", got[3].ctx["stream"])
	}
}

func TestZerologAdapter_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologAdapterWithWriter(&buf)

	logger.Warn("partial delivery failure",
		String("stream", "events"),
		Int("failed", 3),
		Bool("retryable", true),
		Duration("delay", 250*time.Millisecond),
		Err(errors.New("throttled")),
	)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}

	if line["level"] != "warn" {
		t.Errorf("level = %v, want warn", line["level"])
	}
	if line["message"] != "partial delivery failure" {
		t.Errorf("message = %v", line["message"])
	}
	if line["stream"] != "events" {
		t.Errorf("stream = %v, want events", line["stream"])
	}
	if line["failed"] != float64(3) {
		t.Errorf("failed = %v, want 3", line["failed"])
	}
	if line["retryable"] != true {
		t.Errorf("retryable = %v, want true", line["retryable"])
	}
	if line["error"] != "throttled" {
		t.Errorf("error = %v, want throttled", line["error"])
	}
}

func TestNoopLogger(t *testing.T) {
	var l Logger = NewNoopLogger()

	// Should not panic
	l.Debug("x")
	l.Info("x", String("k", "v"))
	l.Warn("x")
	l.Error("x", Err(errors.New("e")))
}

func TestZerologAdapter_PayloadLength(t *testing.T) {
	var buf bytes.Buffer
	NewZerologAdapterWithWriter(&buf).Info("skipped", Any("payload", []byte("abcd")))

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if line["payload_bytes"] != float64(4) {
		t.Errorf("payload_bytes = %v, want 4", line["payload_bytes"])
	}
	if _, ok := line["payload"]; ok {
		t.Error("raw payload was logged")
	}
}

func TestZerologAdapter_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZerologAdapterWithWriter(&buf).Logger().Level(zerolog.WarnLevel)
	logger := NewZerologAdapterWithLogger(zl)

	logger.Debug("hidden")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("below-level messages written: %q", buf.String())
	}
	logger.Error("shown")
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("error message missing: %q", buf.String())
	}
}
