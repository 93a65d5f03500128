package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// captureOutput redirects stdout while fn runs and returns what was written.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	var buf strings.Builder
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		raw, _ := io.ReadAll(r)
		buf.Write(raw)
	}()

	fn()

	_ = w.Close()
	os.Stdout = orig
	wg.Wait()
	return buf.String()
}

func TestInitTextFormat(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{Level: "info", Format: FormatText, Component: "api_server"})
		Info("hello", "key", "value")
	})

	if !strings.Contains(out, "hello") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out, "component=api_server") {
		t.Errorf("expected component attribute, got %q", out)
	}
	if !strings.Contains(out, "key=value") {
		t.Errorf("expected attribute, got %q", out)
	}
}

func TestInitJSONFormat(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{Level: "info", Format: FormatJSON})
		Info("structured")
	})

	if !strings.Contains(out, `"msg":"structured"`) {
		t.Errorf("expected JSON output, got %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	out := captureOutput(t, func() {
		Init(&Config{Level: "warn", Format: FormatText})
		Debug("too quiet")
		Info("still too quiet")
		Warn("loud enough")
	})

	if strings.Contains(out, "too quiet") {
		t.Errorf("expected debug/info suppressed, got %q", out)
	}
	if !strings.Contains(out, "loud enough") {
		t.Errorf("expected warn logged, got %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Leveler{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestLReturnsNonNil(t *testing.T) {
	mu.Lock()
	logger = nil
	mu.Unlock()

	if L() == nil {
		t.Fatal("L() returned nil")
	}
}

func TestFileSinkWritesRotatingLog(t *testing.T) {
	dir := t.TempDir()
	captureOutput(t, func() {
		Init(&Config{Level: "info", Format: FormatText, Directory: dir, MaxSize: 1})
		Info("to file")
	})

	name := filepath.Join(dir, "fmk-"+time.Now().Format("2006-01-02")+".log")
	raw, err := os.ReadFile(name)
	if err != nil {
		t.Fatalf("expected log file %s: %v", name, err)
	}
	if !strings.Contains(string(raw), "to file") {
		t.Errorf("expected message in file, got %q", string(raw))
	}
}
