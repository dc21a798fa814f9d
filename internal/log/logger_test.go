package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelInfo)

	logger.Info("artifact written", "file", "Hero.tsx")
	logger.Debug("raw response")

	output := buf.String()
	if !strings.Contains(output, "artifact written") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, "file=Hero.tsx") {
		t.Errorf("expected output to contain 'file=Hero.tsx', got: %s", output)
	}
	if strings.Contains(output, "raw response") {
		t.Errorf("debug message should be filtered at info level, got: %s", output)
	}
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		logFunc func(Logger)
	}{
		{name: "Debug", logFunc: func(l Logger) { l.Debug("debug msg") }},
		{name: "Info", logFunc: func(l Logger) { l.Info("info msg") }},
		{name: "Warn", logFunc: func(l Logger) { l.Warn("warn msg") }},
		{name: "Error", logFunc: func(l Logger) { l.Error("error msg") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

			tt.logFunc(logger)

			output := buf.String()
			if !strings.Contains(output, strings.ToLower(tt.name)+" msg") {
				t.Errorf("expected message in output, got: %s", output)
			}
			if !strings.Contains(output, strings.ToUpper(tt.name)) {
				t.Errorf("expected level %q in output, got: %s", tt.name, output)
			}
		})
	}
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.With("run_id", "01J0000000").With("stage", "parsing").Warn("artifact rejected")

	output := buf.String()
	for _, want := range []string{"run_id=01J0000000", "stage=parsing", "artifact rejected"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got: %s", want, output)
		}
	}
}

func TestLevelFromFlags(t *testing.T) {
	tests := []struct {
		name                  string
		quiet, verbose, debug bool
		env                   string
		want                  slog.Level
	}{
		{name: "default", want: slog.LevelWarn},
		{name: "quiet", quiet: true, want: slog.LevelError},
		{name: "verbose", verbose: true, want: slog.LevelInfo},
		{name: "debug", debug: true, want: slog.LevelDebug},
		{name: "debug beats quiet", quiet: true, debug: true, want: slog.LevelDebug},
		{name: "env override", quiet: true, env: "info", want: slog.LevelInfo},
		{name: "invalid env ignored", verbose: true, env: "loud", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogLevel, tt.env)
			if got := LevelFromFlags(tt.quiet, tt.verbose, tt.debug); got != tt.want {
				t.Errorf("LevelFromFlags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNoopLoggerWith(t *testing.T) {
	logger := NewNoop()
	logger.Info("should not panic")

	if _, ok := logger.With("key", "value").(noopLogger); !ok {
		t.Error("expected With() on noopLogger to return noopLogger")
	}
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	Default().Info("should not panic")

	var buf bytes.Buffer
	SetDefault(NewText(&buf, slog.LevelDebug))
	Default().Info("custom logger message")

	if !strings.Contains(buf.String(), "custom logger message") {
		t.Errorf("expected custom logger to be used, got: %s", buf.String())
	}
}

func TestDefaultLoggerConcurrency(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				Default().Info("concurrent read")
			}
			done <- true
		}()
		go func() {
			for j := 0; j < 100; j++ {
				SetDefault(NewNoop())
			}
			done <- true
		}()
	}

	for i := 0; i < 20; i++ {
		<-done
	}
}
