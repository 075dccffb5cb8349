package logger

import (
	"context"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	l := Get()
	if l == nil {
		t.Fatal("logger is nil after initialization")
	}

	ctx := context.Background()
	l.Info(ctx, "info message", String("key", "value"))
	l.Debug(ctx, "debug message", Int("n", 1))
	l.Warn(ctx, "warn message", Bool("flag", true))
	l.Error(ctx, "error message", Any("thing", struct{}{}))

	named := l.Named("component")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(ctx, "named message")

	scoped := l.With(String("run_id", "abc"))
	if scoped == nil {
		t.Fatal("scoped logger is nil")
	}
	scoped.Info(ctx, "scoped message")
}

func TestSetLevelString(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", "DEBUG", " Info "} {
		if err := SetLevelString(level); err != nil {
			t.Errorf("SetLevelString(%q) failed: %v", level, err)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}
