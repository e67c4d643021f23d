package logger

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/config"
)

func TestSetupReturnsLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		log, err := Setup(config.ServerConfig{Port: 8080, LogLevel: level})
		if err != nil {
			t.Fatalf("Setup(%q) returned error: %v", level, err)
		}
		if log == nil {
			t.Fatalf("Setup(%q) returned nil logger", level)
		}
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if got := FromContext(context.Background()); got != slog.Default() {
		t.Error("expected default logger when context carries none")
	}
}

func TestWithLoggerRoundTrip(t *testing.T) {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := WithLogger(context.Background(), log)

	if got := FromContext(ctx); got != log {
		t.Error("expected logger stored in context to be returned")
	}

	if got := FromContextOrDefault(ctx, slog.Default()); got != log {
		t.Error("context logger should win over the provided default")
	}
}

func TestFromContextOrDefaultPrefersProvidedDefault(t *testing.T) {
	def := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if got := FromContextOrDefault(context.Background(), def); got != def {
		t.Error("expected provided default when context carries no logger")
	}
}
