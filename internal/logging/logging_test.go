package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_JSONProduction(t *testing.T) {
	logger, err := New("info", "json")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if logger == nil {
		t.Fatal("expected a logger")
	}
}

func TestNew_UnrecognizedLevelFallsBackToInfo(t *testing.T) {
	logger, err := New("not-a-level", "console")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info level to be enabled by fallback")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug should not be enabled at the info fallback level")
	}
}
