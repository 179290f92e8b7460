package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	if !New("debug").Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug level should be enabled for LOG_LEVEL=debug")
	}
	if New("info").Desugar().Core().Enabled(zapcore.DebugLevel) {
		t.Fatal("debug level should be disabled by default")
	}
}
