package log

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestGetSugaredLogger_FallsBackToNop(t *testing.T) {
	log = nil
	if GetSugaredLogger() == nil {
		t.Fatal("GetSugaredLogger returned nil before Init")
	}
	// Must not panic without Init.
	Warnw("uninitialized", "key", "value")
}

func TestInit(t *testing.T) {
	for _, debug := range []bool{false, true} {
		if err := Init(debug); err != nil {
			t.Fatalf("Init(%v): %v", debug, err)
		}
		l := GetSugaredLogger()
		if got := l.Desugar().Core().Enabled(zapcore.DebugLevel); got != debug {
			t.Errorf("Init(%v): debug enabled = %v", debug, got)
		}
	}
	log = nil
}
