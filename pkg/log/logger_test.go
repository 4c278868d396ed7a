package log

import (
	"testing"
	"time"
)

func TestNoopLoggerDiscards(t *testing.T) {
	var l Logger = NoopLogger{}

	// Should not panic, zero value included
	l.Log(Event{Timestamp: time.Now(), Stage: StageLayout})
	NoopLogger{}.Log(Event{})
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageLayout, "LAYOUT"},
		{StageBind, "BIND"},
		{StageRemap, "REMAP"},
		{StageConnect, "CONNECT"},
		{Stage(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("Stage(%d).String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}

func TestParseStage(t *testing.T) {
	st, ok := ParseStage("remap")
	if !ok || st != StageRemap {
		t.Errorf("ParseStage(remap) = %v, %v; want REMAP, true", st, ok)
	}
	if _, ok := ParseStage("frobnicate"); ok {
		t.Error("ParseStage accepted an unknown stage")
	}
}

func TestParseCategory(t *testing.T) {
	for c := CategoryField; c <= CategoryError; c++ {
		got, ok := ParseCategory(c.String())
		if !ok || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, ok)
		}
	}
	if _, ok := ParseCategory("message"); ok {
		t.Error("ParseCategory accepted an unknown category")
	}
}
