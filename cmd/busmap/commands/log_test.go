package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/busmap/busmap-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.blog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

// elaborationLog elaborates a test device with a file logger attached.
func elaborationLog(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elab.blog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	_, _, err = Load(LoadOptions{DefPath: filepath.Join("testdata", name), Logger: logger})
	logger.Close()
	if err != nil {
		t.Fatalf("Load(%s) failed: %v", name, err)
	}
	return path
}

func TestLogViewElaboration(t *testing.T) {
	path := elaborationLog(t, "swap.yaml")

	var buf bytes.Buffer
	if err := RunLogView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunLogView failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"BIND    FIELD      Swap",
		"lanes[1].data [96, 128) bits -> RegisterControl<32> write-only",
		"REMAP   REGION",
		"[0x0, 0x2) -> 0x2 aligned",
		"SUMMARY",
		"4 entries, [0x0, 0x4), width 2, step 32",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestLogViewFilter(t *testing.T) {
	path := elaborationLog(t, "swap.yaml")

	stage, err := ParseStageFlag("remap")
	if err != nil {
		t.Fatalf("ParseStageFlag failed: %v", err)
	}

	var buf bytes.Buffer
	if err := RunLogView(path, log.Filter{Stage: stage}, &buf); err != nil {
		t.Fatalf("RunLogView failed: %v", err)
	}
	output := buf.String()
	if got := strings.Count(output, "REMAP"); got != 2 {
		t.Errorf("REMAP events = %d, want 2:\n%s", got, output)
	}
	if strings.Contains(output, "FIELD") {
		t.Errorf("unexpected field events:\n%s", output)
	}
}

func TestLogViewError(t *testing.T) {
	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	events := []log.Event{{
		Timestamp:     ts,
		ElaborationID: "0123456789abcdef",
		Stage:         log.StageRemap,
		Category:      log.CategoryError,
		Subject:       "Regs",
		Error:         &log.ErrorEventData{Stage: log.StageRemap, Message: "regions overlap", Class: "configuration error"},
	}}
	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	if err := RunLogView(path, log.Filter{}, &buf); err != nil {
		t.Fatalf("RunLogView failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "2026-03-02T09:30:00.000000Z [elab:01234567] REMAP   ERROR      Regs") {
		t.Errorf("unexpected header:\n%s", output)
	}
	if !strings.Contains(output, "configuration error: regions overlap") {
		t.Errorf("unexpected details:\n%s", output)
	}
}

func TestLogStats(t *testing.T) {
	path := elaborationLog(t, "regs.yaml")

	var buf bytes.Buffer
	if err := RunLogStats(path, &buf); err != nil {
		t.Fatalf("RunLogStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total events: 6",
		"Elaborations: 1",
		"Errors: 0",
		"BIND: 6",
		"FIELD: 5",
		"SUMMARY: 1",
		" Regs\n",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if strings.Contains(output, "REMAP:") {
		t.Errorf("unexpected remap stage:\n%s", output)
	}
}

func TestLogMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.blog")
	if err := RunLogView(missing, log.Filter{}, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
	if err := RunLogStats(missing, &bytes.Buffer{}); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseFlags(t *testing.T) {
	if st, err := ParseStageFlag(""); err != nil || st != nil {
		t.Errorf("ParseStageFlag(\"\") = %v, %v", st, err)
	}
	if st, err := ParseStageFlag("Connect"); err != nil || *st != log.StageConnect {
		t.Errorf("ParseStageFlag(Connect) = %v, %v", st, err)
	}
	if _, err := ParseStageFlag("wire"); err == nil {
		t.Error("expected error for unknown stage")
	}

	if c, err := ParseCategoryFlag("error"); err != nil || *c != log.CategoryError {
		t.Errorf("ParseCategoryFlag(error) = %v, %v", c, err)
	}
	if _, err := ParseCategoryFlag("frame"); err == nil {
		t.Error("expected error for unknown category")
	}
}
