package commands

import (
	"bytes"
	"strings"
	"testing"
)

func TestProbeLookup(t *testing.T) {
	p := NewProber(loadTestDevice(t, "regs.yaml"))

	tests := []struct {
		line string
		want string
	}{
		{"0x0", "0x0: ctrl (RegisterControl, read-write)"},
		{"lookup 0x5", "0x5: status (RegisterControl, read-only)"},
		{"l 0x44", "0x44: fifo[1] (BlockMemoryPort, read-write)"},
		{"0x7f", "0x7f: fifo[15]"},
		{"0x84", "0x84: dma.dst"},
		{"0x10", "0x10: unmapped"},
		{"0x88", "0x88: unmapped"},
		{"nope", "Error: invalid address"},
		{"lookup", "usage: lookup"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if !p.Exec(tt.line, &buf) {
			t.Fatalf("Exec(%q) ended the session", tt.line)
		}
		if !strings.Contains(buf.String(), tt.want) {
			t.Errorf("Exec(%q) = %q, want %q", tt.line, buf.String(), tt.want)
		}
	}
}

func TestProbeLookupRemapped(t *testing.T) {
	p := NewProber(loadTestDevice(t, "swap.yaml"))

	var buf bytes.Buffer
	p.Exec("0 1 2 3 4", &buf)
	output := buf.String()

	for _, want := range []string{
		"0x0: lanes[1].cfg",
		"0x1: lanes[1].data (RegisterControl, write-only)",
		"0x2: lanes[0].cfg",
		"0x3: lanes[0].data",
		"0x4: unmapped",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestProbeEval(t *testing.T) {
	p := NewProber(loadTestDevice(t, "regs.yaml"))

	var buf bytes.Buffer
	p.Exec("eval 0x44", &buf)
	output := buf.String()
	if !strings.Contains(output, "in_range = 1") {
		t.Errorf("expected in range, got:\n%s", output)
	}
	if !strings.Contains(output, "hit fifo local=0x4") {
		t.Errorf("expected fifo hit, got:\n%s", output)
	}
	if strings.Count(output, "hit ") != 1 {
		t.Errorf("expected exactly one hit, got:\n%s", output)
	}

	buf.Reset()
	p.Exec("e 0xff", &buf)
	if !strings.Contains(buf.String(), "in_range = 0") {
		t.Errorf("expected out of range, got:\n%s", buf.String())
	}

	buf.Reset()
	p.Exec("eval 0x100", &buf)
	if !strings.Contains(buf.String(), "does not fit in 8 address bits") {
		t.Errorf("expected width error, got:\n%s", buf.String())
	}

	buf.Reset()
	p.Exec("eval", &buf)
	if !strings.Contains(buf.String(), "usage: eval") {
		t.Errorf("expected usage, got:\n%s", buf.String())
	}
}

func TestProbeSession(t *testing.T) {
	p := NewProber(loadTestDevice(t, "regs.yaml"))

	var buf bytes.Buffer
	if !p.Exec("   ", &buf) {
		t.Error("blank line ended the session")
	}
	if !p.Exec("help", &buf) || !strings.Contains(buf.String(), "Commands:") {
		t.Error("help did not print the command list")
	}
	buf.Reset()
	if !p.Exec("map", &buf) || !strings.Contains(buf.String(), "Regs on axi4lite") {
		t.Error("map did not print the address map")
	}
	if p.Exec("quit", &buf) {
		t.Error("quit did not end the session")
	}
}
