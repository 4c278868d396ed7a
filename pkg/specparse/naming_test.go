package specparse

import "testing"

func TestFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"RegBank", "reg-bank"},
		{"Regs", "regs"},
		{"DmaEngine", "dma-engine"},
		{"TimerBlock", "timer-block"},
	}
	for _, tt := range tests {
		got := FileName(tt.in)
		if got != tt.want {
			t.Errorf("FileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConstName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ctrl", "CTRL"},
		{"dma.src", "DMA_SRC"},
		{"bank[1]", "BANK_1"},
		{"lanes[0].x", "LANES_0_X"},
		{"ctrl_reg", "CTRL_REG"},
	}
	for _, tt := range tests {
		got := ConstName(tt.in)
		if got != tt.want {
			t.Errorf("ConstName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGoName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ctrl", "Ctrl"},
		{"dma.src", "DmaSrc"},
		{"ctrl_reg", "CtrlReg"},
		{"bank[1]", "Bank1"},
		{"", ""},
	}
	for _, tt := range tests {
		got := GoName(tt.in)
		if got != tt.want {
			t.Errorf("GoName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
