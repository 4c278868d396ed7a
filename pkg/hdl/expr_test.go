package hdl

import (
	"errors"
	"testing"
)

func TestBitHelpers(t *testing.T) {
	tests := []struct {
		x        uint64
		bitLen   int
		log2Ceil int
		addrW    int
	}{
		{0, 0, 1, 1},
		{1, 1, 1, 1},
		{2, 2, 1, 1},
		{3, 2, 2, 2},
		{4, 3, 2, 2},
		{5, 3, 3, 3},
		{8, 4, 3, 3},
		{9, 4, 4, 4},
	}
	for _, tt := range tests {
		if got := BitLen(tt.x); got != tt.bitLen {
			t.Errorf("BitLen(%d) = %d, want %d", tt.x, got, tt.bitLen)
		}
		if got := Log2Ceil(tt.x); got != tt.log2Ceil {
			t.Errorf("Log2Ceil(%d) = %d, want %d", tt.x, got, tt.log2Ceil)
		}
		if got := AddrWidthFor(tt.x); got != tt.addrW {
			t.Errorf("AddrWidthFor(%d) = %d, want %d", tt.x, got, tt.addrW)
		}
	}

	if !IsPow2(1) || !IsPow2(64) || IsPow2(0) || IsPow2(12) {
		t.Error("IsPow2 misclassified a value")
	}
	if CeilDiv(40, 8) != 5 || CeilDiv(41, 8) != 6 {
		t.Error("CeilDiv rounding is wrong")
	}
	if Mask(64) != ^uint64(0) || Mask(4) != 0xf {
		t.Error("Mask is wrong")
	}
}

func TestEvalSliceConcat(t *testing.T) {
	addr := NewSignal("addr", 16)
	env := Env{"addr": 0x1234}

	hi := Slice(addr, 15, 12)
	if hi.Width() != 4 {
		t.Fatalf("slice width = %d, want 4", hi.Width())
	}
	v, err := Eval(hi, env)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if v != 0x1 {
		t.Errorf("addr[15:12] = %#x, want 0x1", v)
	}

	swapped := Concat(Const(0xa, 4), Slice(addr, 11, 0))
	v, err = Eval(swapped, env)
	if err != nil {
		t.Fatalf("Eval failed: %v", err)
	}
	if v != 0xa234 {
		t.Errorf("concat = %#x, want 0xa234", v)
	}
	if got := swapped.String(); got != "{4'ha, addr[11:0]}" {
		t.Errorf("String() = %q", got)
	}

	if Slice(addr, 15, 0) != Expr(addr) {
		t.Error("full-width slice should return the operand")
	}
}

func TestEvalArithmetic(t *testing.T) {
	a := NewSignal("a", 8)

	tests := []struct {
		name string
		expr Expr
		a    uint64
		want uint64
	}{
		{"add wraps", Add(a, Const(0x10, 8)), 0xf8, 0x08},
		{"sub wraps", Sub(a, Const(0x10, 8)), 0x08, 0xf8},
		{"eq", Eq(a, Const(5, 8)), 5, 1},
		{"lt", Lt(a, Const(5, 8)), 5, 0},
		{"le", Le(a, Const(5, 8)), 5, 1},
		{"ge", Ge(a, Const(6, 8)), 5, 0},
		{"and", And(Ge(a, Const(2, 8)), Lt(a, Const(4, 8))), 3, 1},
		{"or", Or(Eq(a, Const(1, 8)), Eq(a, Const(2, 8))), 3, 0},
		{"resize extends", Resize(a, 12), 0xff, 0xff},
		{"resize truncates", Resize(a, 4), 0xab, 0xb},
		{"mixed widths", Add(Resize(Slice(a, 3, 0), 8), Const(0x20, 8)), 0xff, 0x2f},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, Env{"a": tt.a})
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s = %#x, want %#x", tt.expr, got, tt.want)
			}
		})
	}
}

func TestSelect(t *testing.T) {
	a := NewSignal("a", 8)
	sel := Select([]Case{
		{When: Eq(a, Const(1, 8)), Then: Const(10, 8)},
		{When: Eq(a, Const(2, 8)), Then: Const(20, 8)},
	}, a)

	for in, want := range map[uint64]uint64{1: 10, 2: 20, 3: 3} {
		got, err := Eval(sel, Env{"a": in})
		if err != nil {
			t.Fatalf("Eval failed: %v", err)
		}
		if got != want {
			t.Errorf("select(%d) = %d, want %d", in, got, want)
		}
	}

	if Select(nil, a) != Expr(a) {
		t.Error("select without arms should collapse to the default")
	}
}

func TestEvalUnboundSignal(t *testing.T) {
	_, err := Eval(Add(NewSignal("x", 4), Const(1, 4)), Env{})
	if !errors.Is(err, ErrUnboundSignal) {
		t.Errorf("err = %v, want ErrUnboundSignal", err)
	}
}

func TestConstructorsPanicOnBadWidths(t *testing.T) {
	cases := map[string]func(){
		"zero width":   func() { Const(0, 0) },
		"too wide":     func() { NewSignal("x", 65) },
		"slice range":  func() { Slice(NewSignal("x", 4), 4, 0) },
		"select width": func() { Select([]Case{{When: True(), Then: Const(0, 2)}}, Const(0, 3)) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}
