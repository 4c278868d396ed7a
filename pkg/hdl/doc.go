// Package hdl provides the combinational expression tree produced by the
// address decoders.
//
// Expressions are built once during elaboration and never mutate. They can be
// rendered as Verilog-style text with String and evaluated against concrete
// signal values with Eval, which is how decoders are checked without a
// simulator.
//
// # Widths
//
// Every expression has a fixed bit width between 1 and MaxWidth. Arithmetic is
// modular in the result width, comparisons yield a single bit:
//
//	addr := hdl.NewSignal("addr", 16)
//	hit := hdl.Eq(hdl.Slice(addr, 15, 12), hdl.Const(0x1, 4))
//	out := hdl.Concat(hdl.Const(0x2, 4), hdl.Slice(addr, 11, 0))
//
// Constructors panic on malformed widths. Callers validate widths first and
// report user-facing problems through the elab error types.
package hdl
