package hdl

import (
	"errors"
	"fmt"
	"strings"
)

// MaxWidth is the widest expression supported.
const MaxWidth = 64

// ErrUnboundSignal is returned by Eval when a signal has no value in the Env.
var ErrUnboundSignal = errors.New("unbound signal")

// Env binds signal names to values for evaluation.
type Env map[string]uint64

// Expr is a combinational expression of fixed width.
type Expr interface {
	// Width returns the result width in bits.
	Width() int

	// String renders the expression as Verilog-style text.
	String() string

	eval(env Env) (uint64, error)
}

// Eval computes the value of e for the signal values in env.
func Eval(e Expr, env Env) (uint64, error) {
	v, err := e.eval(env)
	if err != nil {
		return 0, err
	}
	return v & Mask(e.Width()), nil
}

func checkWidth(w int) {
	if w < 1 || w > MaxWidth {
		panic(fmt.Sprintf("hdl: width %d out of range 1..%d", w, MaxWidth))
	}
}

// ConstExpr is a literal value.
type ConstExpr struct {
	Value uint64
	W     int
}

// Const returns a constant of width w. Bits of v above w are dropped.
func Const(v uint64, w int) *ConstExpr {
	checkWidth(w)
	return &ConstExpr{Value: v & Mask(w), W: w}
}

// True is the one bit constant 1.
func True() *ConstExpr { return Const(1, 1) }

func (c *ConstExpr) Width() int { return c.W }

func (c *ConstExpr) String() string {
	return fmt.Sprintf("%d'h%x", c.W, c.Value)
}

func (c *ConstExpr) eval(Env) (uint64, error) { return c.Value, nil }

// Signal is a named wire or port.
type Signal struct {
	Name string
	W    int
}

// NewSignal returns a signal of width w.
func NewSignal(name string, w int) *Signal {
	checkWidth(w)
	return &Signal{Name: name, W: w}
}

func (s *Signal) Width() int { return s.W }

func (s *Signal) String() string { return s.Name }

func (s *Signal) eval(env Env) (uint64, error) {
	v, ok := env[s.Name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnboundSignal, s.Name)
	}
	return v & Mask(s.W), nil
}

// SliceExpr selects bits Hi down to Lo (inclusive) of X.
type SliceExpr struct {
	X      Expr
	Hi, Lo int
}

// Slice returns x[hi:lo].
func Slice(x Expr, hi, lo int) Expr {
	if lo < 0 || hi < lo || hi >= x.Width() {
		panic(fmt.Sprintf("hdl: slice [%d:%d] of %d bit expression", hi, lo, x.Width()))
	}
	if lo == 0 && hi == x.Width()-1 {
		return x
	}
	return &SliceExpr{X: x, Hi: hi, Lo: lo}
}

func (s *SliceExpr) Width() int { return s.Hi - s.Lo + 1 }

func (s *SliceExpr) String() string {
	x := s.X.String()
	if _, ok := s.X.(*Signal); !ok {
		x = "(" + x + ")"
	}
	if s.Hi == s.Lo {
		return fmt.Sprintf("%s[%d]", x, s.Hi)
	}
	return fmt.Sprintf("%s[%d:%d]", x, s.Hi, s.Lo)
}

func (s *SliceExpr) eval(env Env) (uint64, error) {
	v, err := s.X.eval(env)
	if err != nil {
		return 0, err
	}
	return (v >> uint(s.Lo)) & Mask(s.Width()), nil
}

// ConcatExpr joins parts, most significant first.
type ConcatExpr struct {
	Parts []Expr
	w     int
}

// Concat returns {parts[0], parts[1], ...}.
func Concat(parts ...Expr) Expr {
	if len(parts) == 1 {
		return parts[0]
	}
	w := 0
	for _, p := range parts {
		w += p.Width()
	}
	checkWidth(w)
	return &ConcatExpr{Parts: parts, w: w}
}

func (c *ConcatExpr) Width() int { return c.w }

func (c *ConcatExpr) String() string {
	s := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		s[i] = p.String()
	}
	return "{" + strings.Join(s, ", ") + "}"
}

func (c *ConcatExpr) eval(env Env) (uint64, error) {
	var acc uint64
	for _, p := range c.Parts {
		v, err := p.eval(env)
		if err != nil {
			return 0, err
		}
		acc = acc<<uint(p.Width()) | v&Mask(p.Width())
	}
	return acc, nil
}

// ResizeExpr zero-extends or truncates X to W bits.
type ResizeExpr struct {
	X Expr
	W int
}

// Resize returns x reinterpreted at width w.
func Resize(x Expr, w int) Expr {
	checkWidth(w)
	if x.Width() == w {
		return x
	}
	if c, ok := x.(*ConstExpr); ok {
		return Const(c.Value, w)
	}
	return &ResizeExpr{X: x, W: w}
}

func (r *ResizeExpr) Width() int { return r.W }

func (r *ResizeExpr) String() string {
	if r.W < r.X.Width() {
		return Slice(r.X, r.W-1, 0).String()
	}
	return fmt.Sprintf("{%d'h0, %s}", r.W-r.X.Width(), r.X.String())
}

func (r *ResizeExpr) eval(env Env) (uint64, error) {
	v, err := r.X.eval(env)
	if err != nil {
		return 0, err
	}
	return v & Mask(r.W), nil
}
