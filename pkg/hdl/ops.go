package hdl

import (
	"fmt"
	"strings"
)

// Op is a binary operator.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpAnd
	OpOr
	OpEq
	OpLt
	OpLe
	OpGe
)

// String returns the Verilog operator token.
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpAnd:
		return "&"
	case OpOr:
		return "|"
	case OpEq:
		return "=="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	default:
		return "?"
	}
}

func (o Op) isCompare() bool {
	return o >= OpEq
}

// BinaryExpr applies Op to A and B. Operands are zero-extended to the wider
// of the two before the operation.
type BinaryExpr struct {
	Op   Op
	A, B Expr
}

func binary(op Op, a, b Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, A: a, B: b}
}

// Add returns a + b, modulo the wider operand width.
func Add(a, b Expr) Expr { return binary(OpAdd, a, b) }

// Sub returns a - b, modulo the wider operand width.
func Sub(a, b Expr) Expr { return binary(OpSub, a, b) }

// Eq returns a == b.
func Eq(a, b Expr) Expr { return binary(OpEq, a, b) }

// Lt returns a < b.
func Lt(a, b Expr) Expr { return binary(OpLt, a, b) }

// Le returns a <= b.
func Le(a, b Expr) Expr { return binary(OpLe, a, b) }

// Ge returns a >= b.
func Ge(a, b Expr) Expr { return binary(OpGe, a, b) }

// And returns the bitwise and of its operands. A single operand is returned
// unchanged.
func And(a Expr, rest ...Expr) Expr {
	for _, b := range rest {
		a = binary(OpAnd, a, b)
	}
	return a
}

// Or returns the bitwise or of its operands.
func Or(a Expr, rest ...Expr) Expr {
	for _, b := range rest {
		a = binary(OpOr, a, b)
	}
	return a
}

func (b *BinaryExpr) operandWidth() int {
	return max(b.A.Width(), b.B.Width())
}

func (b *BinaryExpr) Width() int {
	if b.Op.isCompare() {
		return 1
	}
	return b.operandWidth()
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.A.String(), b.Op.String(), b.B.String())
}

func (b *BinaryExpr) eval(env Env) (uint64, error) {
	x, err := b.A.eval(env)
	if err != nil {
		return 0, err
	}
	y, err := b.B.eval(env)
	if err != nil {
		return 0, err
	}
	m := Mask(b.operandWidth())
	x, y = x&m, y&m

	var r bool
	switch b.Op {
	case OpAdd:
		return (x + y) & m, nil
	case OpSub:
		return (x - y) & m, nil
	case OpAnd:
		return x & y, nil
	case OpOr:
		return x | y, nil
	case OpEq:
		r = x == y
	case OpLt:
		r = x < y
	case OpLe:
		r = x <= y
	case OpGe:
		r = x >= y
	default:
		return 0, fmt.Errorf("hdl: unknown operator %d", b.Op)
	}
	if r {
		return 1, nil
	}
	return 0, nil
}

// Case is one arm of a Select.
type Case struct {
	When Expr
	Then Expr
}

// SelectExpr is a parallel mux: the arm whose condition is asserted drives
// the output, Default drives it when none is. Conditions are expected to be
// mutually exclusive; evaluation takes the first asserted arm.
type SelectExpr struct {
	Cases   []Case
	Default Expr
}

// Select builds a parallel mux. All arms must share the default's width.
func Select(cases []Case, def Expr) Expr {
	for i, c := range cases {
		if c.When.Width() != 1 {
			panic(fmt.Sprintf("hdl: select arm %d condition is %d bits wide", i, c.When.Width()))
		}
		if c.Then.Width() != def.Width() {
			panic(fmt.Sprintf("hdl: select arm %d is %d bits, default is %d", i, c.Then.Width(), def.Width()))
		}
	}
	if len(cases) == 0 {
		return def
	}
	return &SelectExpr{Cases: cases, Default: def}
}

func (s *SelectExpr) Width() int { return s.Default.Width() }

func (s *SelectExpr) String() string {
	var b strings.Builder
	for _, c := range s.Cases {
		fmt.Fprintf(&b, "%s ? %s : ", c.When.String(), c.Then.String())
	}
	b.WriteString(s.Default.String())
	return "(" + b.String() + ")"
}

func (s *SelectExpr) eval(env Env) (uint64, error) {
	for _, c := range s.Cases {
		hit, err := c.When.eval(env)
		if err != nil {
			return 0, err
		}
		if hit&1 == 1 {
			return c.Then.eval(env)
		}
	}
	return s.Default.eval(env)
}
