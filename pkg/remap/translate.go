package remap

import (
	"fmt"

	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// Case is the decode of one region: Enable is asserted for addresses inside
// it and Out is the rewritten address.
type Case struct {
	Region Region
	Enable hdl.Expr
	Out    hdl.Expr
}

// Translation is the dispatch for one address signal.
type Translation struct {
	In    *hdl.Signal
	Cases []Case

	// Default drives Out when no region matches: the input address.
	Default hdl.Expr

	// Out selects the matching case or the default.
	Out hdl.Expr

	// Hit is asserted when any region matches.
	Hit hdl.Expr
}

// TranslateAddressSignal normalizes regions and builds the dispatch for
// addrIn. The output address has the width of addrIn.
func TranslateAddressSignal(regions []Region, addrIn *hdl.Signal) (*Translation, error) {
	norm, err := Normalize(regions)
	if err != nil {
		return nil, err
	}
	return translate(norm, addrIn)
}

func translate(regions []Region, addrIn *hdl.Signal) (*Translation, error) {
	w := addrIn.Width()
	tr := &Translation{In: addrIn, Default: addrIn}

	arms := make([]hdl.Case, 0, len(regions))
	for _, r := range regions {
		if need := hdl.BitLen(r.End() - 1); need > w {
			return nil, &elab.InsufficientWidthError{
				Op:        "translate address",
				Subject:   fmt.Sprintf("input of region %s", r),
				Required:  need,
				Available: w,
			}
		}
		if need := hdl.BitLen(r.OffsetOut + r.Size - 1); need > w {
			return nil, &elab.InsufficientWidthError{
				Op:        "translate address",
				Subject:   fmt.Sprintf("output of region %s", r),
				Required:  need,
				Available: w,
			}
		}

		var c Case
		if r.Aligned() {
			c = alignedCase(r, addrIn)
		} else {
			c = unalignedCase(r, addrIn)
		}
		tr.Cases = append(tr.Cases, c)
		arms = append(arms, hdl.Case{When: c.Enable, Then: c.Out})
	}

	tr.Out = hdl.Select(arms, tr.Default)
	if len(tr.Cases) > 0 {
		hit := tr.Cases[0].Enable
		for _, c := range tr.Cases[1:] {
			hit = hdl.Or(hit, c.Enable)
		}
		tr.Hit = hit
	} else {
		tr.Hit = hdl.Const(0, 1)
	}
	return tr, nil
}

// alignedCase compares the high bits against the region base and keeps the
// low bits as the offset inside the region.
func alignedCase(r Region, addr *hdl.Signal) Case {
	w := addr.Width()
	l := hdl.BitLen(r.Size - 1)

	var enable hdl.Expr
	if w > l {
		enable = hdl.Eq(hdl.Slice(addr, w-1, l), hdl.Const(r.OffsetIn>>uint(l), w-l))
	} else {
		enable = hdl.True()
	}

	var out hdl.Expr
	switch {
	case l == 0:
		out = hdl.Const(r.OffsetOut, w)
	case r.OutAligned() && w > l:
		out = hdl.Concat(hdl.Const(r.OffsetOut>>uint(l), w-l), hdl.Slice(addr, l-1, 0))
	case r.OutAligned():
		out = addr
	default:
		out = hdl.Add(hdl.Resize(hdl.Slice(addr, l-1, 0), w), hdl.Const(r.OffsetOut, w))
	}
	return Case{Region: r, Enable: enable, Out: out}
}

// unalignedCase compares against both bounds and shifts by the distance
// between the input and output bases.
func unalignedCase(r Region, addr *hdl.Signal) Case {
	w := addr.Width()
	enable := hdl.Le(addr, hdl.Const(r.End()-1, w))
	if r.OffsetIn > 0 {
		enable = hdl.And(hdl.Ge(addr, hdl.Const(r.OffsetIn, w)), enable)
	}

	var out hdl.Expr
	switch {
	case r.OffsetIn == r.OffsetOut:
		out = addr
	case r.OffsetIn > r.OffsetOut:
		out = hdl.Sub(addr, hdl.Const(r.OffsetIn-r.OffsetOut, w))
	default:
		out = hdl.Add(addr, hdl.Const(r.OffsetOut-r.OffsetIn, w))
	}
	return Case{Region: r, Enable: enable, Out: out}
}

// Apply evaluates the dispatch for a concrete input address.
func (t *Translation) Apply(addr uint64) (out uint64, mapped bool, err error) {
	env := hdl.Env{t.In.Name: addr}
	out, err = hdl.Eval(t.Out, env)
	if err != nil {
		return 0, false, err
	}
	hit, err := hdl.Eval(t.Hit, env)
	if err != nil {
		return 0, false, err
	}
	return out, hit == 1, nil
}
