package endpoint

import (
	"github.com/busmap/busmap-go/pkg/addrunit"
	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// Decode is the address decode of one entry.
type Decode struct {
	Entry Entry

	// Hit is asserted while the address is inside the entry.
	Hit hdl.Expr

	// Local is the address relative to the entry start, in source units.
	Local hdl.Expr

	// Addr is Local converted to the destination step. Nil when no
	// destination was given.
	Addr hdl.Expr

	// Aligned is set when the decode uses bit slices only: the entry size
	// in source units is a power of two and its start a multiple of it.
	Aligned bool
}

// PropagateAddress builds the decode of e from srcAddr, counted in srcStep
// bits, and converts the local address for dstAddr, counted in dstStep
// bits. A nil dstAddr skips the conversion.
func PropagateAddress(e Entry, srcAddr hdl.Expr, srcStep uint64, dstAddr hdl.Expr, dstStep uint64) (*Decode, error) {
	if !hdl.IsPow2(srcStep) {
		return nil, elab.Configf("propagate address", "source step %d is not a power of two", srcStep)
	}
	if e.Field.Start%srcStep != 0 {
		return nil, elab.Configf("propagate address", "%s does not start on a %d-bit boundary", e.Field, srcStep)
	}

	start := e.Field.Start / srcStep
	size := hdl.CeilDiv(e.Field.Width(), srcStep)
	w := srcAddr.Width()
	if need := hdl.BitLen(start + size - 1); need > w {
		return nil, &elab.InsufficientWidthError{
			Op:        "propagate address",
			Subject:   "source address for " + e.Field.Path.String(),
			Required:  need,
			Available: w,
		}
	}

	d := &Decode{Entry: e}
	if hdl.IsPow2(size) && start%size == 0 {
		d.Aligned = true
		l := hdl.BitLen(size - 1)
		if w <= l {
			d.Hit = hdl.True()
		} else {
			d.Hit = hdl.Eq(hdl.Slice(srcAddr, w-1, l), hdl.Const(start>>uint(l), w-l))
		}
		if l == 0 {
			d.Local = hdl.Const(0, 1)
		} else {
			d.Local = hdl.Slice(srcAddr, l-1, 0)
		}
	} else {
		last := start + size - 1
		d.Hit = hdl.And(hdl.Ge(srcAddr, hdl.Const(start, w)), hdl.Le(srcAddr, hdl.Const(last, w)))
		d.Local = hdl.Resize(hdl.Sub(srcAddr, hdl.Const(start, w)), hdl.AddrWidthFor(size))
	}

	if dstAddr == nil {
		return d, nil
	}
	addr, err := addrunit.Translate(d.Local, srcStep, dstAddr, dstStep, 0)
	if err != nil {
		return nil, err
	}
	d.Addr = addr
	return d, nil
}

// Decoders builds the decode of every entry from a bus address. Block
// memories with a power-of-two word width of at least one address step also
// get the word address of their port.
func (ep *Endpoint) Decoders(addr hdl.Expr) ([]*Decode, error) {
	step := ep.cfg.Bus.AddrStep
	out := make([]*Decode, 0, len(ep.amap.Entries))
	for _, e := range ep.amap.Entries {
		var dst hdl.Expr
		var dstStep uint64
		if port, ok := e.Intf.(*busif.BlockMemoryPort); ok {
			ws := uint64(port.DataWidth)
			if hdl.IsPow2(ws) && ws >= step {
				dst = hdl.NewSignal(e.Field.Path.String()+"_addr", port.AddrWidth)
				dstStep = ws
			}
		}
		d, err := PropagateAddress(e, addr, step, dst, dstStep)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
