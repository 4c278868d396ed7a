// Package addrunit converts addresses between addressing granularities.
//
// An addressing step is the number of data bits one address increment
// refers to: 8 for a byte-addressed bus, 32 for a bus addressing 32-bit
// words. Both steps must be powers of two.
//
// Going from a coarse step to a finer one appends zero low bits and is
// lossless. Going from a fine step to a coarser one drops low bits: the
// byte offset inside the coarse word is discarded.
package addrunit

import (
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// AlignBits returns the number of low address bits gained or dropped when
// moving from srcStep to dstStep.
func AlignBits(srcStep, dstStep uint64) (int, error) {
	if !hdl.IsPow2(srcStep) {
		return 0, elab.Configf("translate", "source step %d is not a power of two", srcStep)
	}
	if !hdl.IsPow2(dstStep) {
		return 0, elab.Configf("translate", "destination step %d is not a power of two", dstStep)
	}
	switch {
	case srcStep == dstStep:
		return 0, nil
	case srcStep < dstStep:
		return hdl.Log2Ceil(dstStep/srcStep - 1), nil
	default:
		return hdl.Log2Ceil(srcStep/dstStep - 1), nil
	}
}

// Translate returns the expression that drives dstAddr from srcAddr, with
// dstOffset (in destination units) added after the value is resized to the
// destination width.
func Translate(srcAddr hdl.Expr, srcStep uint64, dstAddr hdl.Expr, dstStep uint64, dstOffset uint64) (hdl.Expr, error) {
	align, err := AlignBits(srcStep, dstStep)
	if err != nil {
		return nil, err
	}

	sw, dw := srcAddr.Width(), dstAddr.Width()
	v := srcAddr
	switch {
	case srcStep > dstStep:
		if sw+align > dw {
			return nil, &elab.InsufficientWidthError{
				Op:        "translate",
				Subject:   "destination address",
				Required:  sw + align,
				Available: dw,
			}
		}
		v = hdl.Concat(srcAddr, hdl.Const(0, align))
	case srcStep < dstStep:
		if sw-align > dw {
			return nil, &elab.InsufficientWidthError{
				Op:        "translate",
				Subject:   "destination address",
				Required:  sw - align,
				Available: dw,
			}
		}
		if align >= sw {
			v = hdl.Const(0, 1)
		} else {
			v = hdl.Slice(srcAddr, sw-1, align)
		}
	}

	v = hdl.Resize(v, dw)
	if dstOffset != 0 {
		if hdl.BitLen(dstOffset) > dw {
			return nil, &elab.InsufficientWidthError{
				Op:        "translate",
				Subject:   "destination offset",
				Required:  hdl.BitLen(dstOffset),
				Available: dw,
			}
		}
		v = hdl.Add(v, hdl.Const(dstOffset, dw))
	}
	return v, nil
}

// Convert applies the same translation to a concrete address value.
func Convert(addr, srcStep, dstStep uint64) (uint64, error) {
	align, err := AlignBits(srcStep, dstStep)
	if err != nil {
		return 0, err
	}
	if srcStep > dstStep {
		return addr << uint(align), nil
	}
	return addr >> uint(align), nil
}

// Translator binds a pair of steps and an offset for repeated use.
type Translator struct {
	SrcStep uint64
	DstStep uint64
	Offset  uint64
}

// New returns a Translator after checking both steps.
func New(srcStep, dstStep uint64) (Translator, error) {
	if _, err := AlignBits(srcStep, dstStep); err != nil {
		return Translator{}, err
	}
	return Translator{SrcStep: srcStep, DstStep: dstStep}, nil
}

// WithOffset returns a copy of t that adds offset destination units.
func (t Translator) WithOffset(offset uint64) Translator {
	t.Offset = offset
	return t
}

// Translate builds the expression driving dst from src.
func (t Translator) Translate(src, dst hdl.Expr) (hdl.Expr, error) {
	return Translate(src, t.SrcStep, dst, t.DstStep, t.Offset)
}

// Convert translates a concrete address.
func (t Translator) Convert(addr uint64) (uint64, error) {
	v, err := Convert(addr, t.SrcStep, t.DstStep)
	if err != nil {
		return 0, err
	}
	return v + t.Offset, nil
}
