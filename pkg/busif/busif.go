// Package busif describes the hardware-facing interfaces an address space is
// decoded into, and the bus profiles it is decoded from.
//
// The interface set is closed:
//
//	Signal           a single directional vector
//	RegisterControl  din/dout pair with a write valid, for scalar registers
//	BlockMemoryPort  addr/din/dout/en/we, for arrays of scalars
//	Decoder          a named group of interfaces, nested without limit
//
// Directions are given from the side that owns the interface: a Master
// drives it, a Slave is driven.
package busif

import (
	"fmt"
	"iter"

	"github.com/busmap/busmap-go/pkg/layout"
)

// Direction tells which side drives an interface.
type Direction uint8

const (
	Master Direction = iota
	Slave
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Master:
		return "master"
	case Slave:
		return "slave"
	default:
		return "unknown"
	}
}

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Master {
		return Slave
	}
	return Master
}

// Kind tags the interface variants.
type Kind uint8

const (
	KindSignal Kind = iota
	KindRegisterControl
	KindBlockMemory
	KindDecoder
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "Signal"
	case KindRegisterControl:
		return "RegisterControl"
	case KindBlockMemory:
		return "BlockMemoryPort"
	case KindDecoder:
		return "Decoder"
	default:
		return "unknown"
	}
}

// Interface is one node of an interface tree.
type Interface interface {
	// InterfaceName returns the member name inside the parent Decoder.
	InterfaceName() string

	Kind() Kind

	String() string

	isInterface()
}

// Signal is a plain vector.
type Signal struct {
	Name  string
	Width int
	Dir   Direction
}

func (s *Signal) InterfaceName() string { return s.Name }

func (*Signal) Kind() Kind { return KindSignal }

func (s *Signal) String() string {
	return fmt.Sprintf("%s: Signal<%d> %s", s.Name, s.Width, s.Dir)
}

func (*Signal) isInterface() {}

// RegisterControl exposes one register: dout carries the value written by
// the bus (with vld), din the value read back.
type RegisterControl struct {
	Name  string
	Width int
	Dir   Direction
}

func (r *RegisterControl) InterfaceName() string { return r.Name }

func (*RegisterControl) Kind() Kind { return KindRegisterControl }

func (r *RegisterControl) String() string {
	return fmt.Sprintf("%s: RegisterControl<%d> %s", r.Name, r.Width, r.Dir)
}

func (*RegisterControl) isInterface() {}

// BlockMemoryPort is a memory port without a clock of its own.
type BlockMemoryPort struct {
	Name      string
	AddrWidth int
	DataWidth int
	Dir       Direction
}

func (b *BlockMemoryPort) InterfaceName() string { return b.Name }

func (*BlockMemoryPort) Kind() Kind { return KindBlockMemory }

func (b *BlockMemoryPort) String() string {
	return fmt.Sprintf("%s: BlockMemoryPort<addr %d, data %d> %s", b.Name, b.AddrWidth, b.DataWidth, b.Dir)
}

// Depth returns the number of addressable words.
func (b *BlockMemoryPort) Depth() uint64 { return 1 << uint(b.AddrWidth) }

func (*BlockMemoryPort) isInterface() {}

// Decoder groups interfaces under one name.
//
// A nested Decoder stands for a single composite field that is exposed as a
// whole and decoded by a sub-decoder. A Decoder that is not nested only
// groups the members of an entered field.
type Decoder struct {
	Name    string
	Members []Interface
	Nested  bool
}

func (d *Decoder) InterfaceName() string { return d.Name }

func (*Decoder) Kind() Kind { return KindDecoder }

func (d *Decoder) String() string {
	tag := "Decoder"
	if d.Nested {
		tag = "Decoder(nested)"
	}
	return fmt.Sprintf("%s: %s[%d]", d.Name, tag, len(d.Members))
}

// Member returns the member named name.
func (d *Decoder) Member(name string) (Interface, bool) {
	for _, m := range d.Members {
		if m.InterfaceName() == name {
			return m, true
		}
	}
	return nil, false
}

func (*Decoder) isInterface() {}

// Compile-time interface satisfaction checks.
var (
	_ Interface = (*Signal)(nil)
	_ Interface = (*RegisterControl)(nil)
	_ Interface = (*BlockMemoryPort)(nil)
	_ Interface = (*Decoder)(nil)
)

// Leaf is an interface reached by Leaves together with its path.
type Leaf struct {
	Path layout.Path
	Intf Interface
}

// Leaves yields the leaves of the tree rooted at d in member order. Decoders
// that are not nested are descended; nested ones are yielded as leaves.
func Leaves(d *Decoder) iter.Seq[Leaf] {
	return LeavesFrom(d, nil)
}

// LeavesFrom is Leaves with paths prefixed by base.
func LeavesFrom(d *Decoder, base layout.Path) iter.Seq[Leaf] {
	return func(yield func(Leaf) bool) {
		leaves(d, base, yield)
	}
}

func leaves(d *Decoder, base layout.Path, yield func(Leaf) bool) bool {
	for _, m := range d.Members {
		p := base.Child(m.InterfaceName())
		if sub, ok := m.(*Decoder); ok && !sub.Nested {
			if !leaves(sub, p, yield) {
				return false
			}
			continue
		}
		if !yield(Leaf{Path: p, Intf: m}) {
			return false
		}
	}
	return true
}

// Walk yields every node below d, decoders included, depth first.
func Walk(d *Decoder) iter.Seq[Leaf] {
	return func(yield func(Leaf) bool) {
		walk(d, nil, yield)
	}
}

func walk(d *Decoder, base layout.Path, yield func(Leaf) bool) bool {
	for _, m := range d.Members {
		p := base.Child(m.InterfaceName())
		if !yield(Leaf{Path: p, Intf: m}) {
			return false
		}
		if sub, ok := m.(*Decoder); ok {
			if !walk(sub, p, yield) {
				return false
			}
		}
	}
	return true
}
