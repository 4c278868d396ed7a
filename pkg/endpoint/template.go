package endpoint

import (
	"fmt"
	"iter"
	"sort"

	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
	"github.com/busmap/busmap-go/pkg/layout"
)

// AccessClass tells how the bus reaches a bound field.
type AccessClass uint8

const (
	// ClassRegister is a single register behind a RegisterControl.
	ClassRegister AccessClass = iota
	// ClassBlockMemory is an array of words behind a BlockMemoryPort.
	ClassBlockMemory
)

// String returns the class name.
func (c AccessClass) String() string {
	switch c {
	case ClassRegister:
		return "register"
	case ClassBlockMemory:
		return "block memory"
	default:
		return "unknown"
	}
}

// Entry binds one flattened field to its interface.
type Entry struct {
	Field  layout.Field
	Intf   busif.Interface
	Class  AccessClass
	Access layout.Access

	// DataWidth is the width of one word of the interface.
	DataWidth int

	// WidthShared is set when DataWidth equals the bus data width, so the
	// interface reuses the bus width instead of overriding it.
	WidthShared bool
}

// StartAddr returns the first raw address of the entry.
func (e Entry) StartAddr(step uint64) uint64 { return e.Field.Start / step }

// EndAddr returns the raw address past the entry.
func (e Entry) EndAddr(step uint64) uint64 { return hdl.CeilDiv(e.Field.End, step) }

// AddressMap is the result of an elaboration. Addresses are raw bus units;
// MaxAddr is exclusive.
type AddressMap struct {
	Entries []Entry
	MinAddr uint64
	MaxAddr uint64

	// AddrWidth is the minimum address width covering the whole layout.
	AddrWidth int

	// AddrStep is the number of bits per raw address.
	AddrStep uint64
}

// Contains reports whether MinAddr <= addr < MaxAddr.
func (m *AddressMap) Contains(addr uint64) bool {
	return addr >= m.MinAddr && addr < m.MaxAddr
}

// Lookup returns the entry covering the raw address addr.
func (m *AddressMap) Lookup(addr uint64) (Entry, bool) {
	i := sort.Search(len(m.Entries), func(i int) bool {
		return m.Entries[i].EndAddr(m.AddrStep) > addr
	})
	if i == len(m.Entries) || m.Entries[i].StartAddr(m.AddrStep) > addr {
		return Entry{}, false
	}
	return m.Entries[i], true
}

// Clone returns a copy that shares no slices with m.
func (m *AddressMap) Clone() *AddressMap {
	c := *m
	c.Entries = append([]Entry(nil), m.Entries...)
	return &c
}

// ParseTemplate walks the fields the oracle yields for t in lock-step with
// the leaves of decoded and binds each pair. Nested decoders are followed
// into the sub-layout of their field. The walk stops at the first failure:
// differing leaf counts or widths, an interface kind that cannot be bound,
// overlapping fields, fields off an address boundary, or a bus address too
// narrow for the layout.
func ParseTemplate(t layout.Type, decoded *busif.Decoder, cfg Config) (*AddressMap, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, ok := t.(layout.Struct); !ok {
		return nil, elab.Configf("parse template", "layout root must be a struct, got %v", t)
	}
	if decoded == nil {
		return nil, elab.Configf("parse template", "no decoded interface tree")
	}

	p := &templateParser{cfg: cfg}
	if err := p.parse(layout.Root(t), decoded, nil); err != nil {
		return nil, err
	}
	if len(p.entries) == 0 {
		return nil, elab.Configf("parse template", "layout %v exposes no fields", t)
	}

	step := cfg.Bus.AddrStep
	m := &AddressMap{
		Entries:   p.entries,
		MinAddr:   p.entries[0].StartAddr(step),
		MaxAddr:   p.entries[len(p.entries)-1].EndAddr(step),
		AddrWidth: layout.MinAddrWidth(t, step),
		AddrStep:  step,
	}
	if cfg.Bus.AddrWidth < m.AddrWidth {
		return nil, &elab.InsufficientWidthError{
			Op:        "parse template",
			Subject:   "bus address",
			Required:  m.AddrWidth,
			Available: cfg.Bus.AddrWidth,
		}
	}
	return m, nil
}

type templateParser struct {
	cfg     Config
	entries []Entry
}

func (p *templateParser) parse(root layout.Field, d *busif.Decoder, base layout.Path) error {
	nextField, stopFields := iter.Pull2(p.cfg.Oracle.Fields(root, p.cfg.Classifier))
	defer stopFields()
	nextLeaf, stopLeaves := iter.Pull(busif.LeavesFrom(d, base))
	defer stopLeaves()

	for {
		f, err, fok := nextField()
		if fok && err != nil {
			return err
		}
		leaf, lok := nextLeaf()
		if !fok && !lok {
			return nil
		}
		if fok != lok {
			return p.countMismatch(root, d, base)
		}
		if err := p.bind(f, leaf); err != nil {
			return err
		}
	}
}

func (p *templateParser) countMismatch(root layout.Field, d *busif.Decoder, base layout.Path) error {
	fields := 0
	for _, err := range p.cfg.Oracle.Fields(root, p.cfg.Classifier) {
		if err != nil {
			return err
		}
		fields++
	}
	leaves := 0
	for range busif.LeavesFrom(d, base) {
		leaves++
	}
	return &elab.ShapeMismatchError{
		Op:       "parse template",
		Path:     fieldName(root),
		Reason:   "leaf count",
		Expected: fields,
		Got:      leaves,
	}
}

func (p *templateParser) bind(f layout.Field, leaf busif.Leaf) error {
	path := f.Path.String()
	if path != leaf.Path.String() {
		return &elab.ShapeMismatchError{
			Op:     "parse template",
			Path:   path,
			Reason: fmt.Sprintf("paired with interface %s", leaf.Path),
		}
	}
	if f.End <= f.Start {
		return elab.Configf("parse template", "%s has empty bit range [%d, %d)", path, f.Start, f.End)
	}
	if f.Start%p.cfg.Bus.AddrStep != 0 {
		return elab.Configf("parse template", "%s starts at bit %d, not on a %d-bit address boundary",
			path, f.Start, p.cfg.Bus.AddrStep)
	}

	switch intf := leaf.Intf.(type) {
	case *busif.RegisterControl:
		if uint64(intf.Width) != f.Width() {
			return &elab.ShapeMismatchError{
				Op:       "parse template",
				Path:     path,
				Reason:   "register width",
				Expected: int(f.Width()),
				Got:      intf.Width,
			}
		}
		return p.add(f, intf, ClassRegister, intf.Width)

	case *busif.BlockMemoryPort:
		a, ok := f.Type.(layout.Array)
		if !ok {
			return &elab.ShapeMismatchError{Op: "parse template", Path: path, Reason: "block memory bound to " + f.Kind().String()}
		}
		elem, ok := a.Elem.(layout.Bits)
		if !ok {
			return &elab.ShapeMismatchError{Op: "parse template", Path: path, Reason: "block memory bound to array of " + a.Elem.Kind().String()}
		}
		if uint64(intf.DataWidth) != elem.Width {
			return &elab.ShapeMismatchError{
				Op:       "parse template",
				Path:     path,
				Reason:   "memory data width",
				Expected: int(elem.Width),
				Got:      intf.DataWidth,
			}
		}
		if need := hdl.AddrWidthFor(a.Count); intf.AddrWidth < need {
			return &elab.ShapeMismatchError{
				Op:       "parse template",
				Path:     path,
				Reason:   "memory address width",
				Expected: need,
				Got:      intf.AddrWidth,
			}
		}
		return p.add(f, intf, ClassBlockMemory, intf.DataWidth)

	case *busif.Decoder:
		if !layout.IsComposite(f.Type) {
			return &elab.ShapeMismatchError{Op: "parse template", Path: path, Reason: "nested decoder bound to " + f.Type.String()}
		}
		return p.parse(f, intf, leaf.Path)

	default:
		return &elab.UnsupportedTypeError{Op: "parse template", Path: path, What: leaf.Intf.Kind().String()}
	}
}

func (p *templateParser) add(f layout.Field, intf busif.Interface, class AccessClass, dataWidth int) error {
	if err := fitsData(f.Path, uint64(dataWidth), p.cfg.Bus.DataWidth); err != nil {
		return err
	}
	if n := len(p.entries); n > 0 && f.Start < p.entries[n-1].Field.End {
		return elab.Configf("parse template", "%s overlaps %s", f, p.entries[n-1].Field)
	}
	p.entries = append(p.entries, Entry{
		Field:       f,
		Intf:        intf,
		Class:       class,
		Access:      f.Access,
		DataWidth:   dataWidth,
		WidthShared: dataWidth == p.cfg.Bus.DataWidth,
	})
	return nil
}
