// Package remap rewrites addresses that fall into statically declared
// regions and passes every other address through unchanged.
//
// A Region moves Size addresses starting at OffsetIn to start at OffsetOut.
// Regions must not overlap, so at most one region matches any address and
// the generated dispatch needs no priority.
//
// Addresses outside every region are forwarded as they are. No fault is
// raised for them; the Hit expression of a Translation tells callers whether
// any region matched, for those that want to reject stray addresses.
package remap

import (
	"fmt"
	"slices"
	"sort"

	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// Region maps [OffsetIn, OffsetIn+Size) onto [OffsetOut, OffsetOut+Size).
type Region struct {
	OffsetIn  uint64 `json:"offsetIn" yaml:"offsetIn"`
	Size      uint64 `json:"size" yaml:"size"`
	OffsetOut uint64 `json:"offsetOut" yaml:"offsetOut"`
}

// End returns the first address after the region.
func (r Region) End() uint64 { return r.OffsetIn + r.Size }

// Contains reports whether addr is inside the region.
func (r Region) Contains(addr uint64) bool {
	return addr >= r.OffsetIn && addr-r.OffsetIn < r.Size
}

// Map returns the translated address. addr must be inside the region.
func (r Region) Map(addr uint64) uint64 {
	return addr - r.OffsetIn + r.OffsetOut
}

// Aligned reports whether the region can be decoded by bit slicing: its size
// is a power of two and OffsetIn is a multiple of it.
func (r Region) Aligned() bool {
	return hdl.IsPow2(r.Size) && r.OffsetIn%r.Size == 0
}

// OutAligned reports whether OffsetOut is a multiple of the size, which makes
// the rewrite a pure bit rearrangement.
func (r Region) OutAligned() bool {
	return hdl.IsPow2(r.Size) && r.OffsetOut%r.Size == 0
}

func (r Region) String() string {
	return fmt.Sprintf("[%#x, %#x) -> %#x", r.OffsetIn, r.End(), r.OffsetOut)
}

// Normalize returns the regions sorted by OffsetIn after checking that the
// list is not empty, no region is empty, and no two regions overlap. The
// input slice is not modified.
func Normalize(regions []Region) ([]Region, error) {
	if len(regions) == 0 {
		return nil, elab.Configf("normalize", "empty region list")
	}
	out := slices.Clone(regions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OffsetIn < out[j].OffsetIn })

	var prevEnd uint64
	for i, r := range out {
		if r.Size == 0 {
			return nil, elab.Configf("normalize", "region %s has zero size", r)
		}
		if r.End() < r.OffsetIn || r.OffsetOut+r.Size < r.OffsetOut {
			return nil, elab.Configf("normalize", "region %s wraps the address space", r)
		}
		if i > 0 && r.OffsetIn < prevEnd {
			return nil, elab.Configf("normalize", "region %s overlaps %s", r, out[i-1])
		}
		prevEnd = r.End()
	}
	return out, nil
}

// Remapper holds a normalized region table.
type Remapper struct {
	regions []Region
}

// New normalizes regions into a Remapper.
func New(regions []Region) (*Remapper, error) {
	norm, err := Normalize(regions)
	if err != nil {
		return nil, err
	}
	return &Remapper{regions: norm}, nil
}

// Regions returns a copy of the normalized table.
func (m *Remapper) Regions() []Region {
	return slices.Clone(m.regions)
}

// Lookup returns the region containing addr.
func (m *Remapper) Lookup(addr uint64) (Region, bool) {
	i := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].End() > addr })
	if i < len(m.regions) && m.regions[i].Contains(addr) {
		return m.regions[i], true
	}
	return Region{}, false
}

// Map translates addr. Addresses outside every region pass through and
// mapped is false.
func (m *Remapper) Map(addr uint64) (out uint64, mapped bool) {
	r, ok := m.Lookup(addr)
	if !ok {
		return addr, false
	}
	return r.Map(addr), true
}

// Translate builds the dispatch for addrIn over the table.
func (m *Remapper) Translate(addrIn *hdl.Signal) (*Translation, error) {
	return translate(m.regions, addrIn)
}
