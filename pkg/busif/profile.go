package busif

import (
	"strings"

	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// Profile describes the bus an address space is decoded from.
type Profile struct {
	Name      string
	DataWidth int
	AddrWidth int

	// AddrStep is the number of data bits one address increment refers to:
	// 8 for byte-addressed buses.
	AddrStep uint64
}

// AXI4Lite returns a byte-addressed AXI4-Lite profile.
func AXI4Lite(dataWidth, addrWidth int) Profile {
	return Profile{Name: "axi4lite", DataWidth: dataWidth, AddrWidth: addrWidth, AddrStep: 8}
}

// AvalonMM returns a byte-addressed Avalon-MM profile.
func AvalonMM(dataWidth, addrWidth int) Profile {
	return Profile{Name: "avalonmm", DataWidth: dataWidth, AddrWidth: addrWidth, AddrStep: 8}
}

// IPIF returns a byte-addressed IPIF profile.
func IPIF(dataWidth, addrWidth int) Profile {
	return Profile{Name: "ipif", DataWidth: dataWidth, AddrWidth: addrWidth, AddrStep: 8}
}

// MI32 returns a byte-addressed MI32 profile.
func MI32(addrWidth int) Profile {
	return Profile{Name: "mi32", DataWidth: 32, AddrWidth: addrWidth, AddrStep: 8}
}

// LocalBus returns a word-addressed profile: one address per data word.
func LocalBus(dataWidth, addrWidth int) Profile {
	return Profile{Name: "local", DataWidth: dataWidth, AddrWidth: addrWidth, AddrStep: uint64(dataWidth)}
}

// ProfileByName returns the preset called name.
func ProfileByName(name string, dataWidth, addrWidth int) (Profile, error) {
	switch strings.ToLower(name) {
	case "axi4lite", "axi-lite", "axilite":
		return AXI4Lite(dataWidth, addrWidth), nil
	case "avalonmm", "avalon-mm", "avalon":
		return AvalonMM(dataWidth, addrWidth), nil
	case "ipif":
		return IPIF(dataWidth, addrWidth), nil
	case "mi32":
		if dataWidth != 0 && dataWidth != 32 {
			return Profile{}, elab.Configf("bus profile", "mi32 is 32 bits wide, not %d", dataWidth)
		}
		return MI32(addrWidth), nil
	case "local", "word":
		return LocalBus(dataWidth, addrWidth), nil
	default:
		return Profile{}, elab.Configf("bus profile", "unknown profile %q", name)
	}
}

// WordAddrStep returns the number of bits one data word spans.
func (p Profile) WordAddrStep() uint64 { return uint64(p.DataWidth) }

// Validate checks the profile widths and step.
func (p Profile) Validate() error {
	switch {
	case p.DataWidth <= 0 || p.DataWidth > hdl.MaxWidth:
		return elab.Configf("bus profile", "%s: data width %d out of range", p.Name, p.DataWidth)
	case p.AddrWidth <= 0 || p.AddrWidth > hdl.MaxWidth:
		return elab.Configf("bus profile", "%s: address width %d out of range", p.Name, p.AddrWidth)
	case !hdl.IsPow2(p.AddrStep):
		return elab.Configf("bus profile", "%s: address step %d is not a power of two", p.Name, p.AddrStep)
	case !hdl.IsPow2(uint64(p.DataWidth)):
		return elab.Configf("bus profile", "%s: data width %d is not a power of two", p.Name, p.DataWidth)
	case p.AddrStep > uint64(p.DataWidth):
		return elab.Configf("bus profile", "%s: address step %d exceeds data width %d", p.Name, p.AddrStep, p.DataWidth)
	}
	return nil
}
