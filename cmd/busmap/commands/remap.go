package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/hdl"
	"github.com/busmap/busmap-go/pkg/remap"
)

// RemapOptions controls the remap command.
type RemapOptions struct {
	// Addrs are addresses to translate, in any base strconv accepts.
	Addrs []string

	// HDL prints the generated dispatch for the bus address signal.
	HDL bool
}

// RunRemap lists the regions of ep and translates the given addresses.
func RunRemap(ep *endpoint.Endpoint, opts RemapOptions, w io.Writer) error {
	regions := ep.Regions()
	if len(regions) == 0 {
		fmt.Fprintln(w, "No regions configured; addresses pass through unchanged.")
	} else {
		fmt.Fprintf(w, "Regions (%d):\n", len(regions))
		for _, r := range regions {
			shape := "range compare"
			if r.Aligned() {
				shape = "bit slice"
			}
			fmt.Fprintf(w, "  %-32s %s\n", r.String(), shape)
		}
	}

	if opts.HDL && len(regions) > 0 {
		addr := hdl.NewSignal("addr", ep.Config().Bus.AddrWidth)
		tr, err := remap.TranslateAddressSignal(regions, addr)
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		for _, c := range tr.Cases {
			fmt.Fprintf(w, "  when %s\n    addr_out = %s\n", c.Enable, c.Out)
		}
		fmt.Fprintf(w, "  else\n    addr_out = %s\n", tr.Default)
	}

	if len(opts.Addrs) == 0 {
		return nil
	}

	m, err := newRemapper(regions)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	for _, s := range opts.Addrs {
		a, err := ParseAddr(s)
		if err != nil {
			return err
		}
		out, mapped := a, false
		if m != nil {
			out, mapped = m.Map(a)
		}
		if mapped {
			fmt.Fprintf(w, "  %#x -> %#x\n", a, out)
		} else {
			fmt.Fprintf(w, "  %#x -> %#x (pass through)\n", a, out)
		}
	}
	return nil
}

func newRemapper(regions []remap.Region) (*remap.Remapper, error) {
	if len(regions) == 0 {
		return nil, nil
	}
	return remap.New(regions)
}

// ParseAddr parses an address given as decimal, 0x hex, 0o octal or 0b
// binary. Underscores are allowed between digits.
func ParseAddr(s string) (uint64, error) {
	a, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return a, nil
}
