package commands

import (
	"fmt"
	"io"

	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/hdl"
)

// RunDecode prints the decode expressions of every entry of ep, driven by
// the remapped bus address.
func RunDecode(ep *endpoint.Endpoint, w io.Writer) error {
	addr := hdl.NewSignal("addr", ep.Config().Bus.AddrWidth)
	src, err := ep.RemapAddress(addr)
	if err != nil {
		return err
	}
	decodes, err := ep.Decoders(src)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "in_range = %s\n", ep.IsInRange(src))
	for _, d := range decodes {
		fmt.Fprintf(w, "\n%s (%s)\n", d.Entry.Field.Path, d.Entry.Intf.Kind())
		fmt.Fprintf(w, "  hit   = %s\n", d.Hit)
		fmt.Fprintf(w, "  local = %s\n", d.Local)
		if d.Addr != nil {
			fmt.Fprintf(w, "  addr  = %s\n", d.Addr)
		}
	}
	return nil
}
