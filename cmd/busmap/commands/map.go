package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/remap"
)

// MapReport is the printable form of an address map.
type MapReport struct {
	Name      string         `json:"name" yaml:"name"`
	Bus       string         `json:"bus" yaml:"bus"`
	DataWidth int            `json:"dataWidth" yaml:"dataWidth"`
	AddrStep  uint64         `json:"addrStep" yaml:"addrStep"`
	AddrWidth int            `json:"addrWidth" yaml:"addrWidth"`
	MinAddr   uint64         `json:"minAddr" yaml:"minAddr"`
	MaxAddr   uint64         `json:"maxAddr" yaml:"maxAddr"`
	Entries   []MapEntry     `json:"entries" yaml:"entries"`
	Regions   []remap.Region `json:"regions,omitempty" yaml:"regions,omitempty"`
}

// MapEntry is one bound field of a MapReport.
type MapEntry struct {
	Path      string `json:"path" yaml:"path"`
	Interface string `json:"interface" yaml:"interface"`
	Access    string `json:"access" yaml:"access"`
	Start     uint64 `json:"start" yaml:"start"`
	End       uint64 `json:"end" yaml:"end"`
	DataWidth int    `json:"dataWidth" yaml:"dataWidth"`
	Words     uint64 `json:"words" yaml:"words"`
}

// NewMapReport builds the report for an elaborated endpoint.
func NewMapReport(ep *endpoint.Endpoint) MapReport {
	amap := ep.AddressMap()
	bus := ep.Config().Bus
	r := MapReport{
		Name:      ep.Type().Name,
		Bus:       bus.Name,
		DataWidth: bus.DataWidth,
		AddrStep:  amap.AddrStep,
		AddrWidth: amap.AddrWidth,
		MinAddr:   amap.MinAddr,
		MaxAddr:   amap.MaxAddr,
		Regions:   ep.Regions(),
	}
	for _, e := range amap.Entries {
		r.Entries = append(r.Entries, MapEntry{
			Path:      e.Field.Path.String(),
			Interface: e.Intf.Kind().String(),
			Access:    e.Access.String(),
			Start:     e.StartAddr(amap.AddrStep),
			End:       e.EndAddr(amap.AddrStep),
			DataWidth: e.DataWidth,
			Words:     e.Field.Width() / uint64(e.DataWidth),
		})
	}
	return r
}

// RunMap prints the address map of ep in the given format.
func RunMap(ep *endpoint.Endpoint, format string, w io.Writer) error {
	report := NewMapReport(ep)
	switch format {
	case "", "text":
		formatMapText(w, report)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode map: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format: %s (supported: text, json, yaml)", format)
	}
}

func formatMapText(w io.Writer, r MapReport) {
	fmt.Fprintf(w, "%s on %s (data %d, step %d)\n", r.Name, r.Bus, r.DataWidth, r.AddrStep)
	fmt.Fprintf(w, "Range: [%#x, %#x)  Address width: %d\n\n", r.MinAddr, r.MaxAddr, r.AddrWidth)

	fmt.Fprintf(w, "%-10s %-10s %-24s %-16s %-10s %s\n", "START", "END", "PATH", "INTERFACE", "ACCESS", "WORDS")
	for _, e := range r.Entries {
		fmt.Fprintf(w, "%-10s %-10s %-24s %-16s %-10s %d x %d\n",
			fmt.Sprintf("%#x", e.Start), fmt.Sprintf("%#x", e.End), e.Path, e.Interface, e.Access, e.Words, e.DataWidth)
	}

	if len(r.Regions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Regions:")
		for _, reg := range r.Regions {
			fmt.Fprintf(w, "  %s\n", reg)
		}
	}
}
