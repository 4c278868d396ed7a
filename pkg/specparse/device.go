// Package specparse provides the YAML parsing types and functions for
// device definition files. Both busmap and busmap-gen import this package.
//
// A device definition names a register layout, the bus it sits on and an
// optional remap table:
//
//	name: Regs
//	bus: {profile: axi4lite, dataWidth: 32, addrWidth: 8}
//	fields:
//	  - {name: ctrl, type: bits, width: 32}
//	  - {name: status, type: bits, width: 32, access: readOnly}
//	  - {type: padding, width: 64}
//	  - {name: fifo, type: array, count: 16, elem: {type: bits, width: 32}}
//	regions:
//	  - {offsetIn: 0x0, size: 0x10, offsetOut: 0x10}
//
// Parsing is done in two steps: the Raw* types mirror the file, and the
// conversion methods (Layout, Profile, Regions) check it and build the
// library types.
package specparse

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/busmap/busmap-go/pkg/busif"
	"github.com/busmap/busmap-go/pkg/elab"
	"github.com/busmap/busmap-go/pkg/endpoint"
	"github.com/busmap/busmap-go/pkg/layout"
	"github.com/busmap/busmap-go/pkg/remap"
)

// Defaults for bus settings a definition leaves out.
const (
	DefaultProfile   = "axi4lite"
	DefaultDataWidth = 32
	DefaultAddrWidth = 32
)

// RawDeviceDef represents a device definition loaded from YAML.
type RawDeviceDef struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Bus         RawBusDef      `yaml:"bus"`
	Types       []RawTypeDef   `yaml:"types"`
	Fields      []RawFieldDef  `yaml:"fields"`
	RegionDefs  []RawRegionDef `yaml:"regions"`
}

// RawBusDef represents the bus a device is decoded from.
type RawBusDef struct {
	Profile   string `yaml:"profile"` // "axi4lite", "avalonmm", "ipif", "mi32", "local"
	DataWidth int    `yaml:"dataWidth"`
	AddrWidth int    `yaml:"addrWidth"`
	AddrStep  uint64 `yaml:"addrStep"` // Optional: overrides the profile's step
}

// RawTypeDef represents a named struct that fields can refer to by name.
type RawTypeDef struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Fields      []RawFieldDef `yaml:"fields"`
}

// RawFieldDef represents one member of a layout.
type RawFieldDef struct {
	Name        string        `yaml:"name"`
	Type        string        `yaml:"type"`   // "bits", "array", "struct", "padding" or a type name
	Width       uint64        `yaml:"width"`  // For bits and padding
	Count       uint64        `yaml:"count"`  // For arrays
	Elem        *RawFieldDef  `yaml:"elem"`   // For arrays
	Fields      []RawFieldDef `yaml:"fields"` // For structs
	Access      string        `yaml:"access"` // "readWrite" (default), "readOnly", "writeOnly"
	Description string        `yaml:"description"`
}

// RawRegionDef represents one remap region.
type RawRegionDef struct {
	OffsetIn  uint64 `yaml:"offsetIn"`
	Size      uint64 `yaml:"size"`
	OffsetOut uint64 `yaml:"offsetOut"`
}

// ParseDeviceDef parses a device definition from YAML bytes.
func ParseDeviceDef(data []byte) (*RawDeviceDef, error) {
	var def RawDeviceDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing device def: %w", err)
	}
	if def.Name == "" {
		return nil, fmt.Errorf("device definition missing name")
	}
	return &def, nil
}

// LoadDeviceDef loads and parses a device definition from a file.
func LoadDeviceDef(path string) (*RawDeviceDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseDeviceDef(data)
}

// Layout converts the field list into a struct named after the device.
func (d *RawDeviceDef) Layout() (layout.Struct, error) {
	c := &converter{types: make(map[string]RawTypeDef), active: make(map[string]bool)}
	for _, td := range d.Types {
		if td.Name == "" {
			return layout.Struct{}, elab.Configf("device definition", "%s: type without name", d.Name)
		}
		if _, dup := c.types[td.Name]; dup {
			return layout.Struct{}, elab.Configf("device definition", "%s: type %q defined twice", d.Name, td.Name)
		}
		c.types[td.Name] = td
	}
	s, err := c.structOf(d.Name, d.Fields, nil)
	if err != nil {
		return layout.Struct{}, err
	}
	if err := layout.Validate(s); err != nil {
		return layout.Struct{}, err
	}
	return s, nil
}

// Profile returns the bus profile, with defaults applied.
func (d *RawDeviceDef) Profile() (busif.Profile, error) {
	name := d.Bus.Profile
	if name == "" {
		name = DefaultProfile
	}
	dw := d.Bus.DataWidth
	if dw == 0 {
		dw = DefaultDataWidth
	}
	aw := d.Bus.AddrWidth
	if aw == 0 {
		aw = DefaultAddrWidth
	}

	p, err := busif.ProfileByName(name, dw, aw)
	if err != nil {
		return busif.Profile{}, err
	}
	if d.Bus.AddrStep != 0 {
		p.AddrStep = d.Bus.AddrStep
	}
	if err := p.Validate(); err != nil {
		return busif.Profile{}, err
	}
	return p, nil
}

// Regions returns the remap table, nil when the definition has none.
func (d *RawDeviceDef) Regions() []remap.Region {
	if len(d.RegionDefs) == 0 {
		return nil
	}
	out := make([]remap.Region, len(d.RegionDefs))
	for i, r := range d.RegionDefs {
		out[i] = remap.Region{OffsetIn: r.OffsetIn, Size: r.Size, OffsetOut: r.OffsetOut}
	}
	return out
}

// EndpointConfig returns an endpoint configuration for the device: its bus
// profile and regions, defaults for the rest.
func (d *RawDeviceDef) EndpointConfig() (endpoint.Config, error) {
	p, err := d.Profile()
	if err != nil {
		return endpoint.Config{}, err
	}
	cfg := endpoint.DefaultConfig()
	cfg.Bus = p
	cfg.Regions = d.Regions()
	cfg.Subject = d.Name
	return cfg, nil
}

// WithShared returns a copy of d that also knows the shared types not
// defined by d itself.
func (d *RawDeviceDef) WithShared(shared *RawSharedTypes) *RawDeviceDef {
	out := *d
	if shared == nil {
		return &out
	}
	own := make(map[string]bool, len(d.Types))
	for _, td := range d.Types {
		own[td.Name] = true
	}
	out.Types = append([]RawTypeDef(nil), d.Types...)
	for _, td := range shared.Types {
		if !own[td.Name] {
			out.Types = append(out.Types, td)
		}
	}
	return &out
}

type converter struct {
	types  map[string]RawTypeDef
	active map[string]bool // type names being converted, for cycles
}

func (c *converter) structOf(name string, fields []RawFieldDef, p layout.Path) (layout.Struct, error) {
	members := make([]layout.Member, 0, len(fields))
	for _, f := range fields {
		m, err := c.member(f, p)
		if err != nil {
			return layout.Struct{}, err
		}
		members = append(members, m)
	}
	return layout.NewStruct(name, members...), nil
}

func (c *converter) member(f RawFieldDef, p layout.Path) (layout.Member, error) {
	if strings.EqualFold(f.Type, "padding") {
		if f.Name != "" {
			return layout.Member{}, elab.Configf("device definition", "%s: padding must not be named", p.Child(f.Name))
		}
		if f.Width == 0 {
			return layout.Member{}, elab.Configf("device definition", "%s: padding without width", where(p))
		}
		return layout.Pad(f.Width), nil
	}

	if f.Name == "" {
		return layout.Member{}, elab.Configf("device definition", "%s: field without name", where(p))
	}
	fp := p.Child(f.Name)
	access, err := layout.ParseAccess(f.Access)
	if err != nil {
		return layout.Member{}, elab.Configf("device definition", "%s: %v", fp, err)
	}
	t, err := c.typeOf(f, fp)
	if err != nil {
		return layout.Member{}, err
	}
	return layout.Member{Name: f.Name, Type: t, Access: access}, nil
}

func (c *converter) typeOf(f RawFieldDef, p layout.Path) (layout.Type, error) {
	switch strings.ToLower(f.Type) {
	case "bits":
		if f.Width == 0 {
			return nil, elab.Configf("device definition", "%s: bits without width", p)
		}
		return layout.NewBits(f.Width), nil

	case "array":
		if f.Count == 0 {
			return nil, elab.Configf("device definition", "%s: array without count", p)
		}
		if f.Elem == nil {
			return nil, elab.Configf("device definition", "%s: array without elem", p)
		}
		elem, err := c.typeOf(*f.Elem, p.Index(0))
		if err != nil {
			return nil, err
		}
		return layout.NewArray(elem, f.Count), nil

	case "struct":
		if len(f.Fields) == 0 {
			return nil, elab.Configf("device definition", "%s: struct without fields", p)
		}
		return c.structOf(structName(p), f.Fields, p)

	case "", "padding":
		return nil, elab.Configf("device definition", "%s: missing type", p)
	}

	td, ok := c.types[f.Type]
	if !ok {
		return nil, elab.Configf("device definition", "%s: unknown type %q", p, f.Type)
	}
	if c.active[td.Name] {
		return nil, elab.Configf("device definition", "%s: type %q contains itself", p, td.Name)
	}
	c.active[td.Name] = true
	defer delete(c.active, td.Name)
	return c.structOf(td.Name, td.Fields, p)
}

// structName names an inline struct after the innermost named path element.
func structName(p layout.Path) string {
	for i := len(p) - 1; i >= 0; i-- {
		if _, isIndex := layout.ParseIndexElem(p[i]); !isIndex {
			return GoName(p[i])
		}
	}
	return ""
}

func where(p layout.Path) string {
	if len(p) == 0 {
		return "<root>"
	}
	return p.String()
}
